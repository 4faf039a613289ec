// Package summary is the TTL-cached summary layer: AI narratives, cheap
// quick-stat digests and multi-page comparisons, each degrading to a
// deterministic local rendition when the generator is unavailable.
package summary

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/deepsolv/linkedin-insights/apperr"
	"github.com/deepsolv/linkedin-insights/cache"
	"github.com/deepsolv/linkedin-insights/store"
)

// Sample caps for summary inputs.
const (
	postSampleLimit     = 25
	employeeSampleLimit = 50
)

// Compare accepts between 2 and 5 identifiers inclusive.
const (
	compareMin = 2
	compareMax = 5
)

// Source values on generated summaries.
const (
	SourceGenerator = "generator"
	SourceFallback  = "fallback"
)

// Store is the slice of the entity store the summary layer reads from.
type Store interface {
	PageByID(ctx context.Context, pageID string) (*store.Page, error)
	RecentPosts(ctx context.Context, pageRef int64, n int) ([]*store.Post, error)
	Stats(ctx context.Context, pageRef int64) (store.PostStats, error)
	ListEmployees(ctx context.Context, pageRef int64, filter store.EmployeeFilter, page, size int) ([]*store.Employee, int, error)
	CountEmployees(ctx context.Context, pageRef int64, filter store.EmployeeFilter) (int, error)
}

// Service computes and caches summaries. aiCache runs on the long summary
// TTL, quickCache on the short default TTL.
type Service struct {
	entities   Store
	aiCache    cache.CacheService
	quickCache cache.CacheService
	generator  Generator
	log        *zap.Logger
}

// New wires the summary layer. generator may be nil, in which case every
// narrative comes from the deterministic fallback.
func New(entities Store, aiCache, quickCache cache.CacheService, generator Generator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		entities:   entities,
		aiCache:    aiCache,
		quickCache: quickCache,
		generator:  generator,
		log:        log,
	}
}

// Narrative is the AI-summary payload.
type Narrative struct {
	PageID      string    `json:"page_id"`
	PageName    string    `json:"page_name"`
	Summary     string    `json:"summary"`
	Facts       Facts     `json:"facts"`
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generated_at"`
}

// AISummary serves the narrative summary for a page. force skips the cache
// read but still repopulates it. A failing generator degrades to the local
// fallback narrative rather than failing the request.
func (s *Service) AISummary(ctx context.Context, pid string, includePosts, includeEmployees, force bool) (*Narrative, error) {
	key := cache.Key("ai_summary", pid)

	if !force {
		var cached Narrative
		if s.aiCache.Get(ctx, key, &cached) {
			return &cached, nil
		}
	}

	page, err := s.entities.PageByID(ctx, pid)
	if err != nil {
		return nil, err
	}

	var posts []*store.Post
	if includePosts {
		if posts, err = s.entities.RecentPosts(ctx, page.ID, postSampleLimit); err != nil {
			return nil, err
		}
	}
	var employees []*store.Employee
	if includeEmployees {
		if employees, _, err = s.entities.ListEmployees(ctx, page.ID, store.EmployeeFilter{}, 1, employeeSampleLimit); err != nil {
			return nil, err
		}
	}

	facts := BuildFacts(page, posts, employees)

	narrative := &Narrative{
		PageID:      pid,
		PageName:    page.Name,
		Facts:       facts,
		GeneratedAt: time.Now().UTC(),
	}

	if s.generator != nil {
		if text, genErr := s.generator.Narrative(ctx, facts); genErr == nil {
			narrative.Summary = text
			narrative.Source = SourceGenerator
		} else {
			s.log.Warn("narrative generation failed, using fallback",
				zap.String("component", "summary"),
				zap.String("page_id", pid),
				zap.Error(genErr))
		}
	}
	if narrative.Summary == "" {
		narrative.Summary = fallbackNarrative(facts)
		narrative.Source = SourceFallback
	}

	s.aiCache.Set(ctx, key, narrative)
	return narrative, nil
}

// QuickStats is the cheap aggregate digest.
type QuickStats struct {
	PageID      string    `json:"page_id"`
	Summary     string    `json:"summary"`
	KeyStats    KeyStats  `json:"key_stats"`
	GeneratedAt time.Time `json:"generated_at"`
}

// KeyStats are the headline numbers of a quick summary.
type KeyStats struct {
	FollowerCount      int     `json:"follower_count"`
	EmployeeCount      int     `json:"employee_count"`
	TotalPosts         int     `json:"total_posts"`
	TotalEngagement    int     `json:"total_engagement"`
	AvgLikesPerPost    float64 `json:"avg_likes_per_post"`
	AvgCommentsPerPost float64 `json:"avg_comments_per_post"`
	Industry           string  `json:"industry"`
	CompanySize        string  `json:"company_size"`
	Headquarters       string  `json:"headquarters"`
}

// QuickSummary serves the aggregate digest for a page. A page with no posts
// yields zero averages, not an error.
func (s *Service) QuickSummary(ctx context.Context, pid string) (*QuickStats, error) {
	key := cache.Key("quick_summary", pid)

	var cached QuickStats
	if s.quickCache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	page, err := s.entities.PageByID(ctx, pid)
	if err != nil {
		return nil, err
	}

	stats, err := s.entities.Stats(ctx, page.ID)
	if err != nil {
		return nil, err
	}

	employeeCount := page.EmployeeCount
	if employeeCount == 0 {
		if employeeCount, err = s.entities.CountEmployees(ctx, page.ID, store.EmployeeFilter{}); err != nil {
			return nil, err
		}
	}

	industry := page.Industry
	if industry == "" {
		industry = "company"
	}

	quick := &QuickStats{
		PageID: pid,
		Summary: fmt.Sprintf(
			"%s is a %s with %d followers. They have published %d posts with an average of %d likes per post.",
			page.Name, industry, page.FollowerCount, stats.PostCount, int(stats.AvgLikes)),
		KeyStats: KeyStats{
			FollowerCount:      page.FollowerCount,
			EmployeeCount:      employeeCount,
			TotalPosts:         stats.PostCount,
			TotalEngagement:    stats.TotalLikes + stats.TotalComments + stats.TotalShares,
			AvgLikesPerPost:    stats.AvgLikes,
			AvgCommentsPerPost: stats.AvgComments,
			Industry:           page.Industry,
			CompanySize:        page.CompanySize,
			Headquarters:       page.Headquarters,
		},
		GeneratedAt: time.Now().UTC(),
	}

	s.quickCache.Set(ctx, key, quick)
	return quick, nil
}

// Comparison is the multi-page comparison payload.
type Comparison struct {
	PageIDs           []string    `json:"page_ids"`
	Pages             []PageFacts `json:"pages"`
	WinnerByFollowers string      `json:"winner_by_followers"`
	Summary           string      `json:"summary"`
	Source            string      `json:"source"`
	GeneratedAt       time.Time   `json:"generated_at"`
}

// Compare contrasts 2 to 5 pages. Out-of-bound identifier counts are a
// validation failure; fewer than two resolvable pages is not-found.
func (s *Service) Compare(ctx context.Context, pids []string) (*Comparison, error) {
	if err := validation.Validate(pids,
		validation.Required,
		validation.Length(compareMin, compareMax),
	); err != nil {
		return nil, apperr.Validation(fmt.Sprintf("page_ids must contain %d to %d entries", compareMin, compareMax))
	}

	var (
		resolved []string
		pages    []*store.Page
		facts    []Facts
	)
	for _, pid := range pids {
		page, err := s.entities.PageByID(ctx, pid)
		if apperr.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, pid)
		pages = append(pages, page)
		facts = append(facts, BuildFacts(page, nil, nil))
	}

	if len(pages) < compareMin {
		return nil, apperr.NotFound("fewer than two of the requested pages are known")
	}

	comparison := &Comparison{
		PageIDs:           resolved,
		WinnerByFollowers: winnerByFollowers(pages),
		GeneratedAt:       time.Now().UTC(),
	}
	for _, f := range facts {
		comparison.Pages = append(comparison.Pages, f.Page)
	}

	if s.generator != nil {
		if text, genErr := s.generator.Comparison(ctx, facts); genErr == nil {
			comparison.Summary = text
			comparison.Source = SourceGenerator
		} else {
			s.log.Warn("comparison generation failed, using fallback",
				zap.String("component", "summary"),
				zap.Error(genErr))
		}
	}
	if comparison.Summary == "" {
		comparison.Summary = fallbackComparison(pages)
		comparison.Source = SourceFallback
	}

	return comparison, nil
}

// fallbackNarrative renders a summary purely from local aggregates.
func fallbackNarrative(facts Facts) string {
	industry := facts.Page.Industry
	if industry == "" {
		industry = "company"
	}

	text := fmt.Sprintf("%s is a %s with %d followers on LinkedIn.",
		facts.Page.Name, industry, facts.Page.FollowerCount)
	if facts.Content != nil {
		text += fmt.Sprintf(" Across the last %d posts they averaged %.1f likes per post.",
			facts.Content.SampleSize, facts.Content.AvgLikes)
	}
	if facts.People != nil && len(facts.People.TopLocations) > 0 {
		text += fmt.Sprintf(" Their people are concentrated in %s.", facts.People.TopLocations[0])
	}
	return text
}

func fallbackComparison(pages []*store.Page) string {
	winner := winnerByFollowers(pages)
	return fmt.Sprintf("Compared %d pages; %s has the largest following.", len(pages), winner)
}

// winnerByFollowers is deterministic: the highest follower count wins, ties
// go to whichever page was requested first.
func winnerByFollowers(pages []*store.Page) string {
	best := pages[0]
	for _, page := range pages[1:] {
		if page.FollowerCount > best.FollowerCount {
			best = page
		}
	}
	return best.PageID
}
