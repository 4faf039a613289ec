// Package insights is the sync orchestrator: it decides when cached data is
// trusted, when to go out to the provider, and how fetched records merge
// into the store.
package insights

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/deepsolv/linkedin-insights/apperr"
	"github.com/deepsolv/linkedin-insights/cache"
	"github.com/deepsolv/linkedin-insights/media"
	"github.com/deepsolv/linkedin-insights/store"
)

// Child collections are synced in single provider-sized batches.
const (
	postSyncBatch     = 25
	employeeSyncBatch = 50
	commentSyncBatch  = 50

	detailRecentPosts = 10
)

// Store is the slice of the entity store the orchestrator uses.
type Store interface {
	PageByID(ctx context.Context, pageID string) (*store.Page, error)
	ListPages(ctx context.Context, filter store.PageFilter, page, size int) ([]*store.Page, int, error)
	UpsertPage(ctx context.Context, in *store.Page) (*store.Page, bool, error)

	PostByID(ctx context.Context, postID string) (*store.Post, error)
	ListPosts(ctx context.Context, filter store.PostFilter, page, size int) ([]*store.Post, int, error)
	RecentPosts(ctx context.Context, pageRef int64, n int) ([]*store.Post, error)
	CountPosts(ctx context.Context, pageRef int64) (int, error)
	UpsertPost(ctx context.Context, in *store.Post) (*store.Post, bool, error)

	CommentByID(ctx context.Context, commentID string) (*store.Comment, error)
	ListComments(ctx context.Context, postRef int64, page, size int) ([]*store.Comment, int, error)
	RepliesTo(ctx context.Context, parentID int64, page, size int) ([]*store.Comment, int, error)
	UpsertComment(ctx context.Context, in *store.Comment) (*store.Comment, bool, error)

	ListEmployees(ctx context.Context, pageRef int64, filter store.EmployeeFilter, page, size int) ([]*store.Employee, int, error)
	CountEmployees(ctx context.Context, pageRef int64, filter store.EmployeeFilter) (int, error)
	UpsertEmployee(ctx context.Context, in *store.Employee) (*store.Employee, bool, error)
}

// Fetcher is the upstream provider boundary. Absent data comes back as
// nil/empty, never as an error.
type Fetcher interface {
	FetchPage(ctx context.Context, vanityName string) *store.Page
	FetchPosts(ctx context.Context, orgID string, count int) []*store.Post
	FetchEmployees(ctx context.Context, orgID string, count int) []*store.Employee
	FetchComments(ctx context.Context, postURN string, count int) []*store.Comment
}

// Service orchestrates cache, store, provider and media cloning.
type Service struct {
	entities   Store
	cache      cache.CacheService
	invalidate cache.Invalidator
	fetcher    Fetcher
	cloner     media.Cloner
	log        *zap.Logger
}

// New wires the orchestrator. cacheSvc holds composed responses; inval spans
// every cache instance whose keys can mention a page identifier.
func New(entities Store, cacheSvc cache.CacheService, inval cache.Invalidator, fetcher Fetcher, cloner media.Cloner, log *zap.Logger) *Service {
	if cloner == nil {
		cloner = media.NopCloner{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		entities:   entities,
		cache:      cacheSvc,
		invalidate: inval,
		fetcher:    fetcher,
		cloner:     cloner,
		log:        log,
	}
}

// PageDetailResponse is the composed page-detail payload.
type PageDetailResponse struct {
	Page        store.PageView   `json:"page"`
	PostsCount  int              `json:"posts_count"`
	RecentPosts []store.PostView `json:"recent_posts"`
}

// PageDetail serves the composed detail for a page. The composed response is
// cached verbatim; on a miss the store is consulted, and only when the page
// is unknown and fetchIfMissing allows it does the provider get involved.
func (s *Service) PageDetail(ctx context.Context, pid string, fetchIfMissing bool) (*PageDetailResponse, error) {
	key := cache.Key("page_detail", pid)

	var cached PageDetailResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	page, err := s.entities.PageByID(ctx, pid)
	switch {
	case apperr.IsNotFound(err):
		if !fetchIfMissing {
			return nil, err
		}
		page, err = s.fetchAndStore(ctx, pid)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	detail, err := s.composeDetail(ctx, page)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, detail)
	return detail, nil
}

// RefreshPage forces a provider round-trip for a page. Every cache key
// mentioning the identifier is cleared before the refetch, so a provider
// failure leaves no half-updated entry behind. A provider that no longer
// knows the page fails the request outright.
func (s *Service) RefreshPage(ctx context.Context, pid string) (*PageDetailResponse, error) {
	cleared := s.invalidate.ClearMatching(ctx, pid)
	s.log.Info("page refresh",
		zap.String("component", "insights"),
		zap.String("page_id", pid),
		zap.Int("cleared_keys", cleared))

	page, err := s.fetchAndStore(ctx, pid)
	if err != nil {
		return nil, err
	}

	detail, err := s.composeDetail(ctx, page)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cache.Key("page_detail", pid), detail)
	return detail, nil
}

// fetchAndStore runs the fetch-and-store pipeline: provider fetch, avatar
// clone, upsert with a fresh last_scraped_at, and — only when this call
// created the page — a cascade into the first batch of posts and employees.
func (s *Service) fetchAndStore(ctx context.Context, pid string) (*store.Page, error) {
	fetched := s.fetcher.FetchPage(ctx, pid)
	if fetched == nil {
		return nil, apperr.NotFound("page " + pid + " not found upstream")
	}

	if fetched.ProfilePictureURL != "" {
		fetched.ProfilePictureS3URL = s.cloner.Clone(ctx, fetched.ProfilePictureURL, media.PageFolder(pid))
	}

	now := time.Now().UTC()
	fetched.LastScrapedAt = &now

	page, created, err := s.entities.UpsertPage(ctx, fetched)
	if err != nil {
		return nil, err
	}

	if created {
		s.cascadeChildren(ctx, page)
	}
	return page, nil
}

// cascadeChildren pulls the first batch of posts and employees for a newly
// created page. Failures inside the cascade never fail the page sync;
// a partial cascade self-heals on the next explicit child sync.
func (s *Service) cascadeChildren(ctx context.Context, page *store.Page) {
	posts := s.syncPostBatch(ctx, page)
	employees := s.syncEmployeeBatch(ctx, page)
	s.log.Info("page cascade",
		zap.String("component", "insights"),
		zap.String("page_id", page.PageID),
		zap.Int("posts", posts),
		zap.Int("employees", employees))
}

// orgIdentifier is what the provider wants for child lookups: the issued id
// once known, otherwise the vanity slug.
func orgIdentifier(page *store.Page) string {
	if page.LinkedInID != nil && *page.LinkedInID != "" {
		return *page.LinkedInID
	}
	return page.PageID
}

func (s *Service) syncPostBatch(ctx context.Context, page *store.Page) int {
	var stored int
	for _, post := range s.fetcher.FetchPosts(ctx, orgIdentifier(page), postSyncBatch) {
		post.PageRef = page.ID
		if post.MediaURL != "" {
			post.MediaS3URL = s.cloner.Clone(ctx, post.MediaURL, media.PostFolder(page.PageID, post.PostID))
		}
		if _, _, err := s.entities.UpsertPost(ctx, post); err != nil {
			s.log.Warn("post upsert failed",
				zap.String("component", "insights"),
				zap.String("page_id", page.PageID),
				zap.String("post_id", post.PostID),
				zap.Error(err))
			continue
		}
		stored++
	}
	return stored
}

func (s *Service) syncEmployeeBatch(ctx context.Context, page *store.Page) int {
	var stored int
	for _, emp := range s.fetcher.FetchEmployees(ctx, orgIdentifier(page), employeeSyncBatch) {
		emp.PageRef = page.ID
		if _, _, err := s.entities.UpsertEmployee(ctx, emp); err != nil {
			s.log.Warn("employee upsert failed",
				zap.String("component", "insights"),
				zap.String("page_id", page.PageID),
				zap.String("employee_id", emp.LinkedInID),
				zap.Error(err))
			continue
		}
		stored++
	}
	return stored
}

// SyncPosts refetches and upserts a page's post batch. The page must already
// exist; listings are never allowed to create pages. Returns how many posts
// were stored.
func (s *Service) SyncPosts(ctx context.Context, pid string) (int, error) {
	page, err := s.entities.PageByID(ctx, pid)
	if err != nil {
		return 0, err
	}

	stored := s.syncPostBatch(ctx, page)
	s.invalidate.ClearMatching(ctx, pid)
	return stored, nil
}

// SyncEmployees refetches and upserts a page's employee batch.
func (s *Service) SyncEmployees(ctx context.Context, pid string) (int, error) {
	page, err := s.entities.PageByID(ctx, pid)
	if err != nil {
		return 0, err
	}

	stored := s.syncEmployeeBatch(ctx, page)
	s.invalidate.ClearMatching(ctx, pid)
	return stored, nil
}

// SyncComments refetches and upserts the comment batch for a post.
func (s *Service) SyncComments(ctx context.Context, postID string) (int, error) {
	post, err := s.entities.PostByID(ctx, postID)
	if err != nil {
		return 0, err
	}

	var stored int
	for _, comment := range s.fetcher.FetchComments(ctx, postID, commentSyncBatch) {
		comment.PostRef = post.ID
		if _, _, err := s.entities.UpsertComment(ctx, comment); err != nil {
			s.log.Warn("comment upsert failed",
				zap.String("component", "insights"),
				zap.String("post_id", postID),
				zap.String("comment_id", comment.CommentID),
				zap.Error(err))
			continue
		}
		stored++
	}

	s.invalidate.ClearMatching(ctx, postID)
	return stored, nil
}

func (s *Service) composeDetail(ctx context.Context, page *store.Page) (*PageDetailResponse, error) {
	count, err := s.entities.CountPosts(ctx, page.ID)
	if err != nil {
		return nil, err
	}
	recent, err := s.entities.RecentPosts(ctx, page.ID, detailRecentPosts)
	if err != nil {
		return nil, err
	}

	return &PageDetailResponse{
		Page:        page.View(),
		PostsCount:  count,
		RecentPosts: store.PostViews(recent),
	}, nil
}
