package linkedin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/deepsolv/linkedin-insights/cache"
	"github.com/deepsolv/linkedin-insights/store"
)

// Fetch limits imposed by the provider.
const (
	MaxPostFetch     = 25
	MaxEmployeeFetch = 50
	MaxCommentFetch  = 50
)

const orgProjection = "(id,name,vanityName,localizedName,description,localizedDescription," +
	"website,industries,staffCountRange,locations,logoV2,coverPhotoV2," +
	"foundedOn,specialties,organizationType)"

// Config carries the provider connection settings.
type Config struct {
	BaseURL     string
	AccessToken string
	APIVersion  string
	Timeout     time.Duration
}

// DefaultConfig returns the provider settings used when nothing overrides
// them. The access token always comes from configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "https://api.linkedin.com/v2",
		APIVersion: "202401",
		Timeout:    15 * time.Second,
	}
}

// Client talks to the upstream provider. It never returns errors: any
// network, HTTP or decode failure is logged and reported as an absent
// result, per the fetch-on-miss contract. Normalized responses are kept on
// the raw cache instance under their own namespaces so repeated syncs
// within the raw TTL skip the provider entirely.
type Client struct {
	cfg     Config
	http    *http.Client
	raw     cache.CacheService
	breaker *gobreaker.CircuitBreaker[[]byte]
	log     *zap.Logger
}

// New builds a provider client. raw may be nil when response caching is not
// wanted; log may be nil.
func New(cfg Config, raw cache.CacheService, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultConfig().APIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "linkedin",
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("provider breaker state change",
				zap.String("component", "linkedin"),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		raw:     raw,
		breaker: breaker,
		log:     log,
	}
}

// FetchPage resolves a vanity name to a fully-projected organization record
// with its follower count. Returns nil when the provider does not know the
// page or is unreachable.
func (c *Client) FetchPage(ctx context.Context, vanityName string) *store.Page {
	key := cache.Key("org", vanityName)
	if c.raw != nil {
		var cached store.Page
		if c.raw.Get(ctx, key, &cached) {
			return &cached
		}
	}

	var lookup elementsEnvelope[orgRef]
	lookupURL := fmt.Sprintf("%s/organizations?q=vanityName&vanityName=%s",
		c.cfg.BaseURL, url.QueryEscape(vanityName))
	if !c.getJSON(ctx, lookupURL, &lookup) || len(lookup.Elements) == 0 {
		return nil
	}
	orgID := lookup.Elements[0].ID

	var org organization
	detailURL := fmt.Sprintf("%s/organizations/%d?projection=%s",
		c.cfg.BaseURL, orgID, url.QueryEscape(orgProjection))
	if !c.getJSON(ctx, detailURL, &org) {
		return nil
	}

	page := normalizeOrganization(org, c.followerCount(ctx, orgID))
	if c.raw != nil {
		c.raw.Set(ctx, key, page)
	}
	return page
}

// followerCount is best-effort; a failed statistics call degrades to zero.
func (c *Client) followerCount(ctx context.Context, orgID int64) int {
	statsURL := fmt.Sprintf(
		"%s/organizationalEntityFollowerStatistics?q=organizationalEntity&organizationalEntity=urn:li:organization:%d",
		c.cfg.BaseURL, orgID)

	var stats elementsEnvelope[followerStats]
	if !c.getJSON(ctx, statsURL, &stats) || len(stats.Elements) == 0 {
		return 0
	}
	return stats.Elements[0].FollowerCounts.OrganicFollowerCount
}

// FetchPosts returns up to count of the organization's recent posts,
// normalized. count is capped at the provider limit.
func (c *Client) FetchPosts(ctx context.Context, orgID string, count int) []*store.Post {
	if count < 1 || count > MaxPostFetch {
		count = MaxPostFetch
	}

	key := cache.Key("posts", orgID, 0, count)
	if c.raw != nil {
		var cached []*store.Post
		if c.raw.Get(ctx, key, &cached) {
			return cached
		}
	}

	var envelope elementsEnvelope[ugcPost]
	postsURL := fmt.Sprintf(
		"%s/ugcPosts?q=authors&authors=List(urn:li:organization:%s)&count=%d&start=0",
		c.cfg.BaseURL, url.QueryEscape(orgID), count)
	if !c.getJSON(ctx, postsURL, &envelope) {
		return nil
	}

	posts := make([]*store.Post, 0, len(envelope.Elements))
	for _, el := range envelope.Elements {
		posts = append(posts, normalizePost(el))
	}
	if c.raw != nil {
		c.raw.Set(ctx, key, posts)
	}
	return posts
}

// FetchComments returns up to count comments on a post, normalized.
func (c *Client) FetchComments(ctx context.Context, postURN string, count int) []*store.Comment {
	if count < 1 || count > MaxCommentFetch {
		count = MaxCommentFetch
	}

	key := cache.Key("comments", postURN)
	if c.raw != nil {
		var cached []*store.Comment
		if c.raw.Get(ctx, key, &cached) {
			return cached
		}
	}

	var envelope elementsEnvelope[socialComment]
	commentsURL := fmt.Sprintf("%s/socialActions/%s/comments?count=%d",
		c.cfg.BaseURL, url.PathEscape(postURN), count)
	if !c.getJSON(ctx, commentsURL, &envelope) {
		return nil
	}

	comments := make([]*store.Comment, 0, len(envelope.Elements))
	for _, el := range envelope.Elements {
		comments = append(comments, normalizeComment(el))
	}
	if c.raw != nil {
		c.raw.Set(ctx, key, comments)
	}
	return comments
}

// FetchEmployees returns up to count people associated with the
// organization, normalized. count is capped at the provider limit.
func (c *Client) FetchEmployees(ctx context.Context, orgID string, count int) []*store.Employee {
	if count < 1 || count > MaxEmployeeFetch {
		count = MaxEmployeeFetch
	}

	key := cache.Key("employees", orgID, 0, count)
	if c.raw != nil {
		var cached []*store.Employee
		if c.raw.Get(ctx, key, &cached) {
			return cached
		}
	}

	var envelope elementsEnvelope[member]
	peopleURL := fmt.Sprintf(
		"%s/people?q=currentCompany&currentCompany=urn:li:organization:%s&count=%d&start=0",
		c.cfg.BaseURL, url.QueryEscape(orgID), count)
	if !c.getJSON(ctx, peopleURL, &envelope) {
		return nil
	}

	employees := make([]*store.Employee, 0, len(envelope.Elements))
	for _, el := range envelope.Elements {
		employees = append(employees, normalizeMember(el))
	}
	if c.raw != nil {
		c.raw.Set(ctx, key, employees)
	}
	return employees
}

// getJSON performs a provider GET through the circuit breaker and decodes
// the body into dest. Returns false on any failure.
func (c *Client) getJSON(ctx context.Context, rawURL string, dest any) bool {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
		req.Header.Set("LinkedIn-Version", c.cfg.APIVersion)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("provider status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		c.log.Warn("provider request failed",
			zap.String("component", "linkedin"),
			zap.String("url", rawURL),
			zap.Error(err))
		return false
	}

	if err := json.Unmarshal(body, dest); err != nil {
		c.log.Warn("provider payload undecodable",
			zap.String("component", "linkedin"),
			zap.String("url", rawURL),
			zap.Error(err))
		return false
	}
	return true
}
