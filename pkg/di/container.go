// Package di wires the process components together. It manages singleton
// instances of the caches, store, provider client, and services, and exposes
// them through accessor methods.
package di

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/deepsolv/linkedin-insights/cache"
	"github.com/deepsolv/linkedin-insights/httpapi"
	"github.com/deepsolv/linkedin-insights/insights"
	"github.com/deepsolv/linkedin-insights/internal/config"
	"github.com/deepsolv/linkedin-insights/linkedin"
	"github.com/deepsolv/linkedin-insights/media"
	"github.com/deepsolv/linkedin-insights/store"
	"github.com/deepsolv/linkedin-insights/summary"
)

// Container holds the wired component graph for one process.
type Container struct {
	cfg *config.Config
	log *zap.Logger

	defaultCache cache.CacheService
	rawCache     cache.CacheService
	summaryCache cache.CacheService

	entities *store.Store
	client   *linkedin.Client
	cloner   media.Cloner

	insights  *insights.Service
	summaries *summary.Service
	router    chi.Router
}

// NewContainer builds every component from the configuration. The context
// governs startup work: schema migration and AWS credential resolution.
func NewContainer(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}

	c := &Container{cfg: cfg, log: log}

	var err error
	if c.defaultCache, err = newCache(cfg, cfg.Cache.DefaultTTL, log); err != nil {
		return nil, fmt.Errorf("default cache: %w", err)
	}
	if c.rawCache, err = newCache(cfg, cfg.Cache.RawTTL, log); err != nil {
		return nil, fmt.Errorf("raw cache: %w", err)
	}
	if c.summaryCache, err = newCache(cfg, cfg.Cache.SummaryTTL, log); err != nil {
		return nil, fmt.Errorf("summary cache: %w", err)
	}

	if c.entities, err = store.Open(cfg.Database.DSN, log); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err = c.entities.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate store: %w", err)
	}

	c.client = linkedin.New(linkedin.Config{
		BaseURL:     cfg.LinkedIn.BaseURL,
		AccessToken: cfg.LinkedIn.AccessToken,
		APIVersion:  cfg.LinkedIn.APIVersion,
		Timeout:     cfg.LinkedIn.Timeout,
	}, c.rawCache, log)

	c.cloner = media.NopCloner{}
	if cfg.Media.Enabled {
		cloner, err := media.NewS3Cloner(ctx, media.S3Config{
			Bucket: cfg.Media.Bucket,
			Region: cfg.Media.Region,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("media cloner: %w", err)
		}
		c.cloner = cloner
	}

	invalidator := cache.Invalidator{c.defaultCache, c.rawCache, c.summaryCache}
	c.insights = insights.New(c.entities, c.defaultCache, invalidator, c.client, c.cloner, log)

	var generator summary.Generator
	if cfg.Summary.Enabled {
		generator = summary.NewOpenAIGenerator(summary.OpenAIConfig{
			BaseURL: cfg.Summary.BaseURL,
			APIKey:  cfg.Summary.APIKey,
			Model:   cfg.Summary.Model,
			Timeout: cfg.Summary.Timeout,
		}, log)
	}
	c.summaries = summary.New(c.entities, c.summaryCache, c.defaultCache, generator, log)

	c.router = httpapi.New(c.insights, c.summaries, log)
	return c, nil
}

func newCache(cfg *config.Config, ttl time.Duration, log *zap.Logger) (cache.CacheService, error) {
	cacheCfg := cache.DefaultConfig()
	cacheCfg.Capacity = cfg.Cache.Capacity
	cacheCfg.NumShards = cfg.Cache.NumShards
	cacheCfg.EvictionPercentage = cfg.Cache.EvictionPercentage
	cacheCfg.TTL = ttl
	return cache.NewCacheService(cacheCfg, log)
}

// Close releases held resources in reverse dependency order.
func (c *Container) Close() error {
	if c.entities != nil {
		return c.entities.Close()
	}
	return nil
}

// Router returns the assembled HTTP router.
func (c *Container) Router() chi.Router {
	return c.router
}

// Insights returns the orchestration service.
func (c *Container) Insights() *insights.Service {
	return c.insights
}

// Summaries returns the summary service.
func (c *Container) Summaries() *summary.Service {
	return c.summaries
}

// Store returns the persistence layer.
func (c *Container) Store() *store.Store {
	return c.entities
}
