// Package httpapi is the delegated routing layer: thin chi handlers that
// validate parameters and hand off to the insights and summary services.
package httpapi

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/deepsolv/linkedin-insights/insights"
	"github.com/deepsolv/linkedin-insights/store"
	"github.com/deepsolv/linkedin-insights/summary"
)

// Insights is the orchestrator surface the handlers call.
type Insights interface {
	PageDetail(ctx context.Context, pid string, fetchIfMissing bool) (*insights.PageDetailResponse, error)
	RefreshPage(ctx context.Context, pid string) (*insights.PageDetailResponse, error)
	SyncPosts(ctx context.Context, pid string) (int, error)
	SyncEmployees(ctx context.Context, pid string) (int, error)
	SyncComments(ctx context.Context, postID string) (int, error)
	ListPages(ctx context.Context, filter store.PageFilter, page, size int) (*insights.PagedResult[store.PageView], error)
	PagePosts(ctx context.Context, pid string, page, size int) (*insights.PagedResult[store.PostView], error)
	PageFollowers(ctx context.Context, pid string, page, size int) (*insights.FollowerResponse, error)
	RecentPosts(ctx context.Context, pid string, n int) ([]store.PostView, error)
	ListPosts(ctx context.Context, filter store.PostFilter, page, size int) (*insights.PagedResult[store.PostView], error)
	PostDetail(ctx context.Context, postID string, includeComments bool) (*insights.PostDetailResponse, error)
	PostComments(ctx context.Context, postID string, page, size int) (*insights.PagedResult[store.CommentView], error)
	CommentReplies(ctx context.Context, commentID string, page, size int) (*insights.PagedResult[store.CommentView], error)
}

// Summaries is the summary-layer surface the handlers call.
type Summaries interface {
	AISummary(ctx context.Context, pid string, includePosts, includeEmployees, force bool) (*summary.Narrative, error)
	QuickSummary(ctx context.Context, pid string) (*summary.QuickStats, error)
	Compare(ctx context.Context, pids []string) (*summary.Comparison, error)
}

// New assembles the API router.
func New(insightsSvc Insights, summaries Summaries, log *zap.Logger) chi.Router {
	if log == nil {
		log = zap.NewNop()
	}
	h := &handler{insights: insightsSvc, summaries: summaries, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/pages", func(r chi.Router) {
			r.Get("/", h.listPages)
			r.Post("/compare", h.comparePages)

			r.Route("/{pageID}", func(r chi.Router) {
				r.Get("/", h.pageDetail)
				r.Post("/refresh", h.refreshPage)
				r.Post("/sync/posts", h.syncPosts)
				r.Post("/sync/employees", h.syncEmployees)
				r.Get("/posts", h.pagePosts)
				r.Get("/posts/recent", h.recentPosts)
				r.Get("/followers", h.pageFollowers)
				r.Post("/summary", h.aiSummary)
				r.Get("/quick-summary", h.quickSummary)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", h.listPosts)
			r.Route("/{postID}", func(r chi.Router) {
				r.Get("/", h.postDetail)
				r.Get("/comments", h.postComments)
				r.Post("/sync/comments", h.syncComments)
			})
		})

		r.Get("/comments/{commentID}/replies", h.commentReplies)
	})

	return r
}
