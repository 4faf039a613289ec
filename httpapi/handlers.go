package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/deepsolv/linkedin-insights/apperr"
)

type handler struct {
	insights  Insights
	summaries Summaries
	log       *zap.Logger
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) listPages(w http.ResponseWriter, r *http.Request) {
	filter, err := parsePageFilter(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	p, err := parsePagination(r, maxPageListSize)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	result, err := h.insights.ListPages(r.Context(), filter, p.Page, p.Size)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *handler) pageDetail(w http.ResponseWriter, r *http.Request) {
	pid := chi.URLParam(r, "pageID")
	fetchIfMissing := boolQuery(r, "fetch_if_missing", true)

	detail, err := h.insights.PageDetail(r.Context(), pid, fetchIfMissing)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (h *handler) refreshPage(w http.ResponseWriter, r *http.Request) {
	detail, err := h.insights.RefreshPage(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

type syncResponse struct {
	Synced int `json:"synced"`
}

func (h *handler) syncPosts(w http.ResponseWriter, r *http.Request) {
	synced, err := h.insights.SyncPosts(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, syncResponse{Synced: synced})
}

func (h *handler) syncEmployees(w http.ResponseWriter, r *http.Request) {
	synced, err := h.insights.SyncEmployees(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, syncResponse{Synced: synced})
}

func (h *handler) syncComments(w http.ResponseWriter, r *http.Request) {
	synced, err := h.insights.SyncComments(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, syncResponse{Synced: synced})
}

func (h *handler) pagePosts(w http.ResponseWriter, r *http.Request) {
	p, err := parsePagination(r, maxPostListSize)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	result, err := h.insights.PagePosts(r.Context(), chi.URLParam(r, "pageID"), p.Page, p.Size)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *handler) recentPosts(w http.ResponseWriter, r *http.Request) {
	limit, err := parseRecentLimit(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	posts, err := h.insights.RecentPosts(r.Context(), chi.URLParam(r, "pageID"), limit)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

func (h *handler) pageFollowers(w http.ResponseWriter, r *http.Request) {
	p, err := parsePagination(r, maxFollowerSize)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	result, err := h.insights.PageFollowers(r.Context(), chi.URLParam(r, "pageID"), p.Page, p.Size)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *handler) aiSummary(w http.ResponseWriter, r *http.Request) {
	narrative, err := h.summaries.AISummary(r.Context(),
		chi.URLParam(r, "pageID"),
		boolQuery(r, "include_posts", true),
		boolQuery(r, "include_employees", true),
		boolQuery(r, "force_refresh", false))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, narrative)
}

func (h *handler) quickSummary(w http.ResponseWriter, r *http.Request) {
	quick, err := h.summaries.QuickSummary(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, quick)
}

type compareRequest struct {
	PageIDs []string `json:"page_ids"`
}

func (h *handler) comparePages(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.log, apperr.Validation("body must be JSON with a page_ids array"))
		return
	}

	comparison, err := h.summaries.Compare(r.Context(), req.PageIDs)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, comparison)
}

func (h *handler) listPosts(w http.ResponseWriter, r *http.Request) {
	filter, err := parsePostFilter(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	p, err := parsePagination(r, maxPostListSize)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	result, err := h.insights.ListPosts(r.Context(), filter, p.Page, p.Size)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *handler) postDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.insights.PostDetail(r.Context(),
		chi.URLParam(r, "postID"),
		boolQuery(r, "include_comments", true))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (h *handler) postComments(w http.ResponseWriter, r *http.Request) {
	p, err := parsePagination(r, maxCommentSize)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	result, err := h.insights.PostComments(r.Context(), chi.URLParam(r, "postID"), p.Page, p.Size)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *handler) commentReplies(w http.ResponseWriter, r *http.Request) {
	p, err := parsePagination(r, maxCommentSize)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	result, err := h.insights.CommentReplies(r.Context(), chi.URLParam(r, "commentID"), p.Page, p.Size)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
