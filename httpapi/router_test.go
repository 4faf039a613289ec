package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepsolv/linkedin-insights/apperr"
	"github.com/deepsolv/linkedin-insights/insights"
	"github.com/deepsolv/linkedin-insights/store"
	"github.com/deepsolv/linkedin-insights/summary"
)

// stubInsights answers every operation with not-found unless a hook is set.
type stubInsights struct {
	pageDetail func(pid string, fetchIfMissing bool) (*insights.PageDetailResponse, error)
	listPages  func(filter store.PageFilter, page, size int) (*insights.PagedResult[store.PageView], error)
	calls      int
}

func (s *stubInsights) PageDetail(_ context.Context, pid string, fetchIfMissing bool) (*insights.PageDetailResponse, error) {
	s.calls++
	if s.pageDetail != nil {
		return s.pageDetail(pid, fetchIfMissing)
	}
	return nil, apperr.NotFound("page not found")
}

func (s *stubInsights) RefreshPage(context.Context, string) (*insights.PageDetailResponse, error) {
	s.calls++
	return nil, apperr.NotFound("page not found")
}

func (s *stubInsights) SyncPosts(context.Context, string) (int, error) {
	s.calls++
	return 0, apperr.NotFound("page not found")
}

func (s *stubInsights) SyncEmployees(context.Context, string) (int, error) {
	s.calls++
	return 0, apperr.NotFound("page not found")
}

func (s *stubInsights) SyncComments(context.Context, string) (int, error) {
	s.calls++
	return 0, apperr.NotFound("post not found")
}

func (s *stubInsights) ListPages(_ context.Context, filter store.PageFilter, page, size int) (*insights.PagedResult[store.PageView], error) {
	s.calls++
	if s.listPages != nil {
		return s.listPages(filter, page, size)
	}
	result := insights.NewPagedResult([]store.PageView{}, 0, page, size)
	return &result, nil
}

func (s *stubInsights) PagePosts(context.Context, string, int, int) (*insights.PagedResult[store.PostView], error) {
	s.calls++
	return nil, apperr.NotFound("page not found")
}

func (s *stubInsights) PageFollowers(context.Context, string, int, int) (*insights.FollowerResponse, error) {
	s.calls++
	return nil, apperr.NotFound("page not found")
}

func (s *stubInsights) RecentPosts(context.Context, string, int) ([]store.PostView, error) {
	s.calls++
	return []store.PostView{}, nil
}

func (s *stubInsights) ListPosts(context.Context, store.PostFilter, int, int) (*insights.PagedResult[store.PostView], error) {
	s.calls++
	result := insights.NewPagedResult([]store.PostView{}, 0, 1, 10)
	return &result, nil
}

func (s *stubInsights) PostDetail(context.Context, string, bool) (*insights.PostDetailResponse, error) {
	s.calls++
	return nil, apperr.NotFound("post not found")
}

func (s *stubInsights) PostComments(context.Context, string, int, int) (*insights.PagedResult[store.CommentView], error) {
	s.calls++
	return nil, apperr.NotFound("post not found")
}

func (s *stubInsights) CommentReplies(context.Context, string, int, int) (*insights.PagedResult[store.CommentView], error) {
	s.calls++
	return nil, apperr.NotFound("comment not found")
}

type stubSummaries struct {
	compare func(pids []string) (*summary.Comparison, error)
	calls   int
}

func (s *stubSummaries) AISummary(_ context.Context, pid string, _, _, _ bool) (*summary.Narrative, error) {
	s.calls++
	return &summary.Narrative{PageID: pid, Summary: "ok"}, nil
}

func (s *stubSummaries) QuickSummary(context.Context, string) (*summary.QuickStats, error) {
	s.calls++
	return nil, apperr.NotFound("page not found")
}

func (s *stubSummaries) Compare(_ context.Context, pids []string) (*summary.Comparison, error) {
	s.calls++
	if s.compare != nil {
		return s.compare(pids)
	}
	return nil, apperr.Validation("page_ids must contain 2 to 5 entries")
}

func newTestServer(t *testing.T) (*httptest.Server, *stubInsights, *stubSummaries) {
	t.Helper()

	ins := &stubInsights{}
	sums := &stubSummaries{}
	srv := httptest.NewServer(New(ins, sums, nil))
	t.Cleanup(srv.Close)
	return srv, ins, sums
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPageDetailNotFoundMapsTo404(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/pages/ghost")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, decodeError(t, resp), "not found")
}

func TestPageDetailFetchFlagPassedThrough(t *testing.T) {
	srv, ins, _ := newTestServer(t)

	var gotFetch bool
	ins.pageDetail = func(_ string, fetchIfMissing bool) (*insights.PageDetailResponse, error) {
		gotFetch = fetchIfMissing
		return &insights.PageDetailResponse{}, nil
	}

	resp, err := http.Get(srv.URL + "/api/v1/pages/acme?fetch_if_missing=false")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, gotFetch)

	resp, err = http.Get(srv.URL + "/api/v1/pages/acme")
	require.NoError(t, err)
	resp.Body.Close()
	assert.True(t, gotFetch, "missing flag defaults to fetching")
}

func TestPaginationBoundsRejected(t *testing.T) {
	srv, ins, _ := newTestServer(t)

	tests := []struct {
		name string
		url  string
	}{
		{"oversized page_size", "/api/v1/pages?page_size=1000"},
		{"zero page", "/api/v1/pages?page=0"},
		{"zero page_size", "/api/v1/pages?page_size=0"},
		{"negative page", "/api/v1/pages?page=-1"},
		{"non-numeric page", "/api/v1/pages?page=first"},
		{"negative followers filter", "/api/v1/pages?min_followers=-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := ins.calls
			resp, err := http.Get(srv.URL + tt.url)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, before, ins.calls, "validation failures must not reach the service")
		})
	}
}

func TestRecentPostsLimitBound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	for _, limit := range []string{"100", "0"} {
		resp, err := http.Get(srv.URL + "/api/v1/pages/acme/posts/recent?limit=" + limit)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, decodeError(t, resp), "limit")
	}
}

func TestCompareMalformedBody(t *testing.T) {
	srv, _, sums := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/pages/compare", "application/json",
		strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, sums.calls)
}

func TestComparePassesIDs(t *testing.T) {
	srv, _, sums := newTestServer(t)

	var gotIDs []string
	sums.compare = func(pids []string) (*summary.Comparison, error) {
		gotIDs = pids
		return &summary.Comparison{PageIDs: pids, WinnerByFollowers: pids[0]}, nil
	}

	resp, err := http.Post(srv.URL+"/api/v1/pages/compare", "application/json",
		strings.NewReader(`{"page_ids": ["acme", "globex"]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"acme", "globex"}, gotIDs)
}

func TestListPagesFiltersPassedThrough(t *testing.T) {
	srv, ins, _ := newTestServer(t)

	var gotFilter store.PageFilter
	ins.listPages = func(filter store.PageFilter, page, size int) (*insights.PagedResult[store.PageView], error) {
		gotFilter = filter
		result := insights.NewPagedResult([]store.PageView{}, 0, page, size)
		return &result, nil
	}

	resp, err := http.Get(srv.URL + "/api/v1/pages?name=acme&industry=software&min_followers=100&max_followers=5000")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, store.PageFilter{
		Name:         "acme",
		Industry:     "software",
		MinFollowers: 100,
		MaxFollowers: 5000,
	}, gotFilter)
}
