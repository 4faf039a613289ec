package insights

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepsolv/linkedin-insights/apperr"
	"github.com/deepsolv/linkedin-insights/cache"
	"github.com/deepsolv/linkedin-insights/store"
)

// memoryCache is a map-backed CacheService for orchestration tests.
type memoryCache struct {
	entries map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]string)}
}

func (m *memoryCache) Get(_ context.Context, key string, dest any) bool {
	raw, ok := m.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

func (m *memoryCache) Set(_ context.Context, key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		return false
	}
	m.entries[key] = string(raw)
	return true
}

func (m *memoryCache) Delete(_ context.Context, key string) bool {
	_, ok := m.entries[key]
	delete(m.entries, key)
	return ok
}

func (m *memoryCache) ClearMatching(_ context.Context, fragment string) int {
	var cleared int
	for key := range m.entries {
		if strings.Contains(key, fragment) {
			delete(m.entries, key)
			cleared++
		}
	}
	return cleared
}

func (m *memoryCache) has(key string) bool {
	_, ok := m.entries[key]
	return ok
}

// fakeFetcher plays the provider with canned records and counts calls.
type fakeFetcher struct {
	page      *store.Page
	posts     []*store.Post
	employees []*store.Employee
	comments  []*store.Comment

	pageCalls     int
	postCalls     int
	employeeCalls int
	commentCalls  int
}

func (f *fakeFetcher) FetchPage(_ context.Context, _ string) *store.Page {
	f.pageCalls++
	if f.page == nil {
		return nil
	}
	clone := *f.page
	return &clone
}

func (f *fakeFetcher) FetchPosts(_ context.Context, _ string, _ int) []*store.Post {
	f.postCalls++
	out := make([]*store.Post, len(f.posts))
	for i, p := range f.posts {
		clone := *p
		out[i] = &clone
	}
	return out
}

func (f *fakeFetcher) FetchEmployees(_ context.Context, _ string, _ int) []*store.Employee {
	f.employeeCalls++
	out := make([]*store.Employee, len(f.employees))
	for i, e := range f.employees {
		clone := *e
		out[i] = &clone
	}
	return out
}

func (f *fakeFetcher) FetchComments(_ context.Context, _ string, _ int) []*store.Comment {
	f.commentCalls++
	out := make([]*store.Comment, len(f.comments))
	for i, c := range f.comments {
		clone := *c
		out[i] = &clone
	}
	return out
}

// fakeCloner returns a predictable durable URL per source.
type fakeCloner struct {
	calls int
}

func (c *fakeCloner) Clone(_ context.Context, sourceURL, folder string) string {
	c.calls++
	return "https://bucket.example.com/" + folder + "/cloned"
}

type fixture struct {
	svc     *Service
	store   *store.Store
	cache   *memoryCache
	fetcher *fakeFetcher
	cloner  *fakeCloner
}

// dbSeq keeps each test on its own named in-memory database.
var dbSeq atomic.Int64

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:insights_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	st, err := store.Open(dsn, nil)
	require.NoError(t, err)
	st.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	mc := newMemoryCache()
	fetcher := &fakeFetcher{}
	cloner := &fakeCloner{}

	return &fixture{
		svc:     New(st, mc, cache.Invalidator{mc}, fetcher, cloner, nil),
		store:   st,
		cache:   mc,
		fetcher: fetcher,
		cloner:  cloner,
	}
}

func providerPage(followers int) *store.Page {
	oid := "98765"
	return &store.Page{
		PageID:            "acme",
		LinkedInID:        &oid,
		Name:              "Acme Corporation",
		ProfilePictureURL: "https://cdn.example.com/logo.png",
		FollowerCount:     followers,
	}
}

func TestPageDetailFetchDisabled(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PageDetail(context.Background(), "acme", false)
	assert.True(t, apperr.IsNotFound(err))
	assert.Zero(t, f.fetcher.pageCalls, "fetch-disabled must never hit the provider")
}

func TestPageDetailFetchOnMiss(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fetcher.page = providerPage(5000)
	f.fetcher.posts = []*store.Post{
		{PostID: "urn:li:share:1", MediaURL: "https://cdn.example.com/a.png"},
		{PostID: "urn:li:share:2"},
	}
	f.fetcher.employees = []*store.Employee{{LinkedInID: "person-1", IsEmployee: true}}

	detail, err := f.svc.PageDetail(ctx, "acme", true)
	require.NoError(t, err)

	assert.Equal(t, 5000, detail.Page.FollowerCount)
	assert.Equal(t, 2, detail.PostsCount, "first creation cascades into posts")
	require.NotNil(t, detail.Page.LastScrapedAt)
	assert.WithinDuration(t, time.Now().UTC(), *detail.Page.LastScrapedAt, time.Minute)

	// avatar and post media were cloned, and the view prefers the clone
	assert.Contains(t, detail.Page.ProfilePictureURL, "bucket.example.com")
	assert.Equal(t, 2, f.cloner.calls, "avatar plus the one post with media")

	stored, err := f.store.PageByID(ctx, "acme")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastScrapedAt)

	_, total, err := f.store.ListEmployees(ctx, stored.ID, store.EmployeeFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	// second identical request is answered from cache, no provider round-trip
	require.True(t, f.cache.has("page_detail:acme"))
	callsBefore := f.fetcher.pageCalls
	again, err := f.svc.PageDetail(ctx, "acme", true)
	require.NoError(t, err)
	assert.Equal(t, detail.Page.FollowerCount, again.Page.FollowerCount)
	assert.Equal(t, callsBefore, f.fetcher.pageCalls)
}

func TestRefreshPageUpdatesStoreAndCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fetcher.page = providerPage(100)
	_, err := f.svc.PageDetail(ctx, "acme", true)
	require.NoError(t, err)
	require.True(t, f.cache.has("page_detail:acme"))

	cascadeCalls := f.fetcher.postCalls

	f.fetcher.page = providerPage(150)
	detail, err := f.svc.RefreshPage(ctx, "acme")
	require.NoError(t, err)

	assert.Equal(t, 150, detail.Page.FollowerCount)
	stored, err := f.store.PageByID(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, 150, stored.FollowerCount)

	assert.True(t, f.cache.has("page_detail:acme"), "refresh repopulates the composed entry")
	assert.Equal(t, cascadeCalls, f.fetcher.postCalls, "refresh of an existing page does not re-cascade")
}

func TestRefreshPageUpstreamGoneInvalidatesFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fetcher.page = providerPage(100)
	_, err := f.svc.PageDetail(ctx, "acme", true)
	require.NoError(t, err)
	require.True(t, f.cache.has("page_detail:acme"))

	f.fetcher.page = nil
	_, err = f.svc.RefreshPage(ctx, "acme")
	assert.True(t, apperr.IsNotFound(err))

	// invalidate-before-fetch: the failed refresh left no composed entry
	assert.False(t, f.cache.has("page_detail:acme"))

	// the stale row was not touched
	stored, err := f.store.PageByID(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, 100, stored.FollowerCount)
}

func TestSyncPostsRequiresExistingPage(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SyncPosts(context.Background(), "ghost")
	assert.True(t, apperr.IsNotFound(err))
	assert.Zero(t, f.fetcher.postCalls)
}

func TestSyncPostsStoresBatchAndInvalidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fetcher.page = providerPage(100)
	_, err := f.svc.PageDetail(ctx, "acme", true)
	require.NoError(t, err)
	require.True(t, f.cache.has("page_detail:acme"))

	f.fetcher.posts = []*store.Post{
		{PostID: "urn:li:share:1", LikeCount: 3},
		{PostID: "urn:li:share:2"},
	}
	stored, err := f.svc.SyncPosts(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, 2, stored)
	assert.False(t, f.cache.has("page_detail:acme"), "child sync clears the page's keys")

	page, err := f.store.PageByID(ctx, "acme")
	require.NoError(t, err)
	count, err := f.store.CountPosts(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSyncCommentsStoresBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fetcher.page = providerPage(100)
	f.fetcher.posts = []*store.Post{{PostID: "urn:li:share:1"}}
	_, err := f.svc.PageDetail(ctx, "acme", true)
	require.NoError(t, err)

	f.fetcher.comments = []*store.Comment{
		{CommentID: "cm-1", Text: "hi"},
		{CommentID: "cm-2", Text: "hello"},
	}
	stored, err := f.svc.SyncComments(ctx, "urn:li:share:1")
	require.NoError(t, err)
	assert.Equal(t, 2, stored)

	comments, err := f.svc.PostComments(ctx, "urn:li:share:1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, comments.Total)
}

func TestListingsNeverFetch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.PagePosts(ctx, "ghost", 1, 10)
	assert.True(t, apperr.IsNotFound(err))

	_, err = f.svc.PageFollowers(ctx, "ghost", 1, 10)
	assert.True(t, apperr.IsNotFound(err))

	_, err = f.svc.PostDetail(ctx, "ghost", true)
	assert.True(t, apperr.IsNotFound(err))

	assert.Zero(t, f.fetcher.pageCalls)
	assert.Zero(t, f.fetcher.postCalls)
	assert.Zero(t, f.fetcher.commentCalls)
}

func TestPageFollowers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fetcher.page = providerPage(100)
	f.fetcher.employees = []*store.Employee{
		{LinkedInID: "p-1", FullName: "A", IsFollower: true},
		{LinkedInID: "p-2", FullName: "B", IsFollower: true, IsFollowing: true},
		{LinkedInID: "p-3", FullName: "C", IsFollowing: true},
	}
	_, err := f.svc.PageDetail(ctx, "acme", true)
	require.NoError(t, err)

	resp, err := f.svc.PageFollowers(ctx, "acme", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.FollowerCount)
	assert.Equal(t, 2, resp.FollowingCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 10, resp.PageSize)

	followerIDs := make([]string, 0, len(resp.Followers))
	for _, e := range resp.Followers {
		followerIDs = append(followerIDs, e.LinkedInID)
	}
	followingIDs := make([]string, 0, len(resp.Following))
	for _, e := range resp.Following {
		followingIDs = append(followingIDs, e.LinkedInID)
	}
	assert.ElementsMatch(t, []string{"p-1", "p-2"}, followerIDs)
	assert.ElementsMatch(t, []string{"p-2", "p-3"}, followingIDs)
}

func TestPostDetailIncludeComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fetcher.page = providerPage(100)
	f.fetcher.posts = []*store.Post{{PostID: "urn:li:share:1"}}
	_, err := f.svc.PageDetail(ctx, "acme", true)
	require.NoError(t, err)

	bare, err := f.svc.PostDetail(ctx, "urn:li:share:1", false)
	require.NoError(t, err)
	assert.Nil(t, bare.Comments)

	withComments, err := f.svc.PostDetail(ctx, "urn:li:share:1", true)
	require.NoError(t, err)
	assert.NotNil(t, withComments.Post)
	assert.Empty(t, withComments.Comments)
}

func TestCommentReplies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fetcher.page = providerPage(100)
	f.fetcher.posts = []*store.Post{{PostID: "urn:li:share:1"}}
	_, err := f.svc.PageDetail(ctx, "acme", true)
	require.NoError(t, err)

	post, err := f.store.PostByID(ctx, "urn:li:share:1")
	require.NoError(t, err)
	parent, _, err := f.store.UpsertComment(ctx, &store.Comment{CommentID: "cm-1", PostRef: post.ID})
	require.NoError(t, err)
	_, _, err = f.store.UpsertComment(ctx, &store.Comment{
		CommentID:       "cm-2",
		PostRef:         post.ID,
		ParentCommentID: &parent.ID,
	})
	require.NoError(t, err)

	replies, err := f.svc.CommentReplies(ctx, "cm-1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, replies.Total)
	assert.Equal(t, "cm-2", replies.Items[0].CommentID)
}

func TestPagedResultMath(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		page       int
		size       int
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{"empty", 0, 1, 10, 0, false, false},
		{"exact fit", 20, 1, 10, 2, true, false},
		{"remainder rounds up", 21, 2, 10, 3, true, true},
		{"last page", 21, 3, 10, 3, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPagedResult([]int{}, tt.total, tt.page, tt.size)
			assert.Equal(t, tt.totalPages, got.TotalPages)
			assert.Equal(t, tt.hasNext, got.HasNext)
			assert.Equal(t, tt.hasPrev, got.HasPrev)
		})
	}
}
