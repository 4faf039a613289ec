package insights

import (
	"context"

	"github.com/deepsolv/linkedin-insights/cache"
	"github.com/deepsolv/linkedin-insights/store"
)

// Listing operations never reach for the provider: they answer purely from
// cache and store, and a page that was never synced is simply not found.

// ListPages serves the filtered page listing.
func (s *Service) ListPages(ctx context.Context, filter store.PageFilter, page, size int) (*PagedResult[store.PageView], error) {
	key := cache.Key("pages_list",
		filter.Name, filter.Industry, filter.MinFollowers, filter.MaxFollowers, page, size)

	var cached PagedResult[store.PageView]
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	pages, total, err := s.entities.ListPages(ctx, filter, page, size)
	if err != nil {
		return nil, err
	}

	result := NewPagedResult(store.PageViews(pages), total, page, size)
	s.cache.Set(ctx, key, result)
	return &result, nil
}

// PagePosts serves one page of a page's posts.
func (s *Service) PagePosts(ctx context.Context, pid string, page, size int) (*PagedResult[store.PostView], error) {
	key := cache.Key("page_posts", pid, page, size)

	var cached PagedResult[store.PostView]
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	owner, err := s.entities.PageByID(ctx, pid)
	if err != nil {
		return nil, err
	}

	posts, total, err := s.entities.ListPosts(ctx, store.PostFilter{PageRef: owner.ID}, page, size)
	if err != nil {
		return nil, err
	}

	result := NewPagedResult(store.PostViews(posts), total, page, size)
	s.cache.Set(ctx, key, result)
	return &result, nil
}

// RecentPosts serves the n newest posts of a page without envelope
// bookkeeping.
func (s *Service) RecentPosts(ctx context.Context, pid string, n int) ([]store.PostView, error) {
	key := cache.Key("recent_posts", pid, n)

	var cached []store.PostView
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	owner, err := s.entities.PageByID(ctx, pid)
	if err != nil {
		return nil, err
	}

	posts, err := s.entities.RecentPosts(ctx, owner.ID, n)
	if err != nil {
		return nil, err
	}

	views := store.PostViews(posts)
	s.cache.Set(ctx, key, views)
	return views, nil
}

// FollowerResponse carries both relationship listings for a page, each
// windowed by the same page/page_size, with their overall totals.
type FollowerResponse struct {
	Followers      []store.EmployeeView `json:"followers"`
	Following      []store.EmployeeView `json:"following"`
	FollowerCount  int                  `json:"total_followers"`
	FollowingCount int                  `json:"total_following"`
	Page           int                  `json:"page"`
	PageSize       int                  `json:"page_size"`
}

// PageFollowers serves the people following and followed by a page.
func (s *Service) PageFollowers(ctx context.Context, pid string, page, size int) (*FollowerResponse, error) {
	key := cache.Key("followers", pid, page, size)

	var cached FollowerResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	owner, err := s.entities.PageByID(ctx, pid)
	if err != nil {
		return nil, err
	}

	follower := true
	following := true

	followers, followerCount, err := s.entities.ListEmployees(ctx, owner.ID, store.EmployeeFilter{IsFollower: &follower}, page, size)
	if err != nil {
		return nil, err
	}
	followed, followingCount, err := s.entities.ListEmployees(ctx, owner.ID, store.EmployeeFilter{IsFollowing: &following}, page, size)
	if err != nil {
		return nil, err
	}

	result := FollowerResponse{
		Followers:      store.EmployeeViews(followers),
		Following:      store.EmployeeViews(followed),
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
		Page:           page,
		PageSize:       size,
	}
	s.cache.Set(ctx, key, result)
	return &result, nil
}

// ListPosts serves the cross-page post listing.
func (s *Service) ListPosts(ctx context.Context, filter store.PostFilter, page, size int) (*PagedResult[store.PostView], error) {
	key := cache.Key("posts_list", filter.PageRef, filter.ContentType, filter.MinLikes, page, size)

	var cached PagedResult[store.PostView]
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	posts, total, err := s.entities.ListPosts(ctx, filter, page, size)
	if err != nil {
		return nil, err
	}

	result := NewPagedResult(store.PostViews(posts), total, page, size)
	s.cache.Set(ctx, key, result)
	return &result, nil
}

// PostDetailResponse is the composed post payload; Comments is present only
// when requested.
type PostDetailResponse struct {
	Post     store.PostView      `json:"post"`
	Comments []store.CommentView `json:"comments,omitempty"`
}

// PostDetail serves one post, optionally with its first comment batch.
func (s *Service) PostDetail(ctx context.Context, postID string, includeComments bool) (*PostDetailResponse, error) {
	key := cache.Key("post_detail", postID, includeComments)

	var cached PostDetailResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	post, err := s.entities.PostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	detail := PostDetailResponse{Post: post.View()}
	if includeComments {
		comments, _, err := s.entities.ListComments(ctx, post.ID, 1, 10)
		if err != nil {
			return nil, err
		}
		detail.Comments = store.CommentViews(comments)
	}

	s.cache.Set(ctx, key, detail)
	return &detail, nil
}

// PostComments serves one page of a post's comments.
func (s *Service) PostComments(ctx context.Context, postID string, page, size int) (*PagedResult[store.CommentView], error) {
	key := cache.Key("post_comments", postID, page, size)

	var cached PagedResult[store.CommentView]
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	post, err := s.entities.PostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, total, err := s.entities.ListComments(ctx, post.ID, page, size)
	if err != nil {
		return nil, err
	}

	result := NewPagedResult(store.CommentViews(comments), total, page, size)
	s.cache.Set(ctx, key, result)
	return &result, nil
}

// CommentReplies serves the direct children of a comment, on demand.
func (s *Service) CommentReplies(ctx context.Context, commentID string, page, size int) (*PagedResult[store.CommentView], error) {
	key := cache.Key("comment_replies", commentID, page, size)

	var cached PagedResult[store.CommentView]
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	parent, err := s.entities.CommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	replies, total, err := s.entities.RepliesTo(ctx, parent.ID, page, size)
	if err != nil {
		return nil, err
	}

	result := NewPagedResult(store.CommentViews(replies), total, page, size)
	s.cache.Set(ctx, key, result)
	return &result, nil
}
