package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/deepsolv/linkedin-insights/apperr"
)

// MaxPostPageSize bounds per-page post listings.
const MaxPostPageSize = 25

// PostFilter narrows a cross-page post listing.
type PostFilter struct {
	PageRef     int64
	ContentType string
	MinLikes    int
}

// PostStats aggregates engagement numbers over a page's posts.
type PostStats struct {
	PostCount     int     `bun:"post_count"`
	TotalLikes    int     `bun:"total_likes"`
	TotalComments int     `bun:"total_comments"`
	TotalShares   int     `bun:"total_shares"`
	AvgLikes      float64 `bun:"avg_likes"`
	AvgComments   float64 `bun:"avg_comments"`
	AvgShares     float64 `bun:"avg_shares"`
}

// PostByID loads a post by its provider identifier.
func (s *Store) PostByID(ctx context.Context, postID string) (*Post, error) {
	post := new(Post)
	err := s.db.NewSelect().
		Model(post).
		Where("po.post_id = ?", postID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(fmt.Sprintf("post %q not found", postID))
	}
	if err != nil {
		return nil, fmt.Errorf("select post: %w", err)
	}
	return post, nil
}

// ListPosts returns the filtered post listing ordered by posting time,
// newest first, along with the total match count.
func (s *Store) ListPosts(ctx context.Context, filter PostFilter, page, size int) ([]*Post, int, error) {
	page, size, offset := applyPagination(page, size, MaxPostPageSize)

	var posts []*Post
	q := s.db.NewSelect().Model(&posts)

	if filter.PageRef > 0 {
		q = q.Where("po.page_ref = ?", filter.PageRef)
	}
	if filter.ContentType != "" {
		q = q.Where("po.content_type = ?", filter.ContentType)
	}
	if filter.MinLikes > 0 {
		q = q.Where("po.like_count >= ?", filter.MinLikes)
	}

	total, err := q.Order("posted_at DESC").
		Limit(size).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return posts, total, nil
}

// RecentPosts returns the n newest posts of a page.
func (s *Store) RecentPosts(ctx context.Context, pageRef int64, n int) ([]*Post, error) {
	if n < 1 {
		n = 1
	}
	var posts []*Post
	err := s.db.NewSelect().
		Model(&posts).
		Where("po.page_ref = ?", pageRef).
		Order("posted_at DESC").
		Limit(n).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("recent posts: %w", err)
	}
	return posts, nil
}

// CountPosts returns how many posts a page owns.
func (s *Store) CountPosts(ctx context.Context, pageRef int64) (int, error) {
	count, err := s.db.NewSelect().
		Model((*Post)(nil)).
		Where("po.page_ref = ?", pageRef).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// Stats aggregates engagement over a page's posts. A page with no posts
// yields the zero value, not an error.
func (s *Store) Stats(ctx context.Context, pageRef int64) (PostStats, error) {
	var stats PostStats
	err := s.db.NewSelect().
		Model((*Post)(nil)).
		ColumnExpr("COUNT(*) AS post_count").
		ColumnExpr("COALESCE(SUM(po.like_count), 0) AS total_likes").
		ColumnExpr("COALESCE(SUM(po.comment_count), 0) AS total_comments").
		ColumnExpr("COALESCE(SUM(po.share_count), 0) AS total_shares").
		ColumnExpr("COALESCE(AVG(po.like_count), 0.0) AS avg_likes").
		ColumnExpr("COALESCE(AVG(po.comment_count), 0.0) AS avg_comments").
		ColumnExpr("COALESCE(AVG(po.share_count), 0.0) AS avg_shares").
		Where("po.page_ref = ?", pageRef).
		Scan(ctx, &stats)
	if err != nil {
		return PostStats{}, fmt.Errorf("post stats: %w", err)
	}
	return stats, nil
}

// UpsertPost inserts the record when its post_id is unseen and otherwise
// merges it into the stored row.
func (s *Store) UpsertPost(ctx context.Context, in *Post) (*Post, bool, error) {
	existing := new(Post)
	err := s.db.NewSelect().
		Model(existing).
		Where("po.post_id = ?", in.PostID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.db.NewInsert().Model(in).Exec(ctx); err != nil {
			return nil, false, fmt.Errorf("insert post: %w", err)
		}
		return in, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select post for upsert: %w", err)
	}

	mergePost(existing, in)
	existing.UpdatedAt = time.Now().UTC()
	if _, err := s.db.NewUpdate().Model(existing).WherePK().Exec(ctx); err != nil {
		return nil, false, fmt.Errorf("update post: %w", err)
	}
	return existing, false, nil
}

func mergePost(dst, src *Post) {
	takeString(&dst.Text, src.Text)
	takeString(&dst.ContentType, src.ContentType)
	takeString(&dst.MediaURL, src.MediaURL)
	takeString(&dst.MediaS3URL, src.MediaS3URL)
	takeString(&dst.MediaType, src.MediaType)
	dst.LikeCount = src.LikeCount
	dst.CommentCount = src.CommentCount
	dst.ShareCount = src.ShareCount
	dst.ViewCount = src.ViewCount
	takeTimePtr(&dst.PostedAt, src.PostedAt)
	takeString(&dst.AuthorName, src.AuthorName)
	takeString(&dst.AuthorTitle, src.AuthorTitle)
	takeStrings(&dst.Hashtags, src.Hashtags)
	takeStrings(&dst.Mentions, src.Mentions)
}
