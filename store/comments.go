package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/deepsolv/linkedin-insights/apperr"
)

// MaxCommentPageSize bounds comment listings.
const MaxCommentPageSize = 100

// CommentByID loads a comment by its provider identifier.
func (s *Store) CommentByID(ctx context.Context, commentID string) (*Comment, error) {
	comment := new(Comment)
	err := s.db.NewSelect().
		Model(comment).
		Where("c.comment_id = ?", commentID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(fmt.Sprintf("comment %q not found", commentID))
	}
	if err != nil {
		return nil, fmt.Errorf("select comment: %w", err)
	}
	return comment, nil
}

// ListComments returns a post's comments ordered by comment time, newest
// first, along with the total count.
func (s *Store) ListComments(ctx context.Context, postRef int64, page, size int) ([]*Comment, int, error) {
	page, size, offset := applyPagination(page, size, MaxCommentPageSize)

	var comments []*Comment
	total, err := s.db.NewSelect().
		Model(&comments).
		Where("c.post_ref = ?", postRef).
		Order("commented_at DESC").
		Limit(size).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return comments, total, nil
}

// RepliesTo returns the direct children of a comment. Replies are only ever
// materialized on demand, so an empty result is the common case.
func (s *Store) RepliesTo(ctx context.Context, parentID int64, page, size int) ([]*Comment, int, error) {
	page, size, offset := applyPagination(page, size, MaxCommentPageSize)

	var replies []*Comment
	total, err := s.db.NewSelect().
		Model(&replies).
		Where("c.parent_comment_id = ?", parentID).
		Order("commented_at DESC").
		Limit(size).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list replies: %w", err)
	}
	return replies, total, nil
}

// CountComments returns how many comments a post owns.
func (s *Store) CountComments(ctx context.Context, postRef int64) (int, error) {
	count, err := s.db.NewSelect().
		Model((*Comment)(nil)).
		Where("c.post_ref = ?", postRef).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return count, nil
}

// UpsertComment inserts the record when its comment_id is unseen and
// otherwise merges it into the stored row.
func (s *Store) UpsertComment(ctx context.Context, in *Comment) (*Comment, bool, error) {
	existing := new(Comment)
	err := s.db.NewSelect().
		Model(existing).
		Where("c.comment_id = ?", in.CommentID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.db.NewInsert().Model(in).Exec(ctx); err != nil {
			return nil, false, fmt.Errorf("insert comment: %w", err)
		}
		return in, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select comment for upsert: %w", err)
	}

	mergeComment(existing, in)
	if _, err := s.db.NewUpdate().Model(existing).WherePK().Exec(ctx); err != nil {
		return nil, false, fmt.Errorf("update comment: %w", err)
	}
	return existing, false, nil
}

func mergeComment(dst, src *Comment) {
	takeString(&dst.Text, src.Text)
	takeString(&dst.AuthorID, src.AuthorID)
	takeString(&dst.AuthorName, src.AuthorName)
	takeString(&dst.AuthorTitle, src.AuthorTitle)
	takeString(&dst.AuthorProfileURL, src.AuthorProfileURL)
	takeString(&dst.AuthorProfilePicture, src.AuthorProfilePicture)
	dst.LikeCount = src.LikeCount
	dst.ReplyCount = src.ReplyCount
	takeInt64Ptr(&dst.ParentCommentID, src.ParentCommentID)
	takeTimePtr(&dst.CommentedAt, src.CommentedAt)
}
