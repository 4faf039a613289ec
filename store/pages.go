package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deepsolv/linkedin-insights/apperr"
)

// MaxPageSize bounds the page-listing endpoint.
const MaxPageSize = 100

// PageFilter narrows a page listing. Zero values mean "no constraint".
type PageFilter struct {
	Name         string
	Industry     string
	MinFollowers int
	MaxFollowers int
}

// PageByID loads a page by its vanity slug.
func (s *Store) PageByID(ctx context.Context, pageID string) (*Page, error) {
	page := new(Page)
	err := s.db.NewSelect().
		Model(page).
		Where("p.page_id = ?", pageID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(fmt.Sprintf("page %q not found", pageID))
	}
	if err != nil {
		return nil, fmt.Errorf("select page: %w", err)
	}
	return page, nil
}

// PageByPK loads a page by its surrogate key.
func (s *Store) PageByPK(ctx context.Context, id int64) (*Page, error) {
	page := new(Page)
	err := s.db.NewSelect().
		Model(page).
		Where("p.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(fmt.Sprintf("page #%d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("select page: %w", err)
	}
	return page, nil
}

// ListPages returns the filtered page listing ordered by follower count,
// most followed first, along with the total match count.
func (s *Store) ListPages(ctx context.Context, filter PageFilter, page, size int) ([]*Page, int, error) {
	page, size, offset := applyPagination(page, size, MaxPageSize)

	var pages []*Page
	q := s.db.NewSelect().Model(&pages)

	if filter.Name != "" {
		q = q.Where("lower(p.name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.Industry != "" {
		q = q.Where("lower(p.industry) LIKE ?", "%"+strings.ToLower(filter.Industry)+"%")
	}
	if filter.MinFollowers > 0 {
		q = q.Where("p.follower_count >= ?", filter.MinFollowers)
	}
	if filter.MaxFollowers > 0 {
		q = q.Where("p.follower_count <= ?", filter.MaxFollowers)
	}

	total, err := q.Order("follower_count DESC").
		Limit(size).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list pages: %w", err)
	}
	return pages, total, nil
}

// UpsertPage inserts the record when its page_id is unseen and otherwise
// merges it into the stored row. Returns the stored record and whether it
// was created by this call.
func (s *Store) UpsertPage(ctx context.Context, in *Page) (*Page, bool, error) {
	existing := new(Page)
	err := s.db.NewSelect().
		Model(existing).
		Where("p.page_id = ?", in.PageID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.db.NewInsert().Model(in).Exec(ctx); err != nil {
			return nil, false, fmt.Errorf("insert page: %w", err)
		}
		return in, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select page for upsert: %w", err)
	}

	mergePage(existing, in)
	existing.UpdatedAt = time.Now().UTC()
	if _, err := s.db.NewUpdate().Model(existing).WherePK().Exec(ctx); err != nil {
		return nil, false, fmt.Errorf("update page: %w", err)
	}
	return existing, false, nil
}

func mergePage(dst, src *Page) {
	takeStringPtr(&dst.LinkedInID, src.LinkedInID)
	takeString(&dst.Name, src.Name)
	takeString(&dst.URL, src.URL)
	takeString(&dst.ProfilePictureURL, src.ProfilePictureURL)
	takeString(&dst.ProfilePictureS3URL, src.ProfilePictureS3URL)
	takeString(&dst.Description, src.Description)
	takeString(&dst.Tagline, src.Tagline)
	takeString(&dst.Website, src.Website)
	takeString(&dst.Industry, src.Industry)
	takeString(&dst.CompanySize, src.CompanySize)
	takeString(&dst.Headquarters, src.Headquarters)
	takeIntPtr(&dst.FoundedYear, src.FoundedYear)
	takeString(&dst.CompanyType, src.CompanyType)
	dst.FollowerCount = src.FollowerCount
	dst.EmployeeCount = src.EmployeeCount
	takeStrings(&dst.Specialties, src.Specialties)
	takeStrings(&dst.Locations, src.Locations)
	takeTimePtr(&dst.LastScrapedAt, src.LastScrapedAt)
}
