package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/deepsolv/linkedin-insights/apperr"
	"github.com/deepsolv/linkedin-insights/store"
)

// Per-endpoint page size bounds.
const (
	defaultPageSize = 10

	maxPageListSize  = 100
	maxPostListSize  = 25
	maxFollowerSize  = 50
	maxCommentSize   = 100
	maxRecentLimit   = 25
	defaultRecentLim = 15
)

// pagination holds the validated 1-indexed page selector for one request.
type pagination struct {
	Page int
	Size int
}

func (p pagination) validate(maxSize int) error {
	// Threshold rules alone skip zero values, so Required rejects an
	// explicit page=0 or page_size=0.
	return validation.ValidateStruct(&p,
		validation.Field(&p.Page, validation.Required, validation.Min(1)),
		validation.Field(&p.Size, validation.Required, validation.Min(1), validation.Max(maxSize)),
	)
}

// parsePagination reads page/page_size query parameters with defaults and
// enforces the endpoint's bounds. A violated bound is a Validation error.
func parsePagination(r *http.Request, maxSize int) (pagination, error) {
	p := pagination{Page: 1, Size: defaultPageSize}

	var err error
	if p.Page, err = intQuery(r, "page", 1); err != nil {
		return p, err
	}
	if p.Size, err = intQuery(r, "page_size", defaultPageSize); err != nil {
		return p, err
	}

	if err := p.validate(maxSize); err != nil {
		return p, apperr.Validation(err.Error())
	}
	return p, nil
}

func intQuery(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation(fmt.Sprintf("%s must be an integer", name))
	}
	return value, nil
}

// boolQuery treats a missing parameter as fallback; only the literal
// "false"/"true" forms flip it.
func boolQuery(r *http.Request, name string, fallback bool) bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

// parsePageFilter reads the page-listing filters.
func parsePageFilter(r *http.Request) (store.PageFilter, error) {
	filter := store.PageFilter{
		Name:     r.URL.Query().Get("name"),
		Industry: r.URL.Query().Get("industry"),
	}

	var err error
	if filter.MinFollowers, err = intQuery(r, "min_followers", 0); err != nil {
		return filter, err
	}
	if filter.MaxFollowers, err = intQuery(r, "max_followers", 0); err != nil {
		return filter, err
	}

	if err := validation.ValidateStruct(&filter,
		validation.Field(&filter.MinFollowers, validation.Min(0)),
		validation.Field(&filter.MaxFollowers, validation.Min(0)),
	); err != nil {
		return filter, apperr.Validation(err.Error())
	}
	return filter, nil
}

// parsePostFilter reads the cross-page post-listing filters.
func parsePostFilter(r *http.Request) (store.PostFilter, error) {
	filter := store.PostFilter{
		ContentType: r.URL.Query().Get("content_type"),
	}

	var err error
	if filter.MinLikes, err = intQuery(r, "min_likes", 0); err != nil {
		return filter, err
	}
	if filter.MinLikes < 0 {
		return filter, apperr.Validation("min_likes must not be negative")
	}
	return filter, nil
}

// parseRecentLimit reads the recent-posts limit with its 1..25 bound.
func parseRecentLimit(r *http.Request) (int, error) {
	limit, err := intQuery(r, "limit", defaultRecentLim)
	if err != nil {
		return 0, err
	}
	if err := validation.Validate(limit, validation.Required, validation.Min(1), validation.Max(maxRecentLimit)); err != nil {
		return 0, apperr.Validation("limit must be between 1 and 25")
	}
	return limit, nil
}
