package insights

// PagedResult is the envelope every listing operation returns. Pages are
// 1-indexed; TotalPages is ceiling division of Total by PageSize.
type PagedResult[T any] struct {
	Items      []T  `json:"items"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewPagedResult computes the envelope bookkeeping for one result page.
func NewPagedResult[T any](items []T, total, page, size int) PagedResult[T] {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}
	if items == nil {
		items = []T{}
	}

	totalPages := (total + size - 1) / size
	return PagedResult[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
