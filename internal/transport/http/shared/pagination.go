package shared

import (
	"net/http"
	"strconv"

	"workforce/internal/domain/apperr"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit and offset. Limits above MaxLimit are capped.
func ParsePagination(r *http.Request) (Pagination, error) {
	page := Pagination{Limit: DefaultLimit}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return Pagination{}, apperr.Validation("limit", "must be a positive integer")
		}
		page.Limit = v
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return Pagination{}, apperr.Validation("offset", "must be a non-negative integer")
		}
		page.Offset = v
	}
	if page.Limit > MaxLimit {
		page.Limit = MaxLimit
	}
	return page, nil
}
