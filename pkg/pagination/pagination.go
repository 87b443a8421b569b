// Package pagination extracts list-query parameters from a request. Pages are
// 1-based on the wire; sort columns are validated against a per-collection
// allow-list before they reach SQL.
package pagination

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds pagination and ordering parameters extracted from a request.
type Params struct {
	Limit  int
	Offset int
	Sort   string
	// Desc is true when order=-1 was requested.
	Desc bool
}

// FromContext extracts page/limit/sort/order query parameters. defaultSort is
// used when no sort parameter is given; allowedSort is the set of sortable
// column names, and an unknown sort column silently falls back to defaultSort.
func FromContext(c echo.Context, defaultSort string, allowedSort ...string) Params {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page <= 0 {
		page = 1
	}

	sort := defaultSort
	if s := c.QueryParam("sort"); s != "" {
		for _, col := range allowedSort {
			if s == col {
				sort = s
				break
			}
		}
	}

	return Params{
		Limit:  limit,
		Offset: (page - 1) * limit,
		Sort:   sort,
		Desc:   c.QueryParam("order") == "-1",
	}
}

// OrderBy returns the ORDER BY ... LIMIT ... OFFSET clause for the params.
// Sort has already been checked against the allow-list in FromContext.
func (p Params) OrderBy() string {
	dir := "ASC"
	if p.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s LIMIT %d OFFSET %d", p.Sort, dir, p.Limit, p.Offset)
}

// Response wraps a paginated API response.
type Response struct {
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	HasMore bool        `json:"has_more"`
}

func NewResponse(data interface{}, total, limit, offset int) *Response {
	return &Response{
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}
}
