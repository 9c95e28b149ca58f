// Package httpresp renders the collection envelopes shared by the
// dashboard list endpoints.
package httpresp

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// PageResponse is a slice of a larger, server-side paginated result.
type PageResponse[T any] struct {
	Data  []T   `json:"data"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// List always renders data as an array, never null.
func List[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}

func Page[T any](c *gin.Context, data []T, page, limit int, total int64) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, PageResponse[T]{
		Data:  data,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// PageParams reads ?page and ?limit, falling back to def when limit is
// missing or above max.
func PageParams(c *gin.Context, def, max int) (page, limit int) {
	page = queryInt(c, "page")
	if page <= 0 {
		page = 1
	}
	limit = queryInt(c, "limit")
	if limit <= 0 || limit > max {
		limit = def
	}
	return page, limit
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
