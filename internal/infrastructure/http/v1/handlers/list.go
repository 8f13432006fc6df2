package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/filter"
)

const maxListLimit = 200

// parseListFilter builds a list filter from the common query parameters:
// search, ids, orderBy, limit, offset, and filters (a JSON array of
// field/operator/value clauses).
func parseListFilter(c *gin.Context, organizationID id.ID) (domain.ListFilter, error) {
	f := domain.DefaultListFilter(organizationID)

	f.Search = c.Query("search")
	f.OrderBy = c.Query("orderBy")

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, apperror.NewValidation("limit must be a non-negative integer")
		}
		if n > maxListLimit {
			n = maxListLimit
		}
		f.Limit = n
	}
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, apperror.NewValidation("offset must be a non-negative integer")
		}
		f.Offset = n
	}

	for _, raw := range c.QueryArray("ids") {
		parsed, err := id.Parse(raw)
		if err != nil {
			return f, apperror.NewValidation("invalid id in ids parameter").WithDetail("id", raw)
		}
		f.IDs = append(f.IDs, parsed)
	}

	if raw := c.Query("filters"); raw != "" {
		var items []filter.Item
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return f, apperror.NewValidation("filters must be a JSON array of filter clauses")
		}
		f.AdvancedFilters = items
	}

	return f, nil
}
