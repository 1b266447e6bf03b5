package utils

import (
	"strconv"

	"github.com/artofworkflows/platform/internal/constants"
	"github.com/gin-gonic/gin"
)

// PaginationParams is the skip/limit window applied to list queries.
type PaginationParams struct {
	Skip  int
	Limit int
}

// GetPaginationParams reads skip and limit from the query string. Invalid or
// missing values fall back to the defaults, and limit is clamped to the
// configured ceiling.
func GetPaginationParams(c *gin.Context) PaginationParams {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))
	if err != nil || limit < 1 || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{Skip: skip, Limit: limit}
}
