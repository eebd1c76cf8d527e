package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/usecase"
)

// PaginationParams holds pagination parameters
type PaginationParams struct {
	Limit  int
	Offset int
}

// Pagination bounds mirror the usecase listings.
const (
	DefaultLimit  = usecase.DefaultPageLimit
	MaxLimit      = usecase.MaxPageLimit
	DefaultOffset = 0
)

// ParsePagination reads limit and offset from the query string of a
// history listing. Malformed values fall back to the defaults.
func ParsePagination(c *gin.Context) *PaginationParams {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	offset, err := strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 {
		offset = DefaultOffset
	}

	return &PaginationParams{
		Limit:  limit,
		Offset: offset,
	}
}

// ExtractUUIDParam parses a prediction or run ID from the URL path.
func ExtractUUIDParam(c *gin.Context, param string) (uuid.UUID, error) {
	idStr := c.Param(param)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", param, err)
	}
	return id, nil
}
