package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/constants"
)

// PaginationParams holds the pagination parameters as requested
type PaginationParams struct {
	Page    int
	PerPage int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	From        *int  `json:"from"`
	To          *int  `json:"to"`
}

// GetPaginationParams reads page and per_page from the query string.
// Unparseable values come back as zero and are normalized by the services.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPage)))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(constants.DefaultPageSize)))

	return PaginationParams{
		Page:    page,
		PerPage: perPage,
	}
}

// NewPaginationResponse builds the metadata for one page of total items
func NewPaginationResponse(page, perPage int, total int64, count int) PaginationResponse {
	resp := PaginationResponse{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    1,
	}

	if perPage > 0 && total > 0 {
		resp.LastPage = int((total + int64(perPage) - 1) / int64(perPage))
	}
	if count > 0 {
		from := (page-1)*perPage + 1
		to := from + count - 1
		resp.From = &from
		resp.To = &to
	}

	return resp
}
