package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nalgeon/be"
)

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		page    int
		perPage int
	}{
		{name: "defaults", query: "", page: 1, perPage: 10},
		{name: "explicit", query: "?page=3&per_page=50", page: 3, perPage: 50},
		{name: "garbage", query: "?page=abc&per_page=x", page: 0, perPage: 0},
	}

	gin.SetMode(gin.TestMode)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/api/tasks"+tt.query, nil)

			params := GetPaginationParams(c)
			be.Equal(t, params.Page, tt.page)
			be.Equal(t, params.PerPage, tt.perPage)
		})
	}
}

func TestNewPaginationResponse(t *testing.T) {
	resp := NewPaginationResponse(2, 10, 25, 10)
	be.Equal(t, resp.LastPage, 3)
	be.Equal(t, *resp.From, 11)
	be.Equal(t, *resp.To, 20)

	resp = NewPaginationResponse(3, 10, 25, 5)
	be.Equal(t, *resp.From, 21)
	be.Equal(t, *resp.To, 25)

	empty := NewPaginationResponse(1, 10, 0, 0)
	be.Equal(t, empty.LastPage, 1)
	be.Equal(t, empty.From, (*int)(nil))
	be.Equal(t, empty.To, (*int)(nil))
}
