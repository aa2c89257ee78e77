package helpers

import (
	"net/http/httptest"
	"testing"

	"ticketbooth/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "/events", DefaultPage, DefaultLimit},
		{"explicit values", "/events?page=3&limit=50", 3, 50},
		{"limit clamped to max", "/events?limit=500", DefaultPage, MaxLimit},
		{"zero page falls back", "/events?page=0", DefaultPage, DefaultLimit},
		{"negative limit falls back", "/events?limit=-5", DefaultPage, DefaultLimit},
		{"non-numeric falls back", "/events?page=abc&limit=xyz", DefaultPage, DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			p := ParsePagination(r)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	meta := NewPaginationMeta(domain.PaginationParams{Page: 2, Limit: 20}, 45)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 20, meta.Limit)
	assert.Equal(t, 45, meta.Total)
	assert.Equal(t, 3, meta.Pages)

	empty := NewPaginationMeta(domain.PaginationParams{Page: 1, Limit: 20}, 0)
	assert.Equal(t, 0, empty.Pages)
}
