package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testDefaults = PaginationDefaults{PageSize: 10, MaxPageSize: 100}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		pageSize  string
		wantPage  int
		wantSize  int
		wantStart int
		wantEnd   int
	}{
		{"defaults when empty", "", "", 1, 10, 0, 9},
		{"explicit values", "3", "20", 3, 20, 40, 59},
		{"non-numeric page falls back", "abc", "5", 1, 5, 0, 4},
		{"zero page falls back", "0", "5", 1, 5, 0, 4},
		{"negative page falls back", "-2", "5", 1, 5, 0, 4},
		{"non-numeric size falls back", "2", "xyz", 2, 10, 10, 19},
		{"zero size falls back", "1", "0", 1, 10, 0, 9},
		{"size clamped to maximum", "1", "5000", 1, 100, 0, 99},
		{"float rejected", "1.5", "2.5", 1, 10, 0, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePagination(tt.page, tt.pageSize, testDefaults)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantSize, got.PageSize)
			assert.Equal(t, tt.wantStart, got.OffsetStart)
			assert.Equal(t, tt.wantEnd, got.OffsetEnd)
		})
	}
}

func TestParsePaginationNeverExceedsBounds(t *testing.T) {
	// For arbitrary garbage inputs the result must stay positive and
	// below the configured maximum.
	inputs := []string{"", "0", "-1", "99999999", "NaN", "1e9", "٣", " 2"}
	for _, p := range inputs {
		for _, ps := range inputs {
			got := ParsePagination(p, ps, testDefaults)
			assert.GreaterOrEqual(t, got.Page, 1, "page=%q pageSize=%q", p, ps)
			assert.GreaterOrEqual(t, got.PageSize, 1, "page=%q pageSize=%q", p, ps)
			assert.LessOrEqual(t, got.PageSize, testDefaults.MaxPageSize, "page=%q pageSize=%q", p, ps)
		}
	}
}

func TestNewPaginationMeta(t *testing.T) {
	tests := []struct {
		total          int64
		page, pageSize int
		wantPage       int
		wantTotalPages int
	}{
		{0, 1, 10, 1, 1},
		{1, 1, 10, 1, 1},
		{10, 1, 10, 1, 1},
		{11, 1, 10, 1, 2},
		{11, 2, 10, 2, 2},
		{11, 9, 10, 2, 2}, // page past the end clamps to last page
		{100, 5, 10, 5, 10},
		{0, 7, 10, 1, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("total=%d page=%d", tt.total, tt.page), func(t *testing.T) {
			got := NewPaginationMeta(tt.total, tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantTotalPages, got.TotalPages)
			assert.Equal(t, tt.total, got.Total)
		})
	}
}

func TestNewPaginationMetaInvariants(t *testing.T) {
	// totalPages >= 1 and page in [1, totalPages], for any total;
	// totalPages is monotonic in total.
	prevTotalPages := 0
	for total := int64(0); total <= 500; total += 7 {
		meta := NewPaginationMeta(total, 3, 25)
		assert.GreaterOrEqual(t, meta.TotalPages, 1)
		assert.GreaterOrEqual(t, meta.Page, 1)
		assert.LessOrEqual(t, meta.Page, meta.TotalPages)
		assert.GreaterOrEqual(t, meta.TotalPages, prevTotalPages)
		prevTotalPages = meta.TotalPages
	}
}
