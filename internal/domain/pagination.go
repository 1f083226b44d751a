package domain

import "strconv"

// PaginationDefaults carries the configured page-size bounds.
// Constructed once from config and injected; never read from globals.
type PaginationDefaults struct {
	PageSize    int
	MaxPageSize int
}

// PaginationParams is the normalized result of parsing raw query
// parameters. OffsetStart/OffsetEnd form an inclusive range for
// range-based fetch APIs; repositories use OffsetStart with PageSize
// as LIMIT.
type PaginationParams struct {
	Page        int
	PageSize    int
	OffsetStart int
	OffsetEnd   int
}

// PaginationMeta echoes pagination back to the caller alongside the
// total row count.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// ParsePagination normalizes raw page/pageSize query parameters.
// Non-numeric or non-positive values fall back to page 1 and the
// configured default page size; the page size is clamped to the
// configured maximum regardless of the requested value.
func ParsePagination(rawPage, rawPageSize string, d PaginationDefaults) PaginationParams {
	page := parsePositiveInt(rawPage, 1)
	pageSize := parsePositiveInt(rawPageSize, d.PageSize)
	if d.MaxPageSize > 0 && pageSize > d.MaxPageSize {
		pageSize = d.MaxPageSize
	}

	start := (page - 1) * pageSize
	return PaginationParams{
		Page:        page,
		PageSize:    pageSize,
		OffsetStart: start,
		OffsetEnd:   start + pageSize - 1,
	}
}

// NewPaginationMeta builds pagination metadata from a total row count.
// TotalPages is always at least 1 and the echoed page is clamped into
// [1, TotalPages], so a request past the end reports the last page.
func NewPaginationMeta(total int64, page, pageSize int) PaginationMeta {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	totalPages := 1
	if total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	if page > totalPages {
		page = totalPages
	}

	return PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
