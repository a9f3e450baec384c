package pagination

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// PageInfo describes a keyset page.
type PageInfo struct {
	NextCursor  *string `json:"nextCursor"`
	HasNextPage bool    `json:"hasNextPage"`
	Limit       int     `json:"limit"`
}

// ClampLimit bounds limit to [1, max]. A non-positive max falls back to MaxLimit.
func ClampLimit(limit, max int) int {
	if max <= 0 {
		max = MaxLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > max {
		return max
	}
	return limit
}

// ParseLimit reads a raw limit parameter. Missing or non-numeric values use
// fallback; numeric values are floored and clamped.
func ParseLimit(raw string, fallback, max int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ClampLimit(fallback, max)
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return ClampLimit(n, max)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return ClampLimit(fallback, max)
	}
	if f > float64(math.MaxInt32) {
		return ClampLimit(math.MaxInt32, max)
	}
	if f < float64(math.MinInt32) {
		return ClampLimit(math.MinInt32, max)
	}
	return ClampLimit(int(math.Floor(f)), max)
}

// Trim takes rows fetched with limit+1 and returns at most limit rows plus
// the page descriptor. key extracts the sort key used for the next cursor.
func Trim[T any](rows []T, limit int, key func(T) Cursor) ([]T, PageInfo) {
	info := PageInfo{Limit: limit}
	if len(rows) > limit {
		info.HasNextPage = true
		rows = rows[:limit]
	}
	if info.HasNextPage && len(rows) > 0 {
		next := key(rows[len(rows)-1]).String()
		info.NextCursor = &next
	}
	return rows, info
}
