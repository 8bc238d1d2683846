package pagination

import "strconv"

// MaxLimit caps page sizes for candidate listings.
const (
	MaxLimit     = 30
	DefaultLimit = 10
)

// ClampLimit parses a limit query value and clamps it to [1, MaxLimit].
// Empty or unparsable input falls back to DefaultLimit.
func ClampLimit(raw string) int {
	limit := DefaultLimit
	if raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return limit
}

// ClampOffset parses an offset query value and clamps it to >= 0.
func ClampOffset(raw string) int {
	offset := 0
	if raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			offset = n
		}
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// Page slices the window [offset, offset+limit) out of a sorted full set.
func Page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
