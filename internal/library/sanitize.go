package library

import (
	"math"
	"strings"

	"github.com/pders01/flix/internal/storage"
)

// sanitizeItems coerces entries read from disk: ids must be positive and
// unique, vote averages sit in 0..10 and progress in 0..100. A positive
// limit truncates the result.
func sanitizeItems(items []storage.ListItem, limit int) []storage.ListItem {
	out := make([]storage.ListItem, 0, len(items))
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, normalizeItem(item))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func normalizeItem(item storage.ListItem) storage.ListItem {
	item.Title = strings.TrimSpace(item.Title)
	item.VoteAverage = clampFloat(item.VoteAverage, 0, 10)
	item.Progress = ClampProgress(item.Progress)
	return item
}

// ClampProgress bounds a completion percentage to 0..100.
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sanitizeTerms(terms []string, limit int) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func indexOfID(items []storage.ListItem, id int) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func withoutIndex[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// prepend puts v first, drops any element matching same and applies limit.
func prepend[T any](items []T, v T, same func(T) bool, limit int) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, v)
	for _, existing := range items {
		if same(existing) {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, existing)
	}
	return out
}
