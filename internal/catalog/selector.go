// Package catalog pages through remote movie listings.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pders01/flix/internal/tmdb"
)

var ErrInvalidSelector = errors.New("catalog: selector needs a category or at least one genre")

// Selector names the listing to page through: a genre set when GenreIDs is
// non-empty, the named category otherwise.
type Selector struct {
	Category string
	GenreIDs []int
}

func CategorySelector(category string) Selector {
	return Selector{Category: category}
}

// GenreSelector sorts and dedups ids so equal sets produce equal keys.
func GenreSelector(ids ...int) Selector {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return Selector{GenreIDs: slices.Compact(sorted)}
}

func (s Selector) IsGenre() bool {
	return len(s.GenreIDs) > 0
}

// Key identifies the listing, e.g. "category:popular" or "genres:28,35".
func (s Selector) Key() string {
	if s.IsGenre() {
		parts := make([]string, len(s.GenreIDs))
		for i, id := range s.GenreIDs {
			parts[i] = strconv.Itoa(id)
		}
		return "genres:" + strings.Join(parts, ",")
	}
	return "category:" + s.Category
}

func (s Selector) Validate() error {
	if s.IsGenre() {
		for _, id := range s.GenreIDs {
			if id <= 0 {
				return fmt.Errorf("%w: invalid genre id %d", ErrInvalidSelector, id)
			}
		}
		return nil
	}
	if strings.TrimSpace(s.Category) == "" {
		return ErrInvalidSelector
	}
	if !slices.Contains(tmdb.Categories, s.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidSelector, s.Category)
	}
	return nil
}

func (s Selector) String() string {
	return s.Key()
}
