package tui

import (
	"errors"
	"fmt"

	"github.com/pders01/flix/internal/tmdb"
)

var errNoTrailer = errors.New(MsgNoTrailer)

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// userMessage is the short form shown in the status bar.
func userMessage(err error) string {
	var apiErr *tmdb.APIError
	switch {
	case errors.Is(err, tmdb.ErrNotConfigured):
		return "catalog token missing: set FLIX_CATALOG_TOKEN or catalog.token"
	case errors.As(err, &apiErr):
		return fmt.Sprintf("catalog error %d: %s", apiErr.StatusCode, apiErr.Message)
	default:
		return err.Error()
	}
}

var errNoPoster = errors.New("no poster available")
