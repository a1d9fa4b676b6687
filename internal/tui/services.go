package tui

import (
	"context"

	"github.com/pders01/flix/internal/auth"
	"github.com/pders01/flix/internal/catalog"
	"github.com/pders01/flix/internal/config"
	"github.com/pders01/flix/internal/library"
	"github.com/pders01/flix/internal/plugins"
	"github.com/pders01/flix/internal/search"
	"github.com/pders01/flix/internal/tmdb"
)

// Catalog is the part of the remote API the screens call directly.
type Catalog interface {
	catalog.Source
	MovieDetails(ctx context.Context, id int) (*tmdb.MovieDetails, error)
	MovieVideos(ctx context.Context, id int) ([]tmdb.Video, error)
	MovieCredits(ctx context.Context, id int) (*tmdb.Credits, error)
	SimilarMovies(ctx context.Context, id, page int) (*tmdb.Page, error)
	TrendingMovies(ctx context.Context, window string) (*tmdb.Page, error)
	Genres(ctx context.Context) ([]tmdb.Genre, error)
	PosterURL(path string) string
}

// TrailerResolver turns a catalog video into a playable URL.
type TrailerResolver interface {
	Resolve(ctx context.Context, video plugins.Video) (*plugins.PlaybackInfo, error)
}

// Opener hands a URL to an external program.
type Opener interface {
	Open(url string) error
}

// Deps are the services built once in main and shared by every screen.
type Deps struct {
	Config    *config.Config
	Catalog   Catalog
	Search    *search.Service
	Watchlist *library.Watchlist
	Continue  *library.ContinueWatching
	Auth      auth.Provider
	Trailers  TrailerResolver
	Player    Opener
}
