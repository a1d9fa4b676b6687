package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Options{
		BaseURL:      server.URL,
		ImageBaseURL: "https://img.test/t/p/",
		Token:        "secret-token",
	})
	require.NoError(t, err)
	return client
}

func TestClient_SendsBearerAndLanguage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("accept"))
		assert.Equal(t, "en-US", r.URL.Query().Get("language"))
		assert.Equal(t, "/movie/top_rated", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		fmt.Fprint(w, `{"page":2,"total_pages":3,"total_results":60,"results":[{"id":1,"title":"Heat","vote_average":8.3}]}`)
	})

	page, err := client.MoviesByCategory(context.Background(), CategoryTopRated, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasMore())
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Heat", page.Results[0].Title)
}

func TestClient_NotConfigured(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	client, err := NewClient(Options{BaseURL: server.URL, Token: "  "})
	require.NoError(t, err)
	assert.False(t, client.Configured())

	_, err = client.SearchMovies(context.Background(), "batman", 1)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestClient_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"status_code":7,"status_message":"Invalid API key"}`)
	})

	_, err := client.MovieDetails(context.Background(), 42)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid API key", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "401")
}

func TestClient_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": [`)
	})

	_, err := client.TrendingMovies(context.Background(), "week")
	assert.Error(t, err)
}

func TestClient_MovieDetailsCached(t *testing.T) {
	var hits int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/movie/550", r.URL.Path)
		fmt.Fprint(w, `{"id":550,"title":"Fight Club","runtime":139,"budget":63000000,"genres":[{"id":18,"name":"Drama"}]}`)
	})

	first, err := client.MovieDetails(context.Background(), 550)
	require.NoError(t, err)
	second, err := client.MovieDetails(context.Background(), 550)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, 139, first.Runtime)
	assert.Equal(t, "Drama", first.Genres[0].Name)
}

func TestClient_Endpoints(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/movie/7/videos":
			fmt.Fprint(w, `{"id":7,"results":[{"key":"abc","name":"Trailer","site":"YouTube","type":"Trailer"}]}`)
		case "/movie/7/credits":
			fmt.Fprint(w, `{"id":7,"cast":[{"name":"Al Pacino","character":"Hanna"}],"crew":[{"name":"Someone","job":"Producer"},{"name":"Michael Mann","job":"Director"}]}`)
		case "/movie/7/similar":
			fmt.Fprint(w, `{"page":1,"total_pages":1,"results":[{"id":8}]}`)
		case "/search/movie":
			assert.Equal(t, "the batman", q.Get("query"))
			fmt.Fprint(w, `{"page":1,"total_pages":1,"results":[{"id":9,"title":"The Batman"}]}`)
		case "/trending/movie/week":
			fmt.Fprint(w, `{"page":1,"total_pages":1,"results":[{"id":10}]}`)
		case "/genre/movie/list":
			fmt.Fprint(w, `{"genres":[{"id":28,"name":"Action"},{"id":35,"name":"Comedy"}]}`)
		case "/discover/movie":
			assert.Equal(t, "28,35", q.Get("with_genres"))
			fmt.Fprint(w, `{"page":1,"total_pages":1}`)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	videos, err := client.MovieVideos(ctx, 7)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "abc", videos[0].Key)

	credits, err := client.MovieCredits(ctx, 7)
	require.NoError(t, err)
	director, ok := credits.Director()
	assert.True(t, ok)
	assert.Equal(t, "Michael Mann", director.Name)

	similar, err := client.SimilarMovies(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 8, similar.Results[0].ID)

	found, err := client.SearchMovies(ctx, "the batman", 1)
	require.NoError(t, err)
	assert.Equal(t, "The Batman", found.Results[0].Title)

	trending, err := client.TrendingMovies(ctx, "month")
	require.NoError(t, err)
	assert.Equal(t, 10, trending.Results[0].ID)

	genres, err := client.Genres(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 2)

	discovered, err := client.Discover(ctx, []int{28, 35}, 1)
	require.NoError(t, err)
	assert.NotNil(t, discovered.Results)
	assert.Empty(t, discovered.Results)
	assert.False(t, discovered.HasMore())

	_, err = client.MoviesByCategory(ctx, "nonsense", 1)
	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestClient_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"page":1,"total_pages":1,"results":[]}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.MoviesByCategory(ctx, CategoryPopular, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImageURLs(t *testing.T) {
	client, err := NewClient(Options{Token: "x"})
	require.NoError(t, err)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"poster", client.PosterURL("/abc.jpg"), "https://image.tmdb.org/t/p/w500/abc.jpg"},
		{"backdrop", client.BackdropURL("/bg.jpg"), "https://image.tmdb.org/t/p/original/bg.jpg"},
		{"sized", client.ImageURL("/p.jpg", SizeW200), "https://image.tmdb.org/t/p/w200/p.jpg"},
		{"no slash", client.ImageURL("p.jpg", ""), "https://image.tmdb.org/t/p/w500/p.jpg"},
		{"empty", client.PosterURL(""), ""},
		{"null", client.BackdropURL("null"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestMovie_ListItem(t *testing.T) {
	m := Movie{ID: 3, Title: "Heat", PosterPath: "/p.jpg", BackdropPath: "/b.jpg", VoteAverage: 8.3, ReleaseDate: "1995-12-15"}
	item := m.ListItem()
	assert.Equal(t, 3, item.ID)
	assert.Equal(t, "Heat", item.Title)
	assert.Equal(t, "/b.jpg", item.BackdropPath)
	assert.Equal(t, "1995-12-15", item.ReleaseDate)
	assert.Zero(t, item.Progress)
}
