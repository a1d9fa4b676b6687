// Package tmdb is a small client for the remote movie catalog API.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pders01/flix/internal/debuglog"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	DefaultLanguage     = "en-US"

	defaultTimeout   = 15 * time.Second
	defaultCacheSize = 64
)

// Named listings accepted by MoviesByCategory.
const (
	CategoryNowPlaying = "now_playing"
	CategoryPopular    = "popular"
	CategoryTopRated   = "top_rated"
	CategoryUpcoming   = "upcoming"
)

var Categories = []string{CategoryNowPlaying, CategoryPopular, CategoryTopRated, CategoryUpcoming}

// ErrNotConfigured is returned by every call when no bearer token was given.
var ErrNotConfigured = errors.New("tmdb: no API token configured")

// APIError is a non-2xx response from the catalog.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("tmdb: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("tmdb: status %d", e.StatusCode)
}

type Options struct {
	BaseURL      string
	ImageBaseURL string
	Token        string
	Language     string
	Timeout      time.Duration
	CacheSize    int
	HTTPClient   *http.Client
}

type Client struct {
	baseURL      string
	imageBaseURL string
	token        string
	language     string
	httpc        *http.Client
	details      *lru.Cache[int, *MovieDetails]
}

func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.ImageBaseURL == "" {
		opts.ImageBaseURL = DefaultImageBaseURL
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: opts.Timeout}
	}

	cache, err := lru.New[int, *MovieDetails](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating detail cache: %w", err)
	}

	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(opts.ImageBaseURL, "/"),
		token:        strings.TrimSpace(opts.Token),
		language:     opts.Language,
		httpc:        httpc,
		details:      cache,
	}, nil
}

// Configured reports whether a bearer token is set.
func (c *Client) Configured() bool {
	return c.token != ""
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("language", c.language)
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		debuglog.WithFields(map[string]any{"path": path}).Warnf("catalog request failed: %v", err)
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	debuglog.WithFields(map[string]any{
		"path":    path,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debugf("catalog request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil {
			apiErr.Message = eb.StatusMessage
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": []string{strconv.Itoa(page)}}
}

func (c *Client) fetchPage(ctx context.Context, path string, query url.Values) (*Page, error) {
	var page Page
	if err := c.get(ctx, path, query, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []Movie{}
	}
	return &page, nil
}

// MoviesByCategory fetches one page of a named listing such as now_playing.
func (c *Client) MoviesByCategory(ctx context.Context, category string, page int) (*Page, error) {
	if category == "" {
		category = CategoryNowPlaying
	}
	return c.fetchPage(ctx, "/movie/"+url.PathEscape(category), pageQuery(page))
}

// MovieDetails is served from the LRU cache after the first fetch.
func (c *Client) MovieDetails(ctx context.Context, id int) (*MovieDetails, error) {
	if cached, ok := c.details.Get(id); ok {
		return cached, nil
	}
	var details MovieDetails
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id), nil, &details); err != nil {
		return nil, err
	}
	c.details.Add(id, &details)
	return &details, nil
}

func (c *Client) MovieVideos(ctx context.Context, id int) ([]Video, error) {
	var videos videoList
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id)+"/videos", nil, &videos); err != nil {
		return nil, err
	}
	return videos.Results, nil
}

func (c *Client) MovieCredits(ctx context.Context, id int) (*Credits, error) {
	var credits Credits
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id)+"/credits", nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

func (c *Client) SimilarMovies(ctx context.Context, id, page int) (*Page, error) {
	return c.fetchPage(ctx, "/movie/"+strconv.Itoa(id)+"/similar", pageQuery(page))
}

func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*Page, error) {
	q := pageQuery(page)
	q.Set("query", query)
	return c.fetchPage(ctx, "/search/movie", q)
}

// TrendingMovies accepts "day" or "week"; anything else means week.
func (c *Client) TrendingMovies(ctx context.Context, window string) (*Page, error) {
	if window != "day" {
		window = "week"
	}
	return c.fetchPage(ctx, "/trending/movie/"+window, nil)
}

func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	var list genreList
	if err := c.get(ctx, "/genre/movie/list", nil, &list); err != nil {
		return nil, err
	}
	return list.Genres, nil
}

// Discover lists movies matching every genre in genreIDs.
func (c *Client) Discover(ctx context.Context, genreIDs []int, page int) (*Page, error) {
	q := pageQuery(page)
	if len(genreIDs) > 0 {
		parts := make([]string, len(genreIDs))
		for i, id := range genreIDs {
			parts[i] = strconv.Itoa(id)
		}
		q.Set("with_genres", strings.Join(parts, ","))
	}
	return c.fetchPage(ctx, "/discover/movie", q)
}
