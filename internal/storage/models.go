package storage

import (
	"time"
)

// Document keys for the durable lists.
const (
	WatchlistKey        = "watchlist"
	ContinueWatchingKey = "continue-watching"
	RecentSearchesKey   = "recent-searches"
)

// ListItem is one entry of the watchlist or the continue-watching list.
// Progress and Timestamp are only meaningful for continue-watching entries.
type ListItem struct {
	ID           int       `json:"id"`
	Title        string    `json:"title,omitempty"`
	BackdropPath string    `json:"backdrop_path,omitempty"`
	PosterPath   string    `json:"poster_path,omitempty"`
	VoteAverage  float64   `json:"vote_average,omitempty"`
	ReleaseDate  string    `json:"release_date,omitempty"`
	Progress     int       `json:"progress,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"password_hash"`
	AuthProvider string    `json:"auth_provider"`
	CreatedAt    time.Time `json:"created_at"`
}

type Session struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
