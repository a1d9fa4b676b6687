package tmdb

import "github.com/pders01/flix/internal/storage"

// Movie is the summary record returned by every list endpoint.
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Popularity   float64 `json:"popularity"`
	GenreIDs     []int   `json:"genre_ids"`
	Adult        bool    `json:"adult"`
}

// ListItem converts the summary into the persisted list shape.
func (m Movie) ListItem() storage.ListItem {
	return storage.ListItem{
		ID:           m.ID,
		Title:        m.Title,
		BackdropPath: m.BackdropPath,
		PosterPath:   m.PosterPath,
		VoteAverage:  m.VoteAverage,
		ReleaseDate:  m.ReleaseDate,
	}
}

// Page is the paginated envelope shared by category, search, similar,
// trending and discover responses.
type Page struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// HasMore reports whether a later page exists.
func (p *Page) HasMore() bool {
	return p.Page < p.TotalPages
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type genreList struct {
	Genres []Genre `json:"genres"`
}

type MovieDetails struct {
	Movie
	Tagline     string  `json:"tagline"`
	Runtime     int     `json:"runtime"`
	Status      string  `json:"status"`
	Budget      int64   `json:"budget"`
	Revenue     int64   `json:"revenue"`
	Homepage    string  `json:"homepage"`
	IMDbID      string  `json:"imdb_id"`
	Genres      []Genre `json:"genres"`
	SpokenLangs []struct {
		EnglishName string `json:"english_name"`
	} `json:"spoken_languages"`
}

type Video struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at"`
}

type videoList struct {
	ID      int     `json:"id"`
	Results []Video `json:"results"`
}

type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

type Credits struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Director returns the first crew member credited as director.
func (c *Credits) Director() (CrewMember, bool) {
	for _, member := range c.Crew {
		if member.Job == "Director" {
			return member, true
		}
	}
	return CrewMember{}, false
}

type errorBody struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
