package search

import (
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/pders01/flix/internal/storage"
)

// ScanEngine scores every saved title on each query. It keeps no index on
// disk and serves as the fallback when the bleve index cannot be opened.
type ScanEngine struct {
	mu   sync.RWMutex
	docs []Hit
}

func NewScanEngine() *ScanEngine {
	return &ScanEngine{}
}

func (e *ScanEngine) Reindex(watchlist, continueWatching []storage.ListItem) error {
	docs := make([]Hit, 0, len(watchlist)+len(continueWatching))
	for _, item := range continueWatching {
		docs = append(docs, Hit{Item: item, Source: SourceContinueWatching})
	}
	for _, item := range watchlist {
		docs = append(docs, Hit{Item: item, Source: SourceWatchlist})
	}
	e.mu.Lock()
	e.docs = docs
	e.mu.Unlock()
	return nil
}

func (e *ScanEngine) Search(query string, limit int) ([]Hit, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []Hit{}, nil
	}
	terms := tokenize(query)
	if len(terms) == 0 {
		return []Hit{}, nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	var results []Hit
	for _, doc := range e.docs {
		score := scoreField(doc.Item.Title, terms, 4.0)
		score += scoreField(releaseYear(doc.Item.ReleaseDate), terms, 1.0)
		if score > 0 {
			doc.Score = score
			results = append(results, doc)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []Hit{}
	}
	return results, nil
}

func (e *ScanEngine) DocCount() (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.docs), nil
}

func (e *ScanEngine) Close() error {
	return nil
}

// scoreField rewards substring, whole-word and prefix matches and scales
// by how much of the field the terms cover.
func scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var score float64
	matchedTerms := 0

	for _, term := range terms {
		if strings.Contains(lower, term) {
			score += 2.0
			matchedTerms++
		}

		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
				matchedTerms++
			case strings.HasPrefix(word, term):
				score += 1.0
				matchedTerms++
			case strings.Contains(word, term):
				score += 0.5
				matchedTerms++
			}
		}
	}

	if len(terms) > 1 && matchedTerms > 1 {
		score *= 1.0 + float64(matchedTerms)/float64(len(terms))
	}

	tf := float64(matchedTerms) / float64(len(words))
	score *= 1.0 + math.Log(1.0+tf)

	return score * weight
}

// tokenize lower-cases text and splits it on anything that is not a letter
// or digit, dropping single characters.
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			if term := current.String(); len([]rune(term)) > 1 {
				terms = append(terms, term)
			}
			current.Reset()
		}
	}

	if term := current.String(); len([]rune(term)) > 1 {
		terms = append(terms, term)
	}

	return terms
}

func releaseYear(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}
