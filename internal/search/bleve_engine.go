package search

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/flix/internal/storage"
)

type BleveIndex struct {
	idx bleve.Index
}

// NewBleveIndex opens or creates the index at indexPath. An empty path
// keeps the index in memory.
func NewBleveIndex(indexPath string) (*BleveIndex, error) {
	if indexPath == "" {
		idx, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("creating in-memory index: %w", err)
		}
		return &BleveIndex{idx: idx}, nil
	}

	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	idx, err := bleve.Open(indexPath)
	if err != nil {
		idx, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("creating index: %w", err)
		}
	}
	return &BleveIndex{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	year := bleve.NewTextFieldMapping()
	year.Analyzer = keyword.Name
	year.Store = false

	source := bleve.NewTextFieldMapping()
	source.Analyzer = keyword.Name
	source.Store = true

	stored := bleve.NewTextFieldMapping()
	stored.Index = false
	stored.Store = true

	numeric := bleve.NewNumericFieldMapping()
	numeric.Index = false
	numeric.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("year", year)
	dm.AddFieldMappingsAt("source", source)
	dm.AddFieldMappingsAt("release_date", stored)
	dm.AddFieldMappingsAt("poster_path", stored)
	dm.AddFieldMappingsAt("backdrop_path", stored)
	dm.AddFieldMappingsAt("movie_id", numeric)
	dm.AddFieldMappingsAt("vote_average", numeric)
	dm.AddFieldMappingsAt("progress", numeric)

	im.DefaultMapping = dm
	return im
}

func docID(source string, id int) string {
	return source + ":" + strconv.Itoa(id)
}

func document(source string, item storage.ListItem) map[string]any {
	return map[string]any{
		"title":         item.Title,
		"year":          releaseYear(item.ReleaseDate),
		"source":        source,
		"release_date":  item.ReleaseDate,
		"poster_path":   item.PosterPath,
		"backdrop_path": item.BackdropPath,
		"movie_id":      float64(item.ID),
		"vote_average":  item.VoteAverage,
		"progress":      float64(item.Progress),
	}
}

// Reindex replaces every document with the given list contents in a
// single batch.
func (b *BleveIndex) Reindex(watchlist, continueWatching []storage.ListItem) error {
	existing, err := b.allIDs()
	if err != nil {
		return err
	}

	batch := b.idx.NewBatch()
	for _, id := range existing {
		batch.Delete(id)
	}
	for _, item := range watchlist {
		if err := batch.Index(docID(SourceWatchlist, item.ID), document(SourceWatchlist, item)); err != nil {
			return fmt.Errorf("indexing %d: %w", item.ID, err)
		}
	}
	for _, item := range continueWatching {
		if err := batch.Index(docID(SourceContinueWatching, item.ID), document(SourceContinueWatching, item)); err != nil {
			return fmt.Errorf("indexing %d: %w", item.ID, err)
		}
	}
	return b.idx.Batch(batch)
}

func (b *BleveIndex) allIDs() ([]string, error) {
	count, err := b.idx.DocCount()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), int(count), 0, false)
	res, err := b.idx.Search(req)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(res.Hits))
	for _, h := range res.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

func (b *BleveIndex) Search(query string, limit int) ([]Hit, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []Hit{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	var qs []bleveQuery.Query
	for _, tok := range tokenize(query) {
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("title")
		qt.SetBoost(4.0)
		qs = append(qs, qt)

		qtp := bleve.NewPrefixQuery(tok)
		qtp.SetField("title")
		qtp.SetBoost(3.5)
		qs = append(qs, qtp)

		qy := bleve.NewTermQuery(tok)
		qy.SetField("year")
		qy.SetBoost(1.0)
		qs = append(qs, qy)
	}
	if len(qs) == 0 {
		return []Hit{}, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	req.Fields = []string{"title", "source", "release_date", "poster_path", "backdrop_path", "movie_id", "vote_average", "progress"}
	res, err := b.idx.Search(req)
	if err != nil {
		return nil, err
	}

	out := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := Hit{Score: h.Score}
		if s, ok := h.Fields["source"].(string); ok {
			hit.Source = s
		}
		if t, ok := h.Fields["title"].(string); ok {
			hit.Item.Title = t
		}
		if d, ok := h.Fields["release_date"].(string); ok {
			hit.Item.ReleaseDate = d
		}
		if p, ok := h.Fields["poster_path"].(string); ok {
			hit.Item.PosterPath = p
		}
		if p, ok := h.Fields["backdrop_path"].(string); ok {
			hit.Item.BackdropPath = p
		}
		if id, ok := h.Fields["movie_id"].(float64); ok {
			hit.Item.ID = int(id)
		}
		if v, ok := h.Fields["vote_average"].(float64); ok {
			hit.Item.VoteAverage = v
		}
		if p, ok := h.Fields["progress"].(float64); ok {
			hit.Item.Progress = int(p)
		}
		out = append(out, hit)
	}
	return out, nil
}

// DocCount reports total documents in the index.
func (b *BleveIndex) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	return int(n), err
}

func (b *BleveIndex) Close() error {
	return b.idx.Close()
}
