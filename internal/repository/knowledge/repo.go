// Package knowledge stores embeddings of past analyses and retrieves similar
// ones by vector search.
package knowledge

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/zoeklicht/zoeklicht/internal/db"
	"github.com/zoeklicht/zoeklicht/internal/domain"
)

const (
	keyPrefix = domain.KeyPrefix + "analyses:"
	indexName = keyPrefix + "idx"
)

// store is the consumer interface for the knowledge repository (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo persists analysis embeddings in Redis hashes behind an HNSW FT index.
type Repo struct {
	store  store
	dim    int
	logger *zap.Logger
}

// New creates a knowledge repository for vectors of the given dimension.
func New(s store, dim int, logger *zap.Logger) *Repo {
	return &Repo{store: s, dim: dim, logger: logger}
}

// EnsureIndex creates the vector index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, indexName)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     indexName,
		Prefixes: []string{keyPrefix},
		Fields: []db.IndexField{
			{Name: "summary", Type: db.IndexFieldText},
			{Name: "analyzed_at", Type: db.IndexFieldNumeric},
			{
				Name:           "vector",
				Type:           db.IndexFieldVector,
				VectorAlgo:     db.VectorHNSW,
				VectorDim:      r.dim,
				VectorDistance: db.DistanceCosine,
			},
		},
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	r.logger.Info("knowledge index created", zap.String("index", indexName), zap.Int("dim", r.dim))
	return nil
}

// Add stores one analyzed page with its embedding.
func (r *Repo) Add(ctx context.Context, id, url, summary string, vector []float32, analyzedAt int64) error {
	if len(vector) != r.dim {
		return fmt.Errorf("vector dimension %d, want %d", len(vector), r.dim)
	}

	fields := map[string]string{
		"url":         url,
		"summary":     summary,
		"analyzed_at": strconv.FormatInt(analyzedAt, 10),
		"vector":      vectorToBytes(vector),
	}
	if err := r.store.HSet(ctx, keyPrefix+id, fields); err != nil {
		return fmt.Errorf("store analysis %s: %w", id, err)
	}
	return nil
}

// QuerySimilar returns up to topK past analyses ranked by cosine similarity.
func (r *Repo) QuerySimilar(ctx context.Context, vector []float32, topK int) ([]domain.SimilarAnalysis, error) {
	q := &db.KNNQuery{
		IndexName:    indexName,
		Vector:       vector,
		K:            topK,
		ReturnFields: []string{"url", "summary", "__vector_score"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search similar analyses: %w", err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	results := make([]domain.SimilarAnalysis, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		results = append(results, domain.SimilarAnalysis{
			ID:      strings.TrimPrefix(entry.Key, keyPrefix),
			URL:     entry.Fields["url"],
			Summary: entry.Fields["summary"],
			Score:   entry.Score,
		})
	}
	return results, nil
}

func vectorToBytes(vec []float32) string {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return string(buf)
}
