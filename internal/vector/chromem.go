package vector

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
)

// chromemSearcher wraps a chromem-go collection as the primary
// nearest-neighbor backend. Embeddings are always supplied precomputed; the
// collection's own embedding function is never invoked.
type chromemSearcher struct {
	collection *chromem.Collection
	byID       map[string]int
}

func newChromemSearcher(ctx context.Context, ids []string, texts []string, embeddings [][]float32) (*chromemSearcher, error) {
	db := chromem.NewDB()

	embedFn := func(_ context.Context, _ string) ([]float32, error) {
		return nil, errors.New("collection uses precomputed embeddings only")
	}

	collection, err := db.CreateCollection("jobs", nil, embedFn)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	docs := make([]chromem.Document, len(ids))
	byID := make(map[string]int, len(ids))
	for i := range ids {
		docs[i] = chromem.Document{
			ID:        ids[i],
			Content:   texts[i],
			Embedding: embeddings[i],
			Metadata:  map[string]string{"pos": strconv.Itoa(i)},
		}
		byID[ids[i]] = i
	}

	if len(docs) > 0 {
		if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
			return nil, fmt.Errorf("add documents: %w", err)
		}
	}

	return &chromemSearcher{collection: collection, byID: byID}, nil
}

func (s *chromemSearcher) search(ctx context.Context, query []float32, k int) ([]hit, error) {
	if count := s.collection.Count(); k > count {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := s.collection.QueryEmbedding(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	hits := make([]hit, 0, len(results))
	for _, r := range results {
		idx, ok := s.byID[r.ID]
		if !ok {
			continue
		}
		hits = append(hits, hit{
			index:    idx,
			distance: 1 - float64(r.Similarity),
		})
	}
	return hits, nil
}
