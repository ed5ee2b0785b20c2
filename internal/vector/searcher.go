package vector

import (
	"context"
	"sort"
)

// searcher is the capability boundary between the index and its
// nearest-neighbor backend. Both backends are selected at construction time;
// call sites never branch on the backend.
type searcher interface {
	// search returns up to k hits ordered by ascending distance.
	search(ctx context.Context, query []float32, k int) ([]hit, error)
}

// hit addresses a document by position in the index's parallel sequences.
type hit struct {
	index    int
	distance float64
}

// Backend names.
const (
	BackendChromem = "chromem"
	BackendBrute   = "brute"
)

// bruteSearcher is the fallback backend: a full cosine scan over the raw
// embedding matrix.
type bruteSearcher struct {
	embeddings [][]float32
}

func newBruteSearcher(embeddings [][]float32) *bruteSearcher {
	return &bruteSearcher{embeddings: embeddings}
}

func (s *bruteSearcher) search(_ context.Context, query []float32, k int) ([]hit, error) {
	hits := make([]hit, 0, len(s.embeddings))
	for i, emb := range s.embeddings {
		hits = append(hits, hit{
			index:    i,
			distance: 1 - CosineSimilarity(query, emb),
		})
	}

	// Ties break on original position for reproducible ordering.
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].distance != hits[j].distance {
			return hits[i].distance < hits[j].distance
		}
		return hits[i].index < hits[j].index
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}
