// Package vector implements the persisted similarity index over job postings.
package vector

import "math"

// Document is one indexed entry: a job posting rendered to text plus its
// embedding. All embeddings in one index come from the same model.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
	// Embedding is populated at build time; documents loaded from a corpus
	// source arrive without one.
	Embedding []float32
}

// Result is a single nearest-neighbor hit. Distance is 1 - cosine
// similarity, so results sort ascending.
type Result struct {
	ID       string            `json:"id"`
	Document string            `json:"document"`
	Metadata map[string]string `json:"metadata"`
	Distance float64           `json:"distance"`
}

// Stats describes the state of the index.
type Stats struct {
	TotalJobs int    `json:"total_jobs"`
	Backend   string `json:"backend"`
	Status    string `json:"status"`
}

// CosineSimilarity computes the cosine similarity of two vectors. A zero-norm
// vector on either side yields exactly 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
