package vector

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/hireon/hireon/internal/embedding"
)

// artifactName is the persisted index artifact (documents, metadata, ids and
// the embedding matrix in one file, so the pair can never be half-written).
const artifactName = "jobs.index.gob"

const defaultQueryResults = 5

// Config configures an Index.
type Config struct {
	// DataDir is where the index artifact is persisted.
	DataDir string
	// Backend selects the searcher: BackendChromem (default) or BackendBrute.
	Backend string
	// Model identifies the embedding model. An artifact written by a
	// different model is treated as not indexed and rebuilt.
	Model string
}

// Index is the similarity index over job postings. It owns parallel
// sequences of documents and embeddings plus a searcher built over the
// embedding matrix.
//
// The index is shared process-wide: a rebuild swaps state under the write
// lock so queries never observe a half-rebuilt index.
type Index struct {
	mu sync.RWMutex

	cfg      Config
	provider embedding.Provider
	cache    *embedding.Cache
	corpus   CorpusLoader
	logger   *zap.Logger

	docs     []Document
	searcher searcher
	loaded   bool
}

// NewIndex creates an index. Corpus embeddings go through provider directly
// (they are one-time work); query embeddings go through cache.
func NewIndex(cfg Config, provider embedding.Provider, cache *embedding.Cache, corpus CorpusLoader, logger *zap.Logger) *Index {
	if cfg.Backend == "" {
		cfg.Backend = BackendChromem
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Index{
		cfg:      cfg,
		provider: provider,
		cache:    cache,
		corpus:   corpus,
		logger:   logger,
	}
}

// persistedIndex is the on-disk artifact layout.
type persistedIndex struct {
	Model      string
	IDs        []string
	Documents  []string
	Metadatas  []map[string]string
	Embeddings [][]float32
}

// Rebuild applies the rebuild policy: force=false with an existing index is
// a no-op returning current stats; force=true always rebuilds from the live
// corpus, discarding the old index. There is no incremental update.
func (i *Index) Rebuild(ctx context.Context, force bool) (Stats, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !force {
		if i.loaded || i.loadLocked() {
			i.logger.Info("index already exists, skipping rebuild",
				zap.Int("documents", len(i.docs)))
			return i.statsLocked(), nil
		}
	}

	if err := i.buildLocked(ctx); err != nil {
		return Stats{}, err
	}
	return i.statsLocked(), nil
}

// Query embeds text (through the cache, since queries repeat), runs
// k-nearest-neighbor search, and returns results in ascending-distance
// order. k is clamped to the corpus size; an empty corpus yields an empty
// result list.
func (i *Index) Query(ctx context.Context, text string, k int) ([]Result, error) {
	if err := i.ensureReady(ctx); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = defaultQueryResults
	}

	queryVec, err := i.cache.Get(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	if len(i.docs) == 0 || i.searcher == nil {
		return []Result{}, nil
	}
	if k > len(i.docs) {
		k = len(i.docs)
	}

	hits, err := i.searcher.search(ctx, queryVec, k)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		if h.index < 0 || h.index >= len(i.docs) {
			continue
		}
		doc := i.docs[h.index]
		results = append(results, Result{
			ID:       doc.ID,
			Document: doc.Text,
			Metadata: doc.Metadata,
			Distance: h.distance,
		})
	}
	return results, nil
}

// Stats reports the current index state, loading lazily if an artifact is
// present.
func (i *Index) Stats() Stats {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.loaded {
		i.loadLocked()
	}
	return i.statsLocked()
}

func (i *Index) statsLocked() Stats {
	status := "empty"
	if len(i.docs) > 0 {
		status = "ready"
	}
	return Stats{
		TotalJobs: len(i.docs),
		Backend:   i.cfg.Backend,
		Status:    status,
	}
}

// ensureReady lazily loads the index on first use, building from the corpus
// when no usable artifact exists.
func (i *Index) ensureReady(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.loaded {
		return nil
	}
	if i.loadLocked() {
		return nil
	}
	i.logger.Info("index artifact missing, building from corpus")
	return i.buildLocked(ctx)
}

// buildLocked embeds the full corpus and constructs the searcher. Caller
// holds the write lock.
func (i *Index) buildLocked(ctx context.Context) error {
	docs, err := i.corpus.LoadCorpus(ctx)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	if len(docs) == 0 {
		i.docs = nil
		i.searcher = nil
		i.loaded = true
		i.logger.Warn("no documents to index")
		return nil
	}

	texts := make([]string, len(docs))
	for idx, d := range docs {
		texts[idx] = d.Text
	}

	// Corpus embeddings bypass the query cache: every document is embedded
	// exactly once per build.
	const batchSize = 100
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := i.provider.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return fmt.Errorf("embed corpus batch: %w", err)
		}
		for j, vec := range vecs {
			docs[start+j].Embedding = vec
		}
	}

	srch, err := i.newSearcher(ctx, docs)
	if err != nil {
		return err
	}

	i.docs = docs
	i.searcher = srch
	i.loaded = true

	if err := i.saveLocked(); err != nil {
		// A failed save leaves the in-memory index usable; the next process
		// start rebuilds.
		i.logger.Error("persist index", zap.Error(err))
	}

	i.logger.Info("index built",
		zap.Int("documents", len(docs)),
		zap.String("backend", i.cfg.Backend))
	return nil
}

func (i *Index) newSearcher(ctx context.Context, docs []Document) (searcher, error) {
	embeddings := make([][]float32, len(docs))
	ids := make([]string, len(docs))
	texts := make([]string, len(docs))
	for idx, d := range docs {
		embeddings[idx] = d.Embedding
		ids[idx] = d.ID
		texts[idx] = d.Text
	}

	switch i.cfg.Backend {
	case BackendBrute:
		return newBruteSearcher(embeddings), nil
	default:
		return newChromemSearcher(ctx, ids, texts, embeddings)
	}
}

// loadLocked reads the artifact and reconstructs the searcher. Returns false
// when the artifact is missing, unreadable, or written by a different
// embedding model; none of these are fatal. Caller holds the write lock.
func (i *Index) loadLocked() bool {
	path := filepath.Join(i.cfg.DataDir, artifactName)

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	var persisted persistedIndex
	if err := gob.NewDecoder(f).Decode(&persisted); err != nil {
		i.logger.Warn("unreadable index artifact, will rebuild", zap.Error(err))
		return false
	}

	if persisted.Model != i.cfg.Model {
		i.logger.Warn("index artifact built with different embedding model, will rebuild",
			zap.String("artifact_model", persisted.Model),
			zap.String("configured_model", i.cfg.Model))
		return false
	}

	n := len(persisted.IDs)
	if len(persisted.Documents) != n || len(persisted.Metadatas) != n || len(persisted.Embeddings) != n {
		i.logger.Warn("inconsistent index artifact, will rebuild")
		return false
	}

	docs := make([]Document, n)
	for idx := 0; idx < n; idx++ {
		docs[idx] = Document{
			ID:        persisted.IDs[idx],
			Text:      persisted.Documents[idx],
			Metadata:  persisted.Metadatas[idx],
			Embedding: persisted.Embeddings[idx],
		}
	}

	srch, err := i.newSearcher(context.Background(), docs)
	if err != nil {
		i.logger.Warn("reconstruct searcher from artifact", zap.Error(err))
		return false
	}

	i.docs = docs
	i.searcher = srch
	i.loaded = true
	i.logger.Info("index loaded", zap.Int("documents", n))
	return true
}

// saveLocked writes the artifact atomically (temp file + rename). Caller
// holds the write lock.
func (i *Index) saveLocked() error {
	if err := os.MkdirAll(i.cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	persisted := persistedIndex{
		Model:      i.cfg.Model,
		IDs:        make([]string, len(i.docs)),
		Documents:  make([]string, len(i.docs)),
		Metadatas:  make([]map[string]string, len(i.docs)),
		Embeddings: make([][]float32, len(i.docs)),
	}
	for idx, d := range i.docs {
		persisted.IDs[idx] = d.ID
		persisted.Documents[idx] = d.Text
		persisted.Metadatas[idx] = d.Metadata
		persisted.Embeddings[idx] = d.Embedding
	}

	tmp, err := os.CreateTemp(i.cfg.DataDir, artifactName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if err := gob.NewEncoder(tmp).Encode(&persisted); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp artifact: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(i.cfg.DataDir, artifactName)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace artifact: %w", err)
	}
	return nil
}
