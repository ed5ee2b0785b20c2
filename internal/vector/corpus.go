package vector

import (
	"context"
	"fmt"

	"github.com/hireon/hireon/internal/models"
)

// CorpusLoader supplies the full document corpus for an index build.
type CorpusLoader interface {
	LoadCorpus(ctx context.Context) ([]Document, error)
}

// CorpusSource is the slice of the data layer the job corpus needs.
type CorpusSource interface {
	AllJobPosts(ctx context.Context, limit int) ([]models.JobPost, error)
	JobPostSkillIDsBatch(ctx context.Context, jobPostIDs []string) (map[string][]uint, error)
	AllSkillNames(ctx context.Context) (map[uint]string, error)
}

// JobCorpus loads all job postings from the data layer as index documents.
type JobCorpus struct {
	data       CorpusSource
	fetchLimit int
}

// NewJobCorpus creates a corpus over the data layer. limit caps how many
// postings are indexed; non-positive uses the standard 1000 fetch limit.
func NewJobCorpus(data CorpusSource, limit int) *JobCorpus {
	if limit <= 0 {
		limit = 1000
	}
	return &JobCorpus{data: data, fetchLimit: limit}
}

// LoadCorpus renders every posting into an embeddable document. Skill ids
// missing from the name map contribute nothing to the rendered text.
func (c *JobCorpus) LoadCorpus(ctx context.Context) ([]Document, error) {
	posts, err := c.data.AllJobPosts(ctx, c.fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("load postings: %w", err)
	}
	if len(posts) == 0 {
		return nil, nil
	}

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	skillIDs, err := c.data.JobPostSkillIDsBatch(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load posting skills: %w", err)
	}
	names, err := c.data.AllSkillNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("load skill names: %w", err)
	}

	docs := make([]Document, 0, len(posts))
	for i := range posts {
		post := &posts[i]

		var skillNames []string
		for _, id := range skillIDs[post.ID] {
			if name, ok := names[id]; ok && name != "" {
				skillNames = append(skillNames, name)
			}
		}

		docs = append(docs, Document{
			ID:       post.ID,
			Text:     FormatJob(post, skillNames),
			Metadata: JobMetadata(post, skillNames),
		})
	}
	return docs, nil
}
