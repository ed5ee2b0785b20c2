package match

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireon/hireon/internal/models"
)

// fakeData is an in-memory DataSource and PostingSource.
type fakeData struct {
	seekers      map[string]*models.JobSeeker
	seekerSkills map[string][]models.SeekerSkill
	posts        []models.JobPost
	postSkills   map[string][]uint
}

func (f *fakeData) SeekerByID(_ context.Context, id string) (*models.JobSeeker, error) {
	seeker, ok := f.seekers[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return seeker, nil
}

func (f *fakeData) SeekerSkills(_ context.Context, id string) ([]models.SeekerSkill, error) {
	return f.seekerSkills[id], nil
}

func (f *fakeData) AllJobPosts(_ context.Context, limit int) ([]models.JobPost, error) {
	if limit < len(f.posts) {
		return f.posts[:limit], nil
	}
	return f.posts, nil
}

func (f *fakeData) JobPostSkillIDsBatch(_ context.Context, postIDs []string) (map[string][]uint, error) {
	out := make(map[string][]uint, len(postIDs))
	for _, id := range postIDs {
		out[id] = f.postSkills[id]
	}
	return out, nil
}

type fakeSkillNames map[uint]string

func (f fakeSkillNames) Names(_ context.Context) (map[uint]string, error) { return f, nil }

type failingEmbedder struct{}

func (failingEmbedder) GetBatch(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("model offline")
}

// uniformEmbedder maps every text to the same vector, so every semantic
// similarity is exactly 1.
type uniformEmbedder struct{}

func (uniformEmbedder) GetBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

var matchNames = fakeSkillNames{
	1: "Python",
	2: "SQL",
	3: "Sales",
	4: "Marketing",
	5: "React",
}

func recommenderFixture() *fakeData {
	return &fakeData{
		seekers: map[string]*models.JobSeeker{
			"seeker-1": {ID: "seeker-1", Bio: "Backend developer"},
		},
		seekerSkills: map[string][]models.SeekerSkill{
			"seeker-1": {
				{SkillID: 1, EndorsementCount: 5},
				{SkillID: 2, EndorsementCount: 3},
			},
		},
		posts: []models.JobPost{
			{ID: "post-a", Title: "Data Engineer", Description: "Python and SQL pipelines"},
			{ID: "post-b", Title: "Sales Rep", Description: "B2B sales"},
			{ID: "post-c", Title: "Fullstack Dev", Description: "Python and React"},
			{ID: "post-d", Title: "Frontend Dev", Description: "React only"},
		},
		postSkills: map[string][]uint{
			"post-a": {1, 2},
			"post-b": {3},
			"post-c": {1, 5},
			"post-d": {5},
		},
	}
}

func TestRecommendStructuralOnly(t *testing.T) {
	data := recommenderFixture()
	r := NewRecommender(data, matchNames, nil, nil)

	recs, err := r.Recommend(context.Background(), "seeker-1", 10)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	// post-a: full overlap, full endorsement mass, same category.
	assert.Equal(t, "post-a", recs[0].JobPostID)
	assert.InDelta(t, 1.0, recs[0].Score, 1e-9)

	// post-c: jaccard 1/3, endorsement 5/8, category match.
	assert.Equal(t, "post-c", recs[1].JobPostID)
	assert.InDelta(t, 0.4*(1.0/3.0)+0.2*(5.0/8.0)+0.4, recs[1].Score, 1e-4)

	// post-d: no overlap but same category, structural 0.4, then halved by
	// the low-overlap penalty.
	assert.Equal(t, "post-d", recs[2].JobPostID)
	assert.InDelta(t, 0.2, recs[2].Score, 1e-9)

	// post-b: cross-category tech vs sales, filtered out entirely.
	for _, rec := range recs {
		assert.NotEqual(t, "post-b", rec.JobPostID)
	}
}

func TestRecommendIsDeterministic(t *testing.T) {
	data := recommenderFixture()
	r := NewRecommender(data, matchNames, nil, nil)

	first, err := r.Recommend(context.Background(), "seeker-1", 10)
	require.NoError(t, err)
	second, err := r.Recommend(context.Background(), "seeker-1", 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRecommendDegradesOnEmbedFailure(t *testing.T) {
	data := recommenderFixture()

	structural := NewRecommender(data, matchNames, nil, nil)
	want, err := structural.Recommend(context.Background(), "seeker-1", 10)
	require.NoError(t, err)

	degraded := NewRecommender(data, matchNames, failingEmbedder{}, nil)
	got, err := degraded.Recommend(context.Background(), "seeker-1", 10)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestRecommendBlendsSemantics(t *testing.T) {
	data := recommenderFixture()
	r := NewRecommender(data, matchNames, uniformEmbedder{}, nil)

	recs, err := r.Recommend(context.Background(), "seeker-1", 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	// Structural 1.0 blended with semantic 1.0 stays at 1.0.
	assert.Equal(t, "post-a", recs[0].JobPostID)
	assert.InDelta(t, 1.0, recs[0].Score, 1e-9)
}

func TestRecommendTruncatesTopN(t *testing.T) {
	data := recommenderFixture()
	r := NewRecommender(data, matchNames, nil, nil)

	recs, err := r.Recommend(context.Background(), "seeker-1", 2)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	assert.Equal(t, "post-a", recs[0].JobPostID)
}

func TestRecommendSeekerWithoutSkills(t *testing.T) {
	data := recommenderFixture()
	data.seekers["seeker-2"] = &models.JobSeeker{ID: "seeker-2"}

	r := NewRecommender(data, matchNames, nil, nil)
	recs, err := r.Recommend(context.Background(), "seeker-2", 5)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecommendUnknownSeeker(t *testing.T) {
	r := NewRecommender(recommenderFixture(), matchNames, nil, nil)
	_, err := r.Recommend(context.Background(), "nobody", 5)
	assert.Error(t, err)
}

func TestRecommendScoresWithinBounds(t *testing.T) {
	data := recommenderFixture()
	r := NewRecommender(data, matchNames, uniformEmbedder{}, nil)

	recs, err := r.Recommend(context.Background(), "seeker-1", 10)
	require.NoError(t, err)
	for _, rec := range recs {
		assert.GreaterOrEqual(t, rec.Score, 0.0)
		assert.LessOrEqual(t, rec.Score, 1.0)
	}
}
