package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireon/hireon/internal/cv"
	"github.com/hireon/hireon/internal/models"
)

func cvFixture() *fakeData {
	return &fakeData{
		posts: []models.JobPost{
			{ID: "post-a", Title: "Data Engineer", Requirements: "3+ years Python"},
			{ID: "post-b", Title: "Marketing Lead", Requirements: "campaign experience"},
			{ID: "post-c", Title: "Senior Architect", Requirements: "10 years required"},
		},
		postSkills: map[string][]uint{
			"post-a": {1, 2},
			"post-b": {4},
			"post-c": {99}, // id with no known name
		},
	}
}

func TestCVMatch(t *testing.T) {
	matcher := NewCVMatcher(cv.PlainTextExtractor{}, cvFixture(), matchNames, nil, nil)

	resume := []byte("Python and SQL developer with 5 years of experience. Bachelor of Science.")
	result, err := matcher.Match(context.Background(), resume, "resume.txt", 10)
	require.NoError(t, err)

	// Detected skills come back in vocabulary id order, stable across calls.
	assert.Equal(t, []string{"Python", "SQL"}, result.CVAnalysis.SkillsFound)
	assert.Equal(t, 2, result.CVAnalysis.SkillsCount)
	assert.Equal(t, 5, result.CVAnalysis.ExperienceYears)
	assert.Equal(t, "bachelor", result.CVAnalysis.EducationLevel)
	assert.Equal(t, 3, result.TotalJobsScanned)

	// post-a: full name overlap, 5 >= 3 required years, bachelor.
	// 0.5*1 + 0.3*0 + 0.2*(0.6+0.4) = 0.7
	require.NotEmpty(t, result.MatchedJobs)
	assert.Equal(t, "post-a", result.MatchedJobs[0].JobPostID)
	assert.InDelta(t, 0.7, result.MatchedJobs[0].Score, 1e-9)

	// post-b has a known skill set with no overlap: pre-filtered.
	for _, job := range result.MatchedJobs {
		assert.NotEqual(t, "post-b", job.JobPostID)
	}

	// post-c survives the pre-filter (no resolvable skill names) and keeps
	// only the education part of the score: 0.2*0.4 = 0.08.
	require.Len(t, result.MatchedJobs, 2)
	assert.Equal(t, "post-c", result.MatchedJobs[1].JobPostID)
	assert.InDelta(t, 0.08, result.MatchedJobs[1].Score, 1e-9)
}

func TestCVMatchNoSkillsDetected(t *testing.T) {
	matcher := NewCVMatcher(cv.PlainTextExtractor{}, cvFixture(), matchNames, nil, nil)

	_, err := matcher.Match(context.Background(), []byte("I enjoy hiking and cooking."), "resume.txt", 10)
	assert.ErrorIs(t, err, ErrNoSkillsDetected)
}

func TestCVMatchUnsupportedFile(t *testing.T) {
	matcher := NewCVMatcher(cv.PlainTextExtractor{}, cvFixture(), matchNames, nil, nil)

	_, err := matcher.Match(context.Background(), []byte("Python"), "resume.exe", 10)
	var unsupported *cv.ErrUnsupportedFormat
	assert.ErrorAs(t, err, &unsupported)
}

func TestCVMatchDropsVeryLowScores(t *testing.T) {
	data := &fakeData{
		posts: []models.JobPost{
			{ID: "post-x", Title: "Architect", Requirements: "10 years required"},
		},
		postSkills: map[string][]uint{
			"post-x": {99}, // unresolvable skill name, semantic-only candidate
		},
	}
	matcher := NewCVMatcher(cv.PlainTextExtractor{}, data, matchNames, nil, nil)

	// No year or education mention: expEdu = 0 + 0.2, total 0.2*0.2 = 0.04.
	result, err := matcher.Match(context.Background(), []byte("Python enthusiast"), "resume.txt", 10)
	require.NoError(t, err)
	assert.Empty(t, result.MatchedJobs)
}

func TestCVMatchSemanticContribution(t *testing.T) {
	data := cvFixture()
	matcher := NewCVMatcher(cv.PlainTextExtractor{}, data, matchNames, uniformEmbedder{}, nil)

	resume := []byte("Python and SQL developer with 5 years of experience. Bachelor of Science.")
	result, err := matcher.Match(context.Background(), resume, "resume.txt", 10)
	require.NoError(t, err)
	require.NotEmpty(t, result.MatchedJobs)

	// Same as the structural case plus the full semantic component.
	assert.Equal(t, "post-a", result.MatchedJobs[0].JobPostID)
	assert.InDelta(t, 0.7+0.3, result.MatchedJobs[0].Score, 1e-9)
}

func TestExpEduScore(t *testing.T) {
	tests := []struct {
		name     string
		analysis cv.Analysis
		post     models.JobPost
		want     float64
	}{
		{
			name:     "meets years, bachelor",
			analysis: cv.Analysis{ExperienceYears: 5, Education: "bachelor"},
			post:     models.JobPost{Requirements: "3 years experience"},
			want:     0.6 + 0.4,
		},
		{
			name:     "near miss years",
			analysis: cv.Analysis{ExperienceYears: 3, Education: "college"},
			post:     models.JobPost{Requirements: "4 năm kinh nghiệm"},
			want:     0.4 + 0.3,
		},
		{
			name:     "far below years",
			analysis: cv.Analysis{ExperienceYears: 1, Education: cv.EducationNotSpecified},
			post:     models.JobPost{Requirements: "10 years"},
			want:     0.0 + 0.2,
		},
		{
			name:     "no requirement stated",
			analysis: cv.Analysis{ExperienceYears: 0, Education: "master"},
			post:     models.JobPost{Requirements: "passion for the craft"},
			want:     0.5 + 0.4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, expEduScore(tt.analysis, &tt.post), 1e-9)
		})
	}
}
