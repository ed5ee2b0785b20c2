package match

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hireon/hireon/internal/cv"
	"github.com/hireon/hireon/internal/models"
	"github.com/hireon/hireon/internal/vector"
)

// ErrNoSkillsDetected is returned when a résumé contains none of the known
// skills; there is nothing to match on.
var ErrNoSkillsDetected = errors.New("no skills detected in CV")

// Résumé scoring weights: skills carry half the score, semantics less than
// in the seeker funnel because résumé text is noisier than a curated profile.
const (
	cvSkillsWeight   = 0.5
	cvSemanticWeight = 0.3
	cvExpEduWeight   = 0.2

	cvMinScore    = 0.05
	cvDefaultTopN = 10

	cvFieldPreview = 300
)

// PostingSource is the slice of the data layer résumé matching reads.
type PostingSource interface {
	AllJobPosts(ctx context.Context, limit int) ([]models.JobPost, error)
	JobPostSkillIDsBatch(ctx context.Context, jobPostIDs []string) (map[string][]uint, error)
}

// JobMatch is one scored posting in a résumé match response.
type JobMatch struct {
	JobPostID       string  `json:"job_post_id"`
	Title           string  `json:"title"`
	CompanyName     string  `json:"company_name"`
	CompanyLogo     string  `json:"company_logo"`
	Location        string  `json:"location"`
	SalaryRange     string  `json:"salary_range"`
	JobType         string  `json:"job_type"`
	ExperienceLevel string  `json:"experience_level"`
	Score           float64 `json:"score"`
	Description     string  `json:"description"`
	Requirements    string  `json:"requirements"`
}

// CVSummary is the profile part of a match response.
type CVSummary struct {
	SkillsFound     []string `json:"skills_found"`
	SkillsCount     int      `json:"skills_count"`
	ExperienceYears int      `json:"experience_years"`
	EducationLevel  string   `json:"education_level"`
}

// MatchResult is the full résumé match response.
type MatchResult struct {
	CVAnalysis       CVSummary  `json:"cv_analysis"`
	MatchedJobs      []JobMatch `json:"matched_jobs"`
	TotalJobsScanned int        `json:"total_jobs_scanned"`
}

// CVMatcher parses an uploaded résumé and ranks postings against it.
type CVMatcher struct {
	extractor cv.TextExtractor
	data      PostingSource
	skills    SkillNames
	embedder  Embedder
	logger    *zap.Logger
}

// NewCVMatcher creates a matcher. embedder may be nil; the semantic
// component then contributes zero.
func NewCVMatcher(extractor cv.TextExtractor, data PostingSource, skills SkillNames, embedder Embedder, logger *zap.Logger) *CVMatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CVMatcher{extractor: extractor, data: data, skills: skills, embedder: embedder, logger: logger}
}

// Match parses the résumé, extracts a profile, and scores every posting with
// name-level skill overlap against it.
func (m *CVMatcher) Match(ctx context.Context, content []byte, filename string, topN int) (*MatchResult, error) {
	if topN <= 0 {
		topN = cvDefaultTopN
	}

	text, err := m.extractor.Extract(content, filename)
	if err != nil {
		return nil, err
	}

	names, err := m.skills.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch skill names: %w", err)
	}

	analysis := cv.Analyze(text, names)
	if len(analysis.Skills) == 0 {
		return nil, ErrNoSkillsDetected
	}

	posts, err := m.data.AllJobPosts(ctx, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch postings: %w", err)
	}

	result := &MatchResult{
		CVAnalysis: CVSummary{
			SkillsFound:     analysis.Skills,
			SkillsCount:     len(analysis.Skills),
			ExperienceYears: analysis.ExperienceYears,
			EducationLevel:  analysis.Education,
		},
		MatchedJobs:      []JobMatch{},
		TotalJobsScanned: len(posts),
	}
	if len(posts) == 0 {
		return result, nil
	}

	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}
	postSkills, err := m.data.JobPostSkillIDsBatch(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch posting skills: %w", err)
	}

	cvSkills := nameSet(analysis.Skills)

	// Pre-filter: postings with name-level overlap, plus postings whose
	// skill ids all lack names, which fall through to semantic evidence.
	var candidates []cvCandidate
	for i := range posts {
		post := &posts[i]
		ids := postSkills[post.ID]
		if len(ids) == 0 {
			continue
		}

		skillNames := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			if name := names[id]; name != "" {
				skillNames[strings.ToLower(name)] = struct{}{}
			}
		}

		if overlaps(cvSkills, skillNames) || len(skillNames) == 0 {
			candidates = append(candidates, cvCandidate{post: post, skillNames: skillNames})
		}
	}
	if len(candidates) == 0 {
		return result, nil
	}

	semantics := m.embedCandidates(ctx, analysis, candidates)

	for i, c := range candidates {
		semantic := 0.0
		if semantics != nil {
			semantic = semantics[i]
		}

		score := cvSkillsWeight*JaccardNames(cvSkills, c.skillNames) +
			cvSemanticWeight*clampNonNegative(semantic) +
			cvExpEduWeight*expEduScore(analysis, c.post)
		score = roundScore(score)

		if score <= cvMinScore {
			continue
		}
		result.MatchedJobs = append(result.MatchedJobs, JobMatch{
			JobPostID:       c.post.ID,
			Title:           c.post.Title,
			CompanyName:     c.post.CompanyName(),
			CompanyLogo:     c.post.CompanyLogo(),
			Location:        c.post.Location,
			SalaryRange:     c.post.SalaryRange,
			JobType:         c.post.JobType,
			ExperienceLevel: c.post.ExperienceLevel,
			Score:           score,
			Description:     truncateRunes(c.post.Description, cvFieldPreview),
			Requirements:    truncateRunes(c.post.Requirements, cvFieldPreview),
		})
	}

	sort.SliceStable(result.MatchedJobs, func(i, j int) bool {
		return result.MatchedJobs[i].Score > result.MatchedJobs[j].Score
	})
	if len(result.MatchedJobs) > topN {
		result.MatchedJobs = result.MatchedJobs[:topN]
	}
	return result, nil
}

// cvCandidate is a posting that survived the name-overlap pre-filter.
type cvCandidate struct {
	post       *models.JobPost
	skillNames map[string]struct{}
}

// embedCandidates returns per-candidate semantic similarity, or nil when
// embeddings are unavailable.
func (m *CVMatcher) embedCandidates(ctx context.Context, analysis cv.Analysis, candidates []cvCandidate) []float64 {
	if m.embedder == nil || len(candidates) == 0 {
		return nil
	}

	cvText := strings.Join(analysis.Skills, " ") + " " + analysis.FullText
	texts := make([]string, 0, len(candidates)+1)
	texts = append(texts, cvText)
	for _, c := range candidates {
		texts = append(texts, strings.Join([]string{c.post.Title, c.post.Description, c.post.Requirements}, " "))
	}

	vecs, err := m.embedder.GetBatch(ctx, texts)
	if err != nil || len(vecs) != len(texts) {
		if err != nil {
			m.logger.Warn("embedding unavailable, scoring without semantics", zap.Error(err))
		}
		return nil
	}

	out := make([]float64, len(candidates))
	for i := range candidates {
		out[i] = vector.CosineSimilarity(vecs[0], vecs[i+1])
	}
	return out
}

var requiredYearsPattern = regexp.MustCompile(`(\d+)\+?\s*(?:years?|năm)`)

// expEduScore combines experience fit and education level into [0,1]. The
// experience half is worth 0.6 on a full match, 0.4 on a near match (at
// least 70% of required years), 0.5 when the posting states no requirement.
func expEduScore(analysis cv.Analysis, post *models.JobPost) float64 {
	score := 0.0

	required := 0
	if match := requiredYearsPattern.FindStringSubmatch(strings.ToLower(post.Requirements)); match != nil {
		required, _ = strconv.Atoi(match[1])
	}
	switch {
	case required <= 0:
		score += 0.5
	case analysis.ExperienceYears >= required:
		score += 0.6
	case float64(analysis.ExperienceYears) >= float64(required)*0.7:
		score += 0.4
	}

	switch analysis.Education {
	case "bachelor", "master", "phd":
		score += 0.4
	case "college":
		score += 0.3
	default:
		score += 0.2
	}
	return score
}

func overlaps(a, b map[string]struct{}) bool {
	for name := range a {
		if _, ok := b[name]; ok {
			return true
		}
	}
	return false
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
