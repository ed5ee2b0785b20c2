package match

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hireon/hireon/internal/models"
	"github.com/hireon/hireon/internal/taxonomy"
	"github.com/hireon/hireon/internal/vector"
)

const (
	// DefaultTopN is the recommendation count when the caller does not ask
	// for a specific one.
	DefaultTopN = 5

	// fetchLimit caps how many postings one recommendation pass scans.
	fetchLimit = 1000

	snippetLength = 300
)

// DataSource is the slice of the data layer the recommender reads.
type DataSource interface {
	SeekerByID(ctx context.Context, id string) (*models.JobSeeker, error)
	SeekerSkills(ctx context.Context, seekerID string) ([]models.SeekerSkill, error)
	AllJobPosts(ctx context.Context, limit int) ([]models.JobPost, error)
	JobPostSkillIDsBatch(ctx context.Context, jobPostIDs []string) (map[string][]uint, error)
}

// SkillNames supplies the skill id to name mapping, normally through the
// store's TTL cache.
type SkillNames interface {
	Names(ctx context.Context) (map[uint]string, error)
}

// Embedder is the batch embedding surface the engine blends semantics
// through, normally the TTL embedding cache.
type Embedder interface {
	GetBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Recommendation is one scored posting in a recommendation response.
type Recommendation struct {
	JobPostID           string     `json:"job_post_id"`
	Title               string     `json:"title"`
	CompanyName         string     `json:"company_name"`
	CompanyLogo         string     `json:"company_logo"`
	Location            string     `json:"location"`
	SalaryRange         string     `json:"salary_range"`
	JobType             string     `json:"job_type"`
	ExperienceLevel     string     `json:"experience_level"`
	PostedDate          *time.Time `json:"posted_date,omitempty"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`
	Score               float64    `json:"score"`
	Snippet             string     `json:"snippet"`
	Description         string     `json:"description"`
	Requirements        string     `json:"requirements"`
	Benefits            string     `json:"benefits"`
}

// Recommender scores job postings for a seeker profile.
type Recommender struct {
	data     DataSource
	skills   SkillNames
	embedder Embedder
	logger   *zap.Logger
}

// NewRecommender creates a recommender. embedder may be nil; scoring then
// runs structural-only.
func NewRecommender(data DataSource, skills SkillNames, embedder Embedder, logger *zap.Logger) *Recommender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recommender{data: data, skills: skills, embedder: embedder, logger: logger}
}

// candidate is a posting that survived the structural filters.
type candidate struct {
	post       *models.JobPost
	skillIDs   []uint
	jaccard    float64
	structural float64
	semantic   float64
	final      float64
}

// Recommend returns the topN best-scoring postings for the seeker. A seeker
// with no recorded skills gets an empty list: there is nothing to rank on.
func (r *Recommender) Recommend(ctx context.Context, seekerID string, topN int) ([]Recommendation, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	seeker, err := r.data.SeekerByID(ctx, seekerID)
	if err != nil {
		return nil, fmt.Errorf("fetch seeker: %w", err)
	}

	seekerSkills, err := r.data.SeekerSkills(ctx, seekerID)
	if err != nil {
		return nil, fmt.Errorf("fetch seeker skills: %w", err)
	}
	if len(seekerSkills) == 0 {
		return []Recommendation{}, nil
	}

	posts, err := r.data.AllJobPosts(ctx, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch postings: %w", err)
	}
	if len(posts) == 0 {
		return []Recommendation{}, nil
	}

	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}
	postSkills, err := r.data.JobPostSkillIDsBatch(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch posting skills: %w", err)
	}

	names, err := r.skills.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch skill names: %w", err)
	}

	seekerIDs := make(map[uint]struct{}, len(seekerSkills))
	for _, s := range seekerSkills {
		seekerIDs[s.SkillID] = struct{}{}
	}
	seekerCats := categorySet(seekerIDs, names)

	// First pass: structural scoring with hard filters. No embeddings yet.
	var candidates []*candidate
	for i := range posts {
		post := &posts[i]
		ids := idSet(postSkills[post.ID])

		categoryScore := taxonomy.MatchScore(seekerCats, categorySet(ids, names))
		if categoryScore < categoryFilterThreshold {
			continue
		}

		jaccard := JaccardIDs(seekerIDs, ids)
		if jaccard == 0 && categoryScore < noOverlapCategoryFloor {
			continue
		}

		endorsement := EndorsementWeight(seekerSkills, intersectIDs(seekerIDs, ids))

		candidates = append(candidates, &candidate{
			post:       post,
			skillIDs:   postSkills[post.ID],
			jaccard:    jaccard,
			structural: StructuralScore(jaccard, endorsement, categoryScore),
		})
	}

	// Only the structurally strongest candidates are worth embedding.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].structural > candidates[j].structural
	})
	if len(candidates) > funnelSize {
		candidates = candidates[:funnelSize]
	}

	semanticOK := r.embedSurvivors(ctx, seeker, seekerSkills, names, candidates)

	for _, c := range candidates {
		if semanticOK {
			c.final = BlendSemantic(c.structural, c.semantic)
		} else {
			c.final = c.structural
		}
		if c.jaccard < lowOverlapThreshold {
			c.final *= lowOverlapPenalty
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].final > candidates[j].final
	})
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	results := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, newRecommendation(c.post, c.final))
	}
	return results, nil
}

// embedSurvivors computes semantic similarity for the funnel survivors in a
// single batch. Any embedding failure degrades the whole pass to
// structural-only rather than failing the request.
func (r *Recommender) embedSurvivors(ctx context.Context, seeker *models.JobSeeker, seekerSkills []models.SeekerSkill, names map[uint]string, candidates []*candidate) bool {
	if r.embedder == nil || len(candidates) == 0 {
		return false
	}

	texts := make([]string, 0, len(candidates)+1)
	texts = append(texts, seekerText(seeker, seekerSkills, names))
	for _, c := range candidates {
		texts = append(texts, postText(c.post, c.skillIDs, names))
	}

	vecs, err := r.embedder.GetBatch(ctx, texts)
	if err != nil {
		r.logger.Warn("embedding unavailable, scoring structural-only", zap.Error(err))
		return false
	}
	if len(vecs) != len(texts) {
		return false
	}

	seekerVec := vecs[0]
	for i, c := range candidates {
		c.semantic = vector.CosineSimilarity(seekerVec, vecs[i+1])
	}
	return true
}

// seekerText is the seeker's embeddable profile: bio followed by skill names.
func seekerText(seeker *models.JobSeeker, seekerSkills []models.SeekerSkill, names map[uint]string) string {
	parts := []string{seeker.Bio}
	for _, s := range seekerSkills {
		parts = append(parts, names[s.SkillID])
	}
	return strings.Join(parts, " ")
}

// postText is the posting's embeddable text: title, description,
// requirements and skill names.
func postText(post *models.JobPost, skillIDs []uint, names map[uint]string) string {
	parts := []string{post.Title, post.Description, post.Requirements}
	for _, id := range skillIDs {
		parts = append(parts, names[id])
	}
	return strings.Join(parts, " ")
}

func newRecommendation(post *models.JobPost, score float64) Recommendation {
	return Recommendation{
		JobPostID:           post.ID,
		Title:               post.Title,
		CompanyName:         post.CompanyName(),
		CompanyLogo:         post.CompanyLogo(),
		Location:            post.Location,
		SalaryRange:         post.SalaryRange,
		JobType:             post.JobType,
		ExperienceLevel:     post.ExperienceLevel,
		PostedDate:          post.PostedDate,
		ApplicationDeadline: post.ApplicationDeadline,
		Score:               roundScore(score),
		Snippet:             post.Snippet(snippetLength),
		Description:         post.Description,
		Requirements:        post.Requirements,
		Benefits:            post.Benefits,
	}
}

// roundScore trims scores to four decimals for stable API output.
func roundScore(s float64) float64 {
	return math.Round(s*10000) / 10000
}
