// Package match implements the hybrid matching engine: structural skill
// scoring blended with semantic similarity, for both seeker-to-job
// recommendation and résumé-to-job matching.
package match

import (
	"strings"

	"github.com/hireon/hireon/internal/models"
	"github.com/hireon/hireon/internal/taxonomy"
)

// Funnel and blend constants. The weights are part of the scoring contract:
// changing any of them reshuffles every ranking the service produces.
const (
	structuralJaccardWeight  = 0.4
	structuralEndorseWeight  = 0.2
	structuralCategoryWeight = 0.4

	blendStructuralWeight = 0.75
	blendSemanticWeight   = 0.25

	categoryFilterThreshold = 0.15
	noOverlapCategoryFloor  = 0.5
	lowOverlapThreshold     = 0.05
	lowOverlapPenalty       = 0.5

	funnelSize = 50
)

// JaccardIDs computes Jaccard similarity of two skill-id sets. Either side
// empty yields 0: a posting with no requirements cannot structurally match.
func JaccardIDs(seeker, post map[uint]struct{}) float64 {
	if len(seeker) == 0 || len(post) == 0 {
		return 0
	}
	inter := 0
	for id := range seeker {
		if _, ok := post[id]; ok {
			inter++
		}
	}
	union := len(seeker) + len(post) - inter
	return float64(inter) / float64(union)
}

// JaccardNames computes Jaccard similarity of two lowercased name sets.
func JaccardNames(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for name := range a {
		if _, ok := b[name]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// EndorsementWeight is the endorsement mass on matched skills divided by the
// seeker's total endorsement mass. With zero total mass it degenerates to
// 1 when anything matched, else 0.
func EndorsementWeight(seekerSkills []models.SeekerSkill, matched map[uint]struct{}) float64 {
	total := 0
	hit := 0
	for _, s := range seekerSkills {
		total += s.EndorsementCount
		if _, ok := matched[s.SkillID]; ok {
			hit += s.EndorsementCount
		}
	}
	if total > 0 {
		return float64(hit) / float64(total)
	}
	if len(matched) > 0 {
		return 1
	}
	return 0
}

// StructuralScore combines the three skill signals into the pre-semantic
// score.
func StructuralScore(jaccard, endorsement, category float64) float64 {
	return structuralJaccardWeight*jaccard +
		structuralEndorseWeight*endorsement +
		structuralCategoryWeight*category
}

// BlendSemantic folds semantic similarity into the structural score. Cosine
// can go negative for unrelated texts; it is clamped at zero so the blend
// stays within [0,1].
func BlendSemantic(structural, semantic float64) float64 {
	if semantic < 0 {
		semantic = 0
	}
	return blendStructuralWeight*structural + blendSemanticWeight*semantic
}

// categorySet classifies skill ids through the name map into a taxonomy set.
// Ids missing from the map classify as Other and are excluded.
func categorySet(ids map[uint]struct{}, names map[uint]string) taxonomy.Set {
	set := make(taxonomy.Set)
	for id := range ids {
		set.Add(taxonomy.Classify(names[id]))
	}
	return set
}

// idSet builds a set from a slice of skill ids.
func idSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// nameSet lowercases names into a set, skipping empties.
func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		set[strings.ToLower(name)] = struct{}{}
	}
	return set
}

// intersectIDs returns the ids present in both sets.
func intersectIDs(a, b map[uint]struct{}) map[uint]struct{} {
	inter := make(map[uint]struct{})
	for id := range a {
		if _, ok := b[id]; ok {
			inter[id] = struct{}{}
		}
	}
	return inter
}
