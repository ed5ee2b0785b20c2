package cv

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Analysis is the structured profile extracted from résumé text.
type Analysis struct {
	// Skills holds vocabulary skill names found in the text, original casing.
	Skills []string `json:"skills"`
	// ExperienceYears is the largest year count mentioned, 0 when none.
	ExperienceYears int `json:"experience_years"`
	// Education is one of phd, master, bachelor, college, high_school or
	// not_specified.
	Education string `json:"education"`
	// FullText is a preview of the résumé, capped at 1000 characters.
	FullText string `json:"full_text"`
}

const previewLimit = 1000

// Analyze extracts a structured profile from résumé text. vocabulary maps
// skill ids to names; only names from the vocabulary are ever detected.
func Analyze(text string, vocabulary map[uint]string) Analysis {
	return Analysis{
		Skills:          ExtractSkills(text, vocabulary),
		ExperienceYears: ExtractExperienceYears(text),
		Education:       ExtractEducation(text),
		FullText:        truncate(text, previewLimit),
	}
}

// ExtractSkills finds vocabulary skills mentioned in the text. The vocabulary
// is walked in ascending id order so identical text always yields the same
// skill order; the result feeds embedding text and API responses, both of
// which must be stable across calls. A cheap substring check gates the
// word-boundary regexp, so most of the vocabulary is rejected without
// compiling anything.
func ExtractSkills(text string, vocabulary map[uint]string) []string {
	lower := strings.ToLower(text)

	ids := make([]uint, 0, len(vocabulary))
	for id := range vocabulary {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	found := make(map[string]struct{})
	var skills []string
	for _, id := range ids {
		name := vocabulary[id]
		if name == "" {
			continue
		}
		nameLower := strings.ToLower(name)
		if !strings.Contains(lower, nameLower) {
			continue
		}
		pattern, err := regexp.Compile(`\b` + regexp.QuoteMeta(nameLower) + `\b`)
		if err != nil {
			continue
		}
		if pattern.MatchString(lower) {
			if _, seen := found[nameLower]; !seen {
				found[nameLower] = struct{}{}
				skills = append(skills, name)
			}
		}
	}
	return skills
}

// Year-count patterns, English and Vietnamese. The bare "N years" pattern
// comes last so context-anchored matches are tried first.
var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\+?\s*(?:years?|năm)\s+(?:of\s+)?(?:experience|kinh nghiệm)`),
	regexp.MustCompile(`(?:experience|kinh nghiệm).*?(\d+)\+?\s*(?:years?|năm)`),
	regexp.MustCompile(`(\d+)\+?\s*(?:years?|năm)`),
}

// ExtractExperienceYears returns the largest year count the text mentions.
func ExtractExperienceYears(text string) int {
	lower := strings.ToLower(text)

	max := 0
	for _, pattern := range experiencePatterns {
		for _, match := range pattern.FindAllStringSubmatch(lower, -1) {
			years, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}
			if years > max {
				max = years
			}
		}
	}
	return max
}

// Education levels in precedence order: the highest level mentioned anywhere
// in the text wins.
var educationLevels = []struct {
	level    string
	keywords []string
}{
	{"phd", []string{"phd", "tiến sĩ", "doctorate"}},
	{"master", []string{"master", "thạc sĩ", "mba"}},
	{"bachelor", []string{"bachelor", "cử nhân", "đại học", "university degree"}},
	{"college", []string{"college", "cao đẳng"}},
	{"high_school", []string{"high school", "trung học"}},
}

// EducationNotSpecified is the Education value when no level is mentioned.
const EducationNotSpecified = "not_specified"

// ExtractEducation returns the highest education level the text mentions.
func ExtractEducation(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range educationLevels {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.level
			}
		}
	}
	return EducationNotSpecified
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
