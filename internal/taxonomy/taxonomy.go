// Package taxonomy classifies free-text skill names into broad job domains
// and scores the compatibility of domain sets.
package taxonomy

import (
	"strings"
	"sync"
)

// Category is a broad skill domain.
type Category string

const (
	Tech      Category = "tech"
	Sales     Category = "sales"
	Marketing Category = "marketing"
	Other     Category = "other"
)

// Keyword lists are matched in order: tech wins over sales, sales over
// marketing. An ambiguous skill containing keywords from several lists
// classifies into the first one. Callers depend on this ordering.
var techKeywords = []string{
	"python", "java", "javascript", "node", "react", "angular", "vue",
	"backend", "frontend", "fullstack", "developer", "programming",
	"software", "code", "api", "database", "sql", "nosql", "cloud",
	"aws", "azure", "devops", "docker", "kubernetes", "git",
	"html", "css", "typescript", "c++", "c#", "php", "ruby",
	"android", "ios", "mobile", "web", "ui", "ux", "design",
	"figma", "photoshop", "illustrator", "sketch",
}

var salesKeywords = []string{
	"sales", "sale", "bán hàng", "kinh doanh", "tư vấn",
	"telesales", "telesale", "business", "account", "customer",
	"client", "negotiation", "crm", "b2b", "b2c", "retail",
}

var marketingKeywords = []string{
	"marketing", "seo", "sem", "social media", "content",
	"digital marketing", "brand", "advertising", "campaign",
	"facebook ads", "google ads", "email marketing", "copywriting",
	"analytics", "communication", "pr", "media", "quảng cáo",
}

// classifyCache memoizes Classify results. The skill vocabulary is finite
// and small, so the cache is unbounded.
var classifyCache sync.Map // string -> Category

// Classify maps a skill name to its domain category.
func Classify(skillName string) Category {
	if skillName == "" {
		return Other
	}
	if cached, ok := classifyCache.Load(skillName); ok {
		return cached.(Category)
	}

	lower := strings.ToLower(skillName)
	cat := Other
	switch {
	case containsAny(lower, techKeywords):
		cat = Tech
	case containsAny(lower, salesKeywords):
		cat = Sales
	case containsAny(lower, marketingKeywords):
		cat = Marketing
	}

	classifyCache.Store(skillName, cat)
	return cat
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// Set is a set of categories. Other is never stored in a Set: callers build
// sets from classified skills and skip the Other bucket.
type Set map[Category]struct{}

// NewSet builds a category set from skill names, excluding Other.
func NewSet(skillNames []string) Set {
	set := make(Set)
	for _, name := range skillNames {
		if cat := Classify(name); cat != Other {
			set[cat] = struct{}{}
		}
	}
	return set
}

// Add inserts a category unless it is Other.
func (s Set) Add(cat Category) {
	if cat != Other {
		s[cat] = struct{}{}
	}
}

// MatchScore rates the compatibility of two category sets.
//
//	either empty            -> 0.5 (neutral, cannot judge)
//	non-empty intersection  -> 1.0
//	sales/marketing cross   -> 0.7
//	tech on one side only   -> 0.1
//	otherwise               -> 0.3
//
// The tech-exclusion check runs before the generic fallback.
func MatchScore(seekerCats, postCats Set) float64 {
	if len(seekerCats) == 0 || len(postCats) == 0 {
		return 0.5
	}

	for cat := range seekerCats {
		if _, ok := postCats[cat]; ok {
			return 1.0
		}
	}

	_, seekerSales := seekerCats[Sales]
	_, seekerMarketing := seekerCats[Marketing]
	_, postSales := postCats[Sales]
	_, postMarketing := postCats[Marketing]
	if (seekerSales && postMarketing) || (seekerMarketing && postSales) {
		return 0.7
	}

	_, seekerTech := seekerCats[Tech]
	_, postTech := postCats[Tech]
	if seekerTech != postTech {
		return 0.1
	}

	return 0.3
}
