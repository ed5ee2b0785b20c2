package rag

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents removes diacritics so "Đà Nẵng" and "Da Nang" compare equal.
var stripAccents = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

func normalizeLocation(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		out = s
	}
	// NFKD does not decompose the Vietnamese đ.
	out = strings.NewReplacer("đ", "d", "Đ", "D").Replace(out)
	return strings.ToLower(out)
}

// cityVariants maps spelling variants to a canonical accent-free city name.
var cityVariants = []struct {
	canonical string
	variants  []string
}{
	{"ha noi", []string{"ha noi", "hanoi", "ha_noi"}},
	{"da nang", []string{"da nang", "danang"}},
	{"ho chi minh", []string{"ho chi minh", "hcm", "saigon", "ho_chi_minh"}},
	{"hai phong", []string{"hai phong", "haiphong"}},
	{"can tho", []string{"can tho", "cantho"}},
}

// ExtractLocation detects a Vietnamese city mentioned in free text. It
// returns the canonical accent-free name, or "" when no known city appears.
func ExtractLocation(text string) string {
	if text == "" {
		return ""
	}
	normalized := normalizeLocation(text)
	for _, city := range cityVariants {
		for _, variant := range city.variants {
			if strings.Contains(normalized, variant) {
				return city.canonical
			}
		}
	}
	return ""
}

// locationMatches reports whether a document's location metadata refers to
// the extracted city. Comparison is accent-stripped, lowercased, substring
// in either direction.
func locationMatches(metadata map[string]string, loc string) bool {
	location := metadata["location"]
	if location == "" {
		location = metadata["city"]
	}
	if location == "" {
		return false
	}
	locNorm := normalizeLocation(loc)
	metaNorm := normalizeLocation(location)
	return strings.Contains(metaNorm, locNorm) || strings.Contains(locNorm, metaNorm)
}
