package taxonomy

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		skill string
		want  Category
	}{
		{"tech keyword", "Python", Tech},
		{"tech substring", "Senior Java Developer", Tech},
		{"sales keyword", "Telesales", Sales},
		{"vietnamese sales keyword", "Bán hàng", Sales},
		{"marketing keyword", "SEO", Marketing},
		{"vietnamese marketing keyword", "Quảng cáo", Marketing},
		{"unknown skill", "Forklift Operation", Other},
		{"empty name", "", Other},
		// "web design" hits both tech lists entries; tech is checked first.
		{"ambiguous tech before marketing", "Web Content", Tech},
		// "Sales Analytics" contains sales and marketing keywords; sales
		// is checked before marketing.
		{"ambiguous sales before marketing", "Sales Analytics", Sales},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.skill); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.skill, got, tt.want)
			}
		})
	}
}

func TestClassify_Memoized(t *testing.T) {
	// Same input twice must be stable regardless of cache state.
	first := Classify("Docker")
	second := Classify("Docker")
	if first != second || first != Tech {
		t.Errorf("Classify not stable: %v then %v", first, second)
	}
}

func TestMatchScore(t *testing.T) {
	set := func(cats ...Category) Set {
		s := make(Set)
		for _, c := range cats {
			s.Add(c)
		}
		return s
	}

	tests := []struct {
		name   string
		seeker Set
		post   Set
		want   float64
	}{
		{"both empty", set(), set(), 0.5},
		{"seeker empty", set(), set(Tech), 0.5},
		{"post empty", set(Sales), set(), 0.5},
		{"same category", set(Tech), set(Tech), 1.0},
		{"overlap among several", set(Tech, Sales), set(Sales), 1.0},
		{"sales vs marketing", set(Sales), set(Marketing), 0.7},
		{"marketing vs sales", set(Marketing), set(Sales), 0.7},
		{"tech vs sales", set(Tech), set(Sales), 0.1},
		{"marketing vs tech", set(Marketing), set(Tech), 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchScore(tt.seeker, tt.post); got != tt.want {
				t.Errorf("MatchScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchScore_Symmetric(t *testing.T) {
	cases := [][2]Set{
		{NewSet([]string{"Python"}), NewSet([]string{"Sales"})},
		{NewSet([]string{"Sales"}), NewSet([]string{"Marketing"})},
		{NewSet([]string{"Python", "SEO"}), NewSet([]string{"Java"})},
	}
	for _, c := range cases {
		if MatchScore(c[0], c[1]) != MatchScore(c[1], c[0]) {
			t.Errorf("MatchScore not symmetric for %v / %v", c[0], c[1])
		}
	}
}

func TestNewSet_ExcludesOther(t *testing.T) {
	set := NewSet([]string{"Python", "Forklift Operation", ""})
	if len(set) != 1 {
		t.Fatalf("NewSet size = %d, want 1", len(set))
	}
	if _, ok := set[Tech]; !ok {
		t.Error("NewSet missing tech category")
	}
}
