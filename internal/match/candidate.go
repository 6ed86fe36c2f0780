package match

import "sort"

// SuggestThreshold is the minimum similarity a name needs to be suggested.
const SuggestThreshold = 0.6

// Candidate is a known name scored against an unknown one.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is a list of candidates ordered by descending score.
type CandidateList []Candidate

// Rank scores every known name against name. Names are compared after
// NormalizeIdent; the result is sorted by score, then by name.
func Rank(name string, known []string) CandidateList {
	norm := NormalizeIdent(name)

	out := make(CandidateList, 0, len(known))
	for _, k := range known {
		out = append(out, Candidate{Name: k, Score: Similarity(norm, NormalizeIdent(k))})
	}

	sort.Sort(out)

	return out
}

func (c CandidateList) Len() int      { return len(c) }
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Best returns the highest-scoring candidate, or nil if empty.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// IsAmbiguous reports whether the top two candidates score the same.
func (c CandidateList) IsAmbiguous() bool {
	return len(c) >= 2 && c[0].Score == c[1].Score
}

// Suggest returns the known name closest to name, or "" when none is close
// enough or two are equally close.
func Suggest(name string, known []string) string {
	ranked := Rank(name, known)

	best := ranked.Best()
	if best == nil || best.Score < SuggestThreshold || ranked.IsAmbiguous() {
		return ""
	}

	return best.Name
}

// Hint formats the suggestion for name as a message suffix such as
// ` (did you mean "equal"?)`, or returns "" when there is none.
func Hint(name string, known []string) string {
	s := Suggest(name, known)
	if s == "" {
		return ""
	}

	return ` (did you mean "` + s + `"?)`
}
