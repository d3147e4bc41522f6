package match

import (
	"sort"
	"strings"
)

// Scoring policy constants. These are deliberate defaults, exposed as
// package constants so callers can reason about the bands.
const (
	ScoreExact     = 1.0
	ScorePrefix    = 0.9
	ScoreSubstring = 0.7
	// Token overlap is scaled into [0, ScoreTokenMax].
	ScoreTokenMax = 0.6

	// MinScore excludes weak candidates entirely.
	MinScore = 0.3

	// AmbiguityDelta: two or more candidates within this distance of the
	// top score make the outcome ambiguous.
	AmbiguityDelta = 0.1

	DefaultMaxResults = 5
)

// Project is a read-only projection of one Todoist project, treated as an
// immutable snapshot entry per matching call.
type Project struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	ParentID string `json:"parent_id,omitempty"`
	Favorite bool   `json:"is_favorite,omitempty"`
}

// Candidate is one ranked match.
type Candidate struct {
	Project Project `json:"project"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason"`
}

// Kind classifies a matching outcome. NoMatch and Ambiguous are result
// variants, not errors; the conversation engine routes on them.
type Kind string

const (
	KindNoMatch   Kind = "NO_MATCH"
	KindUnique    Kind = "UNIQUE"
	KindAmbiguous Kind = "AMBIGUOUS"
)

// Outcome carries the ranked candidates and their classification.
type Outcome struct {
	Kind       Kind        `json:"kind"`
	Candidates []Candidate `json:"candidates"`
}

// Top returns the best candidate. Only valid when Kind != KindNoMatch.
func (o Outcome) Top() Candidate {
	return o.Candidates[0]
}

// Rank scores the project snapshot against a free-text query and returns at
// most maxResults candidates above MinScore, deterministically ordered:
// higher score first, then shorter name, then lexicographic.
func Rank(query string, projects []Project, maxResults int) Outcome {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Outcome{Kind: KindNoMatch}
	}

	var candidates []Candidate
	for _, p := range projects {
		score, reason := score(q, p.Name)
		if score < MinScore {
			continue
		}
		candidates = append(candidates, Candidate{Project: p, Score: score, Reason: reason})
	}

	if len(candidates) == 0 {
		return Outcome{Kind: KindNoMatch}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		ni, nj := candidates[i].Project.Name, candidates[j].Project.Name
		if len(ni) != len(nj) {
			return len(ni) < len(nj)
		}
		return ni < nj
	})

	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}

	// Epsilon guards the band comparison against float artifacts
	// (1.0 - 0.9 is slightly below 0.1 in float64).
	kind := KindUnique
	if len(candidates) > 1 && candidates[0].Score-candidates[1].Score+1e-9 < AmbiguityDelta {
		kind = KindAmbiguous
	}

	return Outcome{Kind: kind, Candidates: candidates}
}

func score(query, name string) (float64, string) {
	n := strings.ToLower(strings.TrimSpace(name))

	switch {
	case n == query:
		return ScoreExact, "exact_match"
	case strings.HasPrefix(n, query):
		return ScorePrefix, "starts_with"
	case strings.Contains(n, query):
		return ScoreSubstring, "contains"
	}

	return tokenOverlap(query, n), "token_overlap"
}

// tokenOverlap scores by shared whitespace-delimited tokens, normalized by
// the token count of the longer string and scaled into [0, ScoreTokenMax].
func tokenOverlap(query, name string) float64 {
	qTokens := strings.Fields(query)
	nTokens := strings.Fields(name)
	if len(qTokens) == 0 || len(nTokens) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(qTokens))
	for _, t := range qTokens {
		set[t] = struct{}{}
	}

	shared := 0
	seen := make(map[string]struct{}, len(nTokens))
	for _, t := range nTokens {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			shared++
		}
	}

	longer := len(qTokens)
	if len(nTokens) > longer {
		longer = len(nTokens)
	}

	return float64(shared) / float64(longer) * ScoreTokenMax
}
