package report

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/matzehuels/deplic/pkg/license"
)

// DefaultCutoff is the similarity a deny-list entry must reach to match.
const DefaultCutoff = 0.6

// Matcher finds the deny-list entries close to a cleaned license string.
type Matcher interface {
	Match(query string, candidates []string) []string
}

// SimilarityMatcher matches a candidate contained in the query, or one whose
// normalized Levenshtein similarity to the query reaches Cutoff.
type SimilarityMatcher struct {
	Cutoff float64 // 0 means DefaultCutoff
}

// Match implements Matcher.
func (m SimilarityMatcher) Match(query string, candidates []string) []string {
	cutoff := m.Cutoff
	if cutoff <= 0 {
		cutoff = DefaultCutoff
	}
	var out []string
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if strings.Contains(query, c) || Similarity(query, c) >= cutoff {
			out = append(out, c)
		}
	}
	return out
}

// Similarity returns 1 - distance/maxlen over runes, in [0, 1].
func Similarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// Violation is a record whose license matched the deny list.
type Violation struct {
	Record  license.Record
	Matches []string // Deny-list entries that matched
}

// Check returns the records whose cleaned Meta or Classifier is close to a
// deny-list entry. An empty deny list flags nothing. A nil matcher uses
// SimilarityMatcher with DefaultCutoff.
func Check(records []license.Record, denyList []string, matcher Matcher) []Violation {
	if len(denyList) == 0 {
		return nil
	}
	if matcher == nil {
		matcher = SimilarityMatcher{Cutoff: DefaultCutoff}
	}

	var out []Violation
	for _, r := range records {
		seen := make(map[string]bool)
		var matches []string
		for _, q := range []string{CleanMeta(r.Meta), CleanClassifier(r.Classifier)} {
			if q == "" {
				continue
			}
			for _, m := range matcher.Match(q, denyList) {
				if !seen[m] {
					seen[m] = true
					matches = append(matches, m)
				}
			}
		}
		if len(matches) > 0 {
			out = append(out, Violation{Record: r, Matches: matches})
		}
	}
	return out
}

// Banned reports whether any record matched the deny list.
func Banned(violations []Violation) bool {
	return len(violations) > 0
}

// CleanMeta lowercases a license field and removes the word "license".
func CleanMeta(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ToLower(s), "license", ""))
}

// CleanClassifier lowercases a classifier string and removes "license" and
// the "osi approved::" prefix.
func CleanClassifier(s string) string {
	s = strings.ReplaceAll(strings.ToLower(s), "license", "")
	s = strings.ReplaceAll(s, "osi approved::", "")
	return strings.TrimSpace(s)
}
