// Package ensemble reconciles policy extractions from several providers into
// one consensus set: near-duplicate items are clustered, each cluster is
// scored by weighted votes, and survivors are merged into consensus policies.
package ensemble

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/unicode/norm"
)

var (
	titleStripRe = regexp.MustCompile(`[^a-z0-9%\-_/ ]+`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// NormalizeTitle folds a title for comparison: NFKC, lowercase, collapsed
// whitespace, and only [a-z0-9%-_/ ] retained.
func NormalizeTitle(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	s = spaceRe.ReplaceAllString(s, " ")
	s = titleStripRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// sortedWords returns the words of a normalized title in alphabetical order.
func sortedWords(s string) string {
	words := strings.Fields(s)
	sort.Strings(words)
	return strings.Join(words, " ")
}

// TitleSimilarity is the sequence-matcher ratio of the two normalized,
// word-sorted titles, in [0,1].
func TitleSimilarity(a, b string) float64 {
	sa := sortedWords(NormalizeTitle(a))
	sb := sortedWords(NormalizeTitle(b))
	return difflib.NewMatcher(chars(sa), chars(sb)).Ratio()
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// Jaccard is |a∩b| / |a∪b| over two token sets; 1 when both are empty and 0
// when exactly one is.
func Jaccard(a, b []string) float64 {
	sa := toSet(a)
	sb := toSet(b)
	if len(sa) == 0 && len(sb) == 0 {
		return 1.0
	}
	if len(sa) == 0 || len(sb) == 0 {
		return 0.0
	}
	inter := 0
	for k := range sa {
		if sb[k] {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}

func toSet(xs []string) map[string]bool {
	m := make(map[string]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}

// Similarity is the equal-weight blend of title and lever similarity.
// Levers are expected to be normalized already.
func Similarity(titleA string, leverA []string, titleB string, leverB []string) float64 {
	return 0.5*TitleSimilarity(titleA, titleB) + 0.5*Jaccard(leverA, leverB)
}
