package lint

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSuggestDistance bounds the edit distance of a typo suggestion.
const maxSuggestDistance = 2

// ClosestMatch returns the candidate target most likely meant, or "" when
// nothing is close. A case-insensitive subsequence match wins; otherwise the
// candidate with the smallest edit distance within maxSuggestDistance.
func ClosestMatch(target string, candidates []string) string {
	if target == "" || len(candidates) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)

		return ranks[0].Target
	}

	best, bestDist := "", maxSuggestDistance+1
	upper := strings.ToUpper(target)

	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(upper, strings.ToUpper(c)); d < bestDist {
			best, bestDist = c, d
		}
	}

	return best
}
