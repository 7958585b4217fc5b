package bot

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/jejes323/Discord-Fish-Bot/internal/fish"
)

// closestName suggests the catalog name nearest to a misspelled one.
// Distances beyond a length-scaled limit are not worth suggesting.
func closestName(name string, all []fish.Definition) (string, bool) {
	best := ""
	bestDist := -1
	lower := strings.ToLower(name)

	for _, d := range all {
		dist := levenshtein.ComputeDistance(lower, strings.ToLower(d.Name))
		if dist > levenshteinLimit(len(d.Name)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best = d.Name
			bestDist = dist
		}
	}

	return best, bestDist >= 0
}

func levenshteinLimit(n int) int {
	switch {
	case n < 5:
		return 1
	case n < 9:
		return 2
	default:
		return 3
	}
}
