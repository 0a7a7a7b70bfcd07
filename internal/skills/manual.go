package skills

import (
	"strings"

	"github.com/spigell/project-recommender/internal/catalog"
)

// ParseManualSkills splits a comma separated list into normalized skills,
// dropping empties and repeats while keeping first-seen order.
func ParseManualSkills(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))

	for _, part := range parts {
		skill := catalog.Normalize(part)
		if skill == "" {
			continue
		}
		if _, dup := seen[skill]; dup {
			continue
		}
		seen[skill] = struct{}{}
		out = append(out, skill)
	}
	return out
}
