package pipeline

import (
	"strings"

	"leadminer-engine/internal/domain"
)

// IsRelevant reports whether any configured target location appears in the
// text, case-insensitively. An empty gazetteer matches nothing.
func IsRelevant(text string, locations []string) bool {
	low := strings.ToLower(text)
	for _, loc := range locations {
		loc = strings.ToLower(strings.TrimSpace(loc))
		if loc == "" {
			continue
		}
		if strings.Contains(low, loc) {
			return true
		}
	}
	return false
}

// FilterItems applies the location pre-filter to items from untrusted source
// types. Curated feeds named in trusted are already scoped to the target
// region and bypass the check entirely.
func FilterItems(items []domain.RawItem, locations []string, trusted []string) []domain.RawItem {
	trustSet := make(map[string]bool, len(trusted))
	for _, t := range trusted {
		trustSet[strings.ToLower(strings.TrimSpace(t))] = true
	}

	var out []domain.RawItem
	for _, it := range items {
		if trustSet[strings.ToLower(it.SourceType)] {
			out = append(out, it)
			continue
		}
		if IsRelevant(it.Title+" "+it.Summary, locations) {
			out = append(out, it)
		}
	}
	return out
}
