package crawler

import (
	"sort"
	"strings"
)

// collectUsernames walks a decoded leaderboards document and gathers every
// string-valued "username" field at any depth. The payload is nominally a
// map of category names to entry arrays, but the walk stays generic so new
// categories or nesting changes keep working.
func collectUsernames(doc any) map[string]struct{} {
	found := make(map[string]struct{})
	gatherUsernames(doc, found)
	return found
}

func gatherUsernames(node any, found map[string]struct{}) {
	switch v := node.(type) {
	case map[string]any:
		if name, ok := v["username"].(string); ok && name != "" {
			found[name] = struct{}{}
		}
		for _, child := range v {
			gatherUsernames(child, found)
		}
	case []any:
		for _, child := range v {
			gatherUsernames(child, found)
		}
	}
}

// orderUsernames sorts the set case-insensitively, breaking ties on the raw
// string so the order is deterministic, then truncates to limit. Original
// casing is preserved for URL construction.
func orderUsernames(set map[string]struct{}, limit int) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names
}
