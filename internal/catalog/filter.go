package catalog

import "strings"

// Tab values recognized by Filter. Any other value applies no tab-based
// narrowing.
const (
	TabPublic     = "public"
	TabRestricted = "restricted"
)

// Filter returns the visible subset of items for the given search text,
// category and tab. It is a pure function: order-preserving, conjunction
// of the three narrowings, and an empty result is a valid outcome.
func Filter(items []Item, search, category, tab string) []Item {
	term := strings.ToLower(search)

	out := make([]Item, 0, len(items))
	for _, item := range items {
		switch tab {
		case TabRestricted:
			if !item.Restricted() {
				continue
			}
		case TabPublic:
			if item.Restricted() {
				continue
			}
		}

		if category != CategoryAll && item.Category != category {
			continue
		}

		if term != "" &&
			!strings.Contains(strings.ToLower(item.Name), term) &&
			!strings.Contains(strings.ToLower(item.Description), term) {
			continue
		}

		out = append(out, item)
	}
	return out
}
