package recipe

import (
	"sort"
	"strings"
)

// AggregateIngredients builds a shopping list from ingredient text blocks.
// Each block holds one ingredient per line. Lines are stripped, empty lines
// dropped, and exact duplicates collapsed; the result is sorted ascending.
// No unit normalisation or fuzzy matching is attempted.
func AggregateIngredients(blocks []string) []string {
	seen := make(map[string]struct{})
	items := make([]string, 0)

	for _, block := range blocks {
		for _, raw := range strings.Split(block, "\n") {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}
			if _, ok := seen[line]; ok {
				continue
			}
			seen[line] = struct{}{}
			items = append(items, line)
		}
	}

	sort.Strings(items)
	return items
}

// ShoppingList aggregates the ingredients of the given recipes
func ShoppingList(recipes []*Recipe) []string {
	blocks := make([]string, 0, len(recipes))
	for _, r := range recipes {
		blocks = append(blocks, r.Ingredients())
	}
	return AggregateIngredients(blocks)
}
