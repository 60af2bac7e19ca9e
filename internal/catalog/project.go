package catalog

import (
	"sort"
	"strings"
)

// Project derives the presentation view of a product set: records whose name
// contains search case-insensitively (an empty search matches everything),
// with favorites first and the incoming order otherwise preserved. The input
// is never mutated; the result is a fresh slice on every call.
func Project(products []Product, search string) []Product {
	search = strings.ToLower(strings.TrimSpace(search))

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if search == "" || strings.Contains(strings.ToLower(p.Name), search) {
			out = append(out, p)
		}
	}

	sortFavoritesFirst(out)
	return out
}

func sortFavoritesFirst(products []Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].IsFavorite && !products[j].IsFavorite
	})
}
