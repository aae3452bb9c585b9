package storefront

import "strings"

// CategoryAll matches every product.
const CategoryAll = "All"

// FilterProducts keeps products in category whose name or farmer name
// contains query, ignoring case. An empty query matches everything.
func FilterProducts(products []Product, category, query string) []Product {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != CategoryAll && p.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.FarmerName), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories lists the distinct categories in first-seen order, led by "All".
func Categories(products []Product) []string {
	seen := map[string]bool{}
	out := []string{CategoryAll}
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}
