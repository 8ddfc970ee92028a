package timeslot

import (
	"strings"

	"bolpur-mart/internal/model"
)

// Filter narrows a product listing beyond the slot's allow-list.
type Filter struct {
	// Search is matched case-insensitively against name, description, tags
	// and category names.
	Search string
	// CategoryIDs restricts the listing to products in any of these categories.
	// Blank ids are ignored.
	CategoryIDs []string
}

// FilterProducts returns the products visible under allowedCategoryIDs that
// also satisfy f. A product is visible if any of its categories is allowed.
// The input order is preserved and a new slice is always returned.
func FilterProducts(products []model.Product, allowedCategoryIDs []string, f Filter) []model.Product {
	allowed := toSet(allowedCategoryIDs)
	requested := toSet(f.CategoryIDs)
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if !inAny(p.Categories, allowed) {
			continue
		}
		if len(requested) > 0 && !inAny(p.Categories, requested) {
			continue
		}
		if search != "" && !matches(p, search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

func inAny(categories []model.CategoryRef, set map[string]struct{}) bool {
	for _, c := range categories {
		if _, ok := set[c.ID]; ok {
			return true
		}
	}
	return false
}

// matches expects needle to be lower-cased already.
func matches(p model.Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	for _, c := range p.Categories {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			return true
		}
	}
	return false
}
