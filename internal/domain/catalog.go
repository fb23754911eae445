package domain

import (
	"cmp"
	"slices"
	"strings"
)

const (
	SortFeatured  = "featured"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortRating    = "rating"
	SortName      = "name"
)

func IsValidProductSort(sort string) bool {
	switch sort {
	case "", SortFeatured, SortPriceAsc, SortPriceDesc, SortRating, SortName:
		return true
	}
	return false
}

func (f ProductFilter) Matches(p Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.MinPriceCents > 0 && p.PriceCents < f.MinPriceCents {
		return false
	}
	if f.MaxPriceCents > 0 && p.PriceCents > f.MaxPriceCents {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		haystack := strings.ToLower(p.Name + " " + p.Brand + " " + p.Description)
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	return true
}

// FilterProducts applies filter and returns a sorted, paginated copy.
func FilterProducts(products []Product, filter ProductFilter) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	SortProducts(out, filter.Sort)

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []Product{}
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}

func SortProducts(products []Product, sort string) {
	switch sort {
	case SortPriceAsc:
		slices.SortStableFunc(products, func(a, b Product) int {
			return cmp.Or(cmp.Compare(a.PriceCents, b.PriceCents), cmp.Compare(a.ID, b.ID))
		})
	case SortPriceDesc:
		slices.SortStableFunc(products, func(a, b Product) int {
			return cmp.Or(cmp.Compare(b.PriceCents, a.PriceCents), cmp.Compare(a.ID, b.ID))
		})
	case SortName:
		slices.SortStableFunc(products, func(a, b Product) int {
			return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
		})
	case SortRating:
		SortByRating(products)
	default:
		slices.SortStableFunc(products, func(a, b Product) int {
			return cmp.Compare(a.ID, b.ID)
		})
	}
}

// SortByRating orders by rating, then review count, both descending.
func SortByRating(products []Product) {
	slices.SortStableFunc(products, func(a, b Product) int {
		return cmp.Or(
			cmp.Compare(b.Rating, a.Rating),
			cmp.Compare(b.Reviews, a.Reviews),
			cmp.Compare(a.ID, b.ID),
		)
	})
}

// AllNotes returns every note of the product, lowercased.
func (p Product) AllNotes() []string {
	notes := make([]string, 0, len(p.Notes.Top)+len(p.Notes.Middle)+len(p.Notes.Base))
	for _, group := range [][]string{p.Notes.Top, p.Notes.Middle, p.Notes.Base} {
		for _, n := range group {
			notes = append(notes, strings.ToLower(n))
		}
	}
	return notes
}
