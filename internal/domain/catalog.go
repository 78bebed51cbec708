package domain

import (
	"context"
	"sort"
	"strings"
)

type CatalogEntry struct {
	Slug   string `yaml:"slug" json:"slug"`
	Title  string `yaml:"title" json:"title"`
	Active bool   `yaml:"active" json:"active"`
}

// CatalogSource returns every known simulation ordered by title ascending.
type CatalogSource interface {
	ListSimulations(ctx context.Context) ([]CatalogEntry, error)
}

// SortByTitle orders entries by case-folded title, keeping the input order
// for equal titles. Catalog sources and the role matcher both use it so they
// agree on which entry comes first.
func SortByTitle(entries []CatalogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Title) < strings.ToLower(entries[j].Title)
	})
}
