package sqlite

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/PeterBarbas/leaply-sub001/internal/domain"
)

type seedFile struct {
	Simulations []seedEntry `yaml:"simulations"`
}

type seedEntry struct {
	Slug   string `yaml:"slug"`
	Title  string `yaml:"title"`
	Active *bool  `yaml:"active"`
}

// LoadSeed reads catalog entries from a YAML file. Entries without an active
// flag are treated as active.
func LoadSeed(path string) ([]domain.CatalogEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	entries := make([]domain.CatalogEntry, 0, len(f.Simulations))
	for _, s := range f.Simulations {
		active := true
		if s.Active != nil {
			active = *s.Active
		}
		entries = append(entries, domain.CatalogEntry{Slug: s.Slug, Title: s.Title, Active: active})
	}
	return entries, nil
}
