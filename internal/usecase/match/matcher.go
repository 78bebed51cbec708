package match

import (
	"strings"

	"github.com/PeterBarbas/leaply-sub001/internal/config"
	"github.com/PeterBarbas/leaply-sub001/internal/domain"
)

// Matcher resolves a recommended role title to a catalog entry.
type Matcher struct {
	aliases  map[string]string
	keywords []config.KeywordRule
}

func NewMatcher(roles *config.Roles) *Matcher {
	return &Matcher{
		aliases:  roles.Aliases,
		keywords: roles.Keywords,
	}
}

// Match tries, in order: exact title, title containing the phrase, then the
// keyword rules. The first hit wins. Entries are scanned in ascending title
// order whatever order the caller passes them in.
func (m *Matcher) Match(title string, catalog []domain.CatalogEntry) (domain.CatalogEntry, bool) {
	phrase := m.Canonical(title)
	if phrase == "" || len(catalog) == 0 {
		return domain.CatalogEntry{}, false
	}

	entries := sortedByTitle(catalog)

	for _, e := range entries {
		if strings.ToLower(e.Title) == phrase {
			return e, true
		}
	}

	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Title), phrase) {
			return e, true
		}
	}

	for _, rule := range m.keywords {
		if !containsAny(phrase, rule.Match) {
			continue
		}
		for _, e := range entries {
			if containsAny(strings.ToLower(e.Title), rule.Titles) {
				return e, true
			}
		}
	}

	return domain.CatalogEntry{}, false
}

// Canonical lower-cases title and applies the alias table.
func (m *Matcher) Canonical(title string) string {
	phrase := strings.ToLower(strings.TrimSpace(title))
	if alias, ok := m.aliases[phrase]; ok {
		return alias
	}
	return phrase
}

func sortedByTitle(catalog []domain.CatalogEntry) []domain.CatalogEntry {
	entries := append([]domain.CatalogEntry(nil), catalog...)
	domain.SortByTitle(entries)
	return entries
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
