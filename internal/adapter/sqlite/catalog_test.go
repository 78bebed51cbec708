package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeterBarbas/leaply-sub001/internal/domain"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(context.Background(), "file:"+filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCatalog_ListOrderedByTitle(t *testing.T) {
	ctx := context.Background()
	c := openTestCatalog(t)

	entries, err := c.ListSimulations(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, c.Upsert(ctx, []domain.CatalogEntry{
		{Slug: "swe", Title: "Software Engineering", Active: true},
		{Slug: "data-basics", Title: "Data Science Basics", Active: false},
		{Slug: "data", Title: "data & Analytics", Active: true},
	}))

	entries, err = c.ListSimulations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CatalogEntry{
		{Slug: "data", Title: "data & Analytics", Active: true},
		{Slug: "data-basics", Title: "Data Science Basics", Active: false},
		{Slug: "swe", Title: "Software Engineering", Active: true},
	}, entries)
}

func TestCatalog_ListFoldsNonASCIITitles(t *testing.T) {
	ctx := context.Background()
	c := openTestCatalog(t)

	require.NoError(t, c.Upsert(ctx, []domain.CatalogEntry{
		{Slug: "upper", Title: "Ärzte Data", Active: true},
		{Slug: "lower", Title: "ärzte Bata", Active: true},
	}))

	entries, err := c.ListSimulations(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "lower", entries[0].Slug)
	assert.Equal(t, "upper", entries[1].Slug)
}

func TestCatalog_UpsertUpdatesExisting(t *testing.T) {
	ctx := context.Background()
	c := openTestCatalog(t)

	require.NoError(t, c.Upsert(ctx, []domain.CatalogEntry{{Slug: "mkt", Title: "Marketing", Active: true}}))
	require.NoError(t, c.Upsert(ctx, []domain.CatalogEntry{{Slug: "mkt", Title: "Brand Marketing", Active: false}}))

	entries, err := c.ListSimulations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CatalogEntry{{Slug: "mkt", Title: "Brand Marketing", Active: false}}, entries)

	err = c.Upsert(ctx, []domain.CatalogEntry{{Slug: " ", Title: "x"}})
	assert.Error(t, err)
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `simulations:
  - slug: pm
    title: Project Management
  - slug: old
    title: Retired Track
    active: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	entries, err := LoadSeed(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.CatalogEntry{
		{Slug: "pm", Title: "Project Management", Active: true},
		{Slug: "old", Title: "Retired Track", Active: false},
	}, entries)

	_, err = LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
