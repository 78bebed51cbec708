package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/PeterBarbas/leaply-sub001/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS simulations (
	slug   TEXT PRIMARY KEY,
	title  TEXT NOT NULL,
	active INTEGER NOT NULL DEFAULT 1
);`

// Catalog is the simulation catalog kept in a SQLite database.
type Catalog struct {
	db *sql.DB
}

func Open(ctx context.Context, dsn string) (*Catalog, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// ListSimulations returns all simulations, active or not, ordered by title.
// SQLite's NOCASE only folds ASCII, so the final order comes from
// domain.SortByTitle.
func (c *Catalog) ListSimulations(ctx context.Context) ([]domain.CatalogEntry, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT slug, title, active FROM simulations ORDER BY title COLLATE NOCASE ASC, slug ASC`)
	if err != nil {
		return nil, fmt.Errorf("query simulations: %w", err)
	}
	defer rows.Close()

	var entries []domain.CatalogEntry
	for rows.Next() {
		var e domain.CatalogEntry
		if err := rows.Scan(&e.Slug, &e.Title, &e.Active); err != nil {
			return nil, fmt.Errorf("scan simulation: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	domain.SortByTitle(entries)
	return entries, nil
}

// Upsert inserts or updates entries in one transaction.
func (c *Catalog) Upsert(ctx context.Context, entries []domain.CatalogEntry) (err error) {
	for _, e := range entries {
		if strings.TrimSpace(e.Slug) == "" || strings.TrimSpace(e.Title) == "" {
			return errors.New("simulation slug and title are required")
		}
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO simulations (slug, title, active) VALUES (?, ?, ?)
ON CONFLICT(slug) DO UPDATE SET title = excluded.title, active = excluded.active`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err = stmt.ExecContext(ctx, strings.TrimSpace(e.Slug), strings.TrimSpace(e.Title), e.Active); err != nil {
			return fmt.Errorf("upsert %s: %w", e.Slug, err)
		}
	}
	return tx.Commit()
}
