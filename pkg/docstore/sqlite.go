package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// openSQLite opens the database at path. A single connection serializes writers,
// which SQLite requires anyway, and keeps ":memory:" databases from splitting.
func openSQLite(path string) (*sqlx.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

type sqliteCollection[T any] struct {
	db    *sqlx.DB
	table string
}

func newSQLiteCollection[T any](ctx context.Context, db *sqlx.DB, name string) (*sqliteCollection[T], error) {
	c := &sqliteCollection[T]{db: db, table: name}

	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id  TEXT PRIMARY KEY,
		doc TEXT NOT NULL
	)`, c.table)
	if _, err := db.ExecContext(ctx, query); err != nil {
		return nil, fmt.Errorf("failed to create table %s: %w", name, err)
	}
	return c, nil
}

func (c *sqliteCollection[T]) FindAll(ctx context.Context) ([]T, error) {
	var raws []string
	if err := c.db.SelectContext(ctx, &raws, fmt.Sprintf("SELECT doc FROM %s ORDER BY id", c.table)); err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	result := make([]T, 0, len(raws))
	for _, raw := range raws {
		var doc T
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		result = append(result, doc)
	}
	return result, nil
}

func (c *sqliteCollection[T]) FindByID(ctx context.Context, id string) (T, error) {
	var doc T
	var raw string
	err := c.db.GetContext(ctx, &raw, fmt.Sprintf("SELECT doc FROM %s WHERE id = ?", c.table), id)
	if errors.Is(err, sql.ErrNoRows) {
		return doc, ErrNotFound
	}
	if err != nil {
		return doc, fmt.Errorf("failed to query document %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return doc, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	return doc, nil
}

func (c *sqliteCollection[T]) Save(ctx context.Context, id string, doc T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", id, err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET doc = excluded.doc`, c.table)
	if _, err := c.db.ExecContext(ctx, query, id, string(raw)); err != nil {
		return fmt.Errorf("failed to save document %s: %w", id, err)
	}
	return nil
}

func (c *sqliteCollection[T]) DeleteByID(ctx context.Context, id string) error {
	if _, err := c.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", c.table), id); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	return nil
}

func (c *sqliteCollection[T]) DeleteAll(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", c.table)); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}
