package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is an interface that allows us to use either a pool or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// postgresCollection keeps each document as a JSONB row in a table named after the collection
type postgresCollection[T any] struct {
	db    DBTX
	table string
}

func newPostgresCollection[T any](ctx context.Context, db DBTX, name string) (*postgresCollection[T], error) {
	c := &postgresCollection[T]{
		db:    db,
		table: pgx.Identifier{name}.Sanitize(),
	}

	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id   TEXT PRIMARY KEY,
		doc  JSONB NOT NULL
	)`, c.table)
	if _, err := db.Exec(ctx, query); err != nil {
		return nil, fmt.Errorf("failed to create table %s: %w", name, err)
	}
	return c, nil
}

func (c *postgresCollection[T]) FindAll(ctx context.Context) ([]T, error) {
	rows, err := c.db.Query(ctx, fmt.Sprintf("SELECT doc FROM %s ORDER BY id", c.table))
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	result := make([]T, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		result = append(result, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}
	return result, nil
}

func (c *postgresCollection[T]) FindByID(ctx context.Context, id string) (T, error) {
	var doc T
	var raw []byte
	err := c.db.QueryRow(ctx, fmt.Sprintf("SELECT doc FROM %s WHERE id = $1", c.table), id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return doc, ErrNotFound
	}
	if err != nil {
		return doc, fmt.Errorf("failed to query document %s: %w", id, err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	return doc, nil
}

func (c *postgresCollection[T]) Save(ctx context.Context, id string, doc T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", id, err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`, c.table)
	if _, err := c.db.Exec(ctx, query, id, raw); err != nil {
		return fmt.Errorf("failed to save document %s: %w", id, err)
	}
	return nil
}

func (c *postgresCollection[T]) DeleteByID(ctx context.Context, id string) error {
	if _, err := c.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", c.table), id); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	return nil
}

func (c *postgresCollection[T]) DeleteAll(ctx context.Context) error {
	if _, err := c.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s", c.table)); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}
