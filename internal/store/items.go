// Package store is the SQLite data layer of the reference items API.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/itemdesk/internal/model"
)

// ErrNotFound is returned when a mutation targets a missing or deleted item.
var ErrNotFound = errors.New("item not found")

// CreateItem inserts a new item and returns it with its assigned id.
func CreateItem(ctx context.Context, db *sql.DB, d model.Draft) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (title, text, status) VALUES (?, ?, ?)`,
		d.Title, d.Text, int(d.Status),
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns a live item by ID, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	var status int
	err := db.QueryRowContext(ctx,
		`SELECT id, title, text, status FROM items WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&item.ID, &item.Title, &item.Text, &status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.Status = model.Status(status)
	return item, nil
}

// ListSummaries returns the id and title of every live item, oldest first.
func ListSummaries(ctx context.Context, db *sql.DB) ([]model.Summary, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, title FROM items WHERE deleted_at IS NULL ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var summaries []model.Summary
	for rows.Next() {
		var s model.Summary
		if err := rows.Scan(&s.ID, &s.Title); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// UpdateItem replaces an item's fields.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, d model.Draft) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET title = ?, text = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		d.Title, d.Text, int(d.Status), id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return requireRow(result)
}

// DeleteItem soft-deletes an item.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
