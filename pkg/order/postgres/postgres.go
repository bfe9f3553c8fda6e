// Package postgres persists orders in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"parkorder/pkg/order"
)

// Schema creates the orders table. Items are kept as JSONB the way the
// waiters' dashboard reads them.
const Schema = `CREATE TABLE IF NOT EXISTS orders (
	id            TEXT PRIMARY KEY,
	table_number  TEXT NOT NULL,
	customer_name TEXT,
	items         JSONB NOT NULL,
	total_amount  BIGINT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'pending',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const columns = "id,table_number,customer_name,items,total_amount,status,created_at"

// Repository persists orders in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the orders table if needed.
func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

// Create inserts a new order.
func (r *Repository) Create(ctx context.Context, o order.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO orders ("+columns+") VALUES ($1,$2,$3,$4,$5,$6,$7)",
		o.ID, o.TableNumber, o.CustomerName, string(items), o.TotalAmount, string(o.Status), o.CreatedAt)
	return err
}

// Get retrieves an order by ID.
func (r *Repository) Get(ctx context.Context, id string) (order.Order, error) {
	o, err := scan(r.db.QueryRowContext(ctx, "SELECT "+columns+" FROM orders WHERE id=$1", id))
	if err == sql.ErrNoRows {
		return order.Order{}, order.ErrNotFound
	}
	return o, err
}

// List fetches all orders.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+columns+" FROM orders ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []order.Order
	for rows.Next() {
		o, err := scan(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// UpdateStatus changes the status of an existing order.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	res, err := r.db.ExecContext(ctx, "UPDATE orders SET status=$2 WHERE id=$1", id, string(status))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Delete removes an order by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id=$1", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return order.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (order.Order, error) {
	var (
		o        order.Order
		customer sql.NullString
		items    []byte
		status   string
	)
	if err := s.Scan(&o.ID, &o.TableNumber, &customer, &items, &o.TotalAmount, &status, &o.CreatedAt); err != nil {
		return order.Order{}, err
	}
	if customer.Valid {
		o.CustomerName = &customer.String
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return order.Order{}, fmt.Errorf("decode items of order %s: %w", o.ID, err)
	}
	o.Status = order.Status(status)
	return o, nil
}
