package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type dbOrder struct {
	ID        string    `db:"order_id"`
	Items     []byte    `db:"items"`
	Customer  []byte    `db:"customer"`
	Fulfilled bool      `db:"fulfilled"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Create persists a new order. The order is immutable afterwards
// except for the fulfilled flip in MarkFulfilled.
func Create(ctx context.Context, db sqlx.ExtContext, ord Order) error {
	items, err := json.Marshal(ord.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	cust, err := json.Marshal(ord.Customer)
	if err != nil {
		return fmt.Errorf("marshaling order customer: %w", err)
	}

	row := dbOrder{
		ID:        ord.ID,
		Items:     items,
		Customer:  cust,
		Fulfilled: ord.Fulfilled,
		CreatedAt: ord.CreatedAt,
		UpdatedAt: ord.CreatedAt,
	}

	const q = `
	INSERT INTO orders (order_id, items, customer, fulfilled, created_at, updated_at)
	VALUES (:order_id, :items, :customer, :fulfilled, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, row); err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	return nil
}

// Fetch returns the order with the given id.
func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Order, error) {
	const q = `
	SELECT order_id, items, customer, fulfilled, created_at, updated_at
	FROM orders
	WHERE order_id = $1`

	var row dbOrder
	if err := sqlx.GetContext(ctx, db, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("selecting order[%s]: %w", id, err)
	}

	ord := Order{
		ID:        row.ID,
		Fulfilled: row.Fulfilled,
		CreatedAt: row.CreatedAt,
	}

	if err := json.Unmarshal(row.Items, &ord.Items); err != nil {
		return Order{}, fmt.Errorf("unmarshaling order items: %w", err)
	}
	if err := json.Unmarshal(row.Customer, &ord.Customer); err != nil {
		return Order{}, fmt.Errorf("unmarshaling order customer: %w", err)
	}

	return ord, nil
}

// MarkFulfilled flips the fulfilled flag. It is a single-field atomic
// update keyed by id; flipping an already fulfilled order is a no-op,
// so concurrent webhook deliveries are idempotent.
func MarkFulfilled(ctx context.Context, db sqlx.ExtContext, id string) error {
	const q = `
	UPDATE orders
	SET fulfilled = TRUE, updated_at = $2
	WHERE order_id = $1`

	res, err := db.ExecContext(ctx, q, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("updating order[%s]: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}
