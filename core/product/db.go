package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound reports a lookup for an id with no catalog product.
var ErrNotFound = errors.New("product not found")

// List returns all products without their variants.
func List(ctx context.Context, db sqlx.ExtContext) ([]Product, error) {
	const q = `
	SELECT product_id, printful_id, name, thumbnail, created_at, updated_at
	FROM products
	ORDER BY name`

	ps := []Product{}
	if err := sqlx.SelectContext(ctx, db, &ps, q); err != nil {
		return nil, fmt.Errorf("selecting products: %w", err)
	}

	return ps, nil
}

// Fetch returns one product together with its variants.
func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Product, error) {
	const q = `
	SELECT product_id, printful_id, name, thumbnail, created_at, updated_at
	FROM products
	WHERE product_id = $1`

	var p Product
	if err := sqlx.GetContext(ctx, db, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("selecting product[%s]: %w", id, err)
	}

	const qv = `
	SELECT product_id, sync_variant_id, variant_id, name, size, color, retail_price, image, in_stock
	FROM variants
	WHERE product_id = $1
	ORDER BY sync_variant_id`

	if err := sqlx.SelectContext(ctx, db, &p.Variants, qv, id); err != nil {
		return Product{}, fmt.Errorf("selecting variants of product[%s]: %w", id, err)
	}

	return p, nil
}

func fetchIDByPrintfulID(ctx context.Context, db sqlx.ExtContext, printfulID int64) (string, error) {
	const q = `SELECT product_id FROM products WHERE printful_id = $1`

	var id string
	if err := sqlx.GetContext(ctx, db, &id, q, printfulID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("selecting product by printful id[%d]: %w", printfulID, err)
	}

	return id, nil
}

// upsert writes a product and replaces its variants. It must run
// inside a transaction so the catalog never shows a product with half
// its variants.
func upsert(ctx context.Context, tx sqlx.ExtContext, p Product) error {
	const q = `
	INSERT INTO products (product_id, printful_id, name, thumbnail, created_at, updated_at)
	VALUES (:product_id, :printful_id, :name, :thumbnail, :created_at, :updated_at)
	ON CONFLICT (printful_id) DO UPDATE
	SET name = :name, thumbnail = :thumbnail, updated_at = :updated_at`

	if _, err := sqlx.NamedExecContext(ctx, tx, q, p); err != nil {
		return fmt.Errorf("upserting product[%d]: %w", p.PrintfulID, err)
	}

	id, err := fetchIDByPrintfulID(ctx, tx, p.PrintfulID)
	if err != nil {
		return err
	}

	const qd = `DELETE FROM variants WHERE product_id = $1`
	if _, err := tx.ExecContext(ctx, qd, id); err != nil {
		return fmt.Errorf("clearing variants of product[%s]: %w", id, err)
	}

	const qv = `
	INSERT INTO variants (product_id, sync_variant_id, variant_id, name, size, color, retail_price, image, in_stock)
	VALUES (:product_id, :sync_variant_id, :variant_id, :name, :size, :color, :retail_price, :image, :in_stock)`

	for _, v := range p.Variants {
		v.ProductID = id
		if _, err := sqlx.NamedExecContext(ctx, tx, qv, v); err != nil {
			return fmt.Errorf("inserting variant[%d]: %w", v.SyncVariantID, err)
		}
	}

	return nil
}
