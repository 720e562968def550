package product

import (
	"context"
	"fmt"
	"time"

	"github.com/globehall/neon-noir/database"
	"github.com/globehall/neon-noir/money"
	"github.com/globehall/neon-noir/printful"
	"github.com/globehall/neon-noir/validate"
	"github.com/jmoiron/sqlx"
)

// outOfStock is the provider's availability status for a variant the
// supplier cannot currently print.
const outOfStock = "supplier_out_of_stock"

// Sync pulls the provider's store catalog and upserts it into the
// local tables. Re-running it is idempotent: products match on their
// provider id and variants are replaced wholesale.
func Sync(ctx context.Context, db *sqlx.DB, client *printful.Client) error {
	listed, err := client.SyncProducts(ctx)
	if err != nil {
		return fmt.Errorf("listing provider products: %w", err)
	}

	for _, sp := range listed {
		detail, err := client.SyncProductDetail(ctx, sp.ID)
		if err != nil {
			return fmt.Errorf("fetching provider product[%d]: %w", sp.ID, err)
		}

		p, err := fromDetail(detail)
		if err != nil {
			return fmt.Errorf("mapping provider product[%d]: %w", sp.ID, err)
		}

		err = database.Transaction(db, func(tx sqlx.ExtContext) error {
			return upsert(ctx, tx, p)
		})
		if err != nil {
			return fmt.Errorf("upserting product[%d]: %w", sp.ID, err)
		}
	}

	return nil
}

func fromDetail(d printful.SyncProductDetail) (Product, error) {
	now := time.Now().UTC()
	p := Product{
		ID:         validate.GenerateID(),
		PrintfulID: d.Product.ID,
		Name:       d.Product.Name,
		Thumbnail:  d.Product.ThumbnailURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	for _, sv := range d.Variants {
		price, err := money.Parse(sv.RetailPrice)
		if err != nil {
			return Product{}, fmt.Errorf("parsing retail price of variant[%d]: %w", sv.ID, err)
		}

		color, size := parseVariantName(sv.Name)

		var image string
		// The second file is the mockup preview; the first is the
		// print file itself.
		if len(sv.Files) > 1 {
			image = sv.Files[1].PreviewURL
		} else if len(sv.Files) == 1 {
			image = sv.Files[0].PreviewURL
		}

		p.Variants = append(p.Variants, Variant{
			SyncVariantID: sv.ID,
			VariantID:     sv.VariantID,
			Name:          sv.Name,
			Size:          size,
			Color:         color,
			RetailPrice:   price,
			Image:         image,
			InStock:       sv.Availability != outOfStock,
		})
	}

	return p, nil
}
