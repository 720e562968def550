// Package product is the store catalog: product and variant records
// synced from the fulfillment provider.
package product

import (
	"strings"
	"time"

	"github.com/globehall/neon-noir/money"
)

type Product struct {
	ID         string    `json:"id" db:"product_id"`
	PrintfulID int64     `json:"printfulId" db:"printful_id"`
	Name       string    `json:"name" db:"name"`
	Thumbnail  string    `json:"thumbnail" db:"thumbnail"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
	Variants   []Variant `json:"variants" db:"-"`
}

type Variant struct {
	ProductID     string      `json:"-" db:"product_id"`
	SyncVariantID int64       `json:"syncVariantId" db:"sync_variant_id"`
	VariantID     int64       `json:"variantId" db:"variant_id"`
	Name          string      `json:"name" db:"name"`
	Size          string      `json:"size" db:"size"`
	Color         string      `json:"color" db:"color"`
	RetailPrice   money.Cents `json:"retailPrice" db:"retail_price"`
	Image         string      `json:"image" db:"image"`
	InStock       bool        `json:"inStock" db:"in_stock"`
}

// Variant returns the variant with the given sync id.
func (p Product) Variant(syncVariantID int64) (Variant, bool) {
	for _, v := range p.Variants {
		if v.SyncVariantID == syncVariantID {
			return v, true
		}
	}
	return Variant{}, false
}

// parseVariantName splits a provider variant name of the form
// "Neon Tee - Black / L" into its color and size parts. Either part
// may be absent.
func parseVariantName(name string) (color, size string) {
	rest := name
	if i := strings.Index(rest, " - "); i >= 0 {
		rest = rest[i+3:]
	} else {
		return "", ""
	}

	if i := strings.Index(rest, "/"); i >= 0 {
		color = strings.TrimSpace(rest[:i])
		size = strings.TrimSpace(rest[i+1:])
		return color, size
	}

	return strings.TrimSpace(rest), ""
}
