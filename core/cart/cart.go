// Package cart implements the session-resident shopping cart. A cart
// is rehydrated from the session at the start of every request that
// touches it, mutated in place, and written back with Save. Save is
// the only commit point: a mutation without a Save is lost on the
// next request.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexedwards/scs/v2"
	"github.com/globehall/neon-noir/money"
)

const sessionKey = "cart"

// ErrItemNotFound reports an update or removal that targeted a
// product with no line in the cart.
var ErrItemNotFound = errors.New("item not in cart")

// Item is one cart line. There is one line per product; the chosen
// variant is carried in SyncVariantID.
type Item struct {
	ProductID     string      `json:"productId"`
	SyncVariantID int64       `json:"syncVariantId"`
	Title         string      `json:"title"`
	Image         string      `json:"image"`
	UnitPrice     money.Cents `json:"unitPrice"`
	Quantity      int         `json:"quantity"`
}

// Totals are derived from the items and never set directly.
type Totals struct {
	Subtotal  money.Cents `json:"subtotal"`
	ItemCount int         `json:"itemCount"`
}

type Cart struct {
	Items  []Item `json:"items"`
	Totals Totals `json:"totals"`
}

// QuantityChange pairs a product with its new quantity.
type QuantityChange struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

func New() Cart {
	return Cart{Items: []Item{}}
}

// Load rehydrates the cart from the session. A session without a cart
// yields an empty one and ok=false.
func Load(ctx context.Context, sm *scs.SessionManager) (Cart, bool) {
	b := sm.GetBytes(ctx, sessionKey)
	if b == nil {
		return New(), false
	}

	var c Cart
	if err := json.Unmarshal(b, &c); err != nil {
		// A corrupt session cart is unrecoverable; start over.
		return New(), false
	}
	if c.Items == nil {
		c.Items = []Item{}
	}

	return c, true
}

// Save commits the cart back into the session.
func (c *Cart) Save(ctx context.Context, sm *scs.SessionManager) error {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling cart: %w", err)
	}

	sm.Put(ctx, sessionKey, b)
	return nil
}

// Add merges an item into the cart. An existing line for the same
// product absorbs the quantity instead of duplicating the line.
func (c *Cart) Add(it Item) {
	for i := range c.Items {
		if c.Items[i].ProductID == it.ProductID {
			c.Items[i].Quantity += it.Quantity
			c.CalculateTotals()
			return
		}
	}

	c.Items = append(c.Items, it)
	c.CalculateTotals()
}

// Update overwrites quantities for the given products. The whole
// batch is rejected if any product has no line in the cart, so a
// partial update never reaches the session.
func (c *Cart) Update(changes []QuantityChange) error {
	for _, ch := range changes {
		if ch.Quantity < 1 {
			return fmt.Errorf("quantity %d for product %s is below 1", ch.Quantity, ch.ProductID)
		}
		if c.find(ch.ProductID) < 0 {
			return ErrItemNotFound
		}
	}

	for _, ch := range changes {
		c.Items[c.find(ch.ProductID)].Quantity = ch.Quantity
	}

	c.CalculateTotals()
	return nil
}

// Remove drops the line for the given product.
func (c *Cart) Remove(productID string) error {
	i := c.find(productID)
	if i < 0 {
		return ErrItemNotFound
	}

	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.CalculateTotals()
	return nil
}

// CalculateTotals recomputes the derived totals from the current
// items. It must run after every mutation before totals are read or
// persisted; the mutating methods above all call it.
func (c *Cart) CalculateTotals() {
	t := Totals{}
	for _, it := range c.Items {
		t.Subtotal += it.UnitPrice.Mul(it.Quantity)
		t.ItemCount++
	}
	c.Totals = t
}

func (c *Cart) find(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
