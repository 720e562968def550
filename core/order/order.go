// Package order is the durable record of a checkout attempt. An order
// is created before payment with fulfilled=false; the payment
// processor's webhook is the only writer that flips it to true.
package order

import (
	"errors"
	"time"

	"github.com/globehall/neon-noir/core/cart"
	"github.com/globehall/neon-noir/core/customer"
)

// ErrNotFound reports a lookup for an id with no stored order.
var ErrNotFound = errors.New("order not found")

type Order struct {
	ID        string            `json:"id"`
	Items     []cart.Item       `json:"items"`
	Customer  customer.Customer `json:"customer"`
	Fulfilled bool              `json:"fulfilled"`
	CreatedAt time.Time         `json:"createdAt"`
}
