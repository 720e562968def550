// Package customer holds the transient checkout identity collected
// from the shopper. It lives in the session between the quote and the
// payment redirect and never reaches the database except inside the
// order document.
package customer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexedwards/scs/v2"
	"github.com/globehall/neon-noir/printful"
)

const sessionKey = "customer"

type Customer struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Address1  string `json:"address_1" validate:"required"`
	Address2  string `json:"address_2"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Zip       string `json:"zip" validate:"required"`

	Prices  *printful.Quote `json:"prices,omitempty"`
	OrderID string          `json:"order_id,omitempty"`
}

// Recipient maps the customer onto the pricing gateway's shipping
// destination. The store ships to the US only.
func (c Customer) Recipient() printful.Recipient {
	return printful.Recipient{
		Name:        c.FirstName + " " + c.LastName,
		Address1:    c.Address1,
		Address2:    c.Address2,
		City:        c.City,
		StateCode:   c.State,
		CountryCode: "US",
		Zip:         c.Zip,
	}
}

// ClearPersonal blanks the identifying fields and the quote so a page
// refresh after confirmation cannot resubmit them. OrderID survives;
// it is what resolves the receipt later.
func (c *Customer) ClearPersonal() {
	c.FirstName = ""
	c.LastName = ""
	c.Email = ""
	c.Address1 = ""
	c.Address2 = ""
	c.City = ""
	c.State = ""
	c.Zip = ""
	c.Prices = nil
}

// Load rehydrates the session customer. ok is false when no customer
// has been stored yet.
func Load(ctx context.Context, sm *scs.SessionManager) (Customer, bool) {
	b := sm.GetBytes(ctx, sessionKey)
	if b == nil {
		return Customer{}, false
	}

	var c Customer
	if err := json.Unmarshal(b, &c); err != nil {
		return Customer{}, false
	}

	return c, true
}

// Save commits the customer back into the session.
func (c *Customer) Save(ctx context.Context, sm *scs.SessionManager) error {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling customer: %w", err)
	}

	sm.Put(ctx, sessionKey, b)
	return nil
}
