package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/globehall/neon-noir/api/web"
	"github.com/globehall/neon-noir/api/weberr"
	"github.com/globehall/neon-noir/config"
	"github.com/globehall/neon-noir/core/cart"
	"github.com/globehall/neon-noir/core/customer"
	"github.com/globehall/neon-noir/core/order"
	"github.com/globehall/neon-noir/printful"
	"github.com/globehall/neon-noir/validate"
	"github.com/jmoiron/sqlx"
	"github.com/stripe/stripe-go/v74"
	stripecl "github.com/stripe/stripe-go/v74/client"
)

// HandleShow renders the current cart and totals (step 1).
func HandleShow(sm *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, _ := cart.Load(ctx, sm)
		c.CalculateTotals()

		resp := struct {
			Cart  cart.Cart `json:"cart"`
			Flash flashes   `json:"flash"`
		}{
			Cart:  c,
			Flash: popFlashes(ctx, sm),
		}

		return web.Respond(ctx, w, resp, http.StatusOK)
	}
}

// HandleUpdateItem overwrites the quantity of one cart line and
// redirects back to the checkout view (step 2).
func HandleUpdateItem(sm *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in struct {
			Quantity int `json:"quantity"`
		}
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding quantity update: %w", err))
		}

		productID := web.Param(r, "id")

		c, ok := cart.Load(ctx, sm)
		if !ok {
			return weberr.NewError(cart.ErrItemNotFound, cart.ErrItemNotFound.Error(), http.StatusNotFound)
		}

		change := []cart.QuantityChange{{ProductID: productID, Quantity: in.Quantity}}
		if err := c.Update(change); err != nil {
			if errors.Is(err, cart.ErrItemNotFound) {
				return weberr.NewError(err, err.Error(), http.StatusNotFound)
			}
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		if err := c.Save(ctx, sm); err != nil {
			return fmt.Errorf("saving cart: %w", err)
		}

		flashSuccess(ctx, sm, "Item quantity updated")
		return web.Redirect(w, r, checkoutURL, http.StatusSeeOther)
	}
}

// HandleRemoveItem drops one cart line. Removing the last line sends
// the shopper back to the store front instead of an empty checkout.
func HandleRemoveItem(sm *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		productID := web.Param(r, "id")

		c, ok := cart.Load(ctx, sm)
		if !ok {
			return weberr.NewError(cart.ErrItemNotFound, cart.ErrItemNotFound.Error(), http.StatusNotFound)
		}

		if err := c.Remove(productID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusNotFound)
		}

		if err := c.Save(ctx, sm); err != nil {
			return fmt.Errorf("saving cart: %w", err)
		}

		if len(c.Items) == 0 {
			flashSuccess(ctx, sm, "No items in cart, returned to store")
			return web.Redirect(w, r, storeURL, http.StatusSeeOther)
		}

		flashSuccess(ctx, sm, "Item removed from cart")
		return web.Redirect(w, r, checkoutURL, http.StatusSeeOther)
	}
}

// HandleQuote collects the customer's shipping details and prices the
// cart through the fulfillment provider (step 3). A provider failure
// is surfaced with its own payload; there is no fallback price.
func HandleQuote(sm *scs.SessionManager, pf *printful.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var cust customer.Customer
		if err := web.Decode(w, r, &cust); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding customer: %w", err))
		}

		if err := validate.Check(cust); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		c, _ := cart.Load(ctx, sm)

		items := make([]printful.LineItem, 0, len(c.Items))
		for _, it := range c.Items {
			items = append(items, printful.LineItem{
				SyncVariantID: it.SyncVariantID,
				Quantity:      it.Quantity,
				RetailPrice:   it.UnitPrice.String(),
				Currency:      "USD",
			})
		}

		quote, err := pf.EstimateCosts(ctx, cust.Recipient(), items)
		if err != nil {
			var perr *printful.Error
			if errors.As(err, &perr) {
				return weberr.NewError(err, perr.Result, http.StatusBadRequest)
			}
			return weberr.NewError(err, "unable to price the order", http.StatusBadRequest)
		}

		cust.Prices = &quote

		// A fresh quote starts a fresh attempt; a leftover payment
		// session from an abandoned confirm no longer applies.
		clearPending(ctx, sm)

		if err := cust.Save(ctx, sm); err != nil {
			return fmt.Errorf("saving customer: %w", err)
		}

		resp := struct {
			Cart     cart.Cart         `json:"cart"`
			Customer customer.Customer `json:"customer"`
			Prices   printful.Quote    `json:"prices"`
		}{
			Cart:     c,
			Customer: cust,
			Prices:   quote,
		}

		return web.Respond(ctx, w, resp, http.StatusOK)
	}
}

// HandleConfirm persists the order and creates the hosted payment
// session (step 4). The order is written before the processor is
// contacted, so a processor outage still leaves a recoverable stub.
// Flow-state failures send the shopper back to step 1, never a 500.
func HandleConfirm(sm *scs.SessionManager, db *sqlx.DB, strp *stripecl.API, cfg config.Stripe) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if p, ok := loadPending(ctx, sm); ok && time.Now().Before(p.ExpiresAt) {
			flashError(ctx, sm, "A payment is already in progress for this order")
			return web.Redirect(w, r, checkoutURL, http.StatusSeeOther)
		}

		cust, _ := customer.Load(ctx, sm)
		c, _ := cart.Load(ctx, sm)

		ord := order.Order{
			ID:        validate.GenerateID(),
			Items:     c.Items,
			Customer:  cust,
			Fulfilled: false,
			CreatedAt: time.Now().UTC(),
		}

		if err := order.Create(ctx, db, ord); err != nil {
			return fmt.Errorf("creating order: %w", err)
		}

		li := make([]*stripe.CheckoutSessionLineItemParams, 0, len(c.Items)+1)
		for _, it := range c.Items {
			li = append(li, &stripe.CheckoutSessionLineItemParams{
				Quantity: stripe.Int64(int64(it.Quantity)),

				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("usd"),
					UnitAmount: stripe.Int64(int64(it.UnitPrice)),

					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:   stripe.String(it.Title),
						Images: stripe.StringSlice([]string{it.Image}),
					},
				},
			})
		}

		// Shipping is charged as its own synthetic line item, priced
		// from the quote.
		li = append(li, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(1),

			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String("usd"),
				UnitAmount: stripe.Int64(int64(cust.Prices.Shipping)),

				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Shipping"),
				},
			},
		})

		params := &stripe.CheckoutSessionParams{
			CustomerEmail:      stripe.String(cust.Email),
			SubmitType:         stripe.String(string(stripe.CheckoutSessionSubmitTypePay)),
			PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
			Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
			SuccessURL:         stripe.String(cfg.SuccessURL),
			CancelURL:          stripe.String(cfg.CancelURL),
			LineItems:          li,
		}
		params.AddMetadata("orderId", ord.ID)

		s, err := strp.CheckoutSessions.New(params)
		if err != nil {
			flashError(ctx, sm, "Confirmation expired, returning to checkout")
			return web.Redirect(w, r, checkoutURL, http.StatusSeeOther)
		}

		// The shopper is about to leave for the hosted payment page;
		// wipe the personal fields so a refresh cannot resubmit them.
		// Only the order id stays behind to resolve the receipt.
		cust.OrderID = ord.ID
		cust.ClearPersonal()
		if err := cust.Save(ctx, sm); err != nil {
			return fmt.Errorf("saving customer: %w", err)
		}

		expires := time.Now().Add(time.Hour)
		if s.ExpiresAt > 0 {
			expires = time.Unix(s.ExpiresAt, 0)
		}
		savePending(ctx, sm, pendingPayment{SessionID: s.ID, ExpiresAt: expires})

		return web.Redirect(w, r, s.URL, http.StatusSeeOther)
	}
}

// HandleReceipt resolves the order the session points at (step 5).
// An unfulfilled order is "come back later", not an error; a
// fulfilled one renders exactly once and takes the session with it.
func HandleReceipt(sm *scs.SessionManager, db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		const expiredMsg = "order confirmation expired or failed"

		cust, ok := customer.Load(ctx, sm)
		if !ok || cust.OrderID == "" {
			err := errors.New("session carries no order id")
			return weberr.NewError(err, expiredMsg, http.StatusNotFound)
		}

		ord, err := order.Fetch(ctx, db, cust.OrderID)
		if err != nil {
			if errors.Is(err, order.ErrNotFound) {
				return weberr.NewError(err, expiredMsg, http.StatusNotFound)
			}
			return fmt.Errorf("fetching order[%s]: %w", cust.OrderID, err)
		}

		if !ord.Fulfilled {
			resp := struct {
				Status string `json:"status"`
			}{"awaiting_fulfillment"}
			return web.Respond(ctx, w, resp, http.StatusAccepted)
		}

		// Terminal state: the session must not serve a second receipt
		// or another checkout.
		if err := sm.Destroy(ctx); err != nil {
			return fmt.Errorf("destroying session: %w", err)
		}

		resp := struct {
			Customer customer.Customer `json:"customer"`
			Items    []cart.Item       `json:"items"`
			Prices   *printful.Quote   `json:"prices"`
		}{
			Customer: ord.Customer,
			Items:    ord.Items,
			Prices:   ord.Customer.Prices,
		}

		return web.Respond(ctx, w, resp, http.StatusOK)
	}
}
