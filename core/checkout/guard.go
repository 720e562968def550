package checkout

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/globehall/neon-noir/api/web"
	"github.com/globehall/neon-noir/api/weberr"
	"github.com/globehall/neon-noir/core/cart"
	"github.com/globehall/neon-noir/core/customer"
)

// VerifyCheckout short-circuits any checkout step issued against an
// empty cart, before the step runs.
func VerifyCheckout(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			c, _ := cart.Load(ctx, sm)
			if len(c.Items) == 0 {
				err := errors.New("no items to checkout")
				return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// VerifyConfirmation requires a quoted session customer before a
// confirm may run. A missing or unquoted customer means the flow
// state expired; the shopper is sent back to step 1 rather than shown
// an error page.
func VerifyConfirmation(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			cust, ok := customer.Load(ctx, sm)
			if !ok || cust.Email == "" || cust.Prices == nil {
				flashError(ctx, sm, "Confirmation expired, returning to checkout")
				return web.Redirect(w, r, checkoutURL, http.StatusSeeOther)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
