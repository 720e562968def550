package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/globehall/neon-noir/api/middleware"
	"github.com/globehall/neon-noir/api/web"
	"github.com/globehall/neon-noir/api/weberr"
	"github.com/globehall/neon-noir/config"
	"github.com/globehall/neon-noir/core/cart"
	"github.com/globehall/neon-noir/core/checkout"
	"github.com/globehall/neon-noir/core/order"
	"github.com/globehall/neon-noir/core/product"
	"github.com/globehall/neon-noir/database"
	"github.com/globehall/neon-noir/printful"
	"github.com/globehall/neon-noir/rate"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	stripecl "github.com/stripe/stripe-go/v74/client"
)

type APIConfig struct {
	CorsOrigin string
	Log        logrus.FieldLogger
	DB         *sqlx.DB
	Session    *scs.SessionManager
	Printful   *printful.Client
	Stripe     *stripecl.API
	StripeCfg  config.Stripe
	Limiter    *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, middleware.Session(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	verifyCheckout := checkout.VerifyCheckout(cfg.Session)
	verifyConfirmation := checkout.VerifyConfirmation(cfg.Session)
	limit := middleware.RateLimit(cfg.Limiter)

	a.Handle(http.MethodGet, "/health", handleHealth(cfg.DB))

	a.Handle(http.MethodGet, "/store/products", product.HandleList(cfg.DB))
	a.Handle(http.MethodGet, "/store/products/{id}", product.HandleShow(cfg.DB))

	a.Handle(http.MethodPost, "/store/cart/items", cart.HandleCreateItem(cfg.DB, cfg.Session), limit)

	a.Handle(http.MethodGet, "/store/checkout", checkout.HandleShow(cfg.Session), verifyCheckout)
	a.Handle(http.MethodPatch, "/store/checkout/items/{id}", checkout.HandleUpdateItem(cfg.Session), limit)
	a.Handle(http.MethodDelete, "/store/checkout/items/{id}", checkout.HandleRemoveItem(cfg.Session), limit)
	a.Handle(http.MethodPost, "/store/checkout", checkout.HandleQuote(cfg.Session, cfg.Printful), limit, verifyCheckout)
	a.Handle(http.MethodPost, "/store/checkout/confirm", checkout.HandleConfirm(cfg.Session, cfg.DB, cfg.Stripe, cfg.StripeCfg), limit, verifyCheckout, verifyConfirmation)
	a.Handle(http.MethodGet, "/store/checkout/receipt", checkout.HandleReceipt(cfg.Session, cfg.DB))

	a.Handle(http.MethodPost, "/webhooks/stripe", order.HandleStripeWebhook(cfg.DB, cfg.StripeCfg))

	return a.Router
}

func handleHealth(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := database.StatusCheck(ctx, db); err != nil {
			return weberr.NewError(err, "database not ready", http.StatusServiceUnavailable)
		}

		status := struct {
			Status string `json:"status"`
		}{"ok"}
		return web.Respond(ctx, w, status, http.StatusOK)
	}
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
