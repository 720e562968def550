package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/globehall/neon-noir/api/web"
	"github.com/globehall/neon-noir/api/weberr"
	"github.com/globehall/neon-noir/rate"
)

// RateLimit throttles a handler per client address. It sits on the
// checkout mutation routes so a looping client cannot hammer the
// pricing gateway or the payment processor.
func RateLimit(lim *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !lim.Check(host) {
				err := errors.New("client exceeded the request limit")
				return weberr.NewError(err, "too many requests, slow down", http.StatusTooManyRequests)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
