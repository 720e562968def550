package config

import "time"

// Config is the full application configuration, parsed from the
// environment with the STORE prefix.
type Config struct {
	Web      Web
	DB       DB
	Session  Session
	Stripe   Stripe
	Printful Printful
	Rate     Rate
	Cors     Cors
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:3000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type DB struct {
	User         string `conf:"default:postgres"`
	Password     string `conf:"default:postgres,mask"`
	Host         string `conf:"default:localhost"`
	Name         string `conf:"default:storefront"`
	MaxIdleConns int    `conf:"default:2"`
	MaxOpenConns int    `conf:"default:0"`
	DisableTLS   bool   `conf:"default:true"`
}

type Session struct {
	Lifetime time.Duration `conf:"default:24h"`
}

type Stripe struct {
	APISecret     string `conf:"mask"`
	WebhookSecret string `conf:"mask"`
	SuccessURL    string `conf:"default:http://localhost:3000/store/checkout/receipt"`
	CancelURL     string `conf:"default:http://localhost:3000/store/checkout"`
}

type Printful struct {
	APIKey      string        `conf:"mask"`
	URL         string        `conf:"default:https://api.printful.com"`
	Timeout     time.Duration `conf:"default:10s"`
	SyncOnStart bool          `conf:"default:true"`
}

type Rate struct {
	Burst  int     `conf:"default:20"`
	RPS    float64 `conf:"default:10"`
	Expiry int     `conf:"default:60"`
}

type Cors struct {
	Origin string
}
