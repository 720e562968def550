// Package checkout orchestrates the multi-step purchase protocol:
// view cart, edit items, quote shipping and tax, create the hosted
// payment session, and resolve the receipt. All in-flight state lives
// in the shopper's session; the order record is the only thing that
// survives it.
package checkout

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alexedwards/scs/v2"
)

// Step-1 URL of the flow; edit and failure paths redirect here.
const checkoutURL = "/store/checkout"

// Store front page; emptying the cart redirects here instead.
const storeURL = "/store/products"

const (
	flashSuccessKey = "flash_success"
	flashErrorKey   = "flash_error"
	pendingKey      = "pending_payment"
)

// flashes carries one-shot messages across a redirect, popped on the
// next checkout view.
type flashes struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

func flashSuccess(ctx context.Context, sm *scs.SessionManager, msg string) {
	sm.Put(ctx, flashSuccessKey, msg)
}

func flashError(ctx context.Context, sm *scs.SessionManager, msg string) {
	sm.Put(ctx, flashErrorKey, msg)
}

func popFlashes(ctx context.Context, sm *scs.SessionManager) flashes {
	return flashes{
		Success: sm.PopString(ctx, flashSuccessKey),
		Error:   sm.PopString(ctx, flashErrorKey),
	}
}

// pendingPayment records the hosted payment session created by a
// confirm, so a second confirm cannot mint a duplicate order while
// one is still payable.
type pendingPayment struct {
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func loadPending(ctx context.Context, sm *scs.SessionManager) (pendingPayment, bool) {
	b := sm.GetBytes(ctx, pendingKey)
	if b == nil {
		return pendingPayment{}, false
	}

	var p pendingPayment
	if err := json.Unmarshal(b, &p); err != nil {
		return pendingPayment{}, false
	}

	return p, true
}

func savePending(ctx context.Context, sm *scs.SessionManager, p pendingPayment) {
	b, err := json.Marshal(p)
	if err != nil {
		return
	}
	sm.Put(ctx, pendingKey, b)
}

func clearPending(ctx context.Context, sm *scs.SessionManager) {
	sm.Remove(ctx, pendingKey)
}
