package test

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/globehall/neon-noir/api/web"
	"github.com/gorilla/mux"
	mock "github.com/stripe/stripe-mock/param"
)

// mockPrintful fakes the two provider surfaces the storefront uses:
// cost estimation and the store catalog.
type mockPrintful struct {
	mu sync.Mutex

	// Costs returned by the next estimate calls.
	Subtotal   float64
	Shipping   float64
	Tax        float64
	RetailCost float64

	// FailEstimate makes the next estimate calls fail with a
	// provider-side validation error.
	FailEstimate bool
}

func newMockPrintful() *mockPrintful {
	return &mockPrintful{
		Subtotal:   5,
		Shipping:   5,
		Tax:        1,
		RetailCost: 25,
	}
}

func (m *mockPrintful) SetCosts(subtotal, shipping, tax, retail float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Subtotal, m.Shipping, m.Tax, m.RetailCost = subtotal, shipping, tax, retail
}

func (m *mockPrintful) SetFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailEstimate = fail
}

func (m *mockPrintful) handle() http.Handler {
	estimate := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()

		if m.FailEstimate {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code": 400, "result": "Invalid recipient state code"}`))
			return
		}

		var body struct {
			Recipient struct {
				Name string `json:"name"`
				Zip  string `json:"zip"`
			} `json:"recipient"`
			Items []struct {
				SyncVariantID int64  `json:"sync_variant_id"`
				Quantity      int    `json:"quantity"`
				RetailPrice   string `json:"retail_price"`
			} `json:"items"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Recipient.Name == "" || len(body.Items) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code": 400, "result": "Malformed estimate request"}`))
			return
		}

		fmt.Fprintf(w, `{"result": {"costs": {"subtotal": %g, "shipping": %g, "tax": %g}, "retail_costs": {"subtotal": %g}}}`,
			m.Subtotal, m.Shipping, m.Tax, m.RetailCost)
	})

	list := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": [{"id": 7, "name": "Neon Tee", "thumbnail_url": "https://cdn.example/tee.png"}]}`))
	})

	detail := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["id"] != "7" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"code": 404, "result": "Product not found"}`))
			return
		}
		w.Write([]byte(`{"result": {
			"sync_product": {"id": 7, "name": "Neon Tee", "thumbnail_url": "https://cdn.example/tee.png"},
			"sync_variants": [
				{"id": 42, "variant_id": 9001, "name": "Neon Tee - Black / L", "retail_price": "25.00",
				 "availability_status": "active",
				 "files": [{"preview_url": "https://cdn.example/print.png"}, {"preview_url": "https://cdn.example/mock.png"}]},
				{"id": 43, "variant_id": 9002, "name": "Neon Tee - Black / XL", "retail_price": "25.00",
				 "availability_status": "supplier_out_of_stock",
				 "files": [{"preview_url": "https://cdn.example/print.png"}, {"preview_url": "https://cdn.example/mock.png"}]}
			]
		}}`))
	})

	r := mux.NewRouter()
	r.Handle("/orders/estimate-costs", estimate).Methods("POST")
	r.Handle("/store/products", list).Methods("GET")
	r.Handle("/store/products/{id}", detail).Methods("GET")
	return r
}

// mockStripe fakes the hosted checkout-session endpoint and records
// what the server sent it.
type mockStripe struct {
	mu sync.Mutex

	// LastOrderID is the metadata orderId of the last created
	// session, the join key the webhook uses.
	LastOrderID string
	// LastLineItems counts line items of the last created session.
	LastLineItems int

	Created int
}

func newMockStripe() *mockStripe {
	return &mockStripe{}
}

func (m *mockStripe) handle() http.Handler {
	checkout := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params, _ := mock.ParseParams(r)

		m.mu.Lock()
		defer m.mu.Unlock()

		m.Created++
		m.LastOrderID = ""
		m.LastLineItems = 0

		if md, ok := params["metadata"].(map[string]any); ok {
			if id, ok := md["orderId"].(string); ok {
				m.LastOrderID = id
			}
		}
		if lines, ok := params["line_items"].(map[string]any); ok {
			m.LastLineItems = len(lines)
		}

		id := fmt.Sprintf("cs_test_%d", rand.Intn(100000))
		obj := map[string]any{
			"id":         id,
			"url":        "https://pay.example/" + id,
			"mode":       "payment",
			"expires_at": time.Now().Add(24 * time.Hour).Unix(),
		}
		web.Respond(context.Background(), w, obj, http.StatusOK)
	})

	r := mux.NewRouter()
	r.Handle("/v1/checkout/sessions", checkout).Methods("POST")
	return r
}

func (m *mockStripe) snapshot() (orderID string, lineItems int, created int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LastOrderID, m.LastLineItems, m.Created
}
