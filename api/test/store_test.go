package test

import (
	"context"
	"net/http"
	"testing"

	"github.com/globehall/neon-noir/core/product"
	"github.com/globehall/neon-noir/validate"
)

type storeTest struct {
	*TestEnv
}

func TestStore(t *testing.T) {
	env, err := NewTestEnv(t, "store_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	st := &storeTest{env}

	// Syncing twice must not duplicate the catalog.
	for i := 0; i < 2; i++ {
		if err := product.Sync(context.Background(), env.DB, env.PrintfulClient); err != nil {
			t.Fatalf("sync %d: %v", i, err)
		}
	}

	pid := st.listOne(t)

	t.Run("show", func(t *testing.T) { st.testShow(t, pid) })
	t.Run("outOfStock", func(t *testing.T) { st.testOutOfStock(t, pid) })
	t.Run("unknownProduct", func(t *testing.T) { st.testUnknownProduct(t) })
}

func (st *storeTest) listOne(t *testing.T) string {
	ct := &checkoutTest{st.TestEnv}

	resp := ct.do(t, st.NewClient(), http.MethodGet, "/store/products", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("listing products: status %s", resp.Status)
	}

	var ps []product.Product
	mustDecode(t, resp, &ps)
	if len(ps) != 1 {
		t.Fatalf("catalog has %d products after two syncs, want 1", len(ps))
	}

	return ps[0].ID
}

func (st *storeTest) testShow(t *testing.T, pid string) {
	ct := &checkoutTest{st.TestEnv}

	resp := ct.do(t, st.NewClient(), http.MethodGet, "/store/products/"+pid, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("showing product: status %s", resp.Status)
	}

	var p product.Product
	mustDecode(t, resp, &p)

	if p.Name != "Neon Tee" {
		t.Errorf("product name = %q", p.Name)
	}
	if len(p.Variants) != 2 {
		t.Fatalf("product has %d variants, want 2", len(p.Variants))
	}

	v, ok := p.Variant(42)
	if !ok {
		t.Fatal("variant 42 missing")
	}
	if v.RetailPrice != 2500 || v.Size != "L" || v.Color != "Black" || !v.InStock {
		t.Errorf("variant 42 = %+v", v)
	}

	v, ok = p.Variant(43)
	if !ok {
		t.Fatal("variant 43 missing")
	}
	if v.InStock {
		t.Error("variant 43 should be out of stock")
	}

	// A malformed id is a client error, not a lookup miss.
	resp = ct.do(t, st.NewClient(), http.MethodGet, "/store/products/not-a-uuid", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed id: status %s, want 400", resp.Status)
	}
	resp.Body.Close()
}

func (st *storeTest) testOutOfStock(t *testing.T, pid string) {
	ct := &checkoutTest{st.TestEnv}

	body := map[string]any{"productId": pid, "syncVariantId": 43, "quantity": 1}
	resp := ct.do(t, st.NewClient(), http.MethodPost, "/store/cart/items", body)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("adding out-of-stock variant: status %s, want 422", resp.Status)
	}
	resp.Body.Close()
}

func (st *storeTest) testUnknownProduct(t *testing.T) {
	ct := &checkoutTest{st.TestEnv}

	body := map[string]any{"productId": validate.GenerateID(), "syncVariantId": 42, "quantity": 1}
	resp := ct.do(t, st.NewClient(), http.MethodPost, "/store/cart/items", body)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("adding unknown product: status %s, want 404", resp.Status)
	}
	resp.Body.Close()
}
