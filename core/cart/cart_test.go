package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/globehall/neon-noir/money"
	"github.com/google/go-cmp/cmp"
)

func item(id string, price money.Cents, qty int) Item {
	return Item{
		ProductID:     id,
		SyncVariantID: 100,
		Title:         "Test " + id,
		UnitPrice:     price,
		Quantity:      qty,
	}
}

func TestTotalsConsistency(t *testing.T) {
	c := New()

	check := func(step string) {
		t.Helper()

		var want money.Cents
		for _, it := range c.Items {
			want += it.UnitPrice.Mul(it.Quantity)
		}
		if c.Totals.Subtotal != want {
			t.Errorf("%s: subtotal = %s, want %s", step, c.Totals.Subtotal, want)
		}
		if c.Totals.ItemCount != len(c.Items) {
			t.Errorf("%s: itemCount = %d, want %d", step, c.Totals.ItemCount, len(c.Items))
		}
	}

	c.Add(item("p1", 2500, 2))
	check("add p1")

	c.Add(item("p2", 1000, 1))
	check("add p2")

	c.Add(item("p1", 2500, 1)) // merges into the existing line
	check("merge p1")
	if len(c.Items) != 2 {
		t.Fatalf("expected 2 lines after merge, got %d", len(c.Items))
	}

	if err := c.Update([]QuantityChange{{ProductID: "p2", Quantity: 5}}); err != nil {
		t.Fatal(err)
	}
	check("update p2")

	if err := c.Remove("p1"); err != nil {
		t.Fatal(err)
	}
	check("remove p1")
}

func TestUpdateTargeting(t *testing.T) {
	c := New()
	c.Add(item("p1", 2500, 2))
	c.Add(item("p2", 1000, 3))

	if err := c.Update([]QuantityChange{{ProductID: "p1", Quantity: 7}}); err != nil {
		t.Fatal(err)
	}

	if c.Items[0].Quantity != 7 {
		t.Errorf("p1 quantity = %d, want 7", c.Items[0].Quantity)
	}
	if c.Items[1].Quantity != 3 {
		t.Errorf("p2 quantity changed to %d", c.Items[1].Quantity)
	}
}

func TestUpdateRejectsUnknownItem(t *testing.T) {
	c := New()
	c.Add(item("p1", 2500, 2))

	err := c.Update([]QuantityChange{
		{ProductID: "p1", Quantity: 9},
		{ProductID: "missing", Quantity: 1},
	})
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("err = %v, want ErrItemNotFound", err)
	}

	// The batch failed, so no item may have changed.
	if c.Items[0].Quantity != 2 {
		t.Errorf("p1 quantity = %d after failed batch, want 2", c.Items[0].Quantity)
	}
}

func TestUpdateRejectsZeroQuantity(t *testing.T) {
	c := New()
	c.Add(item("p1", 2500, 2))

	if err := c.Update([]QuantityChange{{ProductID: "p1", Quantity: 0}}); err == nil {
		t.Fatal("expected an error for quantity 0")
	}
}

func TestRemove(t *testing.T) {
	c := New()
	c.Add(item("p1", 2500, 2))
	c.Add(item("p2", 1000, 1))

	before := c.Totals

	if err := c.Remove("missing"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("err = %v, want ErrItemNotFound", err)
	}
	if diff := cmp.Diff(before, c.Totals); diff != "" {
		t.Errorf("failed removal changed totals:\n%s", diff)
	}

	if err := c.Remove("p1"); err != nil {
		t.Fatal(err)
	}
	if len(c.Items) != 1 || c.Items[0].ProductID != "p2" {
		t.Fatalf("unexpected items after removal: %+v", c.Items)
	}
	if c.Totals.Subtotal != 1000 || c.Totals.ItemCount != 1 {
		t.Errorf("totals after removal = %+v", c.Totals)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	sm := scs.New()

	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := Load(ctx, sm); ok {
		t.Fatal("fresh session should not contain a cart")
	}

	c := New()
	c.Add(item("p1", 2500, 2))
	if err := c.Save(ctx, sm); err != nil {
		t.Fatal(err)
	}

	got, ok := Load(ctx, sm)
	if !ok {
		t.Fatal("saved cart not found in session")
	}
	if diff := cmp.Diff(c, got); diff != "" {
		t.Errorf("cart did not survive the session round trip:\n%s", diff)
	}
}
