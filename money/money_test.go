package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Cents
	}{
		{"25.00", 2500},
		{"25", 2500},
		{"0.01", 1},
		{"19.999", 2000},
		{"3.005", 301},
		{"0", 0},
	}

	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %d, want %d", c.in, got, c.want)
		}
	}

	if _, err := Parse("not-a-number"); err == nil {
		t.Error("expected an error parsing garbage input")
	}
}

func TestString(t *testing.T) {
	if got := Cents(2500).String(); got != "25.00" {
		t.Errorf("String() = %q, want %q", got, "25.00")
	}
	if got := Cents(5).String(); got != "0.05" {
		t.Errorf("String() = %q, want %q", got, "0.05")
	}
}

func TestFromDecimal(t *testing.T) {
	d := decimal.RequireFromString("23")
	if got := FromDecimal(d); got != 2300 {
		t.Errorf("FromDecimal(23) = %d, want 2300", got)
	}
}

func TestMul(t *testing.T) {
	if got := Cents(2500).Mul(2); got != 5000 {
		t.Errorf("Mul(2) = %d, want 5000", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(Cents(2300))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"23.00"` {
		t.Errorf("marshal = %s, want %q", b, `"23.00"`)
	}

	var c Cents
	if err := json.Unmarshal(b, &c); err != nil {
		t.Fatal(err)
	}
	if c != 2300 {
		t.Errorf("round trip = %d, want 2300", c)
	}

	// Bare numbers come straight off the provider wire.
	if err := json.Unmarshal([]byte(`5`), &c); err != nil {
		t.Fatal(err)
	}
	if c != 500 {
		t.Errorf("unmarshal bare number = %d, want 500", c)
	}
}
