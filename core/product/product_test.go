package product

import (
	"testing"

	"github.com/globehall/neon-noir/printful"
)

func TestParseVariantName(t *testing.T) {
	cases := []struct {
		name  string
		color string
		size  string
	}{
		{"Neon Tee - Black / L", "Black", "L"},
		{"Neon Tee - Black", "Black", ""},
		{"Sticker Pack", "", ""},
		{"Hoodie - Heather Grey / XXL", "Heather Grey", "XXL"},
	}

	for _, c := range cases {
		color, size := parseVariantName(c.name)
		if color != c.color || size != c.size {
			t.Errorf("parseVariantName(%q) = (%q, %q), want (%q, %q)", c.name, color, size, c.color, c.size)
		}
	}
}

func TestFromDetail(t *testing.T) {
	d := printful.SyncProductDetail{
		Product: printful.SyncProduct{ID: 7, Name: "Neon Tee", ThumbnailURL: "thumb.png"},
		Variants: []printful.SyncVariant{
			{
				ID:           42,
				VariantID:    9001,
				Name:         "Neon Tee - Black / L",
				RetailPrice:  "25.00",
				Availability: "active",
				Files: []struct {
					PreviewURL string `json:"preview_url"`
				}{{PreviewURL: "print.png"}, {PreviewURL: "mockup.png"}},
			},
			{
				ID:           43,
				VariantID:    9002,
				Name:         "Neon Tee - Black / XL",
				RetailPrice:  "25.00",
				Availability: "supplier_out_of_stock",
			},
		},
	}

	p, err := fromDetail(d)
	if err != nil {
		t.Fatal(err)
	}

	if p.PrintfulID != 7 || p.Name != "Neon Tee" {
		t.Errorf("unexpected product header %+v", p)
	}
	if len(p.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(p.Variants))
	}

	v := p.Variants[0]
	if v.RetailPrice != 2500 {
		t.Errorf("retail price = %d, want 2500", v.RetailPrice)
	}
	if v.Color != "Black" || v.Size != "L" {
		t.Errorf("parsed variant = color %q size %q", v.Color, v.Size)
	}
	if v.Image != "mockup.png" {
		t.Errorf("image = %q, want the mockup preview", v.Image)
	}
	if !v.InStock {
		t.Error("active variant should be in stock")
	}

	if p.Variants[1].InStock {
		t.Error("supplier_out_of_stock variant should not be in stock")
	}
}

func TestFromDetailRejectsBadPrice(t *testing.T) {
	d := printful.SyncProductDetail{
		Product:  printful.SyncProduct{ID: 7, Name: "Neon Tee"},
		Variants: []printful.SyncVariant{{ID: 42, Name: "x", RetailPrice: "free"}},
	}

	if _, err := fromDetail(d); err == nil {
		t.Fatal("expected an error for an unparsable price")
	}
}
