// Package printful is a thin client for the parts of the Printful API
// the storefront needs: cost estimation for a cart and the store
// catalog used by the sync job.
package printful

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/globehall/neon-noir/money"
	"github.com/shopspring/decimal"
)

type Client struct {
	url  string
	auth string
	http *http.Client
}

func New(url string, apiKey string, timeout time.Duration) *Client {
	return &Client{
		url:  url,
		auth: "Basic " + base64.StdEncoding.EncodeToString([]byte(apiKey)),
		http: &http.Client{Timeout: timeout},
	}
}

// Recipient is the shipping destination of a cost estimate. The store
// ships inside the US only, so CountryCode is filled by the caller.
type Recipient struct {
	Name        string `json:"name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	StateCode   string `json:"state_code"`
	CountryCode string `json:"country_code"`
	Zip         string `json:"zip"`
}

// LineItem is one cart line in the provider's estimate shape.
type LineItem struct {
	SyncVariantID int64  `json:"sync_variant_id"`
	Quantity      int    `json:"quantity"`
	RetailPrice   string `json:"retail_price"`
	Currency      string `json:"currency"`
}

// Quote is the normalized price breakdown for one address and item
// set. Total is retail cost plus shipping; subtotal and tax mirror the
// provider's own breakdown and are informational.
type Quote struct {
	Subtotal   money.Cents `json:"subtotal"`
	Shipping   money.Cents `json:"shipping"`
	Tax        money.Cents `json:"tax"`
	Total      money.Cents `json:"total"`
	RetailCost money.Cents `json:"retailCost"`
}

// Error carries the provider's error payload verbatim so checkout can
// surface it to the client.
type Error struct {
	StatusCode int
	Result     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("printful responded %d: %s", e.StatusCode, e.Result)
}

// EstimateCosts asks the provider to price the given items shipped to
// the given recipient.
func (c *Client) EstimateCosts(ctx context.Context, rec Recipient, items []LineItem) (Quote, error) {
	body := struct {
		Recipient Recipient  `json:"recipient"`
		Items     []LineItem `json:"items"`
	}{
		Recipient: rec,
		Items:     items,
	}

	var out struct {
		Result struct {
			Costs struct {
				Subtotal decimal.Decimal `json:"subtotal"`
				Shipping decimal.Decimal `json:"shipping"`
				Tax      decimal.Decimal `json:"tax"`
			} `json:"costs"`
			RetailCosts struct {
				Subtotal decimal.Decimal `json:"subtotal"`
			} `json:"retail_costs"`
		} `json:"result"`
	}

	if err := c.post(ctx, "/orders/estimate-costs", body, &out); err != nil {
		return Quote{}, err
	}

	q := Quote{
		Subtotal:   money.FromDecimal(out.Result.Costs.Subtotal),
		Shipping:   money.FromDecimal(out.Result.Costs.Shipping),
		Tax:        money.FromDecimal(out.Result.Costs.Tax),
		RetailCost: money.FromDecimal(out.Result.RetailCosts.Subtotal),
	}
	q.Total = q.RetailCost + q.Shipping

	return q, nil
}

// SyncProduct is a catalog product header as listed by the provider.
type SyncProduct struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// SyncVariant is one sellable variant of a sync product.
type SyncVariant struct {
	ID           int64  `json:"id"`
	VariantID    int64  `json:"variant_id"`
	Name         string `json:"name"`
	RetailPrice  string `json:"retail_price"`
	Availability string `json:"availability_status"`
	Product      struct {
		Name string `json:"name"`
	} `json:"product"`
	Files []struct {
		PreviewURL string `json:"preview_url"`
	} `json:"files"`
}

// SyncProductDetail pairs a product header with its variants.
type SyncProductDetail struct {
	Product  SyncProduct   `json:"sync_product"`
	Variants []SyncVariant `json:"sync_variants"`
}

// SyncProducts lists the store's products.
func (c *Client) SyncProducts(ctx context.Context) ([]SyncProduct, error) {
	var out struct {
		Result []SyncProduct `json:"result"`
	}
	if err := c.get(ctx, "/store/products", &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

// SyncProductDetail fetches one product together with its variants.
func (c *Client) SyncProductDetail(ctx context.Context, id int64) (SyncProductDetail, error) {
	var out struct {
		Result SyncProductDetail `json:"result"`
	}
	if err := c.get(ctx, "/store/products/"+strconv.FormatInt(id, 10), &out); err != nil {
		return SyncProductDetail{}, err
	}
	return out.Result, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", c.auth)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling printful: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading printful response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Result json.RawMessage `json:"result"`
		}
		result := string(raw)
		if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Result) > 0 {
			result = string(payload.Result)
		}
		return &Error{StatusCode: resp.StatusCode, Result: result}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding printful response: %w", err)
	}

	return nil
}
