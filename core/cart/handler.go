package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/globehall/neon-noir/api/web"
	"github.com/globehall/neon-noir/api/weberr"
	"github.com/globehall/neon-noir/core/product"
	"github.com/globehall/neon-noir/validate"
	"github.com/jmoiron/sqlx"
)

type itemNew struct {
	ProductID     string `json:"productId" validate:"required,uuid4"`
	SyncVariantID int64  `json:"syncVariantId" validate:"required"`
	Quantity      int    `json:"quantity" validate:"required,gte=1"`
}

// HandleCreateItem resolves a catalog product and variant into a cart
// line and commits the cart back to the session.
func HandleCreateItem(db *sqlx.DB, sm *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in itemNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding cart item: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		p, err := product.Fetch(ctx, db, in.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching product[%s]: %w", in.ProductID, err)
		}

		v, ok := p.Variant(in.SyncVariantID)
		if !ok {
			return weberr.NotFound(fmt.Errorf("product[%s] has no variant[%d]", p.ID, in.SyncVariantID))
		}

		if !v.InStock {
			err := fmt.Errorf("variant[%d] is out of stock", v.SyncVariantID)
			return weberr.NewError(err, "that item is currently out of stock", http.StatusUnprocessableEntity)
		}

		c, _ := Load(ctx, sm)
		c.Add(Item{
			ProductID:     p.ID,
			SyncVariantID: v.SyncVariantID,
			Title:         v.Name,
			Image:         v.Image,
			UnitPrice:     v.RetailPrice,
			Quantity:      in.Quantity,
		})

		if err := c.Save(ctx, sm); err != nil {
			return fmt.Errorf("saving cart: %w", err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}
