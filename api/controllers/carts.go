package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/tieredpricing-backend/api/responses"
	"github.com/angelmondragon/tieredpricing-backend/api/validators"
	"github.com/angelmondragon/tieredpricing-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/tieredpricing-backend/pkg/errors"
	"github.com/angelmondragon/tieredpricing-backend/pkg/logger"
	"github.com/angelmondragon/tieredpricing-backend/pkg/types"
)

type createCartRequest struct {
	CurrencyCode string `json:"currency_code" validate:"required,currency"`
}

type addTieredLineItemRequest struct {
	VariantID uuid.UUID      `json:"variant_id" validate:"required"`
	Quantity  int            `json:"quantity" validate:"required,min=1,max=2147483647"`
	Metadata  types.Metadata `json:"metadata,omitempty"`
}

type cartResponse struct {
	Cart *cart.CartDTO `json:"cart"`
}

func StoreCreateCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload createCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateCart(r.Context(), payload.CurrencyCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, cartResponse{Cart: created})
	}
}

func StoreGetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID, err := validators.ParseUUIDParam(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := svc.GetCart(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse{Cart: found})
	}
}

// StoreAddTieredLineItem adds a variant to the cart at the tier price for the
// requested quantity. The client never supplies the unit price.
func StoreAddTieredLineItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID, err := validators.ParseUUIDParam(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addTieredLineItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCartID(ctx, cartID.String())
		}

		updated, err := svc.AddTieredLineItem(ctx, cartID, cart.AddLineItemInput{
			VariantID: payload.VariantID,
			Quantity:  payload.Quantity,
			Metadata:  payload.Metadata,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse{Cart: updated})
	}
}
