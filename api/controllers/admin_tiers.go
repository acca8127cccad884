package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tieredpricing-backend/api/responses"
	"github.com/angelmondragon/tieredpricing-backend/api/validators"
	"github.com/angelmondragon/tieredpricing-backend/internal/tiers"
	pkgerrors "github.com/angelmondragon/tieredpricing-backend/pkg/errors"
	"github.com/angelmondragon/tieredpricing-backend/pkg/logger"
)

type setTieredPricesRequest struct {
	ProductID    uuid.UUID        `json:"product_id" validate:"required"`
	VariantID    uuid.UUID        `json:"variant_id" validate:"required"`
	Price1To9    *decimal.Decimal `json:"price_1_9" validate:"required,gte=0"`
	Price10To24  *decimal.Decimal `json:"price_10_24" validate:"required,gte=0"`
	Price25Plus  *decimal.Decimal `json:"price_25" validate:"required,gte=0"`
	CurrencyCode string           `json:"currency_code" validate:"required,currency"`
}

// AdminSetTieredPrices writes the three standard quantity tiers for one variant.
func AdminSetTieredPrices(svc tiers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tier service unavailable"))
			return
		}

		var payload setTieredPricesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithVariantID(ctx, payload.VariantID.String())
		}

		err := svc.SetTieredPrices(ctx, tiers.SetTieredPricesInput{
			ProductID:    payload.ProductID,
			VariantID:    payload.VariantID,
			CurrencyCode: payload.CurrencyCode,
			Price1To9:    *payload.Price1To9,
			Price10To24:  *payload.Price10To24,
			Price25Plus:  *payload.Price25Plus,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteAck(w)
	}
}

// AdminProductTieredPrices returns the product's variants with their tiers for
// prefilling the admin form.
func AdminProductTieredPrices(svc tiers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tier service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		currency := strings.TrimSpace(r.URL.Query().Get("currency_code"))

		out, err := svc.ListProductTiers(r.Context(), productID, currency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}
