package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/angelmondragon/tieredpricing-backend/api/responses"
	"github.com/angelmondragon/tieredpricing-backend/api/validators"
	"github.com/angelmondragon/tieredpricing-backend/internal/presenter"
	"github.com/angelmondragon/tieredpricing-backend/internal/variants"
	pkgerrors "github.com/angelmondragon/tieredpricing-backend/pkg/errors"
	"github.com/angelmondragon/tieredpricing-backend/pkg/logger"
	"github.com/angelmondragon/tieredpricing-backend/pkg/metrics"
)

const (
	maxPreviewQuantity = 1_000_000
	noPackagingLabel   = "none"
)

// StoreVariantPricePreview returns the advisory price a buyer sees for the
// chosen packaging and quantity. The result is never binding.
func StoreVariantPricePreview(loader variants.PriceViewLoader, recorder *metrics.PricingMetrics, defaultCurrency string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if loader == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "variant reader unavailable"))
			return
		}

		variantID, err := validators.ParseUUIDParam(r, "variantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quantity, err := validators.ParseQueryInt(r, "quantity", 1, 0, maxPreviewQuantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pieces, err := validators.ParseQueryInt(r, "pieces", 0, 0, maxPreviewQuantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		currency := strings.TrimSpace(query.Get("currency_code"))
		if currency == "" {
			currency = defaultCurrency
		}
		label := strings.TrimSpace(query.Get("packaging"))

		view, err := loader.LoadPriceView(r.Context(), variantID)
		if err != nil {
			recorder.IncResolution(metrics.PathPreview, "error")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		p := view.Presenter(currency)
		req := presenter.Request{Quantity: quantity, Pieces: pieces}
		if strings.EqualFold(label, noPackagingLabel) {
			req.NoPackage = true
		} else {
			req.Packaging = label
		}
		state, err := p.Apply(req)
		if err != nil {
			if errors.Is(err, presenter.ErrUnknownPackaging) {
				recorder.IncResolution(metrics.PathPreview, "invalid")
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown packaging option").
					WithDetails(map[string]string{"packaging": "is not offered for this variant"}))
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := p.View(state)
		recorder.IncResolution(metrics.PathPreview, out.PriceSource.String())
		responses.WriteSuccess(w, out)
	}
}
