package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/tieredpricing-backend/pkg/errors"
)

type samplePayload struct {
	VariantID string `json:"variant_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

func TestDecodeJSONBodyReportsJSONFieldNames(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":0}`))
	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %#v", typed.Details())
	}
	if details["variant_id"] != "is required" {
		t.Fatalf("unexpected variant_id detail %q", details["variant_id"])
	}
	if details["quantity"] != "must be at least 1" {
		t.Fatalf("unexpected quantity detail %q", details["quantity"])
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"variant_id":"v","quantity":1,"unit_price":1}`))
	var payload samplePayload
	if err := DecodeJSONBody(req, &payload); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected unknown field to be rejected, got %v", err)
	}
}

func TestDecodeJSONBodySuccess(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"variant_id":"v","quantity":3}`))
	var payload samplePayload
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Quantity != 3 {
		t.Fatalf("unexpected quantity %d", payload.Quantity)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?quantity=12&bad=x&big=5000", nil)
	if v, err := ParseQueryInt(req, "quantity", 1, 1, 1000); err != nil || v != 12 {
		t.Fatalf("expected 12, got %d (%v)", v, err)
	}
	if v, err := ParseQueryInt(req, "missing", 1, 1, 1000); err != nil || v != 1 {
		t.Fatalf("expected default, got %d (%v)", v, err)
	}
	if _, err := ParseQueryInt(req, "bad", 1, 1, 1000); err == nil {
		t.Fatal("expected error for non numeric value")
	}
	if _, err := ParseQueryInt(req, "big", 1, 1, 1000); err == nil {
		t.Fatal("expected error for out of range value")
	}
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	build := func(value string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rc := chi.NewRouteContext()
		rc.URLParams.Add("cartId", value)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	}

	got, err := ParseUUIDParam(build(id.String()), "cartId")
	if err != nil || got != id {
		t.Fatalf("expected %s, got %s (%v)", id, got, err)
	}
	if _, err := ParseUUIDParam(build("nope"), "cartId"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := ParseUUIDParam(build(""), "cartId"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty id, got %v", err)
	}
}

type pricePayload struct {
	Price        *decimal.Decimal `json:"price_1_9" validate:"required,gte=0"`
	CurrencyCode string           `json:"currency_code" validate:"required,currency"`
}

func TestValidateStructPricesAndCurrency(t *testing.T) {
	price := func(v string) *decimal.Decimal {
		d := decimal.RequireFromString(v)
		return &d
	}

	cases := []struct {
		name    string
		payload pricePayload
		field   string
		message string
	}{
		{name: "zero price ok", payload: pricePayload{Price: price("0"), CurrencyCode: "RON"}},
		{name: "decimal price ok", payload: pricePayload{Price: price("22.50"), CurrencyCode: " eur "}},
		{name: "missing price", payload: pricePayload{CurrencyCode: "ron"}, field: "price_1_9", message: "is required"},
		{name: "negative price", payload: pricePayload{Price: price("-1"), CurrencyCode: "ron"}, field: "price_1_9", message: "must not be negative"},
		{name: "bad currency", payload: pricePayload{Price: price("1"), CurrencyCode: "ro1"}, field: "currency_code", message: "must be a three letter currency code"},
		{name: "long currency", payload: pricePayload{Price: price("1"), CurrencyCode: "euro"}, field: "currency_code", message: "must be a three letter currency code"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateStruct(tc.payload)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			typed := pkgerrors.As(err)
			if typed == nil {
				t.Fatalf("expected validation error, got %v", err)
			}
			details, _ := typed.Details().(map[string]string)
			if details[tc.field] != tc.message {
				t.Fatalf("expected %s: %q, got %#v", tc.field, tc.message, details)
			}
		})
	}
}

func TestDecodeJSONBodyRejectsOversizedBody(t *testing.T) {
	body := `{"variant_id":"` + strings.Repeat("v", maxBodyBytes) + `","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var payload samplePayload
	if err := DecodeJSONBody(req, &payload); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected oversized body to be rejected, got %v", err)
	}
}
