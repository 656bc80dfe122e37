package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Pushparajan/CraftYourCoffee/internal/domain"
)

func priceRouter(pricing PricingService) *gin.Engine {
	h := New(stubCatalogSvc{}, pricing, stubPrefSvc{}, stubDrinkSvc{}, stubPreviewSvc{}, stubWizardSvc{}, stubTrainerSvc{})
	r := gin.New()
	r.POST("/price", h.QuotePrice)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestQuotePrice_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotCfg domain.DrinkConfig
	r := priceRouter(stubPricingSvc{
		quote: func(_ context.Context, cfg domain.DrinkConfig) (*domain.PriceBreakdown, error) {
			gotCfg = cfg
			return &domain.PriceBreakdown{
				Base:  3.0,
				Total: 3.0,
				LoyaltyPoints: domain.LoyaltyPoints{
					Base:  6,
					Total: 6,
				},
			}, nil
		},
	})

	w := postJSON(r, "/price", `{"base":"Espresso","syrups":[{"name":"Caramel","pumps":2}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("price -> %d: %s", w.Code, w.Body.String())
	}
	if gotCfg.Base != "Espresso" || len(gotCfg.Syrups) != 1 || gotCfg.Syrups[0].Pumps != 2 {
		t.Fatalf("service saw config %+v", gotCfg)
	}

	var b domain.PriceBreakdown
	if err := json.Unmarshal(w.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Total != 3.0 || b.LoyaltyPoints.Total != 6 {
		t.Fatalf("unexpected breakdown: %+v", b)
	}
}

func TestQuotePrice_BadJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := priceRouter(stubPricingSvc{})
	if w := postJSON(r, "/price", "{bad"); w.Code != http.StatusBadRequest {
		t.Fatalf("bad json -> %d", w.Code)
	}
}

func TestQuotePrice_ServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := priceRouter(stubPricingSvc{
		quote: func(context.Context, domain.DrinkConfig) (*domain.PriceBreakdown, error) {
			return nil, errors.New("db down")
		},
	})

	w := postJSON(r, "/price", `{"base":"Espresso"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("error -> %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != ErrCodePriceFailed {
		t.Fatalf("code = %q", resp.Code)
	}
}
