// Drink HTTP handlers.
//
// This file exposes REST endpoints for saved drink resources:
//   - POST /drinks        (save, idempotency support)
//   - GET  /drinks        (list, paginated, ETag support)
//   - GET  /drinks/{id}   (fetch one)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// save exists for (user, key), the handler returns the recorded drink and sets
// `Idempotency-Replayed: true`.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Pushparajan/CraftYourCoffee/internal/domain"
	"github.com/Pushparajan/CraftYourCoffee/internal/http/middleware"
	"github.com/Pushparajan/CraftYourCoffee/internal/repo"
	"github.com/Pushparajan/CraftYourCoffee/internal/services"
	"github.com/Pushparajan/CraftYourCoffee/internal/utils"
)

//
// Service contracts (context-aware)
//

// CatalogService lists configuration options for one catalog category.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type CatalogService interface {
	// Options returns the ordered option list for a category name.
	Options(ctx context.Context, category string) ([]domain.Option, error)
}

// PricingService computes the price and loyalty breakdown of a configuration.
type PricingService interface {
	Quote(ctx context.Context, cfg domain.DrinkConfig) (*domain.PriceBreakdown, error)
}

// PreferenceService stores and retrieves the saved taste profile.
type PreferenceService interface {
	Save(ctx context.Context, aroma, flavor, acidity, body, aftertaste string) (*domain.Preference, error)
	// Latest returns (nil, nil) when no preference has been saved yet.
	Latest(ctx context.Context) (*domain.Preference, error)
}

// DrinkService persists finalized drink configurations.
type DrinkService interface {
	Save(ctx context.Context, name string, cfg domain.DrinkConfig, imageURL string) (*domain.Drink, error)
	Get(ctx context.Context, id string) (*domain.Drink, error)
	// ListPage returns a page of drinks (newest first) and the total count.
	ListPage(ctx context.Context, offset, limit int) ([]domain.Drink, int64, error)
}

// PreviewService renders a drink configuration into a preview image.
type PreviewService interface {
	Render(ctx context.Context, cfg domain.DrinkConfig) (*services.PreviewResult, error)
}

// WizardService recommends a full drink from the saved taste profile.
type WizardService interface {
	Recommend(ctx context.Context) (*services.Recommendation, error)
}

// TrainerService rebuilds and inspects the recommendation index.
type TrainerService interface {
	Train(ctx context.Context) (int, error)
	// Status reports availability and the current document count.
	Status(ctx context.Context) (bool, int64, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for the catalog, pricing, preferences,
// drinks, previews, and the recommendation wizard. It depends on abstract
// service interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	catalogSvc CatalogService
	pricingSvc PricingService
	prefSvc    PreferenceService
	drinkSvc   DrinkService
	previewSvc PreviewService
	wizardSvc  WizardService
	trainerSvc TrainerService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(catalogSvc CatalogService, pricingSvc PricingService, prefSvc PreferenceService, drinkSvc DrinkService, previewSvc PreviewService, wizardSvc WizardService, trainerSvc TrainerService) *Handlers {
	return &Handlers{
		catalogSvc: catalogSvc,
		pricingSvc: pricingSvc,
		prefSvc:    prefSvc,
		drinkSvc:   drinkSvc,
		previewSvc: previewSvc,
		wizardSvc:  wizardSvc,
		trainerSvc: trainerSvc,
	}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// SaveDrinkRequest is the JSON payload for saving a drink.
type SaveDrinkRequest struct {
	// Name labels the saved drink (1–120 chars).
	Name string `json:"name" binding:"required,min=1" example:"Caramel Oat Latte"`
	// Config is the finalized drink configuration.
	Config domain.DrinkConfig `json:"config" binding:"required"`
	// ImageURL optionally attaches a generated preview image.
	ImageURL string `json:"image_url" example:"https://images.example.com/drink.png"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListDrinksResponse wraps a page of drinks and pagination information.
type ListDrinksResponse struct {
	Drinks     []domain.Drink `json:"drinks"`
	Pagination Pagination     `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.ClampInt(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}

//
// Handlers
//

// SaveDrink godoc
// @ID          saveDrink
// @Summary     Save a drink
// @Description Persists a named drink configuration for the current user.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Drinks
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.SaveDrinkRequest  true  "Drink payload"
//
// @Success     201  {object}  domain.Drink
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /drinks [post]
func (h *Handlers) SaveDrink(c *gin.Context) {
	ctx := c.Request.Context()
	currentUser := userID(c)

	var req SaveDrinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name and config required")
		return
	}

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := idempotencyKey(c)
	if idemKey != "" {
		if svc, okSvc := h.drinkSvc.(*services.DrinkService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, currentUser, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := repo.GetDrink(ctx, svc.DB, rec.DrinkID); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusOK, prev)
					return
				}
			}
		}
	}

	d, err := h.drinkSvc.Save(ctx, req.Name, req.Config, req.ImageURL)
	if err != nil {
		switch err {
		case services.ErrEmptyDrinkName, services.ErrEmptyConfig:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if svc, okSvc := h.drinkSvc.(*services.DrinkService); okSvc && svc.DB != nil {
			_, _ = repo.CreateIdempotency(ctx, svc.DB, currentUser, idemKey, d.ID, http.StatusCreated, svc.IdemTTL())
		}
	}

	ok(c, http.StatusCreated, d)
}

// ListDrinks godoc
// @ID          listDrinks
// @Summary     List saved drinks (paginated)
// @Description Returns a page of saved drinks, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Drinks
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListDrinksResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /drinks [get]
func (h *Handlers) ListDrinks(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, okSvc := h.drinkSvc.(*services.DrinkService); okSvc {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.DrinksStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"drinks:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.drinkSvc.ListPage(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListDrinksResponse{
		Drinks: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetDrink godoc
// @ID          getDrink
// @Summary     Fetch a saved drink
// @Description Returns one saved drink by its ID.
// @Tags        Drinks
// @Produce     json
//
// @Param       id  path  string  true  "Drink ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.Drink
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Drink not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /drinks/{id} [get]
func (h *Handlers) GetDrink(c *gin.Context) {
	drinkID := c.Param("id")
	if _, err := uuid.Parse(drinkID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "drink id must be a UUID")
		return
	}

	d, err := h.drinkSvc.Get(c.Request.Context(), drinkID)
	if err != nil {
		switch err {
		case services.ErrDrinkNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "drink not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, d)
}

// idempotencyKey extracts an idempotency key if an upstream middleware has
// already validated/stashed it. The fallback behavior reads the
// "Idempotency-Key" header directly when no dedicated middleware exists.
func idempotencyKey(c *gin.Context) (string, bool) {
	if v, okKey := middleware.GetIdempotencyKey(c); okKey {
		return v, true
	}
	if v := strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey)); v != "" {
		return v, true
	}
	return "", false
}
