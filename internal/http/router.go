// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/Pushparajan/CraftYourCoffee/internal/config"
	"github.com/Pushparajan/CraftYourCoffee/internal/domain"
	"github.com/Pushparajan/CraftYourCoffee/internal/firefly"
	"github.com/Pushparajan/CraftYourCoffee/internal/http/handlers"
	"github.com/Pushparajan/CraftYourCoffee/internal/http/middleware"
	"github.com/Pushparajan/CraftYourCoffee/internal/repo"
	"github.com/Pushparajan/CraftYourCoffee/internal/rerank"
	"github.com/Pushparajan/CraftYourCoffee/internal/services"
)

// catalogRepoShim adapts the repository free functions to the catalog and
// pricing interfaces expected by the services. This keeps services decoupled
// from the concrete repo package while reusing existing functions.
type catalogRepoShim struct{}

func (catalogRepoShim) ListBases(ctx context.Context, db *gorm.DB) ([]domain.Base, error) {
	return repo.ListBases(ctx, db)
}

func (catalogRepoShim) ListSizes(ctx context.Context, db *gorm.DB) ([]domain.Size, error) {
	return repo.ListSizes(ctx, db)
}

func (catalogRepoShim) ListMilks(ctx context.Context, db *gorm.DB) ([]domain.Milk, error) {
	return repo.ListMilks(ctx, db)
}

func (catalogRepoShim) ListSyrups(ctx context.Context, db *gorm.DB) ([]domain.Syrup, error) {
	return repo.ListSyrups(ctx, db)
}

func (catalogRepoShim) ListToppings(ctx context.Context, db *gorm.DB) ([]domain.Topping, error) {
	return repo.ListToppings(ctx, db)
}

func (catalogRepoShim) ListTemperatures(ctx context.Context, db *gorm.DB) ([]domain.Temperature, error) {
	return repo.ListTemperatures(ctx, db)
}

func (catalogRepoShim) BasePrice(ctx context.Context, db *gorm.DB, name string) (float64, error) {
	return repo.BasePrice(ctx, db, name)
}

func (catalogRepoShim) SizePrice(ctx context.Context, db *gorm.DB, name string) (float64, error) {
	return repo.SizePrice(ctx, db, name)
}

func (catalogRepoShim) MilkPrice(ctx context.Context, db *gorm.DB, name string) (float64, error) {
	return repo.MilkPrice(ctx, db, name)
}

func (catalogRepoShim) SyrupPrice(ctx context.Context, db *gorm.DB, name string) (float64, error) {
	return repo.SyrupPrice(ctx, db, name)
}

func (catalogRepoShim) ToppingPrice(ctx context.Context, db *gorm.DB, name string) (float64, error) {
	return repo.ToppingPrice(ctx, db, name)
}

// drinkRepoShim adapts drink persistence functions to services.DrinkRepo.
type drinkRepoShim struct{}

func (drinkRepoShim) CreateDrink(ctx context.Context, db *gorm.DB, name, configJSON, imageURL string) (*domain.Drink, error) {
	return repo.CreateDrink(ctx, db, name, configJSON, imageURL)
}

func (drinkRepoShim) GetDrink(ctx context.Context, db *gorm.DB, id string) (*domain.Drink, error) {
	return repo.GetDrink(ctx, db, id)
}

func (drinkRepoShim) ListDrinksPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Drink, error) {
	return repo.ListDrinksPage(ctx, db, offset, limit)
}

func (drinkRepoShim) CountDrinks(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountDrinks(ctx, db)
}

// prefRepoShim adapts preference functions to services.PreferenceRepo.
type prefRepoShim struct{}

func (prefRepoShim) CreatePreference(ctx context.Context, db *gorm.DB, aroma, flavor, acidity, body, aftertaste string) (*domain.Preference, error) {
	return repo.CreatePreference(ctx, db, aroma, flavor, acidity, body, aftertaste)
}

func (prefRepoShim) LatestPreference(ctx context.Context, db *gorm.DB) (*domain.Preference, error) {
	return repo.LatestPreference(ctx, db)
}

// indexRepoShim adapts recommendation-index functions to services.IndexRepo
// and services.WizardIndex.
type indexRepoShim struct{}

func (indexRepoShim) ReplaceDocuments(ctx context.Context, db *gorm.DB, docs []domain.IndexedDocument) (int, error) {
	return repo.ReplaceDocuments(ctx, db, docs)
}

func (indexRepoShim) ListDocuments(ctx context.Context, db *gorm.DB) ([]domain.IndexedDocument, error) {
	return repo.ListDocuments(ctx, db)
}

func (indexRepoShim) CountDocuments(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountDocuments(ctx, db)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key", // Firefly api key must never reach logs
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Compress responses (option lists and drink pages are repetitive JSON)
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// External providers
	images := firefly.New(firefly.Config{
		IMSEndpoint:  cfg.Firefly.IMSEndpoint,
		BaseURL:      cfg.Firefly.BaseURL,
		ClientID:     cfg.Firefly.ClientID,
		ClientSecret: cfg.Firefly.ClientSecret,
		Scopes:       cfg.Firefly.Scopes,
		LogoURL:      cfg.Firefly.LogoURL,
		Timeout:      cfg.Firefly.Timeout,
	})
	ranker := rerank.New(rerank.Config{
		Endpoint: cfg.Rerank.Endpoint,
		APIKey:   cfg.Rerank.APIKey,
		Model:    cfg.Rerank.Model,
		Timeout:  cfg.Rerank.Timeout,
	})

	// Dependency injection: services ← repo/db/providers
	catalogSvc := services.NewCatalogService(db, catalogRepoShim{})
	pricingSvc := services.NewPricingService(db, catalogRepoShim{})
	prefSvc := services.NewPreferenceService(db, prefRepoShim{})
	drinkSvc := services.NewDrinkService(db, drinkRepoShim{}, cfg.DrinkNameMaxLen)
	drinkSvc.IdempotencyTTL = cfg.IdempotencyTTL
	previewSvc := services.NewPreviewService(db, catalogRepoShim{}, images)
	trainerSvc := services.NewTrainerService(db, catalogRepoShim{}, indexRepoShim{})
	wizardSvc := services.NewWizardService(db, prefRepoShim{}, catalogRepoShim{}, indexRepoShim{}, ranker, pricingSvc)

	h := handlers.New(catalogSvc, pricingSvc, prefSvc, drinkSvc, previewSvc, wizardSvc, trainerSvc)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Catalog
		api.GET("/options/:category", h.ListOptions)

		// Pricing
		api.POST("/price", h.QuotePrice)

		// Preferences
		api.GET("/preferences", h.GetPreference)
		api.POST("/preferences", h.SavePreference)

		// Drinks
		api.POST("/drinks", h.SaveDrink)
		api.GET("/drinks", h.ListDrinks)
		api.GET("/drinks/:id", h.GetDrink)

		// Preview
		api.POST("/preview", h.RenderPreview)

		// Wizard
		api.POST("/recommend", h.Recommend)
		api.POST("/train-index", h.TrainIndex)
		api.GET("/wizard/status", h.WizardStatus)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
