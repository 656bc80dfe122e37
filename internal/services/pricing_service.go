// Package services – PricingService
//
// This file implements the price aggregator: given a drink configuration it
// looks up the unit price of every populated category, sums the five
// category subtotals, and derives loyalty points.
//
// Two invariants matter here and are protected by tests:
//
//  1. Syrup pricing is per pump (unit price × pump count, pumps clamped to
//     the 1–5 bound); toppings are flat per selection.
//  2. Loyalty points are floor(price*2) per category, and the TOTAL is the
//     sum of the five rounded parts, never floor(total*2). Summing after
//     rounding avoids drift when category prices carry half-point cents.
//
// Failure policy: a catalog whose schema predates the pricing migration
// (repo.ErrPriceSchema) yields an all-zero breakdown with a warning. That is
// an expected degraded state, not an error. Any other lookup failure is fatal
// to the request.
package services

import (
	"context"
	"errors"
	"math"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Pushparajan/CraftYourCoffee/internal/domain"
	"github.com/Pushparajan/CraftYourCoffee/internal/repo"
)

// loyaltyRate is the points multiplier applied to every category price.
const loyaltyRate = 2

// priceSchemaWarning explains the degraded breakdown to the client.
const priceSchemaWarning = "Prices not configured. Please run database migration scripts."

// PriceRepo defines the catalog lookups required by PricingService.
// Unknown names return 0; a missing price column returns repo.ErrPriceSchema.
type PriceRepo interface {
	BasePrice(ctx context.Context, db *gorm.DB, name string) (float64, error)
	SizePrice(ctx context.Context, db *gorm.DB, name string) (float64, error)
	MilkPrice(ctx context.Context, db *gorm.DB, name string) (float64, error)
	SyrupPrice(ctx context.Context, db *gorm.DB, name string) (float64, error)
	ToppingPrice(ctx context.Context, db *gorm.DB, name string) (float64, error)
}

// PricingService aggregates catalog prices for a configuration.
type PricingService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the catalog price repository used by this service.
	Repo PriceRepo
}

// NewPricingService constructs a PricingService.
func NewPricingService(db *gorm.DB, r PriceRepo) *PricingService {
	return &PricingService{DB: db, Repo: r}
}

// Quote prices cfg. Empty category fields contribute zero; unknown names
// contribute zero. See the package comment for the degraded-mode contract.
func (s *PricingService) Quote(ctx context.Context, cfg domain.DrinkConfig) (*domain.PriceBreakdown, error) {
	tr := otel.Tracer("services/PricingService")
	ctx, span := tr.Start(ctx, "Quote",
		trace.WithAttributes(
			attribute.String("drink.base", cfg.Base),
			attribute.String("drink.size", cfg.Size),
		),
	)
	defer span.End()

	var b domain.PriceBreakdown
	var err error

	if b.Base, err = s.Repo.BasePrice(ctx, s.DB, cfg.Base); err != nil {
		return s.degradeOrFail(err)
	}
	if b.Size, err = s.Repo.SizePrice(ctx, s.DB, cfg.Size); err != nil {
		return s.degradeOrFail(err)
	}
	if b.Milk, err = s.Repo.MilkPrice(ctx, s.DB, cfg.Milk); err != nil {
		return s.degradeOrFail(err)
	}
	for _, sel := range cfg.Syrups {
		perPump, err := s.Repo.SyrupPrice(ctx, s.DB, sel.Name)
		if err != nil {
			return s.degradeOrFail(err)
		}
		b.Syrups += perPump * float64(clampPumps(sel.Pumps))
	}
	for _, t := range cfg.Toppings {
		p, err := s.Repo.ToppingPrice(ctx, s.DB, t)
		if err != nil {
			return s.degradeOrFail(err)
		}
		b.Toppings += p
	}

	b.Total = b.Base + b.Size + b.Milk + b.Syrups + b.Toppings
	b.LoyaltyPoints = loyaltyFor(b)
	return &b, nil
}

// degradeOrFail maps a missing price schema to the documented zeroed
// breakdown and passes every other error through.
func (s *PricingService) degradeOrFail(err error) (*domain.PriceBreakdown, error) {
	if errors.Is(err, repo.ErrPriceSchema) {
		return domain.ZeroBreakdown(priceSchemaWarning), nil
	}
	return nil, err
}

// loyaltyFor derives the points structure from category prices. The total is
// the sum of the five rounded parts by contract.
func loyaltyFor(b domain.PriceBreakdown) domain.LoyaltyPoints {
	p := domain.LoyaltyPoints{
		Base:     pointsFor(b.Base),
		Size:     pointsFor(b.Size),
		Milk:     pointsFor(b.Milk),
		Syrups:   pointsFor(b.Syrups),
		Toppings: pointsFor(b.Toppings),
	}
	p.Total = p.Base + p.Size + p.Milk + p.Syrups + p.Toppings
	return p
}

func pointsFor(price float64) int {
	return int(math.Floor(price * loyaltyRate))
}

// clampPumps bounds a pump count to the 1–5 contract.
func clampPumps(n int) int {
	if n < domain.MinPumps {
		return domain.MinPumps
	}
	if n > domain.MaxPumps {
		return domain.MaxPumps
	}
	return n
}
