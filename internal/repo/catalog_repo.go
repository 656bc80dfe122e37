// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides read-only access to the option catalog:
// per-category listings for the builder UI and unit-price lookups for the
// price aggregator.
//
// Error semantics:
//   - A name that matches no row is NOT an error; price lookups return 0.
//   - When the catalog schema predates the pricing migration (no price
//     column), lookups return ErrPriceSchema so the pricing layer can take
//     its documented degraded path instead of failing the request.
//   - Other DB errors are propagated raw.
package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Pushparajan/CraftYourCoffee/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrPriceSchema signals that the catalog tables carry no price column yet
// (pricing migration scripts not run). This is an expected operational state,
// not a bug: callers respond with an all-zero breakdown and a warning.
var ErrPriceSchema = errors.New("catalog price columns missing")

// missingPriceColumn reports whether err indicates an absent price column.
// SQLite says `no such column: price`; Postgres says `column "price" does
// not exist`.
func missingPriceColumn(err error) bool {
	if err == nil {
		return false
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "no such column: price") ||
		strings.Contains(low, `column "price" does not exist`)
}

// unitPrice fetches the price of the named row in the table mapped by model.
// Unknown names contribute zero. A NULL price also reads as zero.
func unitPrice(ctx context.Context, db *gorm.DB, model any, name string) (float64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, nil
	}
	var row struct{ Price *float64 }
	err := db.WithContext(ctx).
		Model(model).
		Select("price").
		Where("name = ?", name).
		Limit(1).
		Scan(&row).Error
	if err != nil {
		if missingPriceColumn(err) {
			return 0, ErrPriceSchema
		}
		return 0, err
	}
	if row.Price == nil {
		return 0, nil
	}
	return *row.Price, nil
}

// BasePrice returns the unit price of the named base, or 0 when unknown.
func BasePrice(ctx context.Context, db *gorm.DB, name string) (float64, error) {
	return unitPrice(ctx, db, &domain.Base{}, name)
}

// SizePrice returns the surcharge of the named size, or 0 when unknown.
func SizePrice(ctx context.Context, db *gorm.DB, name string) (float64, error) {
	return unitPrice(ctx, db, &domain.Size{}, name)
}

// MilkPrice returns the surcharge of the named milk, or 0 when unknown.
func MilkPrice(ctx context.Context, db *gorm.DB, name string) (float64, error) {
	return unitPrice(ctx, db, &domain.Milk{}, name)
}

// SyrupPrice returns the per-pump price of the named syrup, or 0 when unknown.
func SyrupPrice(ctx context.Context, db *gorm.DB, name string) (float64, error) {
	return unitPrice(ctx, db, &domain.Syrup{}, name)
}

// ToppingPrice returns the flat price of the named topping, or 0 when unknown.
func ToppingPrice(ctx context.Context, db *gorm.DB, name string) (float64, error) {
	return unitPrice(ctx, db, &domain.Topping{}, name)
}

// ListBases returns all bases ordered by name.
func ListBases(ctx context.Context, db *gorm.DB) ([]domain.Base, error) {
	var out []domain.Base
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

// ListSizes returns all sizes ordered by volume ascending. Volume order makes
// index 1 the "second-smallest" default used by the wizard.
func ListSizes(ctx context.Context, db *gorm.DB) ([]domain.Size, error) {
	var out []domain.Size
	err := db.WithContext(ctx).Order("volume_ml asc").Find(&out).Error
	return out, err
}

// ListMilks returns all milks ordered by name.
func ListMilks(ctx context.Context, db *gorm.DB) ([]domain.Milk, error) {
	var out []domain.Milk
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

// ListSyrups returns all syrups ordered by name.
func ListSyrups(ctx context.Context, db *gorm.DB) ([]domain.Syrup, error) {
	var out []domain.Syrup
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

// ListToppings returns all toppings ordered by name.
func ListToppings(ctx context.Context, db *gorm.DB) ([]domain.Topping, error) {
	var out []domain.Topping
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

// ListTemperatures returns all temperatures in insertion order; the first
// row is the wizard's default serving style.
func ListTemperatures(ctx context.Context, db *gorm.DB) ([]domain.Temperature, error) {
	var out []domain.Temperature
	err := db.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, err
}

// ListIceLevels returns all ice levels in insertion order.
func ListIceLevels(ctx context.Context, db *gorm.DB) ([]domain.IceLevel, error) {
	var out []domain.IceLevel
	err := db.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, err
}
