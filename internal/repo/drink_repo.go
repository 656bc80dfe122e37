// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for saved drinks.
//
// Saved drinks are append-only: rows are created on explicit save and never
// updated, which keeps the listing a pure newest-first scan.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Pushparajan/CraftYourCoffee/internal/domain"
)

// CreateDrink persists a finalized drink with its serialized configuration
// and generated image URL. The row ID is a freshly generated UUID.
func CreateDrink(ctx context.Context, db *gorm.DB, name, configJSON, imageURL string) (*domain.Drink, error) {
	d := &domain.Drink{
		ID:         uuid.NewString(),
		Name:       name,
		ConfigJSON: configJSON,
		ImageURL:   imageURL,
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

// GetDrink fetches a single saved drink by ID, or ErrNotFound.
func GetDrink(ctx context.Context, db *gorm.DB, id string) (*domain.Drink, error) {
	var d domain.Drink
	if err := db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDrinks returns all saved drinks, newest first.
func ListDrinks(ctx context.Context, db *gorm.DB) ([]domain.Drink, error) {
	var out []domain.Drink
	err := db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

// CountDrinks returns the total number of saved drinks.
func CountDrinks(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Drink{}).Count(&total).Error
	return total, err
}

// ListDrinksPage returns a newest-first page of saved drinks. The caller is
// responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListDrinksPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Drink, error) {
	var out []domain.Drink
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// DrinksStats returns aggregate metadata for saved drinks: the total number
// of rows and the maximum CreatedAt among them. Used for weak ETag
// generation on the listing endpoint. When there are no drinks, the returned
// count is 0 and maxCreatedAt is nil.
func DrinksStats(ctx context.Context, db *gorm.DB) (count int64, maxCreatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Drink{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest created_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
