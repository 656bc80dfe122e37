// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the insert-only
// taste-preference table.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Pushparajan/CraftYourCoffee/internal/domain"
)

// CreatePreference appends a new preference row. Saves never update in
// place: the newest row wins on read, so concurrent saves cannot race.
func CreatePreference(ctx context.Context, db *gorm.DB, aroma, flavor, acidity, body, aftertaste string) (*domain.Preference, error) {
	p := &domain.Preference{
		ID:         uuid.NewString(),
		Aroma:      aroma,
		Flavor:     flavor,
		Acidity:    acidity,
		Body:       body,
		Aftertaste: aftertaste,
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// LatestPreference returns the most recently saved preference row, or
// ErrNotFound when none has ever been saved.
func LatestPreference(ctx context.Context, db *gorm.DB) (*domain.Preference, error) {
	var p domain.Preference
	err := db.WithContext(ctx).Order("created_at desc").First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
