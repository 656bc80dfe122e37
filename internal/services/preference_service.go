// Package services – PreferenceService
//
// Stores the operator's free-text taste profile. Saves append rows and
// reads take the newest, so there is nothing to lock: the table never sees
// an UPDATE.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Pushparajan/CraftYourCoffee/internal/domain"
	"github.com/Pushparajan/CraftYourCoffee/internal/repo"
)

// PreferenceRepo defines the persistence contract required by
// PreferenceService.
type PreferenceRepo interface {
	CreatePreference(ctx context.Context, db *gorm.DB, aroma, flavor, acidity, body, aftertaste string) (*domain.Preference, error)
	LatestPreference(ctx context.Context, db *gorm.DB) (*domain.Preference, error)
}

// PreferenceService manages the single-profile taste preference store.
type PreferenceService struct {
	DB   *gorm.DB
	Repo PreferenceRepo
}

// NewPreferenceService constructs a PreferenceService.
func NewPreferenceService(db *gorm.DB, r PreferenceRepo) *PreferenceService {
	return &PreferenceService{DB: db, Repo: r}
}

// Save appends a new preference row. Fields are trimmed; all-empty input is
// allowed (the wizard query builder simply skips blank fields).
func (s *PreferenceService) Save(ctx context.Context, aroma, flavor, acidity, body, aftertaste string) (*domain.Preference, error) {
	return s.Repo.CreatePreference(ctx, s.DB,
		strings.TrimSpace(aroma),
		strings.TrimSpace(flavor),
		strings.TrimSpace(acidity),
		strings.TrimSpace(body),
		strings.TrimSpace(aftertaste),
	)
}

// Latest returns the most recent preference, or (nil, nil) when none has
// been saved; GET /preferences renders that as JSON null.
func (s *PreferenceService) Latest(ctx context.Context) (*domain.Preference, error) {
	p, err := s.Repo.LatestPreference(ctx, s.DB)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
