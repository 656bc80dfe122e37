// Package services – CatalogService
//
// Serves the builder's option listings. The category segment of
// GET /options/:category is validated against the closed set of rankable
// and size/temperature categories; anything else is a client error. Each
// listing is projected into the category-agnostic domain.Option shape.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/Pushparajan/CraftYourCoffee/internal/domain"
)

// CatalogRepo defines the catalog listings required by CatalogService.
type CatalogRepo interface {
	ListBases(ctx context.Context, db *gorm.DB) ([]domain.Base, error)
	ListSizes(ctx context.Context, db *gorm.DB) ([]domain.Size, error)
	ListMilks(ctx context.Context, db *gorm.DB) ([]domain.Milk, error)
	ListSyrups(ctx context.Context, db *gorm.DB) ([]domain.Syrup, error)
	ListToppings(ctx context.Context, db *gorm.DB) ([]domain.Topping, error)
	ListTemperatures(ctx context.Context, db *gorm.DB) ([]domain.Temperature, error)
}

// CatalogService lists catalog options per category.
type CatalogService struct {
	DB   *gorm.DB
	Repo CatalogRepo
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(db *gorm.DB, r CatalogRepo) *CatalogService {
	return &CatalogService{DB: db, Repo: r}
}

// Options returns the ordered option list for a category, or
// ErrUnknownCategory for anything outside the supported set.
func (s *CatalogService) Options(ctx context.Context, category string) ([]domain.Option, error) {
	switch category {
	case "bases":
		items, err := s.Repo.ListBases(ctx, s.DB)
		if err != nil {
			return nil, err
		}
		out := make([]domain.Option, len(items))
		for i, it := range items {
			out[i] = domain.Option{ID: it.ID, Name: it.Name, Price: it.Price}
		}
		return out, nil
	case "sizes":
		items, err := s.Repo.ListSizes(ctx, s.DB)
		if err != nil {
			return nil, err
		}
		out := make([]domain.Option, len(items))
		for i, it := range items {
			out[i] = domain.Option{ID: it.ID, Name: it.Name, Price: it.Price, VolumeML: it.VolumeML}
		}
		return out, nil
	case "milks":
		items, err := s.Repo.ListMilks(ctx, s.DB)
		if err != nil {
			return nil, err
		}
		out := make([]domain.Option, len(items))
		for i, it := range items {
			out[i] = domain.Option{ID: it.ID, Name: it.Name, Price: it.Price}
		}
		return out, nil
	case "syrups":
		items, err := s.Repo.ListSyrups(ctx, s.DB)
		if err != nil {
			return nil, err
		}
		out := make([]domain.Option, len(items))
		for i, it := range items {
			out[i] = domain.Option{ID: it.ID, Name: it.Name, Price: it.Price}
		}
		return out, nil
	case "toppings":
		items, err := s.Repo.ListToppings(ctx, s.DB)
		if err != nil {
			return nil, err
		}
		out := make([]domain.Option, len(items))
		for i, it := range items {
			out[i] = domain.Option{ID: it.ID, Name: it.Name, Price: it.Price}
		}
		return out, nil
	case "temperatures":
		items, err := s.Repo.ListTemperatures(ctx, s.DB)
		if err != nil {
			return nil, err
		}
		out := make([]domain.Option, len(items))
		for i, it := range items {
			out[i] = domain.Option{ID: it.ID, Name: it.Name}
		}
		return out, nil
	default:
		return nil, ErrUnknownCategory
	}
}
