package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/Pushparajan/CraftYourCoffee/internal/domain"
	"github.com/Pushparajan/CraftYourCoffee/internal/repo"
)

// DrinkRepo defines the persistence contract required by DrinkService.
type DrinkRepo interface {
	CreateDrink(ctx context.Context, db *gorm.DB, name, configJSON, imageURL string) (*domain.Drink, error)
	GetDrink(ctx context.Context, db *gorm.DB, id string) (*domain.Drink, error)
	ListDrinksPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Drink, error)
	CountDrinks(ctx context.Context, db *gorm.DB) (int64, error)
}

// DefaultIdempotencyTTL applies when no IDEMPOTENCY_TTL is configured.
const DefaultIdempotencyTTL = 24 * time.Hour

// DrinkService persists and lists saved drink configurations.
type DrinkService struct {
	DB         *gorm.DB
	Repo       DrinkRepo
	NameMaxLen int
	// IdempotencyTTL bounds how long a recorded Idempotency-Key stays
	// replayable. Zero means DefaultIdempotencyTTL.
	IdempotencyTTL time.Duration
}

// NewDrinkService constructs a DrinkService. maxLen bounds the stored drink
// name; longer names are truncated, not rejected.
func NewDrinkService(db *gorm.DB, r DrinkRepo, maxLen int) *DrinkService {
	if maxLen <= 0 {
		maxLen = 120
	}
	return &DrinkService{DB: db, Repo: r, NameMaxLen: maxLen}
}

// IdemTTL returns the configured idempotency TTL, defaulting when unset.
func (s *DrinkService) IdemTTL() time.Duration {
	if s.IdempotencyTTL > 0 {
		return s.IdempotencyTTL
	}
	return DefaultIdempotencyTTL
}

// Save stores a named drink configuration. The config is serialized as-is;
// the image URL is optional.
func (s *DrinkService) Save(ctx context.Context, name string, cfg domain.DrinkConfig, imageURL string) (*domain.Drink, error) {
	tr := otel.Tracer("services/drink")
	ctx, span := tr.Start(ctx, "DrinkService.Save", trace.WithAttributes(
		attribute.String("drink.name", name),
	))
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyDrinkName
	}
	if runes := []rune(name); len(runes) > s.NameMaxLen {
		name = string(runes[:s.NameMaxLen])
	}
	if cfg.Base == "" {
		return nil, ErrEmptyConfig
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	return s.Repo.CreateDrink(ctx, s.DB, name, string(raw), strings.TrimSpace(imageURL))
}

// Get returns a saved drink by ID.
func (s *DrinkService) Get(ctx context.Context, id string) (*domain.Drink, error) {
	d, err := s.Repo.GetDrink(ctx, s.DB, strings.TrimSpace(id))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrDrinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListPage returns one page of saved drinks, newest first, along with the
// total row count for pagination headers.
func (s *DrinkService) ListPage(ctx context.Context, offset, limit int) ([]domain.Drink, int64, error) {
	total, err := s.Repo.CountDrinks(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.Repo.ListDrinksPage(ctx, s.DB, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
