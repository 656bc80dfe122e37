package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/Pushparajan/CraftYourCoffee/internal/domain"
	"github.com/Pushparajan/CraftYourCoffee/internal/prompt"
)

// ImageGenerator renders a drink image from a prompt pair and optionally
// composites the brand logo onto it.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt, negativePrompt string) (string, error)
	CompositeLogo(ctx context.Context, imageURL string) (string, error)
}

// PreviewCatalog is the catalog slice used to build sibling exclusions for
// image prompts.
type PreviewCatalog interface {
	ListBases(ctx context.Context, db *gorm.DB) ([]domain.Base, error)
	ListMilks(ctx context.Context, db *gorm.DB) ([]domain.Milk, error)
	ListSyrups(ctx context.Context, db *gorm.DB) ([]domain.Syrup, error)
	ListToppings(ctx context.Context, db *gorm.DB) ([]domain.Topping, error)
}

// PreviewResult is the outcome of an image preview: the final image URL and
// the exact prompt pair sent to the generator.
type PreviewResult struct {
	ImageURL       string `json:"imageUrl"`
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negativePrompt"`
}

// PreviewService turns a drink configuration into a generated preview image.
type PreviewService struct {
	DB      *gorm.DB
	Catalog PreviewCatalog
	Images  ImageGenerator
}

// NewPreviewService constructs a PreviewService.
func NewPreviewService(db *gorm.DB, cat PreviewCatalog, img ImageGenerator) *PreviewService {
	return &PreviewService{DB: db, Catalog: cat, Images: img}
}

// Render generates a preview image for the configuration. Catalog lookups
// and logo compositing are best effort; only prompt generation itself is
// fatal.
func (s *PreviewService) Render(ctx context.Context, cfg domain.DrinkConfig) (*PreviewResult, error) {
	tr := otel.Tracer("services/preview")
	ctx, span := tr.Start(ctx, "PreviewService.Render", trace.WithAttributes(
		attribute.String("drink.base", cfg.Base),
	))
	defer span.End()

	if cfg.Base == "" {
		return nil, ErrEmptyConfig
	}

	positive, negative := prompt.Build(cfg, s.loadCatalog(ctx))

	url, err := s.Images.Generate(ctx, positive, negative)
	if err != nil {
		return nil, err
	}

	if final, err := s.Images.CompositeLogo(ctx, url); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("logo composite failed; serving unbranded image")
	} else if final != "" {
		url = final
	}

	return &PreviewResult{ImageURL: url, Prompt: positive, NegativePrompt: negative}, nil
}

// loadCatalog collects catalog names for sibling exclusions. Any lookup
// failure leaves that category empty; the prompt builder tolerates a nil or
// partial catalog.
func (s *PreviewService) loadCatalog(ctx context.Context) *prompt.Catalog {
	cat := &prompt.Catalog{}
	if bases, err := s.Catalog.ListBases(ctx, s.DB); err == nil {
		for _, b := range bases {
			cat.Bases = append(cat.Bases, b.Name)
		}
	}
	if milks, err := s.Catalog.ListMilks(ctx, s.DB); err == nil {
		for _, m := range milks {
			cat.Milks = append(cat.Milks, m.Name)
		}
	}
	if syrups, err := s.Catalog.ListSyrups(ctx, s.DB); err == nil {
		for _, sy := range syrups {
			cat.Syrups = append(cat.Syrups, sy.Name)
		}
	}
	if tops, err := s.Catalog.ListToppings(ctx, s.DB); err == nil {
		for _, t := range tops {
			cat.Toppings = append(cat.Toppings, t.Name)
		}
	}
	return cat
}
