package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/Pushparajan/CraftYourCoffee/internal/domain"
	"github.com/Pushparajan/CraftYourCoffee/internal/repo"
	"github.com/Pushparajan/CraftYourCoffee/internal/rerank"
)

const (
	wizardDrinkName     = "AI Crafted Coffee"
	wizardSyrupPumps    = 2
	fallbackBase        = "Coffee"
	fallbackMilk        = "Whole Milk"
	fallbackSize        = "Grande"
	fallbackTemperature = "Hot"
)

// Reranker scores indexed documents against a free-text taste query.
type Reranker interface {
	Rerank(ctx context.Context, query string, docs []rerank.Document) ([]rerank.Result, error)
}

// WizardCatalog is the catalog slice the wizard needs for defaults.
type WizardCatalog interface {
	ListSizes(ctx context.Context, db *gorm.DB) ([]domain.Size, error)
	ListTemperatures(ctx context.Context, db *gorm.DB) ([]domain.Temperature, error)
}

// WizardIndex reads the recommendation index.
type WizardIndex interface {
	ListDocuments(ctx context.Context, db *gorm.DB) ([]domain.IndexedDocument, error)
}

// Quoter prices a drink configuration.
type Quoter interface {
	Quote(ctx context.Context, cfg domain.DrinkConfig) (*domain.PriceBreakdown, error)
}

// AIInsights carries the reranker scores that justify a recommendation.
type AIInsights struct {
	BaseScore float64 `json:"baseScore"`
	MilkScore float64 `json:"milkScore"`
	Reasoning string  `json:"reasoning"`
}

// Recommendation is the wizard response: a complete drink configuration
// with pricing and the scores behind it.
type Recommendation struct {
	Success  bool                   `json:"success"`
	Config   domain.DrinkConfig     `json:"drinkConfig"`
	Pricing  *domain.PriceBreakdown `json:"pricing"`
	Insights AIInsights             `json:"aiInsights"`
}

// WizardService assembles a drink recommendation from the stored taste
// preference, the recommendation index and an external reranker.
type WizardService struct {
	DB       *gorm.DB
	Prefs    PreferenceRepo
	Catalog  WizardCatalog
	Index    WizardIndex
	Reranker Reranker
	Pricing  Quoter
}

// NewWizardService constructs a WizardService.
func NewWizardService(db *gorm.DB, prefs PreferenceRepo, cat WizardCatalog, idx WizardIndex, rr Reranker, pricing Quoter) *WizardService {
	return &WizardService{DB: db, Prefs: prefs, Catalog: cat, Index: idx, Reranker: rr, Pricing: pricing}
}

// scored pairs a ranked document with its parsed catalog name.
type scored struct {
	name  string
	score float64
}

// Recommend builds a drink from the latest saved preference. It fails fast
// when no preference or no indexed documents exist; pricing failures
// degrade to a zeroed breakdown rather than failing the recommendation.
func (s *WizardService) Recommend(ctx context.Context) (*Recommendation, error) {
	tr := otel.Tracer("services/wizard")
	ctx, span := tr.Start(ctx, "WizardService.Recommend")
	defer span.End()

	pref, err := s.Prefs.LatestPreference(ctx, s.DB)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNoPreferences
	}
	if err != nil {
		return nil, err
	}

	docs, err := s.Index.ListDocuments(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNoDocumentsIndexed
	}

	query := buildQuery(pref)
	span.SetAttributes(attribute.Int("index.documents", len(docs)))

	results, err := s.Reranker.Rerank(ctx, query, toRerankDocs(docs))
	if err != nil {
		return nil, err
	}

	byType := bucketResults(results)

	base, baseScore := pickTop(byType[domain.DocTypeBase], fallbackBase)
	milk, milkScore := pickTop(byType[domain.DocTypeMilk], fallbackMilk)
	syrups := pickTopN(byType[domain.DocTypeSyrup], 2)
	toppings := pickTopN(byType[domain.DocTypeTopping], 2)

	cfg := domain.DrinkConfig{
		Name:        wizardDrinkName,
		Base:        base,
		Milk:        milk,
		Size:        s.defaultSize(ctx),
		Temperature: s.defaultTemperature(ctx),
		Sweetness:   domain.SweetnessMedium,
		Ice:         domain.IceNone,
	}
	for _, name := range syrups {
		cfg.Syrups = append(cfg.Syrups, domain.SyrupSelection{Name: name, Pumps: wizardSyrupPumps})
	}
	cfg.Toppings = append(cfg.Toppings, toppings...)

	pricing, err := s.Pricing.Quote(ctx, cfg)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("wizard pricing failed; returning zero breakdown")
		pricing = domain.ZeroBreakdown("")
	}

	return &Recommendation{
		Success: true,
		Config:  cfg,
		Pricing: pricing,
		Insights: AIInsights{
			BaseScore: baseScore,
			MilkScore: milkScore,
			Reasoning: fmt.Sprintf("Matched against your taste profile: %s", query),
		},
	}, nil
}

// buildQuery flattens the non-empty preference fields into one search string.
func buildQuery(p *domain.Preference) string {
	parts := make([]string, 0, 5)
	for _, f := range []struct{ label, value string }{
		{"aroma", p.Aroma},
		{"flavor", p.Flavor},
		{"acidity", p.Acidity},
		{"body", p.Body},
		{"aftertaste", p.Aftertaste},
	} {
		if v := strings.TrimSpace(f.value); v != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", f.label, v))
		}
	}
	if len(parts) == 0 {
		return "balanced coffee"
	}
	return strings.Join(parts, ", ")
}

func toRerankDocs(docs []domain.IndexedDocument) []rerank.Document {
	out := make([]rerank.Document, len(docs))
	for i, d := range docs {
		out[i] = rerank.Document{ID: d.ID, Text: d.Text, Type: d.Type, Data: d.DataJSON}
	}
	return out
}

// bucketResults groups ranked results by document type, preserving the
// reranker's score order within each bucket.
func bucketResults(results []rerank.Result) map[string][]scored {
	out := make(map[string][]scored, 4)
	for _, r := range results {
		name := docName(r.Document)
		if name == "" {
			continue
		}
		out[r.Document.Type] = append(out[r.Document.Type], scored{name: name, score: r.Score})
	}
	return out
}

// docName recovers the catalog name from the document payload, falling back
// to the raw text when the payload is missing or malformed.
func docName(d rerank.Document) string {
	if d.Data != "" {
		var payload struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal([]byte(d.Data), &payload); err == nil && payload.Name != "" {
			return payload.Name
		}
	}
	return strings.TrimSpace(d.Text)
}

func pickTop(bucket []scored, fallback string) (string, float64) {
	if len(bucket) == 0 {
		return fallback, 0
	}
	return bucket[0].name, bucket[0].score
}

func pickTopN(bucket []scored, n int) []string {
	if n > len(bucket) {
		n = len(bucket)
	}
	out := make([]string, 0, n)
	for _, s := range bucket[:n] {
		out = append(out, s.name)
	}
	return out
}

func (s *WizardService) defaultSize(ctx context.Context) string {
	sizes, err := s.Catalog.ListSizes(ctx, s.DB)
	if err != nil || len(sizes) < 2 {
		return fallbackSize
	}
	return sizes[1].Name
}

func (s *WizardService) defaultTemperature(ctx context.Context) string {
	temps, err := s.Catalog.ListTemperatures(ctx, s.DB)
	if err != nil || len(temps) == 0 {
		return fallbackTemperature
	}
	return temps[0].Name
}
