package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/Pushparajan/CraftYourCoffee/internal/domain"
)

// IndexRepo defines the persistence contract required by TrainerService.
type IndexRepo interface {
	ReplaceDocuments(ctx context.Context, db *gorm.DB, docs []domain.IndexedDocument) (int, error)
	CountDocuments(ctx context.Context, db *gorm.DB) (int64, error)
}

// TrainerCatalog is the catalog slice the trainer reads when rebuilding the
// recommendation index.
type TrainerCatalog interface {
	ListBases(ctx context.Context, db *gorm.DB) ([]domain.Base, error)
	ListMilks(ctx context.Context, db *gorm.DB) ([]domain.Milk, error)
	ListSyrups(ctx context.Context, db *gorm.DB) ([]domain.Syrup, error)
	ListToppings(ctx context.Context, db *gorm.DB) ([]domain.Topping, error)
}

// TrainerService rebuilds the indexed_documents table from the live catalog.
// Each catalog item becomes one reranker document whose text describes the
// item in plain English.
type TrainerService struct {
	DB      *gorm.DB
	Catalog TrainerCatalog
	Index   IndexRepo
}

// NewTrainerService constructs a TrainerService.
func NewTrainerService(db *gorm.DB, cat TrainerCatalog, idx IndexRepo) *TrainerService {
	return &TrainerService{DB: db, Catalog: cat, Index: idx}
}

// docData is the payload stored alongside each indexed document so the
// wizard can recover the catalog name without re-querying.
type docData struct {
	Name  string   `json:"name"`
	Flags []string `json:"flags,omitempty"`
	Price *float64 `json:"price,omitempty"`
}

var titler = cases.Title(language.English)

// Flag tokens carried into document text so the reranker can match
// trait-bearing queries against flagged items.
const (
	flagDecaf     = "decaf"
	flagDairyFree = "dairy-free"
	flagSeasonal  = "seasonal"
)

func docText(kind, name string, flags []string, price *float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s.", titler.String(kind), name)
	for _, f := range flags {
		fmt.Fprintf(&b, " %s.", titler.String(f))
	}
	if price != nil {
		fmt.Fprintf(&b, " Price $%.2f.", *price)
	}
	return b.String()
}

func makeDoc(docType, name string, flags []string, price *float64) (domain.IndexedDocument, error) {
	raw, err := json.Marshal(docData{Name: name, Flags: flags, Price: price})
	if err != nil {
		return domain.IndexedDocument{}, err
	}
	return domain.IndexedDocument{
		Text:     docText(docType, name, flags, price),
		Type:     docType,
		DataJSON: string(raw),
	}, nil
}

func flagIf(on bool, name string) []string {
	if !on {
		return nil
	}
	return []string{name}
}

// Train replaces the recommendation index with documents derived from the
// current catalog and returns the number of documents written.
func (s *TrainerService) Train(ctx context.Context) (int, error) {
	tr := otel.Tracer("services/trainer")
	ctx, span := tr.Start(ctx, "TrainerService.Train")
	defer span.End()

	var docs []domain.IndexedDocument

	bases, err := s.Catalog.ListBases(ctx, s.DB)
	if err != nil {
		return 0, err
	}
	for _, b := range bases {
		d, err := makeDoc(domain.DocTypeBase, b.Name, flagIf(b.Decaf, flagDecaf), b.Price)
		if err != nil {
			return 0, err
		}
		docs = append(docs, d)
	}

	milks, err := s.Catalog.ListMilks(ctx, s.DB)
	if err != nil {
		return 0, err
	}
	for _, m := range milks {
		d, err := makeDoc(domain.DocTypeMilk, m.Name, flagIf(m.DairyFree, flagDairyFree), m.Price)
		if err != nil {
			return 0, err
		}
		docs = append(docs, d)
	}

	syrups, err := s.Catalog.ListSyrups(ctx, s.DB)
	if err != nil {
		return 0, err
	}
	for _, sy := range syrups {
		d, err := makeDoc(domain.DocTypeSyrup, sy.Name, flagIf(sy.Seasonal, flagSeasonal), sy.Price)
		if err != nil {
			return 0, err
		}
		docs = append(docs, d)
	}

	tops, err := s.Catalog.ListToppings(ctx, s.DB)
	if err != nil {
		return 0, err
	}
	for _, t := range tops {
		d, err := makeDoc(domain.DocTypeTopping, t.Name, flagIf(t.Seasonal, flagSeasonal), t.Price)
		if err != nil {
			return 0, err
		}
		docs = append(docs, d)
	}

	n, err := s.Index.ReplaceDocuments(ctx, s.DB, docs)
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int("index.documents", n))
	return n, nil
}

// Status reports whether the wizard can serve recommendations and how many
// documents the index currently holds. Enabled means at least one document.
func (s *TrainerService) Status(ctx context.Context) (bool, int64, error) {
	n, err := s.Index.CountDocuments(ctx, s.DB)
	if err != nil {
		return false, 0, err
	}
	return n > 0, n, nil
}
