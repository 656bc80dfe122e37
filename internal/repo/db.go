// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver), schema migrations, and the dev-only catalog
// seeder.
package repo

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/Pushparajan/CraftYourCoffee/internal/domain"
)

// OpenSQLite opens (or creates) a SQLite database, applies PRAGMAs, tunes
// the pool, and installs OpenTelemetry query tracing.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	// Trace queries alongside HTTP spans; metrics come from the HTTP layer.
	_ = db.Use(tracing.NewPlugin(tracing.WithoutMetrics()))

	return db, nil
}

// AutoMigrate creates or updates all application tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Base{},
		&domain.Size{},
		&domain.Milk{},
		&domain.Syrup{},
		&domain.Topping{},
		&domain.Temperature{},
		&domain.IceLevel{},
		&domain.Drink{},
		&domain.Preference{},
		&domain.IndexedDocument{},
		&domain.Idempotency{},
	)
}

func price(v float64) *float64 { return &v }

// SeedCatalog inserts a default option catalog when the tables are empty.
// The catalog is normally owned by the external store; this seeder exists so
// a fresh dev database serves the builder without any migration scripts.
// Existing rows are never touched.
func SeedCatalog(db *gorm.DB) error {
	var n int64
	if err := db.Model(&domain.Base{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	bases := []domain.Base{
		{Name: "Espresso", Price: price(3.00)},
		{Name: "Cold Brew", Price: price(3.50)},
		{Name: "Drip Coffee", Price: price(2.50)},
		{Name: "Matcha", Price: price(3.75)},
		{Name: "Chai", Price: price(3.25)},
	}
	sizes := []domain.Size{
		{Name: "Short", Price: price(0.00), VolumeML: 236},
		{Name: "Tall", Price: price(0.30), VolumeML: 354},
		{Name: "Grande", Price: price(0.50), VolumeML: 473},
		{Name: "Venti", Price: price(0.70), VolumeML: 591},
		{Name: "Trenta", Price: price(0.90), VolumeML: 887},
	}
	milks := []domain.Milk{
		{Name: "Whole Milk", Price: price(0.50)},
		{Name: "Oat Milk", Price: price(0.75), DairyFree: true},
		{Name: "Almond Milk", Price: price(0.75), DairyFree: true},
		{Name: "Soy Milk", Price: price(0.60), DairyFree: true},
	}
	syrups := []domain.Syrup{
		{Name: "Vanilla", Price: price(0.50)},
		{Name: "Caramel", Price: price(0.50)},
		{Name: "Hazelnut", Price: price(0.50)},
		{Name: "Pumpkin Spice", Price: price(0.60), Seasonal: true},
	}
	toppings := []domain.Topping{
		{Name: "Whipped Cream", Price: price(0.50)},
		{Name: "Cold Foam", Price: price(0.75)},
		{Name: "Caramel Drizzle", Price: price(0.50)},
		{Name: "Cinnamon Powder", Price: price(0.25)},
	}
	temperatures := []domain.Temperature{
		{Name: "Hot"}, {Name: "Iced"}, {Name: "Blended"},
	}
	iceLevels := []domain.IceLevel{
		{Name: "none"}, {Name: "light"}, {Name: "regular"}, {Name: "extra"},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, c := range []any{bases, sizes, milks, syrups, toppings, temperatures, iceLevels} {
			if err := tx.Create(c).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
