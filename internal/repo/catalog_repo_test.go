package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Pushparajan/CraftYourCoffee/internal/domain"
)

func newCatalogDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("catalog_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func newSeededCatalogDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newCatalogDB(t,
		&domain.Base{}, &domain.Size{}, &domain.Milk{},
		&domain.Syrup{}, &domain.Topping{},
		&domain.Temperature{}, &domain.IceLevel{},
	)
	if err := SeedCatalog(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

func TestListBases_OrderedByName(t *testing.T) {
	db := newSeededCatalogDB(t)

	bases, err := ListBases(context.Background(), db)
	if err != nil {
		t.Fatalf("ListBases: %v", err)
	}
	if len(bases) != 5 {
		t.Fatalf("len = %d, want 5", len(bases))
	}
	for i := 1; i < len(bases); i++ {
		if bases[i-1].Name > bases[i].Name {
			t.Fatalf("bases not name-ordered: %q before %q", bases[i-1].Name, bases[i].Name)
		}
	}
}

func TestListSizes_OrderedByVolume(t *testing.T) {
	db := newSeededCatalogDB(t)

	sizes, err := ListSizes(context.Background(), db)
	if err != nil {
		t.Fatalf("ListSizes: %v", err)
	}
	if len(sizes) != 5 {
		t.Fatalf("len = %d, want 5", len(sizes))
	}
	for i := 1; i < len(sizes); i++ {
		if sizes[i-1].VolumeML > sizes[i].VolumeML {
			t.Fatalf("sizes not volume-ordered: %d before %d", sizes[i-1].VolumeML, sizes[i].VolumeML)
		}
	}
	// Index 1 is the wizard's default pick.
	if sizes[1].Name != "Tall" {
		t.Fatalf("second-smallest = %q, want Tall", sizes[1].Name)
	}
}

func TestListTemperatures_InsertionOrder(t *testing.T) {
	db := newSeededCatalogDB(t)

	temps, err := ListTemperatures(context.Background(), db)
	if err != nil {
		t.Fatalf("ListTemperatures: %v", err)
	}
	if len(temps) != 3 || temps[0].Name != "Hot" {
		t.Fatalf("unexpected temperatures: %+v", temps)
	}
}

func TestListIceLevels_InsertionOrder(t *testing.T) {
	db := newSeededCatalogDB(t)

	levels, err := ListIceLevels(context.Background(), db)
	if err != nil {
		t.Fatalf("ListIceLevels: %v", err)
	}
	if len(levels) != 4 || levels[0].Name != "none" {
		t.Fatalf("unexpected ice levels: %+v", levels)
	}
}

func TestUnitPriceLookups(t *testing.T) {
	db := newSeededCatalogDB(t)
	ctx := context.Background()

	if p, err := BasePrice(ctx, db, "Espresso"); err != nil || p != 3.00 {
		t.Fatalf("BasePrice = %v, %v", p, err)
	}
	if p, err := SizePrice(ctx, db, "Grande"); err != nil || p != 0.50 {
		t.Fatalf("SizePrice = %v, %v", p, err)
	}
	if p, err := MilkPrice(ctx, db, "Oat Milk"); err != nil || p != 0.75 {
		t.Fatalf("MilkPrice = %v, %v", p, err)
	}
	if p, err := SyrupPrice(ctx, db, "Vanilla"); err != nil || p != 0.50 {
		t.Fatalf("SyrupPrice = %v, %v", p, err)
	}
	if p, err := ToppingPrice(ctx, db, "Cold Foam"); err != nil || p != 0.75 {
		t.Fatalf("ToppingPrice = %v, %v", p, err)
	}
}

func TestUnitPrice_UnknownAndEmptyNameAreZero(t *testing.T) {
	db := newSeededCatalogDB(t)
	ctx := context.Background()

	if p, err := BasePrice(ctx, db, "Kombucha"); err != nil || p != 0 {
		t.Fatalf("unknown name: %v, %v", p, err)
	}
	if p, err := BasePrice(ctx, db, "   "); err != nil || p != 0 {
		t.Fatalf("blank name: %v, %v", p, err)
	}
}

func TestUnitPrice_NullPriceIsZero(t *testing.T) {
	db := newCatalogDB(t, &domain.Base{})
	if err := db.Create(&domain.Base{Name: "Unpriced"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	p, err := BasePrice(context.Background(), db, "Unpriced")
	if err != nil || p != 0 {
		t.Fatalf("null price: %v, %v", p, err)
	}
}

func TestUnitPrice_MissingColumnIsErrPriceSchema(t *testing.T) {
	db := newCatalogDB(t)
	// A legacy catalog table predating the pricing migration.
	if err := db.Exec("CREATE TABLE bases (id INTEGER PRIMARY KEY, name TEXT NOT NULL)").Error; err != nil {
		t.Fatalf("create legacy table: %v", err)
	}
	if err := db.Exec("INSERT INTO bases (name) VALUES ('Espresso')").Error; err != nil {
		t.Fatalf("insert: %v", err)
	}

	_, err := BasePrice(context.Background(), db, "Espresso")
	if !errors.Is(err, ErrPriceSchema) {
		t.Fatalf("expected ErrPriceSchema, got %v", err)
	}
}

func Test_missingPriceColumn(t *testing.T) {
	if missingPriceColumn(nil) {
		t.Fatalf("nil error is not a schema miss")
	}
	if !missingPriceColumn(errors.New("SQL logic error: no such column: price (1)")) {
		t.Fatalf("sqlite message not recognized")
	}
	if !missingPriceColumn(errors.New(`ERROR: column "price" does not exist (SQLSTATE 42703)`)) {
		t.Fatalf("postgres message not recognized")
	}
	if missingPriceColumn(errors.New("database is locked")) {
		t.Fatalf("unrelated error misclassified")
	}
}
