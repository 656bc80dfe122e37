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

func newIdemRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("idem_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := db.AutoMigrate(&domain.Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestCreateIdempotency_PersistsAndSetsExpiry(t *testing.T) {
	db := newIdemRepoDB(t)

	rec, err := CreateIdempotency(context.Background(), db, "u1", "k1", "drink-1", 201, 24*time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.ID == "" || rec.UserID != "u1" || rec.Key != "k1" || rec.DrinkID != "drink-1" || rec.Status != 201 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !rec.ExpiresAt.After(rec.CreatedAt) {
		t.Fatalf("expiry not after creation: %+v", rec)
	}
}

func TestCreateIdempotency_DuplicateKey(t *testing.T) {
	db := newIdemRepoDB(t)
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "k1", "drink-1", 201, time.Hour); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := CreateIdempotency(ctx, db, "u1", "k1", "drink-2", 201, time.Hour)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Same key for another user is a distinct tuple.
	if _, err := CreateIdempotency(ctx, db, "u2", "k1", "drink-3", 201, time.Hour); err != nil {
		t.Fatalf("other user: %v", err)
	}
}

func TestGetIdempotency_HitAndMiss(t *testing.T) {
	db := newIdemRepoDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := CreateIdempotency(ctx, db, "u1", "k1", "drink-1", 201, time.Hour); err != nil {
		t.Fatalf("create: %v", err)
	}

	rec, err := GetIdempotency(ctx, db, "u1", "k1", now)
	if err != nil {
		t.Fatalf("GetIdempotency: %v", err)
	}
	if rec.DrinkID != "drink-1" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	if _, err := GetIdempotency(ctx, db, "u1", "other", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("miss: expected ErrNotFound, got %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "u2", "k1", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("wrong user: expected ErrNotFound, got %v", err)
	}
}

func TestGetIdempotency_ExpiredRecordIsMiss(t *testing.T) {
	db := newIdemRepoDB(t)
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "k1", "drink-1", 201, time.Minute); err != nil {
		t.Fatalf("create: %v", err)
	}

	later := time.Now().UTC().Add(2 * time.Minute)
	if _, err := GetIdempotency(ctx, db, "u1", "k1", later); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry miss, got %v", err)
	}
}

func TestGetIdempotency_BlankKeyShortCircuits(t *testing.T) {
	db := newIdemRepoDB(t)

	if _, err := GetIdempotency(context.Background(), db, "u1", "   ", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank key, got %v", err)
	}
}
