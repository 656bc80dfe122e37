// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the trained
// recommendation index.
//
// The index is rebuilt wholesale: training wipes the table and inserts the
// fresh document set inside one transaction, so readers never observe a
// half-built index.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Pushparajan/CraftYourCoffee/internal/domain"
)

// ReplaceDocuments atomically swaps the indexed document set and returns the
// number of documents written. Each document receives a fresh UUID and
// creation timestamp.
func ReplaceDocuments(ctx context.Context, db *gorm.DB, docs []domain.IndexedDocument) (int, error) {
	now := time.Now().UTC()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.IndexedDocument{}).Error; err != nil {
			return err
		}
		for i := range docs {
			docs[i].ID = uuid.NewString()
			docs[i].CreatedAt = now
		}
		if len(docs) == 0 {
			return nil
		}
		return tx.Create(&docs).Error
	})
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// ListDocuments returns every indexed document in insertion order.
func ListDocuments(ctx context.Context, db *gorm.DB) ([]domain.IndexedDocument, error) {
	var out []domain.IndexedDocument
	err := db.WithContext(ctx).Order("created_at asc").Find(&out).Error
	return out, err
}

// CountDocuments returns the number of indexed documents. Zero means the
// wizard has never been trained.
func CountDocuments(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.IndexedDocument{}).Count(&total).Error
	return total, err
}
