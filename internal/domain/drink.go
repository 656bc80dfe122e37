// Package domain – saved drinks, taste preferences, indexed documents, and
// idempotency records.
package domain

import "time"

// Drink is a finalized beverage saved by the user. The full configuration is
// stored as serialized JSON next to the generated preview image URL. Rows are
// immutable after creation and listed newest first.
type Drink struct {
	ID         string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Name       string    `json:"name"       gorm:"type:varchar(255);not null"`
	ConfigJSON string    `json:"config"     gorm:"column:config_json;type:text;not null"`
	ImageURL   string    `json:"image_url"  gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

// TableName returns the database table name for Drink.
func (Drink) TableName() string { return "drinks" }

// Preference captures the operator's free-text taste profile. The table is
// insert-only: every save appends a row and readers always take the newest,
// which avoids update races entirely.
type Preference struct {
	ID         string    `json:"id"                    gorm:"type:char(36);primaryKey"`
	Aroma      string    `json:"aroma_preference"      gorm:"column:aroma_preference;type:text"`
	Flavor     string    `json:"flavor_preference"     gorm:"column:flavor_preference;type:text"`
	Acidity    string    `json:"acidity_preference"    gorm:"column:acidity_preference;type:text"`
	Body       string    `json:"body_preference"       gorm:"column:body_preference;type:text"`
	Aftertaste string    `json:"aftertaste_preference" gorm:"column:aftertaste_preference;type:text"`
	CreatedAt  time.Time `json:"created_at"            gorm:"index"`
}

// TableName returns the database table name for Preference.
func (Preference) TableName() string { return "user_preferences" }

// Document type tags for indexed catalog items. Only the four preference-
// rankable categories are indexed; sizes, temperatures and ice levels are
// filled from fixed defaults by the wizard.
const (
	DocTypeBase    = "base"
	DocTypeMilk    = "milk"
	DocTypeSyrup   = "syrup"
	DocTypeTopping = "topping"
)

// IndexedDocument is a catalog item rendered as rankable text, produced by
// the admin-triggered trainer and consumed only by the wizard ranker. The
// raw item row is retained as JSON so the recommendation can recover the
// original display name.
type IndexedDocument struct {
	ID        string    `json:"id"      gorm:"type:char(36);primaryKey"`
	Text      string    `json:"text"    gorm:"type:text;not null"`
	Type      string    `json:"type"    gorm:"type:varchar(16);not null;index;check:type IN ('base','milk','syrup','topping')"`
	DataJSON  string    `json:"data"    gorm:"column:data_json;type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for IndexedDocument.
func (IndexedDocument) TableName() string { return "indexed_documents" }

// Idempotency records a previously completed drink save, keyed by
// (user_id, key). It lets POST /drinks retries return the originally
// persisted drink without re-executing side effects.
type Idempotency struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID    string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_key,priority:1"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_key,priority:2"`
	DrinkID   string    `gorm:"type:TEXT NOT NULL"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
