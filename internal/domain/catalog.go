// Package domain defines the persistence models for the beverage catalog,
// saved drinks, taste preferences, and the trained recommendation index.
// These types are mapped with GORM and form the core data layer of the
// drink-builder application.
//
// Catalog tables (bases, sizes, milks, syrups, toppings, temperatures,
// ice_levels) are owned by the external store; the application reads them
// and never mutates them outside the dev-only seeder. Price columns are
// nullable on purpose: an unmigrated schema simply has no pricing yet and
// the pricing layer degrades to a zeroed breakdown.
package domain

import "time"

// Base is a drinkable foundation (espresso, cold brew, matcha, ...).
type Base struct {
	ID        uint     `json:"id"         gorm:"primaryKey"`
	Name      string   `json:"name"       gorm:"type:varchar(64);not null;uniqueIndex"`
	Price     *float64 `json:"price"      gorm:"type:decimal(6,2)"`
	Decaf     bool     `json:"decaf"      gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Base.
func (Base) TableName() string { return "bases" }

// Size is a cup size with its nominal volume in milliliters. Volume drives
// the default-size pick for wizard recommendations (second-smallest) and the
// cup description used in image prompts.
type Size struct {
	ID        uint     `json:"id"        gorm:"primaryKey"`
	Name      string   `json:"name"      gorm:"type:varchar(32);not null;uniqueIndex"`
	Price     *float64 `json:"price"     gorm:"type:decimal(6,2)"`
	VolumeML  int      `json:"volume_ml" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Size.
func (Size) TableName() string { return "sizes" }

// Milk is a dairy or plant-based milk option.
type Milk struct {
	ID        uint     `json:"id"         gorm:"primaryKey"`
	Name      string   `json:"name"       gorm:"type:varchar(64);not null;uniqueIndex"`
	Price     *float64 `json:"price"      gorm:"type:decimal(6,2)"`
	DairyFree bool     `json:"dairy_free" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Milk.
func (Milk) TableName() string { return "milks" }

// Syrup is a flavor syrup priced per pump.
type Syrup struct {
	ID        uint     `json:"id"       gorm:"primaryKey"`
	Name      string   `json:"name"     gorm:"type:varchar(64);not null;uniqueIndex"`
	Price     *float64 `json:"price"    gorm:"type:decimal(6,2)"` // per pump
	Seasonal  bool     `json:"seasonal" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Syrup.
func (Syrup) TableName() string { return "syrups" }

// Topping is a finishing addition (whipped cream, cold foam, drizzle, ...)
// priced flat per selection.
type Topping struct {
	ID        uint     `json:"id"       gorm:"primaryKey"`
	Name      string   `json:"name"     gorm:"type:varchar(64);not null;uniqueIndex"`
	Price     *float64 `json:"price"    gorm:"type:decimal(6,2)"`
	Seasonal  bool     `json:"seasonal" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Topping.
func (Topping) TableName() string { return "toppings" }

// Temperature is a serving style (Hot, Iced, Blended).
type Temperature struct {
	ID        uint      `json:"id"   gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(32);not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Temperature.
func (Temperature) TableName() string { return "temperatures" }

// IceLevel is an ice quantity option for cold drinks.
type IceLevel struct {
	ID        uint      `json:"id"   gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(32);not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for IceLevel.
func (IceLevel) TableName() string { return "ice_levels" }

// Option is the category-agnostic projection of a catalog row returned by
// GET /options/:category. Fields absent for a category are omitted.
type Option struct {
	ID       uint     `json:"id"`
	Name     string   `json:"name"`
	Price    *float64 `json:"price,omitempty"`
	VolumeML int      `json:"volume_ml,omitempty"`
}
