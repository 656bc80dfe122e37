// Package domain – transient drink-builder types.
//
// DrinkConfig and PriceBreakdown are client-held aggregates: the builder UI
// mutates a configuration step by step and only an explicit save persists it
// (serialized into Drink.ConfigJSON). They carry no server-side identity.
package domain

// Sweetness levels accepted in a DrinkConfig.
const (
	SweetnessLight  = "light"
	SweetnessMedium = "medium"
	SweetnessExtra  = "extra"
)

// Ice levels accepted in a DrinkConfig. "none" (or empty) means no ice.
const (
	IceNone    = "none"
	IceLight   = "light"
	IceRegular = "regular"
	IceExtra   = "extra"
)

// Syrup pump bounds per selected syrup.
const (
	MinPumps = 1
	MaxPumps = 5
)

// SyrupSelection pairs a syrup name with its pump count (1–5). Pumps act as
// a price multiplier on the syrup's per-pump price.
type SyrupSelection struct {
	Name  string `json:"name"  binding:"required"`
	Pumps int    `json:"pumps" binding:"min=1,max=5"`
}

// DrinkConfig is the user's in-progress or finalized drink selection. All
// category fields are optional; an empty field simply contributes nothing to
// pricing and adds exclusion terms to the image prompt.
type DrinkConfig struct {
	Base          string           `json:"base,omitempty"`
	Size          string           `json:"size,omitempty"`
	Milk          string           `json:"milk,omitempty"`
	Syrups        []SyrupSelection `json:"syrups,omitempty"`
	Toppings      []string         `json:"toppings,omitempty"`
	Temperature   string           `json:"temperature,omitempty"`
	Sweetness     string           `json:"sweetness,omitempty"`
	Ice           string           `json:"ice,omitempty"`
	Name          string           `json:"name,omitempty"`
	EspressoShots int              `json:"espresso_shots,omitempty"`
}

// HasAdditions reports whether any of milk, syrups or toppings is selected.
// It decides whether the base is rendered "plain black" in image prompts.
func (c DrinkConfig) HasAdditions() bool {
	return c.Milk != "" || len(c.Syrups) > 0 || len(c.Toppings) > 0
}

// LoyaltyPoints mirrors the five price categories. Each category is
// floor(price*2); Total is the sum of the five rounded parts, NOT
// floor(total price * 2). Summing after rounding avoids drift when category
// prices carry half-point cents.
type LoyaltyPoints struct {
	Base     int `json:"base"`
	Size     int `json:"size"`
	Milk     int `json:"milk"`
	Syrups   int `json:"syrups"`
	Toppings int `json:"toppings"`
	Total    int `json:"total"`
}

// PriceBreakdown is the derived pricing of a configuration. It is never
// stored. Warning is set only in degraded mode (catalog without price
// columns), in which case every amount is zero.
type PriceBreakdown struct {
	Base          float64       `json:"base"`
	Size          float64       `json:"size"`
	Milk          float64       `json:"milk"`
	Syrups        float64       `json:"syrups"`
	Toppings      float64       `json:"toppings"`
	Total         float64       `json:"total"`
	LoyaltyPoints LoyaltyPoints `json:"loyaltyPoints"`
	Warning       string        `json:"warning,omitempty"`
}

// ZeroBreakdown returns an all-zero PriceBreakdown carrying the given
// warning. Used by the degraded pricing path and by the wizard when pricing
// a recommendation fails.
func ZeroBreakdown(warning string) *PriceBreakdown {
	return &PriceBreakdown{Warning: warning}
}
