// Package prompt deterministically synthesizes the positive and negative
// prompts sent to the image-generation provider from a drink configuration.
//
// Fragment order is fixed and significant: the downstream model weights
// earlier tokens more heavily, so the vessel always comes first, then base,
// milk, syrups, toppings, ice, and finally the fixed photography style
// suffix. Tests assert the exact order, not just set membership.
//
// The negative prompt tells the model what to avoid rendering. It combines
// temperature-gated vessel exclusions (a hot drink must never look like a
// transparent plastic cup and vice versa), per-category exclusions for
// unselected components, sibling catalog names to suppress visual confusion
// between similar items, and fixed composition exclusions. The final string
// is truncated to the provider's character bound.
package prompt

import (
	"fmt"
	"strings"

	"github.com/Pushparajan/CraftYourCoffee/internal/domain"
)

// MaxNegativeLen is the provider's length bound for negative prompts.
const MaxNegativeLen = 1000

// Sibling suppression bounds per category.
const (
	maxSiblingSingles = 3 // bases, milks
	maxSiblingMulti   = 5 // syrups, toppings
)

// Catalog carries the full option listing, used to build sibling exclusion
// terms. A nil catalog disables sibling suppression but none of the other
// rules.
type Catalog struct {
	Bases    []string
	Milks    []string
	Syrups   []string
	Toppings []string
}

// temperature classes gate vessel description and exclusion sets.
type tempClass int

const (
	tempUnknown tempClass = iota
	tempHot
	tempCold // iced or blended
)

func classifyTemperature(name string) tempClass {
	t := strings.ToLower(strings.TrimSpace(name))
	switch {
	case t == "":
		return tempUnknown
	case strings.Contains(t, "hot") || strings.Contains(t, "warm") || strings.Contains(t, "steamed"):
		return tempHot
	case strings.Contains(t, "ice") || strings.Contains(t, "cold") ||
		strings.Contains(t, "blend") || strings.Contains(t, "frozen") ||
		strings.Contains(t, "frapp"):
		return tempCold
	default:
		return tempUnknown
	}
}

// cupDimensions maps known size names to their textual description. Venti is
// special-cased below because its hot and cold cups differ.
var cupDimensions = map[string]string{
	"short":  "small 8 oz cup, about 9 cm tall and 6 cm in diameter",
	"tall":   "12 oz cup, about 11 cm tall and 7 cm in diameter",
	"grande": "16 oz cup, about 14 cm tall and 9 cm in diameter",
	"trenta": "very large 30 oz cup, about 19 cm tall and 10 cm in diameter",
}

const (
	ventiHot  = "large 20 oz cup, about 16 cm tall and 9 cm in diameter"
	ventiCold = "large 24 oz cup, about 18 cm tall and 10 cm in diameter"
)

// cupSize renders the size phrase for the vessel fragment. Unknown size
// names fall back to a generic "<size> cup" phrase; an empty size is just
// "cup".
func cupSize(size string, class tempClass) string {
	key := strings.ToLower(strings.TrimSpace(size))
	if key == "" {
		return "cup"
	}
	if key == "venti" {
		if class == tempCold {
			return ventiCold
		}
		return ventiHot
	}
	if desc, ok := cupDimensions[key]; ok {
		return desc
	}
	return key + " cup"
}

// Exclusion vocabularies. The hot and cold sets are disjoint on purpose:
// hot drinks must never pick up transparency/ice cues, and cold drinks must
// never pick up paper/steam cues.
var (
	hotExclusions = []string{
		"transparent cup", "clear plastic cup", "ice", "ice cubes",
		"condensation", "visible layers", "straw",
	}
	coldExclusions = []string{
		"steam", "paper cup", "cardboard sleeve", "cup sleeve",
		"ceramic mug", "saucer",
	}
	noMilkExclusions = []string{
		"milk", "cream", "milk foam", "latte art", "creamy texture",
	}
	noSyrupExclusions = []string{
		"syrup", "syrup drizzle", "flavored syrup",
	}
	noToppingExclusions = []string{
		"whipped cream", "toppings", "sprinkles", "powder dusting",
	}
	noIceExclusions = []string{
		"ice", "ice cubes",
	}
	compositionExclusions = []string{
		"text", "watermark", "extra framing", "border", "multiple cups",
		"top-down view", "overhead shot", "hands",
	}
)

// styleSuffix is the fixed photography styling appended to every positive
// prompt.
const styleSuffix = "studio lighting, close-up, clean seamless background, high quality, appetizing, professional beverage photography"

// Build synthesizes the positive and negative prompt for cfg. It is a pure
// function: same inputs, same strings.
func Build(cfg domain.DrinkConfig, cat *Catalog) (positive, negative string) {
	class := classifyTemperature(cfg.Temperature)

	var pos []string
	neg := newTermList()

	// 1) Vessel, gated by temperature class.
	size := cupSize(cfg.Size, class)
	switch class {
	case tempHot:
		pos = append(pos, "a steaming hot beverage in a "+size+" made of paper with a cardboard sleeve, gentle steam rising")
		neg.add(hotExclusions...)
	case tempCold:
		pos = append(pos, "a cold beverage in a fully transparent plastic "+size+" with clearly visible layering of the drink")
		neg.add(coldExclusions...)
	default:
		pos = append(pos, "a beverage in a "+size)
	}

	// 2) Base: a bare pour reads differently than a dressed drink.
	if cfg.Base != "" {
		b := strings.ToLower(cfg.Base)
		if cfg.HasAdditions() {
			pos = append(pos, "plain black "+b)
		} else {
			pos = append(pos, b+" drink")
		}
		neg.add(siblings(cat.bases(), []string{cfg.Base}, maxSiblingSingles)...)
	}

	// 3) Milk.
	if cfg.Milk != "" {
		pos = append(pos, "made with "+strings.ToLower(cfg.Milk))
		neg.add(siblings(cat.milks(), []string{cfg.Milk}, maxSiblingSingles)...)
	} else {
		neg.add(noMilkExclusions...)
	}

	// 4) Syrups.
	if len(cfg.Syrups) > 0 {
		names := make([]string, 0, len(cfg.Syrups))
		for _, s := range cfg.Syrups {
			names = append(names, strings.ToLower(s.Name))
		}
		pos = append(pos, "flavored with "+joinAnd(names)+" syrup")
		neg.add(siblings(cat.syrups(), names, maxSiblingMulti)...)
	} else {
		neg.add(noSyrupExclusions...)
	}

	// 5) Toppings.
	if len(cfg.Toppings) > 0 {
		names := make([]string, 0, len(cfg.Toppings))
		for _, t := range cfg.Toppings {
			names = append(names, strings.ToLower(t))
		}
		pos = append(pos, "topped with "+joinAnd(names))
		neg.add(siblings(cat.toppings(), names, maxSiblingMulti)...)
	} else {
		neg.add(noToppingExclusions...)
	}

	// 6) Ice.
	switch {
	case cfg.Ice == "" || cfg.Ice == domain.IceNone:
		neg.add(noIceExclusions...)
	case cfg.Ice != domain.IceRegular:
		pos = append(pos, fmt.Sprintf("with %s ice", cfg.Ice))
	}

	// 7) Fixed style suffix and composition exclusions.
	pos = append(pos, styleSuffix)
	neg.add(compositionExclusions...)

	return strings.Join(pos, ", "), truncate(neg.join(), MaxNegativeLen)
}

// siblings returns up to max lowercased names from all that are not in
// selected (case-insensitive). Order follows the catalog listing.
func siblings(all, selected []string, max int) []string {
	if len(all) == 0 {
		return nil
	}
	chosen := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		chosen[strings.ToLower(s)] = struct{}{}
	}
	out := make([]string, 0, max)
	for _, name := range all {
		low := strings.ToLower(name)
		if _, ok := chosen[low]; ok {
			continue
		}
		out = append(out, low)
		if len(out) == max {
			break
		}
	}
	return out
}

// joinAnd joins names with " and " matching the phrasing of the builder UI.
func joinAnd(names []string) string {
	return strings.Join(names, " and ")
}

// termList accumulates negative fragments in first-seen order without
// duplicates (the absent-ice terms overlap the hot vessel set).
type termList struct {
	seen  map[string]struct{}
	terms []string
}

func newTermList() *termList {
	return &termList{seen: make(map[string]struct{})}
}

func (l *termList) add(terms ...string) {
	for _, t := range terms {
		if _, ok := l.seen[t]; ok {
			continue
		}
		l.seen[t] = struct{}{}
		l.terms = append(l.terms, t)
	}
}

func (l *termList) join() string { return strings.Join(l.terms, ", ") }

// truncate caps s at max runes, replacing the tail with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// nil-safe catalog accessors.

func (c *Catalog) bases() []string {
	if c == nil {
		return nil
	}
	return c.Bases
}

func (c *Catalog) milks() []string {
	if c == nil {
		return nil
	}
	return c.Milks
}

func (c *Catalog) syrups() []string {
	if c == nil {
		return nil
	}
	return c.Syrups
}

func (c *Catalog) toppings() []string {
	if c == nil {
		return nil
	}
	return c.Toppings
}
