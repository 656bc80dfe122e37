// Package services defines the business logic for catalog options, pricing,
// previews, saved drinks, preferences, and the wizard recommendation flow.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

// Validation errors.
var (
	// ErrUnknownCategory is returned when an option listing is requested for
	// a category outside {bases, sizes, milks, syrups, toppings, temperatures}.
	ErrUnknownCategory = errors.New("unknown option category")

	// ErrEmptyConfig is returned when a preview is requested for a
	// configuration with no base selected; there is nothing to render.
	ErrEmptyConfig = errors.New("configuration has no base")

	// ErrEmptyDrinkName is returned when a drink save carries no name.
	ErrEmptyDrinkName = errors.New("drink name is empty")

	// ErrDrinkNotFound indicates that the requested saved drink does not exist.
	ErrDrinkNotFound = errors.New("drink not found")
)

// Wizard "not configured" conditions. Both are expected operational states
// on a fresh install, surfaced to the operator with instructions rather than
// treated as server failures.
var (
	// ErrNoPreferences is returned when no taste preference has ever been
	// saved in the admin panel.
	ErrNoPreferences = errors.New("no preferences found")

	// ErrNoDocumentsIndexed is returned when the recommendation index has
	// never been trained. No ranking call is made in this state.
	ErrNoDocumentsIndexed = errors.New("no documents indexed")
)
