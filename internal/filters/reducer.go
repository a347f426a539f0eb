// Package filters holds the user's active catalog filter selections and the
// pure reducer that mutates them. The reducer never issues queries; turning a
// new state into a List call is the caller's job.
package filters

import (
	"github.com/carlothq/carlot-backend/internal/catalog"
)

// PriceRange is an inclusive [min, max] price span.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// State is one immutable snapshot of the active selections. Reducer methods
// return a new value; the receiver is never modified.
type State struct {
	PriceRange   PriceRange `json:"priceRange"`
	Brands       []string   `json:"brands"`
	VehicleTypes []string   `json:"vehicleTypes"`
	MinRating    float64    `json:"minRating"`

	defaults PriceRange
}

// NewState returns the default state for the given full price span: no brand
// or type selections, rating 0, price range wide open.
func NewState(span PriceRange) State {
	return State{
		PriceRange:   span,
		Brands:       []string{},
		VehicleTypes: []string{},
		MinRating:    0,
		defaults:     span,
	}
}

// SetPriceRange replaces the price span.
func (s State) SetPriceRange(r PriceRange) State {
	s.PriceRange = r
	return s
}

// ToggleBrand adds the brand if absent, removes it if present.
func (s State) ToggleBrand(brand string) State {
	s.Brands = toggle(s.Brands, brand)
	return s
}

// ToggleVehicleType adds the type if absent, removes it if present.
func (s State) ToggleVehicleType(vehicleType string) State {
	s.VehicleTypes = toggle(s.VehicleTypes, vehicleType)
	return s
}

// SetRating replaces the minimum rating. Negative input resets to 0.
func (s State) SetRating(rating float64) State {
	if rating < 0 {
		rating = 0
	}
	s.MinRating = rating
	return s
}

// Clear resets every selection to the default exactly.
func (s State) Clear() State {
	return NewState(s.defaults)
}

// IsDefault reports whether no filter is active.
func (s State) IsDefault(span PriceRange) bool {
	return s.PriceRange == span &&
		len(s.Brands) == 0 &&
		len(s.VehicleTypes) == 0 &&
		s.MinRating == 0
}

// Query converts the selections into engine filter parameters. The price
// bounds are only attached when the span has been narrowed, mirroring the
// engine's both-bounds-or-nothing price rule.
func (s State) Query() catalog.ListQuery {
	q := catalog.ListQuery{
		Brands:       append([]string(nil), s.Brands...),
		VehicleTypes: append([]string(nil), s.VehicleTypes...),
	}
	if s.PriceRange != s.defaults {
		min, max := s.PriceRange.Min, s.PriceRange.Max
		q.MinPrice = &min
		q.MaxPrice = &max
	}
	if s.MinRating > 0 {
		rating := s.MinRating
		q.MinRating = &rating
	}
	return q
}

func toggle(values []string, value string) []string {
	next := make([]string, 0, len(values)+1)
	found := false
	for _, v := range values {
		if v == value {
			found = true
			continue
		}
		next = append(next, v)
	}
	if !found {
		next = append(next, value)
	}
	return next
}
