// Package booking holds the business rules shared by every booking flow:
// price computation, lifecycle phase derivation and workflow status transitions.
package booking

import "TRAVELPACK_BACK-END/internal/models"

// ComputeTotalPrice returns the base price plus every selected add-on.
// Negative add-on prices never reduce the total.
func ComputeTotalPrice(pkg models.Package, selected models.Services) float64 {
	total := pkg.BasePrice
	if selected.Food && pkg.FoodPrice > 0 {
		total += pkg.FoodPrice
	}
	if selected.Accommodation && pkg.AccommodationPrice > 0 {
		total += pkg.AccommodationPrice
	}
	return total
}
