package booking

import (
	"time"

	"TRAVELPACK_BACK-END/internal/models"
)

// Detail resolves a booking's references for display. pkg and user may be nil,
// in which case only their ids are reported and no phase is derived.
func Detail(b models.Booking, pkg *models.Package, user *models.User, now time.Time) models.BookingDetail {
	d := models.BookingDetail{
		ID:              b.ID,
		User:            models.UserSummary{ID: b.UserID},
		Package:         models.PackageSummary{ID: b.PackageID},
		SelectedOptions: b.SelectedOptions,
		TotalPrice:      b.TotalPrice,
		Status:          b.Status,
		BookingDate:     b.BookingDate,
	}
	if pkg != nil {
		included := pkg.IncludedServices
		d.Package = models.PackageSummary{
			ID:                 pkg.ID,
			FromLocation:       pkg.FromLocation,
			ToLocation:         pkg.ToLocation,
			StartDate:          pkg.StartDate,
			EndDate:            pkg.EndDate,
			BasePrice:          pkg.BasePrice,
			IncludedServices:   &included,
			FoodPrice:          pkg.FoodPrice,
			AccommodationPrice: pkg.AccommodationPrice,
		}
		d.CurrentStatus = PackagePhase(*pkg, now)
	}
	if user != nil {
		d.User = models.UserSummary{ID: user.ID, Name: user.Name, Email: user.Email}
	}
	return d
}
