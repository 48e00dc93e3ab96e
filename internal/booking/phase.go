package booking

import (
	"time"

	"TRAVELPACK_BACK-END/internal/models"
)

// DerivePhase classifies a date range against now. Both bounds are inclusive:
// now == start and now == end are active.
func DerivePhase(start, end, now time.Time) models.Phase {
	switch {
	case now.Before(start):
		return models.PhaseUpcoming
	case now.After(end):
		return models.PhaseCompleted
	default:
		return models.PhaseActive
	}
}

// PackagePhase is DerivePhase over a package's own dates
func PackagePhase(pkg models.Package, now time.Time) models.Phase {
	return DerivePhase(pkg.StartDate, pkg.EndDate, now)
}

// ParsePhase accepts "upcoming", "active" or "completed"
func ParsePhase(s string) (models.Phase, bool) {
	switch p := models.Phase(s); p {
	case models.PhaseUpcoming, models.PhaseActive, models.PhaseCompleted:
		return p, true
	}
	return "", false
}
