package dto

import "TRAVELPACK_BACK-END/internal/models"

// PackageRequest represents the payload to create a package.
// Dates accept YYYY-MM-DD or RFC3339.
type PackageRequest struct {
	FromLocation       string          `json:"fromLocation" validate:"required"`
	ToLocation         string          `json:"toLocation" validate:"required"`
	StartDate          string          `json:"startDate" validate:"required"`
	EndDate            string          `json:"endDate" validate:"required"`
	BasePrice          *float64        `json:"basePrice" validate:"required,gte=0"`
	IncludedServices   models.Services `json:"includedServices"`
	FoodPrice          float64         `json:"foodPrice" validate:"gte=0"`
	AccommodationPrice float64         `json:"accommodationPrice" validate:"gte=0"`
	Description        string          `json:"description" validate:"max=2000"`
	Image              string          `json:"image" validate:"omitempty,url"`
}

// UpdatePackageRequest is a partial update; absent fields are left alone
type UpdatePackageRequest struct {
	FromLocation       *string          `json:"fromLocation" validate:"omitempty,min=1"`
	ToLocation         *string          `json:"toLocation" validate:"omitempty,min=1"`
	StartDate          *string          `json:"startDate"`
	EndDate            *string          `json:"endDate"`
	BasePrice          *float64         `json:"basePrice" validate:"omitempty,gte=0"`
	IncludedServices   *models.Services `json:"includedServices"`
	FoodPrice          *float64         `json:"foodPrice" validate:"omitempty,gte=0"`
	AccommodationPrice *float64         `json:"accommodationPrice" validate:"omitempty,gte=0"`
	Description        *string          `json:"description" validate:"omitempty,max=2000"`
	Image              *string          `json:"image" validate:"omitempty,url"`
}
