package models

import (
	"time"

	"github.com/google/uuid"
)

// Services flags the optional add-ons of a package or a booking
type Services struct {
	Food          bool `json:"food" bson:"food"`
	Accommodation bool `json:"accommodation" bson:"accommodation"`
}

// Package represents a sellable travel itinerary
type Package struct {
	ID                 uuid.UUID `json:"id" db:"id" bson:"_id"`
	FromLocation       string    `json:"fromLocation" db:"from_location" bson:"fromLocation"`
	ToLocation         string    `json:"toLocation" db:"to_location" bson:"toLocation"`
	StartDate          time.Time `json:"startDate" db:"start_date" bson:"startDate"`
	EndDate            time.Time `json:"endDate" db:"end_date" bson:"endDate"`
	BasePrice          float64   `json:"basePrice" db:"base_price" bson:"basePrice"`
	IncludedServices   Services  `json:"includedServices" db:"-" bson:"includedServices"`
	FoodPrice          float64   `json:"foodPrice" db:"food_price" bson:"foodPrice"`
	AccommodationPrice float64   `json:"accommodationPrice" db:"accommodation_price" bson:"accommodationPrice"`
	Description        string    `json:"description" db:"description" bson:"description"`
	Image              string    `json:"image" db:"image" bson:"image"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

// Route renders "from → to" for listings and reports
func (p Package) Route() string {
	return p.FromLocation + " → " + p.ToLocation
}

// PackageStats counts packages by lifecycle phase
type PackageStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Upcoming  int `json:"upcoming"`
	Completed int `json:"completed"`
}

// PackageBookingStats is one row of the bookings-by-package report
type PackageBookingStats struct {
	PackageID    uuid.UUID `json:"packageId"`
	PackageName  string    `json:"packageName"`
	ToLocation   string    `json:"toLocation"`
	Route        string    `json:"route"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	BookingCount int       `json:"count"`
	TotalRevenue float64   `json:"totalRevenue"`
}

// PackageWithPhase is a package annotated with its derived phase
type PackageWithPhase struct {
	Package
	Phase Phase `json:"phase"`
}
