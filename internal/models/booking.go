package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the persisted workflow state of a booking
type BookingStatus string

const (
	BookingAccepted  BookingStatus = "accepted"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Valid reports whether s is one of the known workflow states
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingAccepted, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Phase is the time-derived lifecycle classification of a package
type Phase string

const (
	PhaseUpcoming  Phase = "upcoming"
	PhaseActive    Phase = "active"
	PhaseCompleted Phase = "completed"
)

// Booking represents a user's purchase of a package
type Booking struct {
	ID              uuid.UUID     `json:"id" db:"id" bson:"_id"`
	UserID          uuid.UUID     `json:"user" db:"user_id" bson:"user"`
	PackageID       uuid.UUID     `json:"package" db:"package_id" bson:"package"`
	SelectedOptions Services      `json:"selectedOptions" db:"-" bson:"selectedOptions"`
	TotalPrice      float64       `json:"totalPrice" db:"total_price" bson:"totalPrice"`
	Status          BookingStatus `json:"status" db:"status" bson:"status"`
	BookingDate     time.Time     `json:"bookingDate" db:"booking_date" bson:"bookingDate"`
}

// PackageSummary is the part of a package embedded in booking responses
type PackageSummary struct {
	ID                 uuid.UUID `json:"id"`
	FromLocation       string    `json:"fromLocation,omitempty"`
	ToLocation         string    `json:"toLocation,omitempty"`
	StartDate          time.Time `json:"startDate,omitempty"`
	EndDate            time.Time `json:"endDate,omitempty"`
	BasePrice          float64   `json:"basePrice,omitempty"`
	IncludedServices   *Services `json:"includedServices,omitempty"`
	FoodPrice          float64   `json:"foodPrice,omitempty"`
	AccommodationPrice float64   `json:"accommodationPrice,omitempty"`
}

// UserSummary is the part of a user embedded in admin booking responses
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name,omitempty"`
	Email string    `json:"email,omitempty"`
}

// BookingDetail is a booking with its references resolved.
// Status is the persisted workflow state; CurrentStatus is the phase derived
// from the package dates. The two are independent.
type BookingDetail struct {
	ID              uuid.UUID      `json:"id"`
	User            UserSummary    `json:"user"`
	Package         PackageSummary `json:"package"`
	SelectedOptions Services       `json:"selectedOptions"`
	TotalPrice      float64        `json:"totalPrice"`
	Status          BookingStatus  `json:"status"`
	CurrentStatus   Phase          `json:"currentStatus,omitempty"`
	BookingDate     time.Time      `json:"bookingDate"`
}
