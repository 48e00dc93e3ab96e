package dto

import "TRAVELPACK_BACK-END/internal/models"

// CreateBookingRequest books a package. TotalPrice is advisory; the server
// always recomputes it.
type CreateBookingRequest struct {
	Package         string          `json:"package" validate:"required,uuid"`
	SelectedOptions models.Services `json:"selectedOptions"`
	TotalPrice      *float64        `json:"totalPrice,omitempty"`
}

// UpdateBookingStatusRequest sets the workflow status
type UpdateBookingStatusRequest struct {
	Status string `json:"status" example:"cancelled"`
}
