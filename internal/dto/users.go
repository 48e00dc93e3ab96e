package dto

import "TRAVELPACK_BACK-END/internal/models"

// UpdateProfileRequest lists the only profile fields a user may change
type UpdateProfileRequest struct {
	Name           *string         `json:"name" validate:"omitempty,min=1,max=100"`
	Address        *models.Address `json:"address"`
	ProfilePicture *string         `json:"profilePicture" validate:"omitempty,url"`
}

// ProfilePictureResponse is returned after an upload
type ProfilePictureResponse struct {
	ProfilePicture string      `json:"profilePicture"`
	User           models.User `json:"user"`
}

// UserWithBookingsResponse is the admin view of one user
type UserWithBookingsResponse struct {
	User     models.User            `json:"user"`
	Bookings []models.BookingDetail `json:"bookings"`
}
