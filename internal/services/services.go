// Package services holds the business operations behind the HTTP handlers.
// Services return *apperror.Error values for every client-visible failure.
package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"TRAVELPACK_BACK-END/internal/apperror"
	"TRAVELPACK_BACK-END/internal/booking"
	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/store"
)

var (
	ErrUserExists          = apperror.New(http.StatusBadRequest, "User already exists")
	ErrMissingCredentials  = apperror.New(http.StatusBadRequest, "Please provide email and password")
	ErrInvalidCredentials  = apperror.New(http.StatusUnauthorized, "Invalid credentials")
	ErrInvalidGoogleData   = apperror.New(http.StatusBadRequest, "Invalid Google authentication data")
	ErrGoogleAuthFailed    = apperror.New(http.StatusUnauthorized, "Google authentication failed")
	ErrGoogleNotConfigured = apperror.New(http.StatusServiceUnavailable, "Google sign-in is not configured")
	ErrUserNotFound        = apperror.New(http.StatusNotFound, "User not found")

	ErrPackageNotFound  = apperror.New(http.StatusNotFound, "Package not found")
	ErrInvalidDateRange = apperror.New(http.StatusBadRequest, "End date must be after start date")
	ErrNegativePrice    = apperror.New(http.StatusBadRequest, "Prices cannot be negative")
	ErrMissingRoute     = apperror.New(http.StatusBadRequest, "fromLocation and toLocation are required")
	ErrPackageDatesLock = apperror.New(http.StatusConflict, "Cannot change the dates of a package that has bookings")
	ErrPackageInUse     = apperror.New(http.StatusConflict, "Cannot delete a package that has bookings")

	ErrBookingNotFound     = apperror.New(http.StatusNotFound, "Booking not found")
	ErrBookingForbidden    = apperror.New(http.StatusForbidden, "Not authorized to access this booking")
	ErrInvalidStatus       = apperror.New(http.StatusBadRequest, "Invalid status")
	ErrTransitionForbidden = apperror.New(http.StatusConflict, "Status transition not allowed")
	ErrReceiptUnavailable  = apperror.New(http.StatusServiceUnavailable, "Receipts are not available")

	ErrNoFile            = apperror.New(http.StatusBadRequest, "No file uploaded")
	ErrUploadUnavailable = apperror.New(http.StatusServiceUnavailable, "Image upload is not configured")
)

// notFound maps store.ErrNotFound onto the given client error; anything else is internal
func notFound(err error, as *apperror.Error) error {
	if errors.Is(err, store.ErrNotFound) {
		return as
	}
	return apperror.Internal(err)
}

// resolver populates bookings with their package and user
type resolver struct {
	st  store.Store
	now func() time.Time
}

func (r resolver) details(ctx context.Context, bookings []models.Booking, withUsers bool) ([]models.BookingDetail, error) {
	pkgIDs := make([]uuid.UUID, 0, len(bookings))
	userIDs := make([]uuid.UUID, 0, len(bookings))
	for _, b := range bookings {
		pkgIDs = append(pkgIDs, b.PackageID)
		userIDs = append(userIDs, b.UserID)
	}

	pkgs, err := r.st.GetPackages(ctx, pkgIDs)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	var users map[uuid.UUID]models.User
	if withUsers {
		if users, err = r.st.GetUsers(ctx, userIDs); err != nil {
			return nil, apperror.Internal(err)
		}
	}

	now := r.now()
	out := make([]models.BookingDetail, 0, len(bookings))
	for _, b := range bookings {
		var pkg *models.Package
		if p, ok := pkgs[b.PackageID]; ok {
			pkg = &p
		}
		var user *models.User
		if u, ok := users[b.UserID]; ok {
			user = &u
		}
		out = append(out, booking.Detail(b, pkg, user, now))
	}
	return out, nil
}

func (r resolver) detail(ctx context.Context, b models.Booking, withUser bool) (*models.BookingDetail, error) {
	ds, err := r.details(ctx, []models.Booking{b}, withUser)
	if err != nil {
		return nil, err
	}
	return &ds[0], nil
}
