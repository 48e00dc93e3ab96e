// Package store declares the persistence contract. Implementations live in
// the postgres, mongodb and memory subpackages.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/query"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: duplicate key")
)

type PackageStore interface {
	CreatePackage(ctx context.Context, p *models.Package) error
	GetPackage(ctx context.Context, id uuid.UUID) (*models.Package, error)
	// GetPackages returns the packages that exist among ids
	GetPackages(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Package, error)
	UpdatePackage(ctx context.Context, p *models.Package) error
	DeletePackage(ctx context.Context, id uuid.UUID) error
	ListPackages(ctx context.Context, q query.Query) ([]models.Package, int, error)
	PackageStats(ctx context.Context, now time.Time) (models.PackageStats, error)
}

type BookingStore interface {
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) (*models.Booking, error)
	ListBookings(ctx context.Context, q query.Query) ([]models.Booking, int, error)
	BookingsByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error)
	CountBookingsByPackage(ctx context.Context, packageID uuid.UUID) (int, error)
	// BookingStatsByPackage groups bookings by package, ordered by count descending
	BookingStatsByPackage(ctx context.Context, includeCancelled bool) ([]models.PackageBookingStats, error)
	// CountBookingsByUsers returns a count for every id, zero when the user has none
	CountBookingsByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	ListUsers(ctx context.Context, q query.Query) ([]models.User, int, error)
}

// Store is the full persistence surface used by the services
type Store interface {
	PackageStore
	BookingStore
	UserStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
