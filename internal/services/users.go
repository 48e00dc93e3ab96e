package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"TRAVELPACK_BACK-END/internal/apperror"
	"TRAVELPACK_BACK-END/internal/imagehost"
	"TRAVELPACK_BACK-END/internal/logger"
	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/store"
	"TRAVELPACK_BACK-END/internal/tracing"
)

// UserService manages profiles and the admin user views
type UserService struct {
	st       store.Store
	resolve  resolver
	uploader imagehost.Uploader
	log      *logger.Logger
	tracer   trace.Tracer
	Now      func() time.Time
}

// NewUserService wires the service. uploader may be nil.
func NewUserService(st store.Store, uploader imagehost.Uploader, log *logger.Logger, tracer trace.Tracer) *UserService {
	if tracer == nil {
		tracer = tracing.Noop()
	}
	if uploader == nil {
		uploader = imagehost.Disabled{}
	}
	s := &UserService{st: st, uploader: uploader, log: log, tracer: tracer, Now: time.Now}
	s.resolve = resolver{st: st, now: func() time.Time { return s.Now() }}
	return s
}

// ProfilePatch lists the only fields users may change on themselves
type ProfilePatch struct {
	Name           *string
	Address        *models.Address
	ProfilePicture *string
}

// Profile returns the actor's own record
func (s *UserService) Profile(ctx context.Context, actor models.Actor) (*models.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Profile")
	defer span.End()

	u, err := s.st.GetUserByID(ctx, actor.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return u, nil
}

// UpdateProfile applies a profile patch to the actor's own record
func (s *UserService) UpdateProfile(ctx context.Context, actor models.Actor, patch ProfilePatch) (*models.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.UpdateProfile")
	defer span.End()

	u, err := s.st.GetUserByID(ctx, actor.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperror.BadRequest("name cannot be empty")
		}
		u.Name = name
	}
	if patch.Address != nil {
		u.Address = patch.Address
	}
	if patch.ProfilePicture != nil {
		u.ProfilePicture = *patch.ProfilePicture
	}
	u.UpdatedAt = s.Now()

	if err := s.st.UpdateUser(ctx, u); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	s.log.WithFields(logger.Fields{"user_id": u.ID.String()}).Info("Profile updated")
	return u, nil
}

// UploadPicture stores an image with the image host and makes it the actor's profile picture
func (s *UserService) UploadPicture(ctx context.Context, actor models.Actor, r io.Reader, filename string) (string, *models.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.UploadPicture")
	defer span.End()

	if r == nil {
		return "", nil, ErrNoFile
	}
	u, err := s.st.GetUserByID(ctx, actor.UserID)
	if err != nil {
		return "", nil, notFound(err, ErrUserNotFound)
	}

	url, err := s.uploader.Upload(ctx, r, filename)
	if errors.Is(err, imagehost.ErrNotConfigured) {
		return "", nil, ErrUploadUnavailable
	}
	if err != nil {
		return "", nil, tracing.Fail(span, apperror.Internal(err))
	}

	u.ProfilePicture = url
	u.UpdatedAt = s.Now()
	if err := s.st.UpdateUser(ctx, u); err != nil {
		return "", nil, notFound(err, ErrUserNotFound)
	}
	s.log.WithFields(logger.Fields{"user_id": u.ID.String(), "url": url}).Info("Profile picture uploaded")
	return url, u, nil
}

// GetWithBookings is the admin view of a user and everything they booked
func (s *UserService) GetWithBookings(ctx context.Context, id uuid.UUID) (*models.User, []models.BookingDetail, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetWithBookings")
	defer span.End()

	u, err := s.st.GetUserByID(ctx, id)
	if err != nil {
		return nil, nil, notFound(err, ErrUserNotFound)
	}
	bookings, err := s.st.BookingsByUser(ctx, id)
	if err != nil {
		return nil, nil, tracing.Fail(span, apperror.Internal(err))
	}
	details, err := s.resolve.details(ctx, bookings, false)
	if err != nil {
		return nil, nil, tracing.Fail(span, err)
	}
	return u, details, nil
}
