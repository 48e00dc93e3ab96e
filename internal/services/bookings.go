package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"TRAVELPACK_BACK-END/internal/apperror"
	"TRAVELPACK_BACK-END/internal/booking"
	"TRAVELPACK_BACK-END/internal/config"
	"TRAVELPACK_BACK-END/internal/logger"
	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/query"
	"TRAVELPACK_BACK-END/internal/store"
	"TRAVELPACK_BACK-END/internal/tracing"
)

// Notifier tells a user their booking went through
type Notifier interface {
	BookingConfirmed(ctx context.Context, user models.User, d models.BookingDetail, receipt []byte) error
}

// ReceiptRenderer produces a printable receipt
type ReceiptRenderer interface {
	Render(d models.BookingDetail) ([]byte, error)
}

const notifyTimeout = 10 * time.Second

// BookingService creates and manages bookings
type BookingService struct {
	st          store.Store
	resolve     resolver
	notifier    Notifier
	receipts    ReceiptRenderer
	transitions booking.Transitions
	policy      config.BookingConfig
	log         *logger.Logger
	tracer      trace.Tracer
	Now         func() time.Time
}

// NewBookingService wires the service. notifier and receipts may be nil.
func NewBookingService(st store.Store, notifier Notifier, receipts ReceiptRenderer, policy config.BookingConfig, log *logger.Logger, tracer trace.Tracer) *BookingService {
	if tracer == nil {
		tracer = tracing.Noop()
	}
	transitions := booking.OpenTransitions()
	if policy.StrictTransitions {
		transitions = booking.StrictTransitions()
	}
	s := &BookingService{
		st:          st,
		notifier:    notifier,
		receipts:    receipts,
		transitions: transitions,
		policy:      policy,
		log:         log,
		tracer:      tracer,
		Now:         time.Now,
	}
	s.resolve = resolver{st: st, now: func() time.Time { return s.Now() }}
	return s
}

// BookingInput is a booking request. ClientTotal is what the client displayed;
// it is only compared against the computed price.
type BookingInput struct {
	PackageID       uuid.UUID
	SelectedOptions models.Services
	ClientTotal     *float64
}

// Create books a package for the actor at the server-computed price
func (s *BookingService) Create(ctx context.Context, actor models.Actor, in BookingInput) (*models.BookingDetail, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.Create")
	defer span.End()
	span.SetAttributes(attribute.String("package_id", in.PackageID.String()))

	pkg, err := s.st.GetPackage(ctx, in.PackageID)
	if err != nil {
		return nil, notFound(err, ErrPackageNotFound)
	}

	total := booking.ComputeTotalPrice(*pkg, in.SelectedOptions)
	if in.ClientTotal != nil && math.Abs(*in.ClientTotal-total) > s.policy.PriceMismatchTolerance {
		s.log.WithFields(logger.Fields{
			"package_id":   pkg.ID.String(),
			"user_id":      actor.UserID.String(),
			"client_total": *in.ClientTotal,
			"server_total": total,
		}).Warn("Client total price differs from computed price")
	}

	b := &models.Booking{
		ID:              uuid.New(),
		UserID:          actor.UserID,
		PackageID:       pkg.ID,
		SelectedOptions: in.SelectedOptions,
		TotalPrice:      total,
		Status:          models.BookingAccepted,
		BookingDate:     s.Now(),
	}
	if err := s.st.CreateBooking(ctx, b); err != nil {
		return nil, tracing.Fail(span, apperror.Internal(err))
	}

	user, err := s.st.GetUserByID(ctx, actor.UserID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, tracing.Fail(span, apperror.Internal(err))
	}
	d := booking.Detail(*b, pkg, user, s.Now())

	s.log.LogBooking(b.ID.String(), actor.UserID.String(), pkg.ID.String(), "create", logger.Fields{
		"total_price":   total,
		"food":          in.SelectedOptions.Food,
		"accommodation": in.SelectedOptions.Accommodation,
	})
	if user != nil {
		s.confirm(ctx, *user, d)
	}
	return &d, nil
}

// confirm emails the booker. Delivery problems never fail the booking.
func (s *BookingService) confirm(ctx context.Context, user models.User, d models.BookingDetail) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	var pdf []byte
	if s.receipts != nil {
		var err error
		if pdf, err = s.receipts.Render(d); err != nil {
			s.log.WithFields(logger.Fields{"booking_id": d.ID.String(), "error": err.Error()}).Warn("Failed to render receipt")
		}
	}
	if err := s.notifier.BookingConfirmed(ctx, user, d, pdf); err != nil {
		s.log.WithFields(logger.Fields{"booking_id": d.ID.String(), "error": err.Error()}).Warn("Failed to send booking confirmation")
	}
}

// Get returns a booking its owner or an admin may see
func (s *BookingService) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.BookingDetail, error) {
	b, err := s.st.GetBooking(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrBookingNotFound)
	}
	if !actor.CanAccess(b.UserID) {
		return nil, ErrBookingForbidden
	}
	return s.resolve.detail(ctx, *b, actor.IsAdmin())
}

// List pages through every booking for admins and the actor's own otherwise
func (s *BookingService) List(ctx context.Context, actor models.Actor, q query.Query) ([]models.BookingDetail, int, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.List")
	defer span.End()

	if !actor.IsAdmin() {
		q = q.Where(query.FieldUser, query.OpEq, actor.UserID)
	}
	bookings, total, err := s.st.ListBookings(ctx, q)
	if err != nil {
		return nil, 0, tracing.Fail(span, apperror.Internal(err))
	}
	details, err := s.resolve.details(ctx, bookings, actor.IsAdmin())
	if err != nil {
		return nil, 0, tracing.Fail(span, err)
	}
	return details, total, nil
}

// ListForUser returns the actor's bookings, optionally only those whose
// package is in the given phase
func (s *BookingService) ListForUser(ctx context.Context, actor models.Actor, phase string) ([]models.BookingDetail, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.ListForUser")
	defer span.End()

	var want models.Phase
	if phase != "" {
		p, ok := booking.ParsePhase(phase)
		if !ok {
			return nil, ErrInvalidStatus
		}
		want = p
	}

	bookings, err := s.st.BookingsByUser(ctx, actor.UserID)
	if err != nil {
		return nil, tracing.Fail(span, apperror.Internal(err))
	}
	details, err := s.resolve.details(ctx, bookings, false)
	if err != nil {
		return nil, tracing.Fail(span, err)
	}
	if want == "" {
		return details, nil
	}

	out := details[:0]
	for _, d := range details {
		// bookings whose package is gone have no phase and never match a filter
		if d.CurrentStatus == want {
			out = append(out, d)
		}
	}
	return out, nil
}

// UpdateStatus moves a booking to a new workflow status
func (s *BookingService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.BookingDetail, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.UpdateStatus")
	defer span.End()

	to := models.BookingStatus(status)
	if !to.Valid() {
		return nil, ErrInvalidStatus
	}

	current, err := s.st.GetBooking(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrBookingNotFound)
	}
	if !s.transitions.Allowed(current.Status, to) {
		return nil, ErrTransitionForbidden.Withf("Cannot change booking status from %s to %s", current.Status, to)
	}

	updated, err := s.st.UpdateBookingStatus(ctx, id, to)
	if err != nil {
		return nil, notFound(err, ErrBookingNotFound)
	}

	s.log.LogBooking(id.String(), updated.UserID.String(), updated.PackageID.String(), "status_change", logger.Fields{
		"from": string(current.Status),
		"to":   string(to),
	})
	return s.resolve.detail(ctx, *updated, true)
}

// Receipt renders the PDF receipt of a booking its owner or an admin may see
func (s *BookingService) Receipt(ctx context.Context, actor models.Actor, id uuid.UUID) ([]byte, *models.BookingDetail, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.Receipt")
	defer span.End()

	if s.receipts == nil {
		return nil, nil, ErrReceiptUnavailable
	}
	b, err := s.st.GetBooking(ctx, id)
	if err != nil {
		return nil, nil, notFound(err, ErrBookingNotFound)
	}
	if !actor.CanAccess(b.UserID) {
		return nil, nil, ErrBookingForbidden
	}
	d, err := s.resolve.detail(ctx, *b, true)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := s.receipts.Render(*d)
	if err != nil {
		return nil, nil, tracing.Fail(span, apperror.Internal(err))
	}
	return pdf, d, nil
}
