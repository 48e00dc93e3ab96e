package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"TRAVELPACK_BACK-END/internal/apperror"
	"TRAVELPACK_BACK-END/internal/logger"
	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/query"
	"TRAVELPACK_BACK-END/internal/report"
	"TRAVELPACK_BACK-END/internal/store"
	"TRAVELPACK_BACK-END/internal/tracing"
)

// ReportService serves the admin dashboard aggregates
type ReportService struct {
	st               store.Store
	includeCancelled bool
	log              *logger.Logger
	tracer           trace.Tracer
	Now              func() time.Time
}

// NewReportService wires the service. includeCancelled is the default for
// the bookings-by-package report.
func NewReportService(st store.Store, includeCancelled bool, log *logger.Logger, tracer trace.Tracer) *ReportService {
	if tracer == nil {
		tracer = tracing.Noop()
	}
	return &ReportService{st: st, includeCancelled: includeCancelled, log: log, tracer: tracer, Now: time.Now}
}

// PackageStats counts packages by phase as of now
func (s *ReportService) PackageStats(ctx context.Context) (models.PackageStats, error) {
	ctx, span := s.tracer.Start(ctx, "ReportService.PackageStats")
	defer span.End()

	stats, err := s.st.PackageStats(ctx, s.Now())
	if err != nil {
		return models.PackageStats{}, tracing.Fail(span, apperror.Internal(err))
	}
	return stats, nil
}

// BookingStatsByPackage groups bookings per package, busiest first.
// includeCancelled overrides the configured default when non-nil.
func (s *ReportService) BookingStatsByPackage(ctx context.Context, includeCancelled *bool) ([]models.PackageBookingStats, error) {
	ctx, span := s.tracer.Start(ctx, "ReportService.BookingStatsByPackage")
	defer span.End()

	include := s.includeCancelled
	if includeCancelled != nil {
		include = *includeCancelled
	}
	rows, err := s.st.BookingStatsByPackage(ctx, include)
	if err != nil {
		return nil, tracing.Fail(span, apperror.Internal(err))
	}
	if rows == nil {
		rows = []models.PackageBookingStats{}
	}
	return rows, nil
}

// UsersWithBookingCounts pages through users, each annotated with how many bookings they hold
func (s *ReportService) UsersWithBookingCounts(ctx context.Context, q query.Query) ([]models.UserWithBookingCount, int, error) {
	ctx, span := s.tracer.Start(ctx, "ReportService.UsersWithBookingCounts")
	defer span.End()

	users, total, err := s.st.ListUsers(ctx, q)
	if err != nil {
		return nil, 0, tracing.Fail(span, apperror.Internal(err))
	}
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	counts, err := s.st.CountBookingsByUsers(ctx, ids)
	if err != nil {
		return nil, 0, tracing.Fail(span, apperror.Internal(err))
	}
	return report.WithBookingCounts(users, counts), total, nil
}
