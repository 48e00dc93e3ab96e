package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"TRAVELPACK_BACK-END/internal/apperror"
	"TRAVELPACK_BACK-END/internal/booking"
	"TRAVELPACK_BACK-END/internal/logger"
	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/query"
	"TRAVELPACK_BACK-END/internal/store"
	"TRAVELPACK_BACK-END/internal/tracing"
)

// PackageService manages the catalogue
type PackageService struct {
	st     store.Store
	log    *logger.Logger
	tracer trace.Tracer
	Now    func() time.Time
}

func NewPackageService(st store.Store, log *logger.Logger, tracer trace.Tracer) *PackageService {
	if tracer == nil {
		tracer = tracing.Noop()
	}
	return &PackageService{st: st, log: log, tracer: tracer, Now: time.Now}
}

// PackageInput is a complete package definition
type PackageInput struct {
	FromLocation       string
	ToLocation         string
	StartDate          time.Time
	EndDate            time.Time
	BasePrice          float64
	IncludedServices   models.Services
	FoodPrice          float64
	AccommodationPrice float64
	Description        string
	Image              string
}

// PackagePatch changes only its non-nil fields
type PackagePatch struct {
	FromLocation       *string
	ToLocation         *string
	StartDate          *time.Time
	EndDate            *time.Time
	BasePrice          *float64
	IncludedServices   *models.Services
	FoodPrice          *float64
	AccommodationPrice *float64
	Description        *string
	Image              *string
}

func (p PackagePatch) changesDates() bool {
	return p.StartDate != nil || p.EndDate != nil
}

func (p PackagePatch) apply(pkg *models.Package) {
	if p.FromLocation != nil {
		pkg.FromLocation = strings.TrimSpace(*p.FromLocation)
	}
	if p.ToLocation != nil {
		pkg.ToLocation = strings.TrimSpace(*p.ToLocation)
	}
	if p.StartDate != nil {
		pkg.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		pkg.EndDate = *p.EndDate
	}
	if p.BasePrice != nil {
		pkg.BasePrice = *p.BasePrice
	}
	if p.IncludedServices != nil {
		pkg.IncludedServices = *p.IncludedServices
	}
	if p.FoodPrice != nil {
		pkg.FoodPrice = *p.FoodPrice
	}
	if p.AccommodationPrice != nil {
		pkg.AccommodationPrice = *p.AccommodationPrice
	}
	if p.Description != nil {
		pkg.Description = *p.Description
	}
	if p.Image != nil {
		pkg.Image = *p.Image
	}
}

func validatePackage(p models.Package) error {
	if p.FromLocation == "" || p.ToLocation == "" {
		return ErrMissingRoute
	}
	if !p.EndDate.After(p.StartDate) {
		return ErrInvalidDateRange
	}
	if p.BasePrice < 0 || p.FoodPrice < 0 || p.AccommodationPrice < 0 {
		return ErrNegativePrice
	}
	return nil
}

func (s *PackageService) withPhase(p models.Package, now time.Time) models.PackageWithPhase {
	return models.PackageWithPhase{Package: p, Phase: booking.PackagePhase(p, now)}
}

// List returns one page of packages, each with its current phase
func (s *PackageService) List(ctx context.Context, q query.Query) ([]models.PackageWithPhase, int, error) {
	ctx, span := s.tracer.Start(ctx, "PackageService.List")
	defer span.End()

	pkgs, total, err := s.st.ListPackages(ctx, q)
	if err != nil {
		return nil, 0, tracing.Fail(span, apperror.Internal(err))
	}
	now := s.Now()
	out := make([]models.PackageWithPhase, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, s.withPhase(p, now))
	}
	return out, total, nil
}

func (s *PackageService) Get(ctx context.Context, id uuid.UUID) (*models.PackageWithPhase, error) {
	p, err := s.st.GetPackage(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPackageNotFound)
	}
	out := s.withPhase(*p, s.Now())
	return &out, nil
}

func (s *PackageService) Create(ctx context.Context, in PackageInput) (*models.Package, error) {
	ctx, span := s.tracer.Start(ctx, "PackageService.Create")
	defer span.End()

	now := s.Now()
	p := &models.Package{
		FromLocation:       strings.TrimSpace(in.FromLocation),
		ToLocation:         strings.TrimSpace(in.ToLocation),
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
		BasePrice:          in.BasePrice,
		IncludedServices:   in.IncludedServices,
		FoodPrice:          in.FoodPrice,
		AccommodationPrice: in.AccommodationPrice,
		Description:        in.Description,
		Image:              in.Image,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := validatePackage(*p); err != nil {
		return nil, err
	}
	if err := s.st.CreatePackage(ctx, p); err != nil {
		return nil, tracing.Fail(span, apperror.Internal(err))
	}

	s.log.WithFields(logger.Fields{"package_id": p.ID.String(), "route": p.Route()}).Info("Package created")
	return p, nil
}

// Update applies a patch. Dates are frozen once any booking references the package.
func (s *PackageService) Update(ctx context.Context, id uuid.UUID, patch PackagePatch) (*models.Package, error) {
	ctx, span := s.tracer.Start(ctx, "PackageService.Update")
	defer span.End()

	p, err := s.st.GetPackage(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPackageNotFound)
	}

	if patch.changesDates() {
		n, err := s.st.CountBookingsByPackage(ctx, id)
		if err != nil {
			return nil, tracing.Fail(span, apperror.Internal(err))
		}
		if n > 0 && datesDiffer(*p, patch) {
			return nil, ErrPackageDatesLock
		}
	}

	patch.apply(p)
	if err := validatePackage(*p); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.Now()
	if err := s.st.UpdatePackage(ctx, p); err != nil {
		return nil, notFound(err, ErrPackageNotFound)
	}

	s.log.WithFields(logger.Fields{"package_id": p.ID.String()}).Info("Package updated")
	return p, nil
}

func datesDiffer(p models.Package, patch PackagePatch) bool {
	if patch.StartDate != nil && !patch.StartDate.Equal(p.StartDate) {
		return true
	}
	return patch.EndDate != nil && !patch.EndDate.Equal(p.EndDate)
}

// Delete removes a package that no booking references
func (s *PackageService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "PackageService.Delete")
	defer span.End()

	if _, err := s.st.GetPackage(ctx, id); err != nil {
		return notFound(err, ErrPackageNotFound)
	}
	n, err := s.st.CountBookingsByPackage(ctx, id)
	if err != nil {
		return tracing.Fail(span, apperror.Internal(err))
	}
	if n > 0 {
		return ErrPackageInUse
	}
	if err := s.st.DeletePackage(ctx, id); err != nil {
		return notFound(err, ErrPackageNotFound)
	}

	s.log.WithFields(logger.Fields{"package_id": id.String()}).Info("Package deleted")
	return nil
}
