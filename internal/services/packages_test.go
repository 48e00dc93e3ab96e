package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"

	"TRAVELPACK_BACK-END/internal/config"
	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/query"
	"TRAVELPACK_BACK-END/internal/store/memory"
)

func newPackages(st *memory.Store) *PackageService {
	s := NewPackageService(st, newLogger(), nil)
	s.Now = fixedNow
	return s
}

func validInput() PackageInput {
	return PackageInput{
		FromLocation: "Mumbai",
		ToLocation:   "Goa",
		StartDate:    day(10),
		EndDate:      day(15),
		BasePrice:    4000,
		FoodPrice:    300,
	}
}

func TestCreatePackageValidation(t *testing.T) {
	s := newPackages(memory.New())
	ctx := context.Background()

	p, err := s.Create(ctx, validInput())
	if err != nil {
		t.Fatal(err)
	}
	if p.ID == uuid.Nil || !p.CreatedAt.Equal(testNow) {
		t.Fatalf("package = %+v", p)
	}

	sameDay := validInput()
	sameDay.EndDate = sameDay.StartDate
	_, err = s.Create(ctx, sameDay)
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("err = %v", err)
	}

	negative := validInput()
	negative.AccommodationPrice = -1
	_, err = s.Create(ctx, negative)
	wantStatus(t, err, http.StatusBadRequest)

	blank := validInput()
	blank.ToLocation = "   "
	if _, err = s.Create(ctx, blank); !errors.Is(err, ErrMissingRoute) {
		t.Fatalf("err = %v", err)
	}
}

func TestListPackagesCarriesPhase(t *testing.T) {
	st := memory.New()
	seedPackage(t, st, "A", "B", day(1), day(2))
	seedPackage(t, st, "C", "D", day(4), day(6))
	seedPackage(t, st, "E", "F", day(8), day(9))
	s := newPackages(st)

	list, total, err := s.List(context.Background(), query.Packages.Build(url.Values{"sort": {"startDate"}}))
	if err != nil || total != 3 {
		t.Fatalf("total = %d, err = %v", total, err)
	}
	want := []models.Phase{models.PhaseCompleted, models.PhaseActive, models.PhaseUpcoming}
	for i, p := range list {
		if p.Phase != want[i] {
			t.Fatalf("list[%d].Phase = %s, want %s", i, p.Phase, want[i])
		}
	}
}

func TestUpdatePackage(t *testing.T) {
	st := memory.New()
	s := newPackages(st)
	ctx := context.Background()
	p, _ := s.Create(ctx, validInput())

	price := 4500.0
	updated, err := s.Update(ctx, p.ID, PackagePatch{BasePrice: &price})
	if err != nil || updated.BasePrice != 4500 || updated.FromLocation != "Mumbai" {
		t.Fatalf("updated = %+v, %v", updated, err)
	}

	badEnd := day(9)
	_, err = s.Update(ctx, p.ID, PackagePatch{EndDate: &badEnd})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("err = %v", err)
	}

	_, err = s.Update(ctx, uuid.New(), PackagePatch{BasePrice: &price})
	if !errors.Is(err, ErrPackageNotFound) {
		t.Fatalf("err = %v", err)
	}

	spaces, padded := "  ", "  Pune "
	if _, err = s.Update(ctx, p.ID, PackagePatch{FromLocation: &spaces}); !errors.Is(err, ErrMissingRoute) {
		t.Fatalf("blank fromLocation err = %v", err)
	}
	kept, err := s.Get(ctx, p.ID)
	if err != nil || kept.FromLocation != "Mumbai" {
		t.Fatalf("rejected patch changed the package: %+v, %v", kept, err)
	}
	updated, err = s.Update(ctx, p.ID, PackagePatch{ToLocation: &padded})
	if err != nil || updated.ToLocation != "Pune" {
		t.Fatalf("updated = %+v, %v", updated, err)
	}
}

func TestPackageWithBookingsIsLocked(t *testing.T) {
	st := memory.New()
	s := newPackages(st)
	ctx := context.Background()
	p, _ := s.Create(ctx, validInput())
	u := seedUser(t, st, "u", models.RoleUser)
	if _, err := newBookings(st, nil, config.BookingConfig{}).Create(ctx, actorOf(u), BookingInput{PackageID: p.ID}); err != nil {
		t.Fatal(err)
	}

	newStart := day(11)
	_, err := s.Update(ctx, p.ID, PackagePatch{StartDate: &newStart})
	if !errors.Is(err, ErrPackageDatesLock) {
		t.Fatalf("err = %v", err)
	}

	// resubmitting the same dates is not a change
	sameStart := p.StartDate
	desc := "now with snorkelling"
	if _, err := s.Update(ctx, p.ID, PackagePatch{StartDate: &sameStart, Description: &desc}); err != nil {
		t.Fatal(err)
	}

	err = s.Delete(ctx, p.ID)
	wantStatus(t, err, http.StatusConflict)
}

func TestDeletePackage(t *testing.T) {
	st := memory.New()
	s := newPackages(st)
	ctx := context.Background()
	p, _ := s.Create(ctx, validInput())

	if err := s.Delete(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, p.ID); !errors.Is(err, ErrPackageNotFound) {
		t.Fatalf("err = %v", err)
	}
	if err := s.Delete(ctx, p.ID); !errors.Is(err, ErrPackageNotFound) {
		t.Fatalf("err = %v", err)
	}
}
