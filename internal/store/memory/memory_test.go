package memory

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/query"
	"TRAVELPACK_BACK-END/internal/store"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedPackages(t *testing.T, s *Store, n int) []models.Package {
	t.Helper()
	ctx := context.Background()
	base := day("2024-01-01")
	out := make([]models.Package, 0, n)
	for i := 0; i < n; i++ {
		p := &models.Package{
			FromLocation: fmt.Sprintf("City %02d", i),
			ToLocation:   "Delhi",
			StartDate:    base.AddDate(0, 0, i),
			EndDate:      base.AddDate(0, 0, i+3),
			BasePrice:    float64(1000 + i),
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.CreatePackage(ctx, p); err != nil {
			t.Fatal(err)
		}
		out = append(out, *p)
	}
	return out
}

func TestListPackagesPaging(t *testing.T) {
	s := New()
	seedPackages(t, s, 25)

	v := url.Values{}
	v.Set("page", "2")
	v.Set("limit", "10")
	v.Set("sort", "basePrice")
	q := query.Packages.Build(v)

	page, total, err := s.ListPackages(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if total != 25 || len(page) != 10 {
		t.Fatalf("total=%d len=%d", total, len(page))
	}
	if page[0].BasePrice != 1010 || page[9].BasePrice != 1019 {
		t.Fatalf("page 2 spans %v..%v", page[0].BasePrice, page[9].BasePrice)
	}
	if p := query.Paginate(total, q); p.Pages != 3 || p.Current != 2 {
		t.Fatalf("pagination = %+v", p)
	}

	again, _, _ := s.ListPackages(context.Background(), q)
	if !reflect.DeepEqual(page, again) {
		t.Fatal("same query returned different pages")
	}
}

func TestListPackagesFilters(t *testing.T) {
	s := New()
	seedPackages(t, s, 10)

	v := url.Values{}
	v.Set("toLocation", "del")
	v.Set("startDate", "2024-01-05")
	v.Set("endDate", "2024-01-10")
	page, total, err := s.ListPackages(context.Background(), query.Packages.Build(v))
	if err != nil {
		t.Fatal(err)
	}
	// starts on/after Jan 5 and ends on/before Jan 10: i in [4, 6]
	if total != 3 || len(page) != 3 {
		t.Fatalf("total=%d page=%v", total, page)
	}
	for _, p := range page {
		if p.StartDate.Before(day("2024-01-05")) || p.EndDate.After(day("2024-01-10")) {
			t.Fatalf("package outside range: %+v", p)
		}
	}
}

func TestDefaultSortNewestFirst(t *testing.T) {
	s := New()
	pkgs := seedPackages(t, s, 3)
	page, _, _ := s.ListPackages(context.Background(), query.Packages.Build(url.Values{}))
	if page[0].ID != pkgs[2].ID {
		t.Fatalf("expected newest first, got %s", page[0].FromLocation)
	}
}

func TestUserEmailUnique(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.CreateUser(ctx, &models.User{Email: "a@example.com"}); err != nil {
		t.Fatal(err)
	}
	err := s.CreateUser(ctx, &models.User{Email: "A@example.com"})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	if _, err := s.GetUserByEmail(ctx, "missing@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestBookingAggregates(t *testing.T) {
	s := New()
	ctx := context.Background()
	pkgs := seedPackages(t, s, 2)
	u1, u2 := uuid.New(), uuid.New()

	for _, b := range []models.Booking{
		{UserID: u1, PackageID: pkgs[0].ID, TotalPrice: 1000, Status: models.BookingAccepted},
		{UserID: u1, PackageID: pkgs[0].ID, TotalPrice: 2000, Status: models.BookingAccepted},
		{UserID: u2, PackageID: pkgs[1].ID, TotalPrice: 500, Status: models.BookingAccepted},
	} {
		b := b
		if err := s.CreateBooking(ctx, &b); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := s.BookingStatsByPackage(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].PackageID != pkgs[0].ID || rows[0].TotalRevenue != 3000 || rows[1].BookingCount != 1 {
		t.Fatalf("rows = %+v", rows)
	}

	counts, _ := s.CountBookingsByUsers(ctx, []uuid.UUID{u1, u2, uuid.New()})
	if counts[u1] != 2 || counts[u2] != 1 || len(counts) != 3 {
		t.Fatalf("counts = %v", counts)
	}

	n, _ := s.CountBookingsByPackage(ctx, pkgs[0].ID)
	if n != 2 {
		t.Fatalf("CountBookingsByPackage = %d", n)
	}

	v := url.Values{}
	v.Set("status", "accepted")
	_, total, _ := s.ListBookings(ctx, query.Bookings.Build(v).Where(query.FieldUser, query.OpEq, u1))
	if total != 2 {
		t.Fatalf("scoped listing total = %d", total)
	}
}

func TestUpdateBookingStatusMissing(t *testing.T) {
	s := New()
	if _, err := s.UpdateBookingStatus(context.Background(), uuid.New(), models.BookingCancelled); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}
