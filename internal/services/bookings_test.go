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

func newBookings(st *memory.Store, n Notifier, policy config.BookingConfig) *BookingService {
	s := NewBookingService(st, n, stubRenderer{}, policy, newLogger(), nil)
	s.Now = fixedNow
	return s
}

func TestCreateBookingComputesPrice(t *testing.T) {
	st := memory.New()
	user := seedUser(t, st, "asha", models.RoleUser)
	pkg := seedPackage(t, st, "Mumbai", "Goa", day(1), day(10))
	n := &captureNotifier{}
	s := newBookings(st, n, config.BookingConfig{PriceMismatchTolerance: 0.01})

	tests := []struct {
		name    string
		options models.Services
		client  *float64
		want    float64
	}{
		{"base only", models.Services{}, nil, 5000},
		{"food", models.Services{Food: true}, nil, 5500},
		{"both", models.Services{Food: true, Accommodation: true}, nil, 7000},
		{"client total ignored", models.Services{Food: true}, ptr(1.0), 5500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := s.Create(context.Background(), actorOf(user), BookingInput{
				PackageID:       pkg.ID,
				SelectedOptions: tt.options,
				ClientTotal:     tt.client,
			})
			if err != nil {
				t.Fatal(err)
			}
			if d.TotalPrice != tt.want {
				t.Fatalf("TotalPrice = %v, want %v", d.TotalPrice, tt.want)
			}
			if d.Status != models.BookingAccepted || d.CurrentStatus != models.PhaseActive {
				t.Fatalf("status = %s, currentStatus = %s", d.Status, d.CurrentStatus)
			}
			if !d.BookingDate.Equal(testNow) || d.User.ID != user.ID || d.Package.FromLocation != "Mumbai" {
				t.Fatalf("detail = %+v", d)
			}
		})
	}

	if len(n.calls) != len(tests) {
		t.Fatalf("confirmations sent = %d", len(n.calls))
	}
	if len(n.pdfs[0]) == 0 {
		t.Fatal("confirmation sent without receipt")
	}
}

func ptr[T any](v T) *T { return &v }

func TestCreateBookingMissingPackage(t *testing.T) {
	st := memory.New()
	user := seedUser(t, st, "asha", models.RoleUser)
	_, err := newBookings(st, nil, config.BookingConfig{}).Create(context.Background(), actorOf(user), BookingInput{PackageID: uuid.New()})
	if !errors.Is(err, ErrPackageNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestCreateBookingSurvivesNotifierFailure(t *testing.T) {
	st := memory.New()
	user := seedUser(t, st, "asha", models.RoleUser)
	pkg := seedPackage(t, st, "Mumbai", "Goa", day(1), day(10))
	n := &captureNotifier{err: errors.New("smtp: connection refused")}

	d, err := newBookings(st, n, config.BookingConfig{}).Create(context.Background(), actorOf(user), BookingInput{PackageID: pkg.ID})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.GetBooking(context.Background(), d.ID); err != nil {
		t.Fatalf("booking not persisted: %v", err)
	}
}

func TestGetBookingAccess(t *testing.T) {
	st := memory.New()
	owner := seedUser(t, st, "owner", models.RoleUser)
	other := seedUser(t, st, "other", models.RoleUser)
	admin := seedUser(t, st, "admin", models.RoleAdmin)
	pkg := seedPackage(t, st, "Delhi", "Agra", day(20), day(22))
	s := newBookings(st, nil, config.BookingConfig{})
	ctx := context.Background()

	d, err := s.Create(ctx, actorOf(owner), BookingInput{PackageID: pkg.ID})
	if err != nil {
		t.Fatal(err)
	}

	if got, err := s.Get(ctx, actorOf(owner), d.ID); err != nil || got.CurrentStatus != models.PhaseUpcoming {
		t.Fatalf("owner get = %+v, %v", got, err)
	}
	got, err := s.Get(ctx, actorOf(admin), d.ID)
	if err != nil || got.User.Email != "owner@example.com" {
		t.Fatalf("admin get = %+v, %v", got, err)
	}
	_, err = s.Get(ctx, actorOf(other), d.ID)
	if !errors.Is(err, ErrBookingForbidden) {
		t.Fatalf("other get err = %v", err)
	}
	_, err = s.Get(ctx, actorOf(owner), uuid.New())
	wantStatus(t, err, http.StatusNotFound)
}

func TestListBookingsScopesNonAdmins(t *testing.T) {
	st := memory.New()
	u1 := seedUser(t, st, "u1", models.RoleUser)
	u2 := seedUser(t, st, "u2", models.RoleUser)
	admin := seedUser(t, st, "admin", models.RoleAdmin)
	pkg := seedPackage(t, st, "Delhi", "Agra", day(20), day(22))
	s := newBookings(st, nil, config.BookingConfig{})
	ctx := context.Background()

	for _, u := range []models.User{u1, u1, u2} {
		if _, err := s.Create(ctx, actorOf(u), BookingInput{PackageID: pkg.ID}); err != nil {
			t.Fatal(err)
		}
	}

	q := query.Bookings.Build(url.Values{})
	mine, total, err := s.List(ctx, actorOf(u1), q)
	if err != nil || total != 2 || len(mine) != 2 {
		t.Fatalf("user list = %d/%d, %v", len(mine), total, err)
	}
	if mine[0].User.Email != "" {
		t.Fatal("user summary should not be populated for non-admins")
	}

	all, total, err := s.List(ctx, actorOf(admin), q)
	if err != nil || total != 3 || len(all) != 3 {
		t.Fatalf("admin list = %d/%d, %v", len(all), total, err)
	}
	if all[0].User.Name == "" {
		t.Fatal("admin list should populate users")
	}
}

func TestListForUserByPhase(t *testing.T) {
	st := memory.New()
	u := seedUser(t, st, "u", models.RoleUser)
	past := seedPackage(t, st, "A", "B", day(1), day(2))
	now := seedPackage(t, st, "C", "D", day(5), day(6))
	future := seedPackage(t, st, "E", "F", day(20), day(25))
	s := newBookings(st, nil, config.BookingConfig{})
	ctx := context.Background()
	for _, p := range []models.Package{past, now, future} {
		if _, err := s.Create(ctx, actorOf(u), BookingInput{PackageID: p.ID}); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		phase string
		want  int
		from  string
	}{
		{"", 3, ""},
		{"completed", 1, "A"},
		{"active", 1, "C"},
		{"upcoming", 1, "E"},
	}
	for _, tt := range tests {
		got, err := s.ListForUser(ctx, actorOf(u), tt.phase)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != tt.want || (tt.from != "" && got[0].Package.FromLocation != tt.from) {
			t.Fatalf("phase %q: %+v", tt.phase, got)
		}
	}

	_, err := s.ListForUser(ctx, actorOf(u), "finished")
	wantStatus(t, err, http.StatusBadRequest)
}

func TestUpdateStatus(t *testing.T) {
	st := memory.New()
	u := seedUser(t, st, "u", models.RoleUser)
	pkg := seedPackage(t, st, "A", "B", day(20), day(25))
	ctx := context.Background()

	t.Run("open transitions", func(t *testing.T) {
		s := newBookings(st, nil, config.BookingConfig{})
		d, _ := s.Create(ctx, actorOf(u), BookingInput{PackageID: pkg.ID})

		got, err := s.UpdateStatus(ctx, d.ID, "cancelled")
		if err != nil || got.Status != models.BookingCancelled {
			t.Fatalf("got %+v, %v", got, err)
		}
		// admin override may revive a cancelled booking
		if got, err = s.UpdateStatus(ctx, d.ID, "accepted"); err != nil || got.Status != models.BookingAccepted {
			t.Fatalf("got %+v, %v", got, err)
		}
		_, err = s.UpdateStatus(ctx, d.ID, "pending")
		if !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("err = %v", err)
		}
		_, err = s.UpdateStatus(ctx, uuid.New(), "completed")
		if !errors.Is(err, ErrBookingNotFound) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("strict transitions", func(t *testing.T) {
		s := newBookings(st, nil, config.BookingConfig{StrictTransitions: true})
		d, _ := s.Create(ctx, actorOf(u), BookingInput{PackageID: pkg.ID})
		if _, err := s.UpdateStatus(ctx, d.ID, "completed"); err != nil {
			t.Fatal(err)
		}
		_, err := s.UpdateStatus(ctx, d.ID, "accepted")
		wantStatus(t, err, http.StatusConflict)
	})
}

func TestReceipt(t *testing.T) {
	st := memory.New()
	owner := seedUser(t, st, "owner", models.RoleUser)
	other := seedUser(t, st, "other", models.RoleUser)
	pkg := seedPackage(t, st, "A", "B", day(20), day(25))
	s := newBookings(st, nil, config.BookingConfig{})
	ctx := context.Background()
	d, _ := s.Create(ctx, actorOf(owner), BookingInput{PackageID: pkg.ID})

	pdf, detail, err := s.Receipt(ctx, actorOf(owner), d.ID)
	if err != nil || string(pdf) != "%PDF-"+d.ID.String() || detail.ID != d.ID {
		t.Fatalf("receipt = %q, %v", pdf, err)
	}
	_, _, err = s.Receipt(ctx, actorOf(other), d.ID)
	wantStatus(t, err, http.StatusForbidden)

	noReceipts := NewBookingService(st, nil, nil, config.BookingConfig{}, newLogger(), nil)
	_, _, err = noReceipts.Receipt(ctx, actorOf(owner), d.ID)
	wantStatus(t, err, http.StatusServiceUnavailable)
}
