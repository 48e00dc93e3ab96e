package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"

	"TRAVELPACK_BACK-END/internal/config"
	"TRAVELPACK_BACK-END/internal/imagehost"
	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/query"
	"TRAVELPACK_BACK-END/internal/store/memory"
)

func TestUpdateProfileAllowList(t *testing.T) {
	st := memory.New()
	u := seedUser(t, st, "asha", models.RoleUser)
	s := NewUserService(st, nil, newLogger(), nil)
	ctx := context.Background()

	name := "Asha K"
	addr := &models.Address{City: "Pune", Country: "India"}
	got, err := s.UpdateProfile(ctx, actorOf(u), ProfilePatch{Name: &name, Address: addr})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Asha K" || got.Address.City != "Pune" || got.Email != u.Email || got.Role != models.RoleUser {
		t.Fatalf("user = %+v", got)
	}

	blank := "  "
	_, err = s.UpdateProfile(ctx, actorOf(u), ProfilePatch{Name: &blank})
	wantStatus(t, err, http.StatusBadRequest)
}

func TestProfile(t *testing.T) {
	st := memory.New()
	u := seedUser(t, st, "asha", models.RoleUser)
	s := NewUserService(st, nil, newLogger(), nil)
	ctx := context.Background()

	got, err := s.Profile(ctx, actorOf(u))
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID || got.Email != u.Email {
		t.Fatalf("profile = %+v", got)
	}

	_, err = s.Profile(ctx, models.Actor{UserID: uuid.New(), Role: models.RoleUser})
	wantStatus(t, err, http.StatusNotFound)
}

func TestUploadPicture(t *testing.T) {
	st := memory.New()
	u := seedUser(t, st, "asha", models.RoleUser)
	up := &stubUploader{url: "https://res.cloudinary.com/demo/asha.png"}
	s := NewUserService(st, up, newLogger(), nil)
	ctx := context.Background()

	link, got, err := s.UploadPicture(ctx, actorOf(u), strings.NewReader("PNGDATA"), "asha.png")
	if err != nil {
		t.Fatal(err)
	}
	if link != up.url || got.ProfilePicture != up.url || up.body != "PNGDATA" {
		t.Fatalf("url = %s, user = %+v", link, got)
	}
	stored, _ := st.GetUserByID(ctx, u.ID)
	if stored.ProfilePicture != up.url {
		t.Fatal("picture not persisted")
	}

	_, _, err = s.UploadPicture(ctx, actorOf(u), nil, "")
	if !errors.Is(err, ErrNoFile) {
		t.Fatalf("err = %v", err)
	}

	disabled := NewUserService(st, imagehost.Disabled{}, newLogger(), nil)
	_, _, err = disabled.UploadPicture(ctx, actorOf(u), strings.NewReader("x"), "x.png")
	wantStatus(t, err, http.StatusServiceUnavailable)
}

func TestGetWithBookings(t *testing.T) {
	st := memory.New()
	u := seedUser(t, st, "asha", models.RoleUser)
	pkg := seedPackage(t, st, "Mumbai", "Goa", day(1), day(10))
	ctx := context.Background()
	if _, err := newBookings(st, nil, config.BookingConfig{}).Create(ctx, actorOf(u), BookingInput{PackageID: pkg.ID}); err != nil {
		t.Fatal(err)
	}

	s := NewUserService(st, nil, newLogger(), nil)
	s.Now = fixedNow
	got, bookings, err := s.GetWithBookings(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID || len(bookings) != 1 || bookings[0].CurrentStatus != models.PhaseActive {
		t.Fatalf("user = %+v, bookings = %+v", got, bookings)
	}

	_, _, err = s.GetWithBookings(ctx, uuid.New())
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestReports(t *testing.T) {
	st := memory.New()
	u1 := seedUser(t, st, "u1", models.RoleUser)
	u2 := seedUser(t, st, "u2", models.RoleUser)
	a := seedPackage(t, st, "A", "X", day(1), day(10))
	b := seedPackage(t, st, "B", "Y", day(20), day(25))
	bs := newBookings(st, nil, config.BookingConfig{})
	ctx := context.Background()

	for _, in := range []struct {
		user models.User
		pkg  models.Package
	}{{u1, a}, {u1, a}, {u2, b}} {
		if _, err := bs.Create(ctx, actorOf(in.user), BookingInput{PackageID: in.pkg.ID}); err != nil {
			t.Fatal(err)
		}
	}
	// cancel one of package B's bookings
	list, _, _ := bs.List(ctx, models.Actor{Role: models.RoleAdmin}, query.Bookings.Build(url.Values{}))
	for _, d := range list {
		if d.Package.ID == b.ID {
			if _, err := bs.UpdateStatus(ctx, d.ID, "cancelled"); err != nil {
				t.Fatal(err)
			}
		}
	}

	r := NewReportService(st, true, newLogger(), nil)
	r.Now = fixedNow

	stats, err := r.PackageStats(ctx)
	if err != nil || stats != (models.PackageStats{Total: 2, Active: 1, Upcoming: 1}) {
		t.Fatalf("stats = %+v, %v", stats, err)
	}

	rows, err := r.BookingStatsByPackage(ctx, nil)
	if err != nil || len(rows) != 2 || rows[0].PackageID != a.ID || rows[0].BookingCount != 2 || rows[0].TotalRevenue != 10000 {
		t.Fatalf("rows = %+v, %v", rows, err)
	}
	excl := false
	rows, err = r.BookingStatsByPackage(ctx, &excl)
	if err != nil || len(rows) != 1 {
		t.Fatalf("rows without cancelled = %+v, %v", rows, err)
	}

	users, total, err := r.UsersWithBookingCounts(ctx, query.Users.Build(url.Values{"sort": {"name"}}))
	if err != nil || total != 2 {
		t.Fatalf("users = %+v, %v", users, err)
	}
	if users[0].BookingCount != 2 || users[1].BookingCount != 1 {
		t.Fatalf("counts = %d, %d", users[0].BookingCount, users[1].BookingCount)
	}
}
