package receipt

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"

	"TRAVELPACK_BACK-END/internal/models"
)

func TestRender(t *testing.T) {
	g := New("https://travelpack.example.com/")
	g.Now = func() time.Time { return time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC) }

	id := uuid.MustParse("6f1c2a52-7d3e-4b0c-9a1e-2f5d8c7b6a90")
	d := models.BookingDetail{
		ID:   id,
		User: models.UserSummary{Name: "José", Email: "jose@example.com"},
		Package: models.PackageSummary{
			FromLocation: "Mumbai",
			ToLocation:   "Goa",
			StartDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:      time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			BasePrice:    5000,
			FoodPrice:    500,
		},
		SelectedOptions: models.Services{Food: true},
		TotalPrice:      5500,
		Status:          models.BookingAccepted,
		CurrentStatus:   models.PhaseActive,
	}

	out, err := g.Render(d)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a pdf: %q", out[:8])
	}
	if want := "https://travelpack.example.com/api/bookings/" + id.String(); g.VerifyURL(d) != want {
		t.Fatalf("VerifyURL = %s", g.VerifyURL(d))
	}
}

func TestRenderUnresolvedPackage(t *testing.T) {
	out, err := New("http://localhost:8080").Render(models.BookingDetail{ID: uuid.New(), Status: models.BookingCancelled})
	if err != nil || len(out) == 0 {
		t.Fatalf("Render() = %d bytes, %v", len(out), err)
	}
}
