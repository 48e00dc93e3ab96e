// Package receipt renders booking receipts as single-page PDFs.
package receipt

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"TRAVELPACK_BACK-END/internal/models"
)

// Generator renders receipts. The QR code on each receipt points at
// BaseURL/api/bookings/{id}.
type Generator struct {
	BaseURL string
	Now     func() time.Time
}

func New(baseURL string) *Generator {
	return &Generator{BaseURL: strings.TrimRight(baseURL, "/"), Now: time.Now}
}

// VerifyURL is the address encoded in the receipt's QR code
func (g *Generator) VerifyURL(d models.BookingDetail) string {
	return fmt.Sprintf("%s/api/bookings/%s", g.BaseURL, d.ID)
}

// Render produces the PDF bytes for a booking
func (g *Generator) Render(d models.BookingDetail) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.Cell(0, 15, "TRAVELPACK BOOKING RECEIPT")
	pdf.Ln(18)

	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(8)

	yStart := pdf.GetY()
	pdf.SetFillColor(245, 245, 245)
	pdf.Rect(15, yStart, 120, 55, "F")

	pdf.SetXY(20, yStart+7)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "BOOKING SUMMARY")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	line(pdf, 20, tr(fmt.Sprintf("Booking ID: %s", d.ID)))
	line(pdf, 20, tr(fmt.Sprintf("Status: %s", d.Status)))
	line(pdf, 20, tr(fmt.Sprintf("Booked on: %s", d.BookingDate.Format("02 Jan 2006 15:04"))))
	if d.User.Name != "" || d.User.Email != "" {
		line(pdf, 20, tr(fmt.Sprintf("Traveller: %s <%s>", d.User.Name, d.User.Email)))
	}
	line(pdf, 20, tr(fmt.Sprintf("Total Paid: %.2f", d.TotalPrice)))

	png, err := qrcode.Encode(g.VerifyURL(d), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "png"}, bytes.NewReader(png))
	pdf.ImageOptions("qr", 145, yStart+5, 45, 0, false, gofpdf.ImageOptions{ImageType: "png"}, 0, "")

	pdf.SetY(yStart + 63)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.Cell(0, 6, "Scan the QR code to look up this booking.")
	pdf.Ln(10)

	sectionTitle(pdf, "TRIP DETAILS")
	pdf.SetFont("Helvetica", "", 12)
	p := d.Package
	if p.FromLocation != "" {
		line(pdf, 15, tr(fmt.Sprintf("Route: %s to %s", p.FromLocation, p.ToLocation)))
		line(pdf, 15, tr(fmt.Sprintf("Dates: %s - %s", p.StartDate.Format("02 Jan 2006"), p.EndDate.Format("02 Jan 2006"))))
	}
	if d.CurrentStatus != "" {
		line(pdf, 15, tr(fmt.Sprintf("Trip phase: %s", d.CurrentStatus)))
	}
	pdf.Ln(4)

	sectionTitle(pdf, "PRICE BREAKDOWN")
	pdf.SetFont("Helvetica", "", 12)
	priceRow(pdf, "Base price", p.BasePrice)
	if d.SelectedOptions.Food {
		priceRow(pdf, "Food", p.FoodPrice)
	}
	if d.SelectedOptions.Accommodation {
		priceRow(pdf, "Accommodation", p.AccommodationPrice)
	}
	pdf.SetFont("Helvetica", "B", 12)
	priceRow(pdf, "Total", d.TotalPrice)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(15, 285, 195, 285)
	pdf.SetY(288)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated %s by TravelPack", g.Now().UTC().Format(time.RFC1123)), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func line(pdf *gofpdf.Fpdf, x float64, text string) {
	pdf.SetX(x)
	pdf.Cell(0, 8, text)
	pdf.Ln(6)
}

func priceRow(pdf *gofpdf.Fpdf, label string, amount float64) {
	pdf.CellFormat(120, 8, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, fmt.Sprintf("%.2f", amount), "", 1, "R", false, 0, "")
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(0, 9, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
}
