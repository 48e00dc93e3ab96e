// Package notify sends transactional email through SendGrid or SMTP.
package notify

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"TRAVELPACK_BACK-END/internal/config"
	"TRAVELPACK_BACK-END/internal/models"
)

// Attachment is a file sent with a message
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is a single outbound email
type Message struct {
	To          string
	ToName      string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Sender delivers a message
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender picks SendGrid when an API key is set, SMTP when credentials are,
// and a discarding sender otherwise.
func NewSender(cfg config.EmailConfig) Sender {
	switch {
	case cfg.FromEmail == "":
		return Discard{}
	case cfg.SendGridAPIKey != "":
		return NewSendGridSender(cfg)
	case cfg.SMTPUsername != "" && cfg.SMTPPassword != "":
		return NewSMTPSender(cfg)
	}
	return Discard{}
}

// Discard drops every message
type Discard struct{}

func (Discard) Send(context.Context, Message) error { return nil }

// Mailer composes the application's emails
type Mailer struct {
	sender Sender
}

func NewMailer(sender Sender) *Mailer {
	return &Mailer{sender: sender}
}

var confirmationHTML = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2 style="color: #1976d2;">Your trip is booked!</h2>
		<p>Hello {{.Name}},</p>
		<p>Your booking for <strong>{{.Route}}</strong> is confirmed.</p>
		<table style="border-collapse: collapse;">
			<tr><td style="padding: 4px 12px 4px 0;">Dates</td><td>{{.Dates}}</td></tr>
			<tr><td style="padding: 4px 12px 4px 0;">Add-ons</td><td>{{.Options}}</td></tr>
			<tr><td style="padding: 4px 12px 4px 0;">Total</td><td><strong>{{.Total}}</strong></td></tr>
			<tr><td style="padding: 4px 12px 4px 0;">Booking ID</td><td>{{.ID}}</td></tr>
		</table>
		<p>Your receipt is attached.</p>
		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
		<p style="color: #999; font-size: 12px;">TravelPack Team</p>
	</div>
</body>
</html>`))

type confirmationData struct {
	Name, Route, Dates, Options, Total, ID string
}

// BookingConfirmed emails the booker a summary, with the receipt attached when given
func (m *Mailer) BookingConfirmed(ctx context.Context, user models.User, d models.BookingDetail, receipt []byte) error {
	data := confirmationData{
		Name:    user.Name,
		Route:   d.Package.FromLocation + " → " + d.Package.ToLocation,
		Dates:   d.Package.StartDate.Format("02 Jan 2006") + " - " + d.Package.EndDate.Format("02 Jan 2006"),
		Options: describeOptions(d.SelectedOptions),
		Total:   fmt.Sprintf("%.2f", d.TotalPrice),
		ID:      d.ID.String(),
	}

	var html strings.Builder
	if err := confirmationHTML.Execute(&html, data); err != nil {
		return err
	}
	text := fmt.Sprintf("Hello %s,\n\nYour booking for %s (%s) is confirmed.\nAdd-ons: %s\nTotal: %s\nBooking ID: %s\n\nTravelPack Team\n",
		data.Name, data.Route, data.Dates, data.Options, data.Total, data.ID)

	msg := Message{
		To:      user.Email,
		ToName:  user.Name,
		Subject: "Booking confirmed: " + data.Route,
		Text:    text,
		HTML:    html.String(),
	}
	if len(receipt) > 0 {
		msg.Attachments = append(msg.Attachments, Attachment{
			Filename:    "receipt-" + d.ID.String() + ".pdf",
			ContentType: "application/pdf",
			Data:        receipt,
		})
	}
	return m.sender.Send(ctx, msg)
}

func describeOptions(s models.Services) string {
	var parts []string
	if s.Food {
		parts = append(parts, "food")
	}
	if s.Accommodation {
		parts = append(parts, "accommodation")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
