// Package report computes dashboard statistics: package counts by phase and
// booking volume and revenue grouped by package.
//
// Stores that can push grouping down to the database only use Row and Order
// so every backend produces identical rows in identical order.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"TRAVELPACK_BACK-END/internal/booking"
	"TRAVELPACK_BACK-END/internal/models"
)

// PackageStats counts packages per phase at now
func PackageStats(pkgs []models.Package, now time.Time) models.PackageStats {
	stats := models.PackageStats{Total: len(pkgs)}
	for _, p := range pkgs {
		switch booking.PackagePhase(p, now) {
		case models.PhaseUpcoming:
			stats.Upcoming++
		case models.PhaseActive:
			stats.Active++
		case models.PhaseCompleted:
			stats.Completed++
		}
	}
	return stats
}

// Counts is the booking volume and revenue of one package
type Counts struct {
	Bookings int
	Revenue  float64
}

// GroupByPackage sums bookings per package. Cancelled bookings are skipped
// unless includeCancelled is set.
func GroupByPackage(bookings []models.Booking, includeCancelled bool) map[uuid.UUID]Counts {
	out := make(map[uuid.UUID]Counts)
	for _, b := range bookings {
		if !includeCancelled && b.Status == models.BookingCancelled {
			continue
		}
		c := out[b.PackageID]
		c.Bookings++
		c.Revenue += b.TotalPrice
		out[b.PackageID] = c
	}
	return out
}

// BookingStatsByPackage joins grouped counts with their packages. Groups whose
// package no longer exists are dropped.
func BookingStatsByPackage(bookings []models.Booking, pkgs map[uuid.UUID]models.Package, includeCancelled bool) []models.PackageBookingStats {
	groups := GroupByPackage(bookings, includeCancelled)
	rows := make([]models.PackageBookingStats, 0, len(groups))
	for id, c := range groups {
		p, ok := pkgs[id]
		if !ok {
			continue
		}
		rows = append(rows, Row(p, c.Bookings, c.Revenue))
	}
	Order(rows)
	return rows
}

// Row builds a report row for one package
func Row(p models.Package, count int, revenue float64) models.PackageBookingStats {
	return models.PackageBookingStats{
		PackageID:    p.ID,
		PackageName:  p.FromLocation,
		ToLocation:   p.ToLocation,
		Route:        p.Route(),
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		BookingCount: count,
		TotalRevenue: revenue,
	}
}

// Order sorts rows by booking count descending. Ties fall back to revenue
// descending, then package id, so output is stable across backends.
func Order(rows []models.PackageBookingStats) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.BookingCount != b.BookingCount {
			return a.BookingCount > b.BookingCount
		}
		if a.TotalRevenue != b.TotalRevenue {
			return a.TotalRevenue > b.TotalRevenue
		}
		return a.PackageID.String() < b.PackageID.String()
	})
}

// CountByUser counts bookings per user for the given ids; users without
// bookings map to zero.
func CountByUser(bookings []models.Booking, userIDs []uuid.UUID) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(userIDs))
	for _, id := range userIDs {
		out[id] = 0
	}
	for _, b := range bookings {
		if _, ok := out[b.UserID]; ok {
			out[b.UserID]++
		}
	}
	return out
}

// WithBookingCounts annotates users with their counts
func WithBookingCounts(users []models.User, counts map[uuid.UUID]int) []models.UserWithBookingCount {
	out := make([]models.UserWithBookingCount, len(users))
	for i, u := range users {
		out[i] = models.UserWithBookingCount{User: u, BookingCount: counts[u.ID]}
	}
	return out
}
