package booking

import "TRAVELPACK_BACK-END/internal/models"

// Transitions lists, per current status, the statuses an admin may move a booking to.
type Transitions map[models.BookingStatus][]models.BookingStatus

// OpenTransitions allows any status to move to any status, including itself.
// This is the historical admin-override behaviour.
func OpenTransitions() Transitions {
	all := []models.BookingStatus{models.BookingAccepted, models.BookingCancelled, models.BookingCompleted}
	return Transitions{
		models.BookingAccepted:  all,
		models.BookingCancelled: all,
		models.BookingCompleted: all,
	}
}

// StrictTransitions only lets accepted bookings move on; cancelled and
// completed are terminal.
func StrictTransitions() Transitions {
	return Transitions{
		models.BookingAccepted: {models.BookingAccepted, models.BookingCancelled, models.BookingCompleted},
	}
}

// Allowed reports whether from -> to is listed
func (t Transitions) Allowed(from, to models.BookingStatus) bool {
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}
