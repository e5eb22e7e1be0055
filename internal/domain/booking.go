package domain

import "time"

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// Terminal reports whether the booking reached one of its final states.
// Terminal bookings are kept as history and never transition again.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusCompleted
}

type Booking struct {
	ID            string
	SlotID        string
	CustomerName  string
	VehicleNumber string
	Status        BookingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
