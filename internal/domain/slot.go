package domain

import "time"

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "AVAILABLE"
	SlotStatusReserved  SlotStatus = "RESERVED"
	SlotStatusOccupied  SlotStatus = "OCCUPIED"
)

// Held reports whether the slot is taken by someone, either as a hold
// (RESERVED) or a confirmed presence (OCCUPIED). Both block removal and
// both count toward occupancy.
func (s SlotStatus) Held() bool {
	return s == SlotStatusReserved || s == SlotStatusOccupied
}

type Slot struct {
	ID              string
	Number          string
	Status          SlotStatus
	ActiveBookingID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
