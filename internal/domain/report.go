package domain

import "time"

type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "PENDING"
	ReportStatusResolved ReportStatus = "RESOLVED"
)

// Report is a user-filed issue against a slot. SlotNumber is a snapshot of
// the slot's label at report time, so the report stays readable even after
// the slot is removed.
type Report struct {
	ID           string
	SlotID       string
	SlotNumber   string
	ReporterName string
	Message      string
	Status       ReportStatus
	CreatedAt    time.Time
}
