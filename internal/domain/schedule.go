package domain

import (
	"time"

	"github.com/google/uuid"
)

type ScheduleStatus string

const (
	ScheduleStatusActive    ScheduleStatus = "active"
	ScheduleStatusDelayed   ScheduleStatus = "delayed"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
)

// ValidScheduleStatus reports whether s is one of the three known statuses.
func ValidScheduleStatus(s ScheduleStatus) bool {
	switch s {
	case ScheduleStatusActive, ScheduleStatusDelayed, ScheduleStatusCancelled:
		return true
	}
	return false
}

type ScheduleEntry struct {
	ID        uuid.UUID      `json:"id"`
	FlightID  uuid.UUID      `json:"flight_id"`
	Frequency string         `json:"frequency"`
	Status    ScheduleStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ScheduleView is a ScheduleEntry joined with summary fields of its flight,
// produced at read time for the schedule table.
type ScheduleView struct {
	ScheduleEntry
	FlightNumber    string    `json:"flight_number"`
	OriginCity      string    `json:"departure_city"`
	DestinationCity string    `json:"arrival_city"`
	DepartureTime   time.Time `json:"departure_time"`
	ArrivalTime     time.Time `json:"arrival_time"`
}
