package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type Booking struct {
	ID             uuid.UUID     `json:"id"`
	FlightID       uuid.UUID     `json:"flight_id"`
	PassengerName  string        `json:"passenger_name"`
	PassengerEmail string        `json:"passenger_email,omitempty"`
	Status         BookingStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
