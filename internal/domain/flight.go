package domain

import (
	"time"

	"github.com/google/uuid"
)

type Flight struct {
	ID              uuid.UUID `json:"id"`
	FlightNumber    string    `json:"flight_number"`
	OriginCity      string    `json:"departure_city"`
	DestinationCity string    `json:"arrival_city"`
	DepartureTime   time.Time `json:"departure_time"`
	ArrivalTime     time.Time `json:"arrival_time"`
	FareCents       int64     `json:"fare_cents"`
	TotalSeats      int       `json:"total_seats"`
	SeatsAvailable  int       `json:"available_seats"`
	Retired         bool      `json:"retired"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
