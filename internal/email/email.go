package email

import (
	"context"

	"github.com/pawal-karki/airwings-core/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender delivers booking notifications. The transport is a log line for
// now; the worker only depends on Send.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.PassengerEmail == "" {
		return nil
	}
	logrus.WithFields(logrus.Fields{
		"to":     event.PassengerEmail,
		"event":  event.Type,
		"flight": event.FlightNumber,
	}).Info("sending booking notification email")
	return nil
}
