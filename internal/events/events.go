package events

import "time"

// Event types published to the booking topic.
const (
	TypeBookingHeld    = "booking.held"
	TypeBookingPaid    = "booking.paid"
	TypeBookingExpired = "booking.expired"
)

// Header keys carried on every published message.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
)

// Event is the payload published on booking lifecycle transitions. Keyed by
// booking id so per-booking ordering survives partitioning.
type Event struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"bookingId"`
	SlotID     string    `json:"slotId"`
	Date       string    `json:"date"`
	Hour       int       `json:"hour"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}
