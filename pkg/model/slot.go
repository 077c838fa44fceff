package model

// Slot statuses. A slot moves FREE -> HOLD when a booking is placed and
// HOLD -> BOOKED once payment is confirmed. An expired hold reverts to FREE.
const (
	SlotFree   = "FREE"
	SlotHold   = "HOLD"
	SlotBooked = "BOOKED"
)

// Slot is one bookable hour of a day. A day's slots are provisioned in full
// (hours 11..25) on first access; exactly one slot exists per (date, hour).
type Slot struct {
	ID         string `json:"id,omitempty" bson:"_id,omitempty"`
	Date       string `json:"date" bson:"date"`
	Hour       int    `json:"hour" bson:"hour"`
	Status     string `json:"status" bson:"status"`
	BookingRef string `json:"bookingRef,omitempty" bson:"booking_id,omitempty"`
}
