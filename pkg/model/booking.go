package model

import "time"

// Booking statuses. PENDING_TOKEN -> PAID happens exactly once, either
// through the admin confirm path or the payment-gateway webhook. A hold that
// is never confirmed before its expiry is swept to EXPIRED.
const (
	BookingPending = "PENDING_TOKEN"
	BookingPaid    = "PAID"
	BookingExpired = "EXPIRED"
)

// Booking records a customer's intent to occupy a slot. Date and Hour are
// denormalized from the slot at creation time; Token is set only on the
// manual-hold path. Bookings are never deleted, they are the audit trail.
type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	SlotID    string    `json:"slotId" bson:"slot_id"`
	Name      string    `json:"name" bson:"name"`
	Phone     string    `json:"phone" bson:"phone"`
	Token     string    `json:"token,omitempty" bson:"token,omitempty"`
	Status    string    `json:"status" bson:"status"`
	Date      string    `json:"date" bson:"date"`
	Hour      int       `json:"hour" bson:"hour"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expires_at"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// HoldRequest is the body of POST /hold and POST /pay.
type HoldRequest struct {
	SlotID string `json:"slotId" validate:"required,mongodb"`
	Name   string `json:"name" validate:"required,min=2,max=100"`
	Phone  string `json:"phone" validate:"required,min=3,max=20"`
}

// HoldReceipt is returned to the caller of POST /hold. ExpiresAt is enforced:
// a background sweep frees the slot once it passes.
type HoldReceipt struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
