package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "slotline/internal/bookings/errors"
	bookingsrepo "slotline/internal/bookings/repository"
	"slotline/internal/events"
	"slotline/internal/gateway"
	"slotline/internal/lifecycle/validator"
	slotserrors "slotline/internal/slots/errors"
	slotsrepo "slotline/internal/slots/repository"
	"slotline/pkg/config"
	apperrors "slotline/pkg/errors"
	"slotline/pkg/model"
	"slotline/pkg/token"

	"go.mongodb.org/mongo-driver/mongo"
)

// LifecycleService is the one state machine over slots and bookings. Every
// mutation of either record type goes through here, and the booking write
// and slot transition always share one transaction.
type LifecycleService interface {
	Hold(ctx context.Context, req *model.HoldRequest) (*model.HoldReceipt, error)
	Pay(ctx context.Context, req *model.HoldRequest) (string, error)
	ConfirmPayment(ctx context.Context, billRef string) (*model.Booking, error)
	ConfirmToken(ctx context.Context, holdToken string) (*model.Booking, error)
	ListUnpaid(ctx context.Context) ([]*model.Booking, error)
	ListAll(ctx context.Context) ([]*model.Booking, error)
	ExpireOverdue(ctx context.Context) (int, error)
}

type lifecycleService struct {
	slots     slotsrepo.SlotRepository
	bookings  bookingsrepo.BookingRepository
	validator *validator.RequestValidator
	gateway   *gateway.Client
	events    events.Publisher
	cfg       *config.Config
}

func NewLifecycleService(
	slots slotsrepo.SlotRepository,
	bookings bookingsrepo.BookingRepository,
	requestValidator *validator.RequestValidator,
	gatewayClient *gateway.Client,
	publisher events.Publisher,
	cfg *config.Config,
) LifecycleService {
	return &lifecycleService{
		slots:     slots,
		bookings:  bookings,
		validator: requestValidator,
		gateway:   gatewayClient,
		events:    publisher,
		cfg:       cfg,
	}
}

// Hold places a manual hold: the caller gets a short token to quote when
// paying offline, and the slot goes FREE -> HOLD until the token is
// confirmed or the hold expires.
func (s *lifecycleService) Hold(ctx context.Context, req *model.HoldRequest) (*model.HoldReceipt, error) {
	holdToken, err := token.New(token.DefaultLength)
	if err != nil {
		return nil, apperrors.Internal("Failed to generate hold token", err)
	}

	booking, err := s.placeHold(ctx, req, holdToken)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeBookingHeld, booking)
	s.cfg.Log.Info("Slot held",
		"booking_id", booking.ID,
		"slot_id", booking.SlotID,
		"date", booking.Date,
		"hour", booking.Hour,
		"expires_at", booking.ExpiresAt,
	)

	return &model.HoldReceipt{Token: booking.Token, ExpiresAt: booking.ExpiresAt}, nil
}

// Pay places the same hold as the manual path (no token) and returns the
// gateway redirect URL. With no gateway credentials configured the hold
// stands and the caller gets NotImplemented: the customer pays at the desk
// or the hold expires.
func (s *lifecycleService) Pay(ctx context.Context, req *model.HoldRequest) (string, error) {
	booking, err := s.placeHold(ctx, req, "")
	if err != nil {
		return "", err
	}

	s.publish(ctx, events.TypeBookingHeld, booking)
	s.cfg.Log.Info("Slot held for online payment",
		"booking_id", booking.ID,
		"slot_id", booking.SlotID,
		"date", booking.Date,
		"hour", booking.Hour,
	)

	if !s.gateway.Configured() {
		s.cfg.Log.Warn("Online payment requested but gateway is not configured",
			"booking_id", booking.ID,
		)
		return "", apperrors.NotImplemented("online payment not configured")
	}

	return s.gateway.RedirectURL(gateway.DefaultAmount, booking.ID), nil
}

// placeHold is the shared FREE -> HOLD transition. The availability check is
// the filtered slot update inside the transaction, not the earlier read:
// under contention exactly one contender matches the FREE status and every
// other one gets the conflict, with its booking insert rolled back.
func (s *lifecycleService) placeHold(ctx context.Context, req *model.HoldRequest, holdToken string) (*model.Booking, error) {
	if err := s.validator.ValidateHold(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "error", err)
		return nil, apperrors.Validation("Invalid booking request", map[string]any{"error": err.Error()})
	}

	slot, err := s.slots.FindByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Slot", req.SlotID)
		}
		return nil, apperrors.Internal("Failed to retrieve slot", err)
	}
	if slot.Status != model.SlotFree {
		return nil, apperrors.SlotUnavailable()
	}

	booking := &model.Booking{
		SlotID:    slot.ID,
		Name:      req.Name,
		Phone:     req.Phone,
		Token:     holdToken,
		Status:    model.BookingPending,
		Date:      slot.Date,
		Hour:      slot.Hour,
		ExpiresAt: time.Now().UTC().Add(s.cfg.HoldTTL).Truncate(time.Millisecond),
	}

	err = s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.bookings.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		if err := s.slots.HoldFromFree(sessCtx, slot.ID, booking.ID); err != nil {
			if errors.Is(err, slotserrors.ErrUnavailable) {
				return apperrors.SlotUnavailable()
			}
			return apperrors.Internal("Failed to hold slot", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// ConfirmPayment handles a successful gateway callback: the bill reference
// is the booking id. Booking goes PAID and the slot goes BOOKED in the same
// transaction. A replayed or stale reference matches nothing and comes back
// NotFound.
func (s *lifecycleService) ConfirmPayment(ctx context.Context, billRef string) (*model.Booking, error) {
	booking, err := s.confirm(ctx, func(sessCtx mongo.SessionContext) (*model.Booking, error) {
		return s.bookings.MarkPaidByID(sessCtx, billRef)
	})
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", billRef)
		}
		return nil, err
	}

	s.publish(ctx, events.TypeBookingPaid, booking)
	s.cfg.Log.Info("Payment confirmed by gateway",
		"booking_id", booking.ID,
		"slot_id", booking.SlotID,
	)
	return booking, nil
}

// ConfirmToken handles the admin marking a manual-hold token as paid. The
// PAID transition matches only PENDING_TOKEN bookings, so confirming the
// same token twice is NotFound, never a second transition.
func (s *lifecycleService) ConfirmToken(ctx context.Context, holdToken string) (*model.Booking, error) {
	if holdToken == "" {
		return nil, apperrors.InvalidInput("token cannot be empty")
	}

	booking, err := s.confirm(ctx, func(sessCtx mongo.SessionContext) (*model.Booking, error) {
		return s.bookings.MarkPaidByToken(sessCtx, holdToken)
	})
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Token")
		}
		return nil, err
	}

	s.publish(ctx, events.TypeBookingPaid, booking)
	s.cfg.Log.Info("Payment confirmed by admin",
		"booking_id", booking.ID,
		"slot_id", booking.SlotID,
	)
	return booking, nil
}

// confirm runs the shared PAID transition: CAS the booking, then book the
// slot, atomically.
func (s *lifecycleService) confirm(ctx context.Context, markPaid func(mongo.SessionContext) (*model.Booking, error)) (*model.Booking, error) {
	var booking *model.Booking

	err := s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		b, err := markPaid(sessCtx)
		if err != nil {
			return err
		}
		if err := s.slots.MarkBooked(sessCtx, b.SlotID); err != nil {
			return apperrors.Internal("Failed to mark slot booked", err)
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *lifecycleService) ListUnpaid(ctx context.Context) ([]*model.Booking, error) {
	bookings, err := s.bookings.FindPending(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list unpaid bookings", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *lifecycleService) ListAll(ctx context.Context) ([]*model.Booking, error) {
	bookings, err := s.bookings.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

// ExpireOverdue sweeps holds past their expiry: the booking goes EXPIRED and
// its slot reverts to FREE. A hold that a confirm wins concurrently is left
// alone; the status filter on the EXPIRED transition decides the race.
func (s *lifecycleService) ExpireOverdue(ctx context.Context) (int, error) {
	overdue, err := s.bookings.FindExpiredPending(ctx, time.Now().UTC())
	if err != nil {
		return 0, apperrors.Internal("Failed to list overdue holds", err)
	}

	expired := 0
	for _, b := range overdue {
		won := false
		err := s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			if err := s.bookings.MarkExpired(sessCtx, b.ID); err != nil {
				if errors.Is(err, bookingserrors.ErrNotFound) {
					return nil
				}
				return err
			}
			won = true
			return s.slots.Release(sessCtx, b.SlotID)
		})
		if err != nil {
			s.cfg.Log.Error("Failed to expire hold", "booking_id", b.ID, "error", err)
			continue
		}
		if !won {
			continue
		}

		expired++
		b.Status = model.BookingExpired
		s.publish(ctx, events.TypeBookingExpired, b)
		s.cfg.Log.Info("Hold expired",
			"booking_id", b.ID,
			"slot_id", b.SlotID,
			"date", b.Date,
			"hour", b.Hour,
		)
	}

	return expired, nil
}

func (s *lifecycleService) publish(ctx context.Context, eventType string, b *model.Booking) {
	s.events.Publish(ctx, events.Event{
		Type:       eventType,
		BookingID:  b.ID,
		SlotID:     b.SlotID,
		Date:       b.Date,
		Hour:       b.Hour,
		Status:     b.Status,
		OccurredAt: time.Now().UTC(),
	})
}
