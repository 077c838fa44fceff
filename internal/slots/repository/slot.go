package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	slotserrors "slotline/internal/slots/errors"
	"slotline/pkg/config"
	mongotx "slotline/pkg/db/mongo"
	"slotline/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Slots"
)

type SlotRepository interface {
	EnsureIndexes(ctx context.Context) error
	InsertDay(ctx context.Context, slots []*model.Slot) error
	FindByDate(ctx context.Context, date string) ([]*model.Slot, error)
	FindByID(ctx context.Context, id string) (*model.Slot, error)
	HoldFromFree(ctx context.Context, id, bookingID string) error
	MarkBooked(ctx context.Context, id string) error
	Release(ctx context.Context, id string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoSlotRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoSlotRepository(cfg *config.Config) SlotRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless we are inside a
// transaction; a SessionContext cannot be wrapped without breaking
// transaction semantics.
func (r *mongoSlotRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// EnsureIndexes creates the unique (date, hour) index that makes day
// provisioning race-free: a duplicate insert is rejected by the store, not by
// an application-level existence check.
func (r *mongoSlotRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}, {Key: "hour", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create slot indexes: %w", err)
	}
	return nil
}

// InsertDay inserts a full day of slots. The write is unordered and
// duplicate-key errors are swallowed, so concurrent first-access for the same
// date converges on exactly one slot per hour.
func (r *mongoSlotRepository) InsertDay(ctx context.Context, slots []*model.Slot) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	docs := make([]any, 0, len(slots))
	for _, slot := range slots {
		if slot.ID == "" {
			slot.ID = primitive.NewObjectID().Hex()
		}
		docs = append(docs, slot)
	}

	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to provision slots: %w", err)
	}
	return nil
}

func (r *mongoSlotRepository) FindByDate(ctx context.Context, date string) ([]*model.Slot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "hour", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"date": date}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*model.Slot
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}

func (r *mongoSlotRepository) FindByID(ctx context.Context, id string) (*model.Slot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var slot model.Slot
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, slotserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}
	return &slot, nil
}

// HoldFromFree transitions a slot FREE -> HOLD and attaches the booking
// reference. The status is part of the filter, so two contenders for the same
// FREE slot resolve to exactly one winner.
func (r *mongoSlotRepository) HoldFromFree(ctx context.Context, id, bookingID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": model.SlotFree},
		bson.M{"$set": bson.M{"status": model.SlotHold, "booking_id": bookingID}},
	)
	if err != nil {
		return fmt.Errorf("failed to hold slot: %w", err)
	}
	if result.MatchedCount == 0 {
		return slotserrors.ErrUnavailable
	}
	return nil
}

func (r *mongoSlotRepository) MarkBooked(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": model.SlotBooked}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark slot booked: %w", err)
	}
	if result.MatchedCount == 0 {
		return slotserrors.ErrNotFound
	}
	return nil
}

// Release reverts an expired hold to FREE and detaches the booking. A slot
// that already moved on (paid, or released by a competing sweep) is left
// alone.
func (r *mongoSlotRepository) Release(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": model.SlotHold},
		bson.M{"$set": bson.M{"status": model.SlotFree}, "$unset": bson.M{"booking_id": ""}},
	)
	if err != nil {
		return fmt.Errorf("failed to release slot: %w", err)
	}
	return nil
}

func (r *mongoSlotRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
