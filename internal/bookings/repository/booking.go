package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "slotline/internal/bookings/errors"
	"slotline/pkg/config"
	mongotx "slotline/pkg/db/mongo"
	"slotline/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type BookingRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindPending(ctx context.Context) ([]*model.Booking, error)
	FindAll(ctx context.Context) ([]*model.Booking, error)
	FindExpiredPending(ctx context.Context, cutoff time.Time) ([]*model.Booking, error)
	MarkPaidByToken(ctx context.Context, token string) (*model.Booking, error)
	MarkPaidByID(ctx context.Context, id string) (*model.Booking, error)
	MarkExpired(ctx context.Context, id string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "expires_at", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if booking.ID == "" {
		booking.ID = primitive.NewObjectID().Hex()
	}
	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) FindPending(ctx context.Context) ([]*model.Booking, error) {
	return r.findMany(ctx, bson.M{"status": model.BookingPending}, bson.D{{Key: "created_at", Value: -1}})
}

func (r *mongoBookingRepository) FindAll(ctx context.Context) ([]*model.Booking, error) {
	return r.findMany(ctx, bson.M{}, bson.D{{Key: "created_at", Value: -1}})
}

func (r *mongoBookingRepository) FindExpiredPending(ctx context.Context, cutoff time.Time) ([]*model.Booking, error) {
	filter := bson.M{
		"status":     model.BookingPending,
		"expires_at": bson.M{"$lt": cutoff},
	}
	return r.findMany(ctx, filter, bson.D{{Key: "expires_at", Value: 1}})
}

func (r *mongoBookingRepository) findMany(ctx context.Context, filter bson.M, sort bson.D) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// MarkPaidByToken flips a PENDING_TOKEN booking to PAID by its hold token.
// The status is part of the filter: a consumed or expired token matches
// nothing and returns ErrNotFound, never a second transition.
func (r *mongoBookingRepository) MarkPaidByToken(ctx context.Context, token string) (*model.Booking, error) {
	return r.markPaid(ctx, bson.M{"token": token, "status": model.BookingPending})
}

// MarkPaidByID is the webhook variant; the bill reference is the booking id.
func (r *mongoBookingRepository) MarkPaidByID(ctx context.Context, id string) (*model.Booking, error) {
	return r.markPaid(ctx, bson.M{"_id": id, "status": model.BookingPending})
}

func (r *mongoBookingRepository) markPaid(ctx context.Context, filter bson.M) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": model.BookingPaid}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking model.Booking
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to mark booking paid: %w", err)
	}
	return &booking, nil
}

// MarkExpired moves a PENDING_TOKEN booking to EXPIRED. The status filter
// makes the sweep lose cleanly against a concurrent confirm.
func (r *mongoBookingRepository) MarkExpired(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": model.BookingPending},
		bson.M{"$set": bson.M{"status": model.BookingExpired}},
	)
	if err != nil {
		return fmt.Errorf("failed to expire booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
