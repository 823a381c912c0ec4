package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/freightops/freight-console/internal/core/domain"
)

const (
	collectionEvents     = "tracking_events"
	collectionAggregates = "tracking_aggregates"
)

// TrackingEventRepository implements the append-only event log on MongoDB.
// Documents in tracking_events are only ever inserted, never updated.
type TrackingEventRepository struct {
	col *mongo.Collection
}

func NewTrackingEventRepository(db *mongo.Database) *TrackingEventRepository {
	return &TrackingEventRepository{col: db.Collection(collectionEvents)}
}

// Insert appends an event to the log.
func (r *TrackingEventRepository) Insert(ctx context.Context, event *domain.TrackingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, event)
	return err
}

// ListByShipment returns all events for a shipment ordered by
// (timestamp, sequence) ascending.
func (r *TrackingEventRepository) ListByShipment(ctx context.Context, shipmentID string) ([]domain.TrackingEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "timestamp", Value: 1},
		{Key: "sequence", Value: 1},
	})
	cursor, err := r.col.Find(ctx, bson.M{"shipment_id": shipmentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []domain.TrackingEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CountByShipment returns the number of events logged for a shipment.
func (r *TrackingEventRepository) CountByShipment(ctx context.Context, shipmentID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"shipment_id": shipmentID})
}

// DeleteByShipment removes the whole log for a shipment (cascade delete only).
func (r *TrackingEventRepository) DeleteByShipment(ctx context.Context, shipmentID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteMany(ctx, bson.M{"shipment_id": shipmentID})
	return err
}

// EnsureIndexes creates necessary indexes on the tracking_events collection.
func (r *TrackingEventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "shipment_id", Value: 1},
			{Key: "timestamp", Value: 1},
			{Key: "sequence", Value: 1},
		}},
		{Keys: bson.D{{Key: "tracking_number", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// TrackingAggregateRepository stores the derived projection, one document
// per shipment, keyed by shipment id.
type TrackingAggregateRepository struct {
	col *mongo.Collection
}

func NewTrackingAggregateRepository(db *mongo.Database) *TrackingAggregateRepository {
	return &TrackingAggregateRepository{col: db.Collection(collectionAggregates)}
}

// Get retrieves the aggregate for a shipment.
func (r *TrackingAggregateRepository) Get(ctx context.Context, shipmentID string) (*domain.TrackingAggregate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var agg domain.TrackingAggregate
	err := r.col.FindOne(ctx, bson.M{"_id": shipmentID}).Decode(&agg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTrackingNotFound
		}
		return nil, err
	}
	return &agg, nil
}

// Put overwrites the aggregate; the projection is always recomputed from the
// log, so a plain upsert is sufficient.
func (r *TrackingAggregateRepository) Put(ctx context.Context, agg *domain.TrackingAggregate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": agg.ShipmentID}, agg, opts)
	return err
}

// Delete removes the aggregate for a shipment.
func (r *TrackingAggregateRepository) Delete(ctx context.Context, shipmentID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteOne(ctx, bson.M{"_id": shipmentID})
	return err
}
