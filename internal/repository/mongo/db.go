// internal/repository/mongo/db.go
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/multierr"

	"github.com/duorhuang/aquaflow-pro/internal/repository"
)

const (
	defaultTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second
)

// ConnectDB establishes a connection to MongoDB and verifies it with a ping.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), pingTimeout)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), pingTimeout)
		defer disconnectCancel()
		return nil, multierr.Append(err, client.Disconnect(disconnectCtx))
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// NewStore wires one repository per collection of db.
func NewStore(db *mongo.Database) *repository.Store {
	return &repository.Store{
		Swimmers:     NewMongoSwimmerRepository(db),
		Plans:        NewMongoPlanRepository(db),
		Templates:    NewMongoTemplateRepository(db),
		Attendance:   NewMongoAttendanceRepository(db),
		Performances: NewMongoPerformanceRepository(db),
		Feedback:     NewMongoFeedbackRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection. Call during startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	return multierr.Combine(
		EnsureSwimmerIndexes(ctx, db.Collection(swimmerCollectionName)),
		EnsurePlanIndexes(ctx, db.Collection(planCollectionName)),
		EnsureAttendanceIndexes(ctx, db.Collection(attendanceCollectionName)),
		EnsurePerformanceIndexes(ctx, db.Collection(performanceCollectionName)),
		EnsureFeedbackIndexes(ctx, db.Collection(feedbackCollectionName)),
	)
}

// findAll decodes every document matching filter, in the given sort order.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, sort bson.D) ([]T, error) {
	opts := options.Find()
	if sort != nil {
		opts.SetSort(sort)
	}
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// findOne maps mongo.ErrNoDocuments to repository.ErrNotFound.
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts ...*options.FindOneOptions) (*T, error) {
	var v T
	if err := coll.FindOne(ctx, filter, opts...).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func insert(ctx context.Context, coll *mongo.Collection, doc any) error {
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// replaceByID overwrites the whole document. Last write wins.
func replaceByID(ctx context.Context, coll *mongo.Collection, id string, doc any) error {
	result, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) error {
	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
