// internal/repository/mongo/record_repo.go
package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
	"github.com/duorhuang/aquaflow-pro/internal/repository"
)

const (
	attendanceCollectionName  = "attendance"
	performanceCollectionName = "performances"
	feedbackCollectionName    = "feedbacks"
)

var (
	byTimestamp = bson.D{{Key: "timestamp", Value: 1}}
	byCreatedAt = bson.D{{Key: "createdAt", Value: 1}}
)

// mongoAttendanceRepository implements repository.AttendanceRepository
type mongoAttendanceRepository struct {
	collection *mongo.Collection
}

func NewMongoAttendanceRepository(db *mongo.Database) repository.AttendanceRepository {
	return &mongoAttendanceRepository{collection: db.Collection(attendanceCollectionName)}
}

// Create relies on the unique (swimmerId, date) index for the one-per-day rule.
func (r *mongoAttendanceRepository) Create(ctx context.Context, rec *domain.AttendanceRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	return insert(ctx, r.collection, rec)
}

func (r *mongoAttendanceRepository) List(ctx context.Context) ([]domain.AttendanceRecord, error) {
	return findAll[domain.AttendanceRecord](ctx, r.collection, bson.M{}, byTimestamp)
}

func (r *mongoAttendanceRepository) ListBySwimmer(ctx context.Context, swimmerID string) ([]domain.AttendanceRecord, error) {
	return findAll[domain.AttendanceRecord](ctx, r.collection, bson.M{"swimmerId": swimmerID}, byTimestamp)
}

func (r *mongoAttendanceRepository) GetBySwimmerAndDate(ctx context.Context, swimmerID, date string) (*domain.AttendanceRecord, error) {
	return findOne[domain.AttendanceRecord](ctx, r.collection, bson.M{"swimmerId": swimmerID, "date": date})
}

func EnsureAttendanceIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "swimmerId", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// mongoPerformanceRepository implements repository.PerformanceRepository
type mongoPerformanceRepository struct {
	collection *mongo.Collection
}

func NewMongoPerformanceRepository(db *mongo.Database) repository.PerformanceRepository {
	return &mongoPerformanceRepository{collection: db.Collection(performanceCollectionName)}
}

func (r *mongoPerformanceRepository) Create(ctx context.Context, rec *domain.PerformanceRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now().UTC()
	return insert(ctx, r.collection, rec)
}

func (r *mongoPerformanceRepository) List(ctx context.Context) ([]domain.PerformanceRecord, error) {
	return findAll[domain.PerformanceRecord](ctx, r.collection, bson.M{}, byCreatedAt)
}

func (r *mongoPerformanceRepository) ListBySwimmer(ctx context.Context, swimmerID string) ([]domain.PerformanceRecord, error) {
	return findAll[domain.PerformanceRecord](ctx, r.collection, bson.M{"swimmerId": swimmerID}, byCreatedAt)
}

func (r *mongoPerformanceRepository) ListBySwimmerAndEvent(ctx context.Context, swimmerID string, event domain.SwimEvent) ([]domain.PerformanceRecord, error) {
	return findAll[domain.PerformanceRecord](ctx, r.collection, bson.M{"swimmerId": swimmerID, "event": event}, byCreatedAt)
}

func EnsurePerformanceIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "swimmerId", Value: 1}, {Key: "event", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	return err
}

// mongoFeedbackRepository implements repository.FeedbackRepository
type mongoFeedbackRepository struct {
	collection *mongo.Collection
}

func NewMongoFeedbackRepository(db *mongo.Database) repository.FeedbackRepository {
	return &mongoFeedbackRepository{collection: db.Collection(feedbackCollectionName)}
}

func (r *mongoFeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) error {
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	return insert(ctx, r.collection, fb)
}

func (r *mongoFeedbackRepository) List(ctx context.Context) ([]domain.Feedback, error) {
	return findAll[domain.Feedback](ctx, r.collection, bson.M{}, byTimestamp)
}

func (r *mongoFeedbackRepository) ListByPlan(ctx context.Context, planID string) ([]domain.Feedback, error) {
	return findAll[domain.Feedback](ctx, r.collection, bson.M{"planId": planID}, byTimestamp)
}

func EnsureFeedbackIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "planId", Value: 1}},
	})
	return err
}
