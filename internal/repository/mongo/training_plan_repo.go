// internal/repository/mongo/training_plan_repo.go
package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
	"github.com/duorhuang/aquaflow-pro/internal/repository"
)

const (
	planCollectionName     = "training_plans"
	templateCollectionName = "block_templates"
)

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.TrainingPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	return insert(ctx, r.collection, plan)
}

func (r *mongoPlanRepository) GetByID(ctx context.Context, id string) (*domain.TrainingPlan, error) {
	return findOne[domain.TrainingPlan](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoPlanRepository) List(ctx context.Context) ([]domain.TrainingPlan, error) {
	return findAll[domain.TrainingPlan](ctx, r.collection, bson.M{}, bson.D{{Key: "createdAt", Value: 1}})
}

func (r *mongoPlanRepository) ListByGroup(ctx context.Context, group domain.Group) ([]domain.TrainingPlan, error) {
	return findAll[domain.TrainingPlan](ctx, r.collection, bson.M{"group": group}, bson.D{{Key: "createdAt", Value: 1}})
}

// Update replaces the whole plan so blocks and totalDistance always travel together.
func (r *mongoPlanRepository) Update(ctx context.Context, plan *domain.TrainingPlan) error {
	plan.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, r.collection, plan.ID, plan)
}

func (r *mongoPlanRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, id)
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// previous-session lookup during check-in
			Keys: bson.D{{Key: "group", Value: 1}, {Key: "date", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "isStarred", Value: -1}, {Key: "date", Value: -1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// mongoTemplateRepository implements repository.TemplateRepository
type mongoTemplateRepository struct {
	collection *mongo.Collection
}

func NewMongoTemplateRepository(db *mongo.Database) repository.TemplateRepository {
	return &mongoTemplateRepository{
		collection: db.Collection(templateCollectionName),
	}
}

func (r *mongoTemplateRepository) Create(ctx context.Context, tmpl *domain.BlockTemplate) error {
	if tmpl.TemplateID == "" {
		tmpl.TemplateID = uuid.NewString()
	}
	tmpl.CreatedAt = time.Now().UTC()
	return insert(ctx, r.collection, tmpl)
}

func (r *mongoTemplateRepository) GetByID(ctx context.Context, id string) (*domain.BlockTemplate, error) {
	return findOne[domain.BlockTemplate](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoTemplateRepository) List(ctx context.Context) ([]domain.BlockTemplate, error) {
	return findAll[domain.BlockTemplate](ctx, r.collection, bson.M{}, bson.D{{Key: "createdAt", Value: 1}})
}

func (r *mongoTemplateRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, id)
}
