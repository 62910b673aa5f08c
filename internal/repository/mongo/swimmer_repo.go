// internal/repository/mongo/swimmer_repo.go
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

const swimmerCollectionName = "swimmers"

// usernameCollation makes username lookups and the unique index case-insensitive.
var usernameCollation = &options.Collation{Locale: "en", Strength: 2}

// mongoSwimmerRepository implements repository.SwimmerRepository
type mongoSwimmerRepository struct {
	collection *mongo.Collection
}

func NewMongoSwimmerRepository(db *mongo.Database) repository.SwimmerRepository {
	return &mongoSwimmerRepository{
		collection: db.Collection(swimmerCollectionName),
	}
}

func (r *mongoSwimmerRepository) Create(ctx context.Context, s *domain.Swimmer) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	return insert(ctx, r.collection, s)
}

func (r *mongoSwimmerRepository) GetByID(ctx context.Context, id string) (*domain.Swimmer, error) {
	return findOne[domain.Swimmer](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoSwimmerRepository) GetByUsername(ctx context.Context, username string) (*domain.Swimmer, error) {
	if username == "" {
		return nil, repository.ErrNotFound
	}
	return findOne[domain.Swimmer](ctx, r.collection, bson.M{"username": username},
		options.FindOne().SetCollation(usernameCollation))
}

func (r *mongoSwimmerRepository) List(ctx context.Context) ([]domain.Swimmer, error) {
	return findAll[domain.Swimmer](ctx, r.collection, bson.M{}, bson.D{{Key: "createdAt", Value: 1}})
}

func (r *mongoSwimmerRepository) Update(ctx context.Context, s *domain.Swimmer) error {
	s.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, r.collection, s.ID, s)
}

func (r *mongoSwimmerRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, id)
}

// EnsureSwimmerIndexes creates necessary indexes. Call during startup.
func EnsureSwimmerIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// partial so swimmers without a login do not collide on ""
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetCollation(usernameCollation).
				SetPartialFilterExpression(bson.M{"username": bson.M{"$type": "string", "$gt": ""}}),
		},
		{
			Keys: bson.D{{Key: "group", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
