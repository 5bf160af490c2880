package repositories

import (
	"context"
	"time"

	"github.com/spinshelf/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityRepository defines the interface for the append-only activity log.
// Activities are never updated or deleted.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity *models.Activity) error
	GetRecent(ctx context.Context, limit int64) ([]models.Activity, error)
	GetByActor(ctx context.Context, actorID primitive.ObjectID, skip, limit int64) ([]models.Activity, error)
}

// MongoActivityRepository implements ActivityRepository for MongoDB
type MongoActivityRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityRepository creates a new MongoActivityRepository
func NewMongoActivityRepository(db *mongo.Database) *MongoActivityRepository {
	return &MongoActivityRepository{collection: db.Collection("activities")}
}

// CreateActivity appends a new activity
func (r *MongoActivityRepository) CreateActivity(ctx context.Context, activity *models.Activity) error {
	activity.ID = primitive.NewObjectID()
	activity.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, activity)
	return err
}

// GetRecent retrieves the newest activities across all users. The activity
// feed is deliberately global, not follow-scoped.
func (r *MongoActivityRepository) GetRecent(ctx context.Context, limit int64) ([]models.Activity, error) {
	var activities []models.Activity
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// GetByActor retrieves one user's activities, newest first
func (r *MongoActivityRepository) GetByActor(ctx context.Context, actorID primitive.ObjectID, skip, limit int64) ([]models.Activity, error) {
	var activities []models.Activity
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"actor_id": actorID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}
