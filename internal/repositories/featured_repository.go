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

// FeaturedRepository defines the interface for the promotional slot list.
// Invariant maintenance (cap, density) lives in the slot manager; this layer
// only persists.
type FeaturedRepository interface {
	List(ctx context.Context) ([]models.FeaturedRecord, error)
	Count(ctx context.Context) (int64, error)
	GetByNaturalKey(ctx context.Context, title, artist string) (*models.FeaturedRecord, error)
	GetByRecordID(ctx context.Context, recordID primitive.ObjectID) (*models.FeaturedRecord, error)
	Insert(ctx context.Context, slot *models.FeaturedRecord) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetOrder(ctx context.Context, id primitive.ObjectID, order int) error
}

// MongoFeaturedRepository implements FeaturedRepository for MongoDB
type MongoFeaturedRepository struct {
	collection *mongo.Collection
}

// NewMongoFeaturedRepository creates a new MongoFeaturedRepository
func NewMongoFeaturedRepository(db *mongo.Database) *MongoFeaturedRepository {
	return &MongoFeaturedRepository{collection: db.Collection("featured_records")}
}

// List retrieves all slots in display order
func (r *MongoFeaturedRepository) List(ctx context.Context) ([]models.FeaturedRecord, error) {
	var slots []models.FeaturedRecord
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// Count returns the number of occupied slots
func (r *MongoFeaturedRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.D{})
}

// GetByNaturalKey looks up a slot by title+artist
func (r *MongoFeaturedRepository) GetByNaturalKey(ctx context.Context, title, artist string) (*models.FeaturedRecord, error) {
	var slot models.FeaturedRecord
	err := r.collection.FindOne(ctx, bson.M{"title": title, "artist": artist}).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &slot, nil
}

// GetByRecordID looks up the slot promoting a given record
func (r *MongoFeaturedRepository) GetByRecordID(ctx context.Context, recordID primitive.ObjectID) (*models.FeaturedRecord, error) {
	var slot models.FeaturedRecord
	err := r.collection.FindOne(ctx, bson.M{"record_id": recordID}).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &slot, nil
}

// Insert persists a new slot
func (r *MongoFeaturedRepository) Insert(ctx context.Context, slot *models.FeaturedRecord) error {
	slot.ID = primitive.NewObjectID()
	slot.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, slot)
	return err
}

// Delete removes a slot by id
func (r *MongoFeaturedRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetOrder rewrites one slot's order
func (r *MongoFeaturedRepository) SetOrder(ctx context.Context, id primitive.ObjectID, order int) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"order": order}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
