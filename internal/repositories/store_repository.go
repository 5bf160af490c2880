package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/spinshelf/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StoreRepository defines the interface for saved record stores
type StoreRepository interface {
	CreateStore(ctx context.Context, store *models.Store) error
	GetStoreByID(ctx context.Context, id string) (*models.Store, error)
	GetStores(ctx context.Context, skip, limit int64) ([]models.Store, error)
	GetStoresNear(ctx context.Context, lat, lng, radiusKM float64) ([]models.Store, error)
	DeleteStore(ctx context.Context, id string) error
}

// MongoStoreRepository implements StoreRepository for MongoDB
type MongoStoreRepository struct {
	collection *mongo.Collection
}

// NewMongoStoreRepository creates a new MongoStoreRepository
func NewMongoStoreRepository(db *mongo.Database) *MongoStoreRepository {
	return &MongoStoreRepository{collection: db.Collection("stores")}
}

// CreateStore inserts a new store
func (r *MongoStoreRepository) CreateStore(ctx context.Context, store *models.Store) error {
	store.ID = primitive.NewObjectID()
	store.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, store)
	return err
}

// GetStoreByID retrieves a store by hex id
func (r *MongoStoreRepository) GetStoreByID(ctx context.Context, id string) (*models.Store, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid store ID format: %w", err)
	}

	var store models.Store
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&store)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &store, nil
}

// GetStores retrieves saved stores, newest first
func (r *MongoStoreRepository) GetStores(ctx context.Context, skip, limit int64) ([]models.Store, error) {
	var stores []models.Store
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

// GetStoresNear retrieves stores within a bounding box around the given
// point. One degree of latitude is ~111km; longitude degrees shrink toward
// the poles but the box is generous enough for a city-scale lookup.
func (r *MongoStoreRepository) GetStoresNear(ctx context.Context, lat, lng, radiusKM float64) ([]models.Store, error) {
	delta := radiusKM / 111.0
	filter := bson.M{
		"lat": bson.M{"$gte": lat - delta, "$lte": lat + delta},
		"lng": bson.M{"$gte": lng - delta, "$lte": lng + delta},
	}

	var stores []models.Store
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

// DeleteStore removes a store by id
func (r *MongoStoreRepository) DeleteStore(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid store ID format: %w", err)
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
