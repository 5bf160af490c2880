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

// RecordRepository defines the interface for record collection operations
type RecordRepository interface {
	CreateRecord(ctx context.Context, record *models.Record) error
	GetRecordByID(ctx context.Context, id string) (*models.Record, error)
	GetRecordsByOwner(ctx context.Context, ownerID primitive.ObjectID, skip, limit int64) ([]models.Record, error)
	GetRecordsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Record, error)
	UpdateRecord(ctx context.Context, id string, req *models.UpdateRecordRequest) error
	DeleteRecord(ctx context.Context, id string) error
	RecordPlay(ctx context.Context, id string) error
	AddLike(ctx context.Context, id string, userID primitive.ObjectID) (bool, error)
	RemoveLike(ctx context.Context, id string, userID primitive.ObjectID) error
	SetHeavyRotation(ctx context.Context, id string, heavy bool) error
	CountByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error)
	GetStats(ctx context.Context, ownerID primitive.ObjectID) (*models.CollectionStats, error)
}

// MongoRecordRepository implements RecordRepository for MongoDB
type MongoRecordRepository struct {
	collection *mongo.Collection
}

// NewMongoRecordRepository creates a new MongoRecordRepository
func NewMongoRecordRepository(db *mongo.Database) *MongoRecordRepository {
	return &MongoRecordRepository{collection: db.Collection("records")}
}

// CreateRecord inserts a new record
func (r *MongoRecordRepository) CreateRecord(ctx context.Context, record *models.Record) error {
	record.ID = primitive.NewObjectID()
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

// GetRecordByID retrieves a record by hex id
func (r *MongoRecordRepository) GetRecordByID(ctx context.Context, id string) (*models.Record, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid record ID format: %w", err)
	}

	var record models.Record
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// GetRecordsByOwner retrieves a user's collection, newest first
func (r *MongoRecordRepository) GetRecordsByOwner(ctx context.Context, ownerID primitive.ObjectID, skip, limit int64) ([]models.Record, error) {
	var records []models.Record
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetRecordsByIDs retrieves all records whose id is in the given set
func (r *MongoRecordRepository) GetRecordsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Record, error) {
	var records []models.Record
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// UpdateRecord updates the mutable fields of a record
func (r *MongoRecordRepository) UpdateRecord(ctx context.Context, id string, req *models.UpdateRecordRequest) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid record ID format: %w", err)
	}

	set := bson.M{"updated_at": time.Now()}
	if req.Title != "" {
		set["title"] = req.Title
	}
	if req.Artist != "" {
		set["artist"] = req.Artist
	}
	if req.Year != 0 {
		set["year"] = req.Year
	}
	if req.Genre != "" {
		set["genre"] = req.Genre
	}
	if req.Label != "" {
		set["label"] = req.Label
	}
	if req.ImageURL != "" {
		set["image_url"] = req.ImageURL
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteRecord deletes a record by id
func (r *MongoRecordRepository) DeleteRecord(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid record ID format: %w", err)
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

// RecordPlay increments the play counter and stamps last_played_at
func (r *MongoRecordRepository) RecordPlay(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid record ID format: %w", err)
	}
	update := bson.M{
		"$inc": bson.M{"plays": 1},
		"$set": bson.M{"last_played_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AddLike adds userID to the record's like set. Returns true only when the
// set actually grew, i.e. the false->true transition happened.
func (r *MongoRecordRepository) AddLike(ctx context.Context, id string, userID primitive.ObjectID) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("invalid record ID format: %w", err)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$addToSet": bson.M{"likes": userID}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, models.ErrNotFound
	}
	return res.ModifiedCount > 0, nil
}

// RemoveLike removes userID from the record's like set
func (r *MongoRecordRepository) RemoveLike(ctx context.Context, id string, userID primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid record ID format: %w", err)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$pull": bson.M{"likes": userID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetHeavyRotation flips the heavy rotation flag, kept in sync with the
// featured slot list by the slot manager
func (r *MongoRecordRepository) SetHeavyRotation(ctx context.Context, id string, heavy bool) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid record ID format: %w", err)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"heavy_rotation": heavy}})
	return err
}

// CountByOwner returns the collection size for a user
func (r *MongoRecordRepository) CountByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"owner_id": ownerID})
}

// GetStats aggregates collection totals, genre counts and the most played
// record for a user's profile page
func (r *MongoRecordRepository) GetStats(ctx context.Context, ownerID primitive.ObjectID) (*models.CollectionStats, error) {
	var records []models.Record
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	stats := &models.CollectionStats{
		TotalRecords: len(records),
		GenreCounts:  make(map[string]int),
	}
	for i := range records {
		rec := &records[i]
		stats.TotalPlays += rec.Plays
		if rec.Genre != "" {
			stats.GenreCounts[rec.Genre]++
		}
		if stats.MostPlayed == nil || rec.Plays > stats.MostPlayed.Plays {
			stats.MostPlayed = rec
		}
	}
	if stats.MostPlayed != nil && stats.MostPlayed.Plays == 0 {
		stats.MostPlayed = nil
	}
	return stats, nil
}
