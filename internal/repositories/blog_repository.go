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

// BlogRepository defines the interface for blog post operations
type BlogRepository interface {
	CreateBlogPost(ctx context.Context, post *models.BlogPost) error
	GetBlogPostByID(ctx context.Context, id string) (*models.BlogPost, error)
	GetPublished(ctx context.Context, skip, limit int64) ([]models.BlogPost, int64, error)
	GetPending(ctx context.Context) ([]models.BlogPost, error)
	SetStatus(ctx context.Context, id string, status models.BlogStatus, reviewer primitive.ObjectID) error
	DeleteBlogPost(ctx context.Context, id string) error
}

// MongoBlogRepository implements BlogRepository for MongoDB
type MongoBlogRepository struct {
	collection *mongo.Collection
}

// NewMongoBlogRepository creates a new MongoBlogRepository
func NewMongoBlogRepository(db *mongo.Database) *MongoBlogRepository {
	return &MongoBlogRepository{collection: db.Collection("blog_posts")}
}

// CreateBlogPost inserts a submission in pending state
func (r *MongoBlogRepository) CreateBlogPost(ctx context.Context, post *models.BlogPost) error {
	post.ID = primitive.NewObjectID()
	post.Status = models.BlogPending
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetBlogPostByID retrieves a blog post by hex id
func (r *MongoBlogRepository) GetBlogPostByID(ctx context.Context, id string) (*models.BlogPost, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid blog post ID format: %w", err)
	}

	var post models.BlogPost
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPublished retrieves approved posts, newest first, with the total count
func (r *MongoBlogRepository) GetPublished(ctx context.Context, skip, limit int64) ([]models.BlogPost, int64, error) {
	filter := bson.M{"status": models.BlogApproved}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	var posts []models.BlogPost
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetPending retrieves the moderation queue, oldest first
func (r *MongoBlogRepository) GetPending(ctx context.Context) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"status": models.BlogPending}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// SetStatus records a moderation decision
func (r *MongoBlogRepository) SetStatus(ctx context.Context, id string, status models.BlogStatus, reviewer primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid blog post ID format: %w", err)
	}
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"status":      status,
		"reviewed_by": reviewer,
		"reviewed_at": now,
		"updated_at":  now,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteBlogPost removes a blog post by id
func (r *MongoBlogRepository) DeleteBlogPost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid blog post ID format: %w", err)
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
