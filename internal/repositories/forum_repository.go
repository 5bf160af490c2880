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

// ForumRepository defines the interface for forum categories, topics and
// posts. Category and topic counters are denormalized and maintained here
// with $inc alongside topic/post writes.
type ForumRepository interface {
	CreateCategory(ctx context.Context, category *models.ForumCategory) error
	GetCategories(ctx context.Context) ([]models.ForumCategory, error)
	GetCategoryByID(ctx context.Context, id string) (*models.ForumCategory, error)
	CreateTopic(ctx context.Context, topic *models.ForumTopic) error
	GetTopicByID(ctx context.Context, id string) (*models.ForumTopic, error)
	GetTopicsByCategory(ctx context.Context, categoryID primitive.ObjectID, skip, limit int64) ([]models.ForumTopic, error)
	SetTopicLocked(ctx context.Context, id string, locked bool) error
	CreatePost(ctx context.Context, post *models.ForumPost) error
	GetPostsByTopic(ctx context.Context, topicID primitive.ObjectID, skip, limit int64) ([]models.ForumPost, error)
	DeletePost(ctx context.Context, id string) (*models.ForumPost, error)
}

// MongoForumRepository implements ForumRepository for MongoDB
type MongoForumRepository struct {
	categories *mongo.Collection
	topics     *mongo.Collection
	posts      *mongo.Collection
}

// NewMongoForumRepository creates a new MongoForumRepository
func NewMongoForumRepository(db *mongo.Database) *MongoForumRepository {
	return &MongoForumRepository{
		categories: db.Collection("forum_categories"),
		topics:     db.Collection("forum_topics"),
		posts:      db.Collection("forum_posts"),
	}
}

// CreateCategory inserts a new category at the end of the ordering
func (r *MongoForumRepository) CreateCategory(ctx context.Context, category *models.ForumCategory) error {
	count, err := r.categories.CountDocuments(ctx, bson.D{})
	if err != nil {
		return err
	}
	category.ID = primitive.NewObjectID()
	category.Order = int(count) + 1
	category.CreatedAt = time.Now()
	_, err = r.categories.InsertOne(ctx, category)
	return err
}

// GetCategories retrieves all categories in display order
func (r *MongoForumRepository) GetCategories(ctx context.Context) ([]models.ForumCategory, error) {
	var categories []models.ForumCategory
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := r.categories.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by hex id
func (r *MongoForumRepository) GetCategoryByID(ctx context.Context, id string) (*models.ForumCategory, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid category ID format: %w", err)
	}

	var category models.ForumCategory
	err = r.categories.FindOne(ctx, bson.M{"_id": objID}).Decode(&category)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// CreateTopic inserts a topic and bumps the category's topic counter
func (r *MongoForumRepository) CreateTopic(ctx context.Context, topic *models.ForumTopic) error {
	topic.ID = primitive.NewObjectID()
	topic.CreatedAt = time.Now()
	topic.LastPostAt = topic.CreatedAt
	if _, err := r.topics.InsertOne(ctx, topic); err != nil {
		return err
	}
	_, err := r.categories.UpdateOne(ctx, bson.M{"_id": topic.CategoryID}, bson.M{"$inc": bson.M{"topics_count": 1}})
	return err
}

// GetTopicByID retrieves a topic by hex id
func (r *MongoForumRepository) GetTopicByID(ctx context.Context, id string) (*models.ForumTopic, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid topic ID format: %w", err)
	}

	var topic models.ForumTopic
	err = r.topics.FindOne(ctx, bson.M{"_id": objID}).Decode(&topic)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &topic, nil
}

// GetTopicsByCategory retrieves topics ordered by most recent reply
func (r *MongoForumRepository) GetTopicsByCategory(ctx context.Context, categoryID primitive.ObjectID, skip, limit int64) ([]models.ForumTopic, error) {
	var topics []models.ForumTopic
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "last_post_at", Value: -1}})
	cursor, err := r.topics.Find(ctx, bson.M{"category_id": categoryID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// SetTopicLocked flips the lock flag on a topic
func (r *MongoForumRepository) SetTopicLocked(ctx context.Context, id string, locked bool) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid topic ID format: %w", err)
	}
	res, err := r.topics.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"locked": locked}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CreatePost inserts a reply and maintains the topic/category counters and
// the topic's last_post_at ordering key
func (r *MongoForumRepository) CreatePost(ctx context.Context, post *models.ForumPost) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if _, err := r.posts.InsertOne(ctx, post); err != nil {
		return err
	}

	var topic models.ForumTopic
	update := bson.M{
		"$inc": bson.M{"posts_count": 1},
		"$set": bson.M{"last_post_at": post.CreatedAt},
	}
	err := r.topics.FindOneAndUpdate(ctx, bson.M{"_id": post.TopicID}, update).Decode(&topic)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ErrNotFound
		}
		return err
	}
	_, err = r.categories.UpdateOne(ctx, bson.M{"_id": topic.CategoryID}, bson.M{"$inc": bson.M{"posts_count": 1}})
	return err
}

// GetPostsByTopic retrieves replies in thread order
func (r *MongoForumRepository) GetPostsByTopic(ctx context.Context, topicID primitive.ObjectID, skip, limit int64) ([]models.ForumPost, error) {
	var posts []models.ForumPost
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.posts.Find(ctx, bson.M{"topic_id": topicID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// DeletePost removes a reply and decrements the counters. Returns the
// deleted post so the handler can check ownership first.
func (r *MongoForumRepository) DeletePost(ctx context.Context, id string) (*models.ForumPost, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid forum post ID format: %w", err)
	}

	var post models.ForumPost
	err = r.posts.FindOneAndDelete(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	var topic models.ForumTopic
	err = r.topics.FindOneAndUpdate(ctx, bson.M{"_id": post.TopicID}, bson.M{"$inc": bson.M{"posts_count": -1}}).Decode(&topic)
	if err == nil {
		_, _ = r.categories.UpdateOne(ctx, bson.M{"_id": topic.CategoryID}, bson.M{"$inc": bson.M{"posts_count": -1}})
	}
	return &post, nil
}
