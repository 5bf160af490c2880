package repositories

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spinshelf/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PostRepository defines the interface for posts, which live embedded in the
// author's user document. All operations address the users collection.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByAuthors(ctx context.Context, authorIDs []primitive.ObjectID, limit int) ([]models.Post, error)
	DeletePost(ctx context.Context, authorID primitive.ObjectID, id string) error
	AddLike(ctx context.Context, id string, userID primitive.ObjectID) (bool, error)
	RemoveLike(ctx context.Context, id string, userID primitive.ObjectID) error
	IncrementCommentsCount(ctx context.Context, id string, delta int) error
}

// MongoPostRepository implements PostRepository against the users collection
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("users")}
}

// CreatePost pushes a new post into the author's embedded posts array
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": post.AuthorID}, bson.M{"$push": bson.M{"posts": post}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetPostByID locates the user document holding the post and extracts it
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID format: %w", err)
	}

	var user models.User
	err = r.collection.FindOne(ctx, bson.M{"posts._id": objID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	for i := range user.Posts {
		if user.Posts[i].ID == objID {
			return &user.Posts[i], nil
		}
	}
	return nil, models.ErrNotFound
}

// GetPostsByAuthors flattens the embedded posts of every in-scope author,
// newest first, capped at limit
func (r *MongoPostRepository) GetPostsByAuthors(ctx context.Context, authorIDs []primitive.ObjectID, limit int) ([]models.Post, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": authorIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	var posts []models.Post
	for i := range users {
		posts = append(posts, users[i].Posts...)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// DeletePost pulls the post from the author's posts array
func (r *MongoPostRepository) DeletePost(ctx context.Context, authorID primitive.ObjectID, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": authorID}, bson.M{"$pull": bson.M{"posts": bson.M{"_id": objID}}})
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AddLike adds userID to the post's like set via the positional operator.
// Returns true only on the false->true transition.
func (r *MongoPostRepository) AddLike(ctx context.Context, id string, userID primitive.ObjectID) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("invalid post ID format: %w", err)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"posts._id": objID}, bson.M{"$addToSet": bson.M{"posts.$.likes": userID}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, models.ErrNotFound
	}
	return res.ModifiedCount > 0, nil
}

// RemoveLike removes userID from the post's like set
func (r *MongoPostRepository) RemoveLike(ctx context.Context, id string, userID primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"posts._id": objID}, bson.M{"$pull": bson.M{"posts.$.likes": userID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// IncrementCommentsCount adjusts the post's denormalized comment counter
func (r *MongoPostRepository) IncrementCommentsCount(ctx context.Context, id string, delta int) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"posts._id": objID}, bson.M{"$inc": bson.M{"posts.$.comments_count": delta}})
	return err
}
