package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ForumCategory is a top-level discussion board. TopicsCount and PostsCount
// are denormalized and maintained with $inc on topic/post writes.
type ForumCategory struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Order       int                `json:"order" bson:"order"`
	TopicsCount int                `json:"topics_count" bson:"topics_count"`
	PostsCount  int                `json:"posts_count" bson:"posts_count"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// ForumTopic is a thread within a category.
type ForumTopic struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CategoryID primitive.ObjectID `json:"category_id" bson:"category_id"`
	AuthorID   primitive.ObjectID `json:"author_id" bson:"author_id"`
	Title      string             `json:"title" bson:"title"`
	Locked     bool               `json:"locked" bson:"locked"`
	PostsCount int                `json:"posts_count" bson:"posts_count"`
	LastPostAt time.Time          `json:"last_post_at" bson:"last_post_at"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// ForumPost is one reply within a topic.
type ForumPost struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TopicID   primitive.ObjectID `json:"topic_id" bson:"topic_id"`
	AuthorID  primitive.ObjectID `json:"author_id" bson:"author_id"`
	Body      string             `json:"body" bson:"body"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

type CreateForumCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
}

type CreateForumTopicRequest struct {
	Title string `json:"title" validate:"required,min=3,max=200"`
	Body  string `json:"body" validate:"required,min=1,max=10000"`
}

type CreateForumPostRequest struct {
	Body string `json:"body" validate:"required,min=1,max=10000"`
}
