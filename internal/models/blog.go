package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlogStatus tracks a submission through the moderation queue.
type BlogStatus string

const (
	BlogPending  BlogStatus = "pending"
	BlogApproved BlogStatus = "approved"
	BlogRejected BlogStatus = "rejected"
)

// BlogPost is a long-form article submitted by a user and published only
// after an admin approves it.
type BlogPost struct {
	ID         primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID   primitive.ObjectID  `json:"author_id" bson:"author_id"`
	Title      string              `json:"title" bson:"title"`
	Body       string              `json:"body" bson:"body"`
	ImageURL   string              `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Status     BlogStatus          `json:"status" bson:"status"`
	ReviewedBy *primitive.ObjectID `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	ReviewedAt *time.Time          `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at" bson:"updated_at"`
}

type CreateBlogPostRequest struct {
	Title    string `json:"title" validate:"required,min=3,max=200"`
	Body     string `json:"body" validate:"required,min=10"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}
