package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a short status update embedded in the author's user document.
// Likes use set-semantics like Record.Likes.
type Post struct {
	ID            primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID      primitive.ObjectID   `json:"author_id" bson:"author_id"`
	Content       string               `json:"content" bson:"content"`
	ImageURL      string               `json:"image_url,omitempty" bson:"image_url,omitempty"`
	RecordID      *primitive.ObjectID  `json:"record_id,omitempty" bson:"record_id,omitempty"` // optional "now spinning" attachment
	Likes         []primitive.ObjectID `json:"likes,omitempty" bson:"likes,omitempty"`
	CommentsCount int                  `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
}

// LikedBy reports whether the given user id is in the post's like set.
func (p *Post) LikedBy(id primitive.ObjectID) bool {
	for _, l := range p.Likes {
		if l == id {
			return true
		}
	}
	return false
}

type CreatePostRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=500"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
	RecordID string `json:"record_id,omitempty"`
}
