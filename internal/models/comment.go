package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentTarget names the kind of document a comment is attached to.
type CommentTarget string

const (
	CommentTargetRecord CommentTarget = "record"
	CommentTargetPost   CommentTarget = "post"
	CommentTargetBlog   CommentTarget = "blog"
)

// Comment represents a comment on a record, post or blog entry.
type Comment struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID   primitive.ObjectID `json:"author_id" bson:"author_id"`
	TargetKind CommentTarget      `json:"target_kind" bson:"target_kind"`
	TargetID   primitive.ObjectID `json:"target_id" bson:"target_id"`
	Content    string             `json:"content" bson:"content"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}
