package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationKind enumerates the alert types delivered to a recipient.
type NotificationKind string

const (
	NotificationFollow     NotificationKind = "follow"
	NotificationLike       NotificationKind = "like"
	NotificationComment    NotificationKind = "comment"
	NotificationMention    NotificationKind = "mention"
	NotificationPriceAlert NotificationKind = "price_alert"
	NotificationMilestone  NotificationKind = "milestone"
	NotificationModeration NotificationKind = "moderation"
)

// Notification is a directed, dismissible alert to one recipient. The
// dispatcher guarantees recipient != sender; the store does not enforce it.
type Notification struct {
	ID          primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	RecipientID primitive.ObjectID  `json:"recipient_id" bson:"recipient_id"`
	SenderID    *primitive.ObjectID `json:"sender_id,omitempty" bson:"sender_id,omitempty"`
	Kind        NotificationKind    `json:"kind" bson:"kind"`
	Message     string              `json:"message" bson:"message"`
	Link        string              `json:"link,omitempty" bson:"link,omitempty"`
	Read        bool                `json:"read" bson:"read"`
	RecordID    *primitive.ObjectID `json:"record_id,omitempty" bson:"record_id,omitempty"`
	PostID      *primitive.ObjectID `json:"post_id,omitempty" bson:"post_id,omitempty"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" bson:"updated_at"`
}
