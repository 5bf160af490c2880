package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxFeaturedRecords caps the promotional slot list.
const MaxFeaturedRecords = 5

// FeaturedRecord is one promotional slot on the landing page. At most
// MaxFeaturedRecords exist and their orders form a dense 1..N sequence.
// Uniqueness is by natural key (title+artist), not by record id.
type FeaturedRecord struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	RecordID  primitive.ObjectID `json:"record_id" bson:"record_id"`
	Title     string             `json:"title" bson:"title"`
	Artist    string             `json:"artist" bson:"artist"`
	ImageURL  string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Order     int                `json:"order" bson:"order"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type ReorderFeaturedRequest struct {
	Order int `json:"order" validate:"required,min=1,max=5"`
}
