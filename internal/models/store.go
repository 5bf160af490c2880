package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is a record store saved by a user, with coordinates resolved through
// the geocoding client at creation time.
type Store struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Address   string             `json:"address" bson:"address"`
	City      string             `json:"city,omitempty" bson:"city,omitempty"`
	Lat       float64            `json:"lat" bson:"lat"`
	Lng       float64            `json:"lng" bson:"lng"`
	AddedBy   primitive.ObjectID `json:"added_by" bson:"added_by"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type CreateStoreRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	Address string `json:"address" validate:"required,min=5,max=300"`
	City    string `json:"city,omitempty" validate:"omitempty,max=100"`
}
