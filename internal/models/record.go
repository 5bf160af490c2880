package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record represents one vinyl record in a user's collection, stored in
// MongoDB. Likes use set-semantics (user ids added/removed with
// $addToSet/$pull) so a concurrent double-toggle cannot double-count.
type Record struct {
	ID            primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID       primitive.ObjectID   `json:"owner_id" bson:"owner_id"`
	Title         string               `json:"title" bson:"title"`
	Artist        string               `json:"artist" bson:"artist"`
	Year          int                  `json:"year,omitempty" bson:"year,omitempty"`
	Genre         string               `json:"genre,omitempty" bson:"genre,omitempty"`
	Format        string               `json:"format,omitempty" bson:"format,omitempty"` // LP, EP, 7", 10", 12"
	Label         string               `json:"label,omitempty" bson:"label,omitempty"`
	ImageURL      string               `json:"image_url,omitempty" bson:"image_url,omitempty"`
	CatalogNumber string               `json:"catalog_number,omitempty" bson:"catalog_number,omitempty"`
	Plays         int                  `json:"plays" bson:"plays"`
	LastPlayedAt  *time.Time           `json:"last_played_at,omitempty" bson:"last_played_at,omitempty"`
	HeavyRotation bool                 `json:"heavy_rotation" bson:"heavy_rotation"`
	Likes         []primitive.ObjectID `json:"likes,omitempty" bson:"likes,omitempty"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updated_at"`
}

// LikedBy reports whether the given user id is in the record's like set.
func (r *Record) LikedBy(id primitive.ObjectID) bool {
	for _, l := range r.Likes {
		if l == id {
			return true
		}
	}
	return false
}

// CollectionStats summarizes a user's collection for the profile page.
type CollectionStats struct {
	TotalRecords int            `json:"total_records"`
	TotalPlays   int            `json:"total_plays"`
	GenreCounts  map[string]int `json:"genre_counts"`
	MostPlayed   *Record        `json:"most_played,omitempty"`
}

type CreateRecordRequest struct {
	Title         string `json:"title" validate:"required,min=1,max=200"`
	Artist        string `json:"artist" validate:"required,min=1,max=200"`
	Year          int    `json:"year,omitempty" validate:"omitempty,min=1900,max=2100"`
	Genre         string `json:"genre,omitempty" validate:"omitempty,max=50"`
	Format        string `json:"format,omitempty" validate:"omitempty,oneof=LP EP 7\" 10\" 12\""`
	Label         string `json:"label,omitempty" validate:"omitempty,max=100"`
	ImageURL      string `json:"image_url,omitempty" validate:"omitempty,url"`
	CatalogNumber string `json:"catalog_number,omitempty" validate:"omitempty,max=50"`
}

type UpdateRecordRequest struct {
	Title    string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Artist   string `json:"artist,omitempty" validate:"omitempty,min=1,max=200"`
	Year     int    `json:"year,omitempty" validate:"omitempty,min=1900,max=2100"`
	Genre    string `json:"genre,omitempty" validate:"omitempty,max=50"`
	Label    string `json:"label,omitempty" validate:"omitempty,max=100"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}
