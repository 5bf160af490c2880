package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxTop8Records is the maximum number of records a user may showcase on
// their profile.
const MaxTop8Records = 8

// User represents a collector profile stored in MongoDB. Posts are embedded
// sub-documents; follower/following relationships are id sets maintained with
// $addToSet/$pull so concurrent toggles stay idempotent per user.
type User struct {
	ID                primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Username          string               `json:"username" bson:"username"`
	Email             string               `json:"email" bson:"email"`
	Password          string               `json:"-" bson:"password"` // bcrypt hash
	Bio               string               `json:"bio,omitempty" bson:"bio,omitempty"`
	Location          string               `json:"location,omitempty" bson:"location,omitempty"`
	AvatarURL         string               `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	IsAdmin           bool                 `json:"is_admin" bson:"is_admin"`
	Locked            bool                 `json:"-" bson:"locked"`
	PasswordChangedAt time.Time            `json:"-" bson:"password_changed_at"`
	Followers         []primitive.ObjectID `json:"followers,omitempty" bson:"followers,omitempty"`
	Following         []primitive.ObjectID `json:"following,omitempty" bson:"following,omitempty"`
	Top8              []primitive.ObjectID `json:"top8,omitempty" bson:"top8,omitempty"`
	Posts             []Post               `json:"posts,omitempty" bson:"posts,omitempty"`
	RecordsCount      int                  `json:"records_count" bson:"records_count"`
	PlaysCount        int                  `json:"plays_count" bson:"plays_count"`
	CreatedAt         time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at" bson:"updated_at"`
}

// UserCompact is the subset of a user embedded in enriched API responses.
type UserCompact struct {
	ID        primitive.ObjectID `json:"id"`
	Username  string             `json:"username"`
	AvatarURL string             `json:"avatar_url,omitempty"`
}

// ToCompact returns the compact representation of the user.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}

// IsFollowing reports whether the user follows the given user id.
func (u *User) IsFollowing(id primitive.ObjectID) bool {
	for _, f := range u.Following {
		if f == id {
			return true
		}
	}
	return false
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=2,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Username string `json:"username,omitempty" validate:"omitempty,min=2,max=30"`
	Bio      string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Location string `json:"location,omitempty" validate:"omitempty,max=100"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type SetTop8Request struct {
	RecordIDs []string `json:"record_ids" validate:"required,max=8,dive,required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}
