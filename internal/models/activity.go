package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityKind enumerates the user actions recorded in the append-only
// activity log.
type ActivityKind string

const (
	ActivitySignup               ActivityKind = "signup"
	ActivityLogin                ActivityKind = "login"
	ActivityLogout               ActivityKind = "logout"
	ActivityAddRecord            ActivityKind = "add_record"
	ActivityPlayRecord           ActivityKind = "play_record"
	ActivityLikeRecord           ActivityKind = "like_record"
	ActivityFollowUser           ActivityKind = "follow_user"
	ActivityComment              ActivityKind = "comment"
	ActivityUpdateProfilePicture ActivityKind = "update_profile_picture"
	ActivityUpdateLocation       ActivityKind = "update_location"
)

// Activity is one immutable entry in the global activity log. Exactly one of
// RecordID, TargetUserID and CommentID is set, determined by Kind; the
// constructors below are the only way to build a valid Activity, so the
// kind/reference pairing is checked at construction rather than by runtime
// predicates on an open struct.
type Activity struct {
	ID           primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	ActorID      primitive.ObjectID  `json:"actor_id" bson:"actor_id"`
	Kind         ActivityKind        `json:"kind" bson:"kind"`
	RecordID     *primitive.ObjectID `json:"record_id,omitempty" bson:"record_id,omitempty"`
	TargetUserID *primitive.ObjectID `json:"target_user_id,omitempty" bson:"target_user_id,omitempty"`
	CommentID    *primitive.ObjectID `json:"comment_id,omitempty" bson:"comment_id,omitempty"`
	Details      map[string]string   `json:"details,omitempty" bson:"details,omitempty"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
}

// NewRecordActivity builds an activity whose kind requires a record
// reference (add_record, play_record, like_record).
func NewRecordActivity(actor primitive.ObjectID, kind ActivityKind, recordID primitive.ObjectID, details map[string]string) (*Activity, error) {
	switch kind {
	case ActivityAddRecord, ActivityPlayRecord, ActivityLikeRecord:
	default:
		return nil, NewValidationError(fmt.Sprintf("activity kind %q does not take a record reference", kind))
	}
	if recordID.IsZero() {
		return nil, NewValidationError(fmt.Sprintf("activity kind %q requires a record reference", kind))
	}
	return &Activity{ActorID: actor, Kind: kind, RecordID: &recordID, Details: details}, nil
}

// NewFollowActivity builds a follow_user activity.
func NewFollowActivity(actor, targetUser primitive.ObjectID) (*Activity, error) {
	if targetUser.IsZero() {
		return nil, NewValidationError("follow_user activity requires a target user reference")
	}
	return &Activity{ActorID: actor, Kind: ActivityFollowUser, TargetUserID: &targetUser}, nil
}

// NewCommentActivity builds a comment activity.
func NewCommentActivity(actor, commentID primitive.ObjectID, details map[string]string) (*Activity, error) {
	if commentID.IsZero() {
		return nil, NewValidationError("comment activity requires a comment reference")
	}
	return &Activity{ActorID: actor, Kind: ActivityComment, CommentID: &commentID, Details: details}, nil
}

// NewProfileActivity builds an activity that carries no entity reference
// (signup, login, logout, profile picture and location updates).
func NewProfileActivity(actor primitive.ObjectID, kind ActivityKind, details map[string]string) (*Activity, error) {
	switch kind {
	case ActivitySignup, ActivityLogin, ActivityLogout, ActivityUpdateProfilePicture, ActivityUpdateLocation:
	default:
		return nil, NewValidationError(fmt.Sprintf("activity kind %q requires an entity reference", kind))
	}
	return &Activity{ActorID: actor, Kind: kind, Details: details}, nil
}

// Validate re-checks the kind/reference invariant before an insert.
func (a *Activity) Validate() error {
	switch a.Kind {
	case ActivityAddRecord, ActivityPlayRecord, ActivityLikeRecord:
		if a.RecordID == nil || a.RecordID.IsZero() {
			return NewValidationError(fmt.Sprintf("activity kind %q requires a record reference", a.Kind))
		}
	case ActivityFollowUser:
		if a.TargetUserID == nil || a.TargetUserID.IsZero() {
			return NewValidationError("follow_user activity requires a target user reference")
		}
	case ActivityComment:
		if a.CommentID == nil || a.CommentID.IsZero() {
			return NewValidationError("comment activity requires a comment reference")
		}
	case ActivitySignup, ActivityLogin, ActivityLogout, ActivityUpdateProfilePicture, ActivityUpdateLocation:
	default:
		return NewValidationError(fmt.Sprintf("unknown activity kind %q", a.Kind))
	}
	return nil
}
