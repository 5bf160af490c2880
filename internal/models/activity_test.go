package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewRecordActivity(t *testing.T) {
	actor := primitive.NewObjectID()
	recordID := primitive.NewObjectID()

	for _, kind := range []ActivityKind{ActivityAddRecord, ActivityPlayRecord, ActivityLikeRecord} {
		a, err := NewRecordActivity(actor, kind, recordID, nil)
		require.NoError(t, err, "kind %s", kind)
		assert.Equal(t, kind, a.Kind)
		require.NotNil(t, a.RecordID)
		assert.Equal(t, recordID, *a.RecordID)
		assert.Nil(t, a.TargetUserID)
		assert.Nil(t, a.CommentID)
	}
}

func TestNewRecordActivityRejectsWrongKind(t *testing.T) {
	_, err := NewRecordActivity(primitive.NewObjectID(), ActivityFollowUser, primitive.NewObjectID(), nil)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestNewRecordActivityRejectsZeroReference(t *testing.T) {
	_, err := NewRecordActivity(primitive.NewObjectID(), ActivityAddRecord, primitive.NilObjectID, nil)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestNewFollowActivity(t *testing.T) {
	actor := primitive.NewObjectID()
	target := primitive.NewObjectID()

	a, err := NewFollowActivity(actor, target)
	require.NoError(t, err)
	assert.Equal(t, ActivityFollowUser, a.Kind)
	require.NotNil(t, a.TargetUserID)
	assert.Equal(t, target, *a.TargetUserID)
	assert.Nil(t, a.RecordID)

	_, err = NewFollowActivity(actor, primitive.NilObjectID)
	assert.True(t, IsValidation(err))
}

func TestNewCommentActivity(t *testing.T) {
	a, err := NewCommentActivity(primitive.NewObjectID(), primitive.NewObjectID(), map[string]string{"target": "a post"})
	require.NoError(t, err)
	assert.Equal(t, ActivityComment, a.Kind)
	require.NotNil(t, a.CommentID)

	_, err = NewCommentActivity(primitive.NewObjectID(), primitive.NilObjectID, nil)
	assert.True(t, IsValidation(err))
}

func TestNewProfileActivity(t *testing.T) {
	for _, kind := range []ActivityKind{ActivitySignup, ActivityLogin, ActivityLogout, ActivityUpdateProfilePicture, ActivityUpdateLocation} {
		a, err := NewProfileActivity(primitive.NewObjectID(), kind, nil)
		require.NoError(t, err, "kind %s", kind)
		assert.Nil(t, a.RecordID)
		assert.Nil(t, a.TargetUserID)
		assert.Nil(t, a.CommentID)
	}

	_, err := NewProfileActivity(primitive.NewObjectID(), ActivityAddRecord, nil)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestActivityValidate(t *testing.T) {
	recordID := primitive.NewObjectID()

	valid := &Activity{ActorID: primitive.NewObjectID(), Kind: ActivityPlayRecord, RecordID: &recordID}
	assert.NoError(t, valid.Validate())

	missingRef := &Activity{ActorID: primitive.NewObjectID(), Kind: ActivityLikeRecord}
	assert.True(t, IsValidation(missingRef.Validate()))

	unknown := &Activity{ActorID: primitive.NewObjectID(), Kind: ActivityKind("dance")}
	assert.True(t, IsValidation(unknown.Validate()))
}
