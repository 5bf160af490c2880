package repositories

import (
	"context"
	"testing"

	"github.com/spinshelf/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestSetTop8RejectsOversizedList(t *testing.T) {
	// the bound is checked before any store access
	repo := &MongoUserRepository{}
	ids := make([]primitive.ObjectID, models.MaxTop8Records+1)
	for i := range ids {
		ids[i] = primitive.NewObjectID()
	}

	err := repo.SetTop8(context.Background(), primitive.NewObjectID().Hex(), ids)
	assert.True(t, models.IsValidation(err))
}

func TestSetTop8WritesFullList(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("eight records", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		repo := NewMongoUserRepository(mt.DB)

		ids := make([]primitive.ObjectID, models.MaxTop8Records)
		for i := range ids {
			ids[i] = primitive.NewObjectID()
		}
		require.NoError(mt, repo.SetTop8(context.Background(), primitive.NewObjectID().Hex(), ids))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		require.Equal(mt, "update", evt.CommandName)
		stmt := evt.Command.Lookup("updates").Array().Index(0).Value().Document()
		top8, err := stmt.Lookup("u", "$set", "top8").Array().Values()
		require.NoError(mt, err)
		assert.Len(mt, top8, models.MaxTop8Records)
	})
}
