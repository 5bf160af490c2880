package repositories

import (
	"context"
	"testing"

	"github.com/spinshelf/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// updateStatement unwraps the first statement of an update command.
func updateStatement(t *testing.T, evt *event.CommandStartedEvent) bson.Raw {
	t.Helper()
	return evt.Command.Lookup("updates").Array().Index(0).Value().Document()
}

func updateSuccess() bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: 1},
		bson.E{Key: "nModified", Value: 1},
	)
}

func TestCreateTopicBumpsCategoryCounter(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), updateSuccess())
		repo := NewMongoForumRepository(mt.DB)

		topic := &models.ForumTopic{
			CategoryID: primitive.NewObjectID(),
			AuthorID:   primitive.NewObjectID(),
			Title:      "First pressings worth hunting",
		}
		require.NoError(mt, repo.CreateTopic(context.Background(), topic))

		insert := mt.GetStartedEvent()
		require.NotNil(mt, insert)
		assert.Equal(mt, "insert", insert.CommandName)
		assert.Equal(mt, "forum_topics", insert.Command.Lookup("insert").StringValue())

		update := mt.GetStartedEvent()
		require.NotNil(mt, update)
		require.Equal(mt, "update", update.CommandName)
		assert.Equal(mt, "forum_categories", update.Command.Lookup("update").StringValue())
		inc, ok := updateStatement(mt.T, update).Lookup("u", "$inc", "topics_count").AsInt64OK()
		require.True(mt, ok)
		assert.EqualValues(mt, 1, inc)
	})
}

func TestCreatePostMaintainsCounters(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("create", func(mt *mtest.T) {
		topicID := primitive.NewObjectID()
		categoryID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
				{Key: "_id", Value: topicID},
				{Key: "category_id", Value: categoryID},
			}}),
			updateSuccess(),
		)
		repo := NewMongoForumRepository(mt.DB)

		post := &models.ForumPost{
			TopicID:  topicID,
			AuthorID: primitive.NewObjectID(),
			Body:     "The Gatefold sleeve alone is worth it",
		}
		require.NoError(mt, repo.CreatePost(context.Background(), post))

		insert := mt.GetStartedEvent()
		require.NotNil(mt, insert)
		assert.Equal(mt, "insert", insert.CommandName)
		assert.Equal(mt, "forum_posts", insert.Command.Lookup("insert").StringValue())

		// the topic write bumps posts_count and refreshes last_post_at
		topicWrite := mt.GetStartedEvent()
		require.NotNil(mt, topicWrite)
		require.Equal(mt, "findAndModify", topicWrite.CommandName)
		assert.Equal(mt, "forum_topics", topicWrite.Command.Lookup("findAndModify").StringValue())
		inc, ok := topicWrite.Command.Lookup("update", "$inc", "posts_count").AsInt64OK()
		require.True(mt, ok)
		assert.EqualValues(mt, 1, inc)
		_, ok = topicWrite.Command.Lookup("update", "$set", "last_post_at").TimeOK()
		assert.True(mt, ok)

		categoryWrite := mt.GetStartedEvent()
		require.NotNil(mt, categoryWrite)
		require.Equal(mt, "update", categoryWrite.CommandName)
		assert.Equal(mt, "forum_categories", categoryWrite.Command.Lookup("update").StringValue())
		inc, ok = updateStatement(mt.T, categoryWrite).Lookup("u", "$inc", "posts_count").AsInt64OK()
		require.True(mt, ok)
		assert.EqualValues(mt, 1, inc)
	})
}

func TestDeletePostDecrementsCounters(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("delete", func(mt *mtest.T) {
		postID := primitive.NewObjectID()
		topicID := primitive.NewObjectID()
		categoryID := primitive.NewObjectID()
		authorID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
				{Key: "_id", Value: postID},
				{Key: "topic_id", Value: topicID},
				{Key: "author_id", Value: authorID},
			}}),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
				{Key: "_id", Value: topicID},
				{Key: "category_id", Value: categoryID},
			}}),
			updateSuccess(),
		)
		repo := NewMongoForumRepository(mt.DB)

		deleted, err := repo.DeletePost(context.Background(), postID.Hex())
		require.NoError(mt, err)
		require.NotNil(mt, deleted)
		assert.Equal(mt, postID, deleted.ID)
		assert.Equal(mt, authorID, deleted.AuthorID)

		remove := mt.GetStartedEvent()
		require.NotNil(mt, remove)
		require.Equal(mt, "findAndModify", remove.CommandName)
		assert.Equal(mt, "forum_posts", remove.Command.Lookup("findAndModify").StringValue())

		topicWrite := mt.GetStartedEvent()
		require.NotNil(mt, topicWrite)
		require.Equal(mt, "findAndModify", topicWrite.CommandName)
		inc, ok := topicWrite.Command.Lookup("update", "$inc", "posts_count").AsInt64OK()
		require.True(mt, ok)
		assert.EqualValues(mt, -1, inc)

		categoryWrite := mt.GetStartedEvent()
		require.NotNil(mt, categoryWrite)
		require.Equal(mt, "update", categoryWrite.CommandName)
		assert.Equal(mt, "forum_categories", categoryWrite.Command.Lookup("update").StringValue())
		inc, ok = updateStatement(mt.T, categoryWrite).Lookup("u", "$inc", "posts_count").AsInt64OK()
		require.True(mt, ok)
		assert.EqualValues(mt, -1, inc)
	})
}
