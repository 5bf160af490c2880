package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spinshelf/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeNotificationRepo is an in-memory NotificationRepository shared by the
// dispatcher and cache tests.
type fakeNotificationRepo struct {
	created []models.Notification

	failCreate      bool
	failUnreadCount bool
	failRecent      bool

	unreadCount int64
	recent      []models.Notification
	fetchCalls  int
}

func (f *fakeNotificationRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	if f.failCreate {
		return errors.New("store down")
	}
	n.ID = primitive.NewObjectID()
	n.Read = false
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotificationRepo) GetByRecipient(ctx context.Context, recipientID primitive.ObjectID, skip, limit int64) ([]models.Notification, int64, error) {
	return f.recent, int64(len(f.recent)), nil
}

func (f *fakeNotificationRepo) GetRecent(ctx context.Context, recipientID primitive.ObjectID, limit int64) ([]models.Notification, error) {
	if f.failRecent {
		return nil, errors.New("store down")
	}
	if int64(len(f.recent)) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeNotificationRepo) GetUnreadCount(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	f.fetchCalls++
	if f.failUnreadCount {
		return 0, errors.New("store down")
	}
	return f.unreadCount, nil
}

func (f *fakeNotificationRepo) MarkAsRead(ctx context.Context, id string, recipientID primitive.ObjectID) error {
	return nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, recipientID primitive.ObjectID) error {
	return nil
}

func (f *fakeNotificationRepo) DeleteNotification(ctx context.Context, id string, recipientID primitive.ObjectID) error {
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestNotifySkipsSelfNotification(t *testing.T) {
	repo := &fakeNotificationRepo{}
	d := NewDispatcher(repo, testLogger())
	userID := primitive.NewObjectID()

	err := d.Notify(context.Background(), &models.Notification{
		RecipientID: userID,
		SenderID:    &userID,
		Kind:        models.NotificationLike,
		Message:     "you liked your own record",
	})
	require.NoError(t, err)
	assert.Empty(t, repo.created)
}

func TestNotifyPersistsForOtherRecipient(t *testing.T) {
	repo := &fakeNotificationRepo{}
	d := NewDispatcher(repo, testLogger())
	sender := primitive.NewObjectID()

	err := d.Notify(context.Background(), &models.Notification{
		RecipientID: primitive.NewObjectID(),
		SenderID:    &sender,
		Kind:        models.NotificationFollow,
		Message:     "someone started following you",
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.False(t, repo.created[0].Read)
}

func TestNotifyFollowSelfIsNoOp(t *testing.T) {
	repo := &fakeNotificationRepo{}
	d := NewDispatcher(repo, testLogger())
	user := &models.User{ID: primitive.NewObjectID(), Username: "wax_collector"}

	d.NotifyFollow(context.Background(), user.ID, user)
	assert.Empty(t, repo.created)
}

func TestCheckRecordMilestone(t *testing.T) {
	repo := &fakeNotificationRepo{}
	d := NewDispatcher(repo, testLogger())
	userID := primitive.NewObjectID()

	d.CheckRecordMilestone(context.Background(), userID, 99)
	assert.Empty(t, repo.created)

	d.CheckRecordMilestone(context.Background(), userID, 100)
	require.Len(t, repo.created, 1)
	assert.Equal(t, models.NotificationMilestone, repo.created[0].Kind)
	assert.Equal(t, userID, repo.created[0].RecipientID)

	// only exact threshold crossings fire
	d.CheckRecordMilestone(context.Background(), userID, 101)
	assert.Len(t, repo.created, 1)

	d.CheckRecordMilestone(context.Background(), userID, 500)
	d.CheckRecordMilestone(context.Background(), userID, 1000)
	assert.Len(t, repo.created, 3)
}

func TestCheckPlayMilestone(t *testing.T) {
	repo := &fakeNotificationRepo{}
	d := NewDispatcher(repo, testLogger())
	userID := primitive.NewObjectID()

	d.CheckPlayMilestone(context.Background(), userID, 999)
	assert.Empty(t, repo.created)

	d.CheckPlayMilestone(context.Background(), userID, 1000)
	require.Len(t, repo.created, 1)
	assert.Equal(t, models.NotificationMilestone, repo.created[0].Kind)
}

func TestNotifyModeration(t *testing.T) {
	repo := &fakeNotificationRepo{}
	d := NewDispatcher(repo, testLogger())
	author := primitive.NewObjectID()

	d.NotifyModeration(context.Background(), author, "Your blog post was approved and published: Crate Digging 101", "/blog/abc")

	require.Len(t, repo.created, 1)
	assert.Equal(t, models.NotificationModeration, repo.created[0].Kind)
	assert.Equal(t, author, repo.created[0].RecipientID)
	assert.Nil(t, repo.created[0].SenderID)
}

func TestNotifyModerationSwallowsStoreFailure(t *testing.T) {
	repo := &fakeNotificationRepo{failCreate: true}
	d := NewDispatcher(repo, testLogger())

	// must not panic or propagate
	d.NotifyModeration(context.Background(), primitive.NewObjectID(), "Your blog post was not approved: B-Sides", "/blog/abc")
	assert.Empty(t, repo.created)
}

func TestDispatchSwallowsStoreFailure(t *testing.T) {
	repo := &fakeNotificationRepo{failCreate: true}
	d := NewDispatcher(repo, testLogger())
	sender := &models.User{ID: primitive.NewObjectID(), Username: "crate_digger"}

	// must not panic or propagate
	d.NotifyFollow(context.Background(), primitive.NewObjectID(), sender)
	assert.Empty(t, repo.created)
}
