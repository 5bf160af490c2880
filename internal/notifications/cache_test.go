package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spinshelf/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGetSummaryCachesWithinTTL(t *testing.T) {
	repo := &fakeNotificationRepo{unreadCount: 3}
	clock := clockwork.NewFakeClock()
	cache := NewCache(repo, clock, DefaultTTL, testLogger())
	userID := primitive.NewObjectID()

	first := cache.GetSummary(context.Background(), userID)
	assert.Equal(t, int64(3), first.UnreadCount)
	assert.Equal(t, 1, repo.fetchCalls)

	// a write behind the cache is not visible before expiry
	repo.unreadCount = 7
	clock.Advance(29 * time.Second)

	second := cache.GetSummary(context.Background(), userID)
	assert.Equal(t, int64(3), second.UnreadCount)
	assert.Equal(t, 1, repo.fetchCalls)
}

func TestGetSummaryRefetchesAfterTTL(t *testing.T) {
	repo := &fakeNotificationRepo{unreadCount: 3}
	clock := clockwork.NewFakeClock()
	cache := NewCache(repo, clock, DefaultTTL, testLogger())
	userID := primitive.NewObjectID()

	cache.GetSummary(context.Background(), userID)

	repo.unreadCount = 7
	clock.Advance(31 * time.Second)

	refreshed := cache.GetSummary(context.Background(), userID)
	assert.Equal(t, int64(7), refreshed.UnreadCount)
	assert.Equal(t, 2, repo.fetchCalls)
}

func TestGetSummaryIsPerUser(t *testing.T) {
	repo := &fakeNotificationRepo{unreadCount: 1}
	clock := clockwork.NewFakeClock()
	cache := NewCache(repo, clock, DefaultTTL, testLogger())

	cache.GetSummary(context.Background(), primitive.NewObjectID())
	cache.GetSummary(context.Background(), primitive.NewObjectID())
	assert.Equal(t, 2, repo.fetchCalls)
}

func TestGetSummaryDegradesOnStoreFailure(t *testing.T) {
	repo := &fakeNotificationRepo{failUnreadCount: true}
	clock := clockwork.NewFakeClock()
	cache := NewCache(repo, clock, DefaultTTL, testLogger())
	userID := primitive.NewObjectID()

	summary := cache.GetSummary(context.Background(), userID)
	require.NotNil(t, summary)
	assert.Zero(t, summary.UnreadCount)
	assert.Empty(t, summary.RecentNotifications)

	// failures are not cached: the store recovering is picked up immediately
	repo.failUnreadCount = false
	repo.unreadCount = 4
	recovered := cache.GetSummary(context.Background(), userID)
	assert.Equal(t, int64(4), recovered.UnreadCount)
}

func TestGetSummaryRecentCappedAtFive(t *testing.T) {
	repo := &fakeNotificationRepo{}
	for i := 0; i < 8; i++ {
		repo.recent = append(repo.recent, models.Notification{
			ID:      primitive.NewObjectID(),
			Kind:    models.NotificationLike,
			Message: "someone liked your record",
		})
	}
	clock := clockwork.NewFakeClock()
	cache := NewCache(repo, clock, DefaultTTL, testLogger())

	summary := cache.GetSummary(context.Background(), primitive.NewObjectID())
	assert.Len(t, summary.RecentNotifications, recentLimit)
}

func TestClearAllForcesRefetch(t *testing.T) {
	repo := &fakeNotificationRepo{unreadCount: 2}
	clock := clockwork.NewFakeClock()
	cache := NewCache(repo, clock, DefaultTTL, testLogger())
	userID := primitive.NewObjectID()

	cache.GetSummary(context.Background(), userID)
	assert.Equal(t, 1, repo.fetchCalls)

	cache.ClearAll()

	repo.unreadCount = 9
	fresh := cache.GetSummary(context.Background(), userID)
	assert.Equal(t, int64(9), fresh.UnreadCount)
	assert.Equal(t, 2, repo.fetchCalls)
}
