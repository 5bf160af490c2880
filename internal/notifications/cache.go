package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/spinshelf/backend/internal/models"
	"github.com/spinshelf/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultTTL is how long a cached badge summary is served before the store
// is consulted again. The TTL is absolute, measured from capture time.
const DefaultTTL = 30 * time.Second

// recentLimit caps the dropdown list attached to the badge.
const recentLimit = 5

// Summary is the per-user payload behind the unread badge and dropdown.
type Summary struct {
	UnreadCount         int64                 `json:"unread_count"`
	RecentNotifications []models.Notification `json:"recent_notifications"`
	CapturedAt          time.Time             `json:"-"`
}

// Cache is a process-local TTL cache fronting the notification store. It is
// not coherent across instances; each process tolerates up to TTL of
// staleness. Entries are only refreshed by expiry, never invalidated on
// write, apart from the administrative ClearAll hook.
type Cache struct {
	repo  repositories.NotificationRepository
	clock clockwork.Clock
	ttl   time.Duration
	log   *logrus.Logger

	mu      sync.RWMutex
	entries map[primitive.ObjectID]*Summary
}

// NewCache creates a Cache with the given TTL. Pass clockwork.NewRealClock()
// outside tests.
func NewCache(repo repositories.NotificationRepository, clock clockwork.Clock, ttl time.Duration, log *logrus.Logger) *Cache {
	return &Cache{
		repo:    repo,
		clock:   clock,
		ttl:     ttl,
		log:     log,
		entries: make(map[primitive.ObjectID]*Summary),
	}
}

// GetSummary returns the user's badge summary, from cache when a live entry
// exists, otherwise freshly fetched and cached. A store failure degrades to
// an empty summary rather than an error: the badge is best-effort and must
// never block page rendering.
func (c *Cache) GetSummary(ctx context.Context, userID primitive.ObjectID) *Summary {
	now := c.clock.Now()

	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()
	if ok && now.Sub(entry.CapturedAt) <= c.ttl {
		return entry
	}

	fresh, err := c.fetch(ctx, userID)
	if err != nil {
		c.log.WithError(err).WithField("user_id", userID.Hex()).Warn("notification summary fetch failed, serving empty badge")
		return &Summary{RecentNotifications: []models.Notification{}}
	}
	fresh.CapturedAt = now

	c.mu.Lock()
	c.entries[userID] = fresh
	c.mu.Unlock()
	return fresh
}

// ClearAll drops every cached entry immediately.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	c.entries = make(map[primitive.ObjectID]*Summary)
	c.mu.Unlock()
}

func (c *Cache) fetch(ctx context.Context, userID primitive.ObjectID) (*Summary, error) {
	count, err := c.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := c.repo.GetRecent(ctx, userID, recentLimit)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []models.Notification{}
	}
	return &Summary{UnreadCount: count, RecentNotifications: recent}, nil
}
