// Package notifications derives recipient-facing alerts from social actions
// and fronts the notification store with a short-TTL cache.
package notifications

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spinshelf/backend/internal/models"
	"github.com/spinshelf/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection-size and play-count milestones that trigger a milestone
// notification when crossed.
var (
	recordMilestones = []int{100, 500, 1000}
	playMilestones   = []int{100, 1000, 10000}
)

// Dispatcher translates social actions into stored notifications. A user is
// never notified of their own action: Notify is a silent no-op when the
// sender is the recipient. Like-driven notifications must only be dispatched
// on the false->true like transition; the caller suppresses the rest.
type Dispatcher struct {
	repo repositories.NotificationRepository
	log  *logrus.Logger
}

// NewDispatcher creates a Dispatcher over the given repository.
func NewDispatcher(repo repositories.NotificationRepository, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{repo: repo, log: log}
}

// Notify persists an unread notification for the recipient. Returns nil
// without writing when sender == recipient.
func (d *Dispatcher) Notify(ctx context.Context, n *models.Notification) error {
	if n.SenderID != nil && *n.SenderID == n.RecipientID {
		return nil
	}
	return d.repo.CreateNotification(ctx, n)
}

// NotifyFollow alerts a user that someone started following them.
func (d *Dispatcher) NotifyFollow(ctx context.Context, recipient primitive.ObjectID, sender *models.User) {
	n := &models.Notification{
		RecipientID: recipient,
		SenderID:    &sender.ID,
		Kind:        models.NotificationFollow,
		Message:     sender.Username + " started following you",
		Link:        "/users/" + sender.ID.Hex(),
	}
	d.dispatch(ctx, n)
}

// NotifyLike alerts the owner of a liked record or post. Callers invoke this
// only when the like set actually grew.
func (d *Dispatcher) NotifyLike(ctx context.Context, recipient primitive.ObjectID, sender *models.User, recordID, postID *primitive.ObjectID, what string) {
	n := &models.Notification{
		RecipientID: recipient,
		SenderID:    &sender.ID,
		Kind:        models.NotificationLike,
		Message:     sender.Username + " liked " + what,
		RecordID:    recordID,
		PostID:      postID,
	}
	if recordID != nil {
		n.Link = "/records/" + recordID.Hex()
	} else if postID != nil {
		n.Link = "/posts/" + postID.Hex()
	}
	d.dispatch(ctx, n)
}

// NotifyComment alerts the owner of the commented content.
func (d *Dispatcher) NotifyComment(ctx context.Context, recipient primitive.ObjectID, sender *models.User, link, what string) {
	n := &models.Notification{
		RecipientID: recipient,
		SenderID:    &sender.ID,
		Kind:        models.NotificationComment,
		Message:     sender.Username + " commented on " + what,
		Link:        link,
	}
	d.dispatch(ctx, n)
}

// NotifyModeration alerts an author of a moderation decision on their
// submission.
func (d *Dispatcher) NotifyModeration(ctx context.Context, recipient primitive.ObjectID, message, link string) {
	n := &models.Notification{
		RecipientID: recipient,
		Kind:        models.NotificationModeration,
		Message:     message,
		Link:        link,
	}
	d.dispatch(ctx, n)
}

// CheckRecordMilestone dispatches a milestone notification when the user's
// collection size just reached a threshold.
func (d *Dispatcher) CheckRecordMilestone(ctx context.Context, userID primitive.ObjectID, total int) {
	for _, m := range recordMilestones {
		if total == m {
			n := &models.Notification{
				RecipientID: userID,
				Kind:        models.NotificationMilestone,
				Message:     fmt.Sprintf("Your collection just hit %d records!", m),
				Link:        "/records",
			}
			d.dispatch(ctx, n)
			return
		}
	}
}

// CheckPlayMilestone dispatches a milestone notification when the user's
// total play count just reached a threshold.
func (d *Dispatcher) CheckPlayMilestone(ctx context.Context, userID primitive.ObjectID, totalPlays int) {
	for _, m := range playMilestones {
		if totalPlays == m {
			n := &models.Notification{
				RecipientID: userID,
				Kind:        models.NotificationMilestone,
				Message:     fmt.Sprintf("You logged your %dth play. Keep spinning!", m),
				Link:        "/records",
			}
			d.dispatch(ctx, n)
			return
		}
	}
}

// dispatch is the best-effort write path shared by the helpers: failures are
// logged, never surfaced, so notification loss cannot fail the primary
// mutation.
func (d *Dispatcher) dispatch(ctx context.Context, n *models.Notification) {
	if err := d.Notify(ctx, n); err != nil {
		d.log.WithError(err).WithField("kind", n.Kind).Warn("failed to dispatch notification")
	}
}
