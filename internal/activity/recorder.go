// Package activity provides the append-only write path for the activity log.
package activity

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spinshelf/backend/internal/models"
	"github.com/spinshelf/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recorder appends immutable activity entries. Recording is a best-effort
// side channel: callers must never fail or roll back the primary mutation
// when a Record call errors, only log it.
type Recorder struct {
	repo repositories.ActivityRepository
	log  *logrus.Logger
}

// NewRecorder creates a Recorder over the given repository.
func NewRecorder(repo repositories.ActivityRepository, log *logrus.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Record validates and persists an activity, returning the stored entry.
// A missing kind-mandated reference fails with a ValidationError before
// anything is written.
func (r *Recorder) Record(ctx context.Context, a *models.Activity) (*models.Activity, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := r.repo.CreateActivity(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// RecordRecordAction logs an add/play/like on a record. Errors are logged
// and swallowed so callers can fire-and-forget.
func (r *Recorder) RecordRecordAction(ctx context.Context, actor primitive.ObjectID, kind models.ActivityKind, record *models.Record) {
	a, err := models.NewRecordActivity(actor, kind, record.ID, map[string]string{
		"title":  record.Title,
		"artist": record.Artist,
	})
	if err == nil {
		_, err = r.Record(ctx, a)
	}
	if err != nil {
		r.log.WithError(err).WithField("kind", kind).Warn("failed to record activity")
	}
}

// RecordFollow logs a follow_user activity, best-effort.
func (r *Recorder) RecordFollow(ctx context.Context, actor, target primitive.ObjectID) {
	a, err := models.NewFollowActivity(actor, target)
	if err == nil {
		_, err = r.Record(ctx, a)
	}
	if err != nil {
		r.log.WithError(err).Warn("failed to record follow activity")
	}
}

// RecordComment logs a comment activity, best-effort.
func (r *Recorder) RecordComment(ctx context.Context, actor, commentID primitive.ObjectID, details map[string]string) {
	a, err := models.NewCommentActivity(actor, commentID, details)
	if err == nil {
		_, err = r.Record(ctx, a)
	}
	if err != nil {
		r.log.WithError(err).Warn("failed to record comment activity")
	}
}

// RecordProfileAction logs a reference-free activity (signup, login, logout,
// profile picture or location update), best-effort.
func (r *Recorder) RecordProfileAction(ctx context.Context, actor primitive.ObjectID, kind models.ActivityKind, details map[string]string) {
	a, err := models.NewProfileActivity(actor, kind, details)
	if err == nil {
		_, err = r.Record(ctx, a)
	}
	if err != nil {
		r.log.WithError(err).WithField("kind", kind).Warn("failed to record activity")
	}
}
