package activity

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

type fakeActivityRepo struct {
	created []models.Activity
	fail    bool
}

func (f *fakeActivityRepo) CreateActivity(ctx context.Context, a *models.Activity) error {
	if f.fail {
		return errors.New("store down")
	}
	a.ID = primitive.NewObjectID()
	f.created = append(f.created, *a)
	return nil
}

func (f *fakeActivityRepo) GetRecent(ctx context.Context, limit int64) ([]models.Activity, error) {
	return f.created, nil
}

func (f *fakeActivityRepo) GetByActor(ctx context.Context, actorID primitive.ObjectID, skip, limit int64) ([]models.Activity, error) {
	return nil, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestRecordPersistsValidActivity(t *testing.T) {
	repo := &fakeActivityRepo{}
	r := NewRecorder(repo, testLogger())

	a, err := models.NewFollowActivity(primitive.NewObjectID(), primitive.NewObjectID())
	require.NoError(t, err)

	stored, err := r.Record(context.Background(), a)
	require.NoError(t, err)
	assert.False(t, stored.ID.IsZero())
	require.Len(t, repo.created, 1)
}

func TestRecordRejectsInvalidActivity(t *testing.T) {
	repo := &fakeActivityRepo{}
	r := NewRecorder(repo, testLogger())

	// bypass the constructors to simulate a corrupted entry
	_, err := r.Record(context.Background(), &models.Activity{
		ActorID: primitive.NewObjectID(),
		Kind:    models.ActivityLikeRecord,
	})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Empty(t, repo.created)
}

func TestRecordFollowSwallowsStoreFailure(t *testing.T) {
	repo := &fakeActivityRepo{fail: true}
	r := NewRecorder(repo, testLogger())

	// best-effort: must not panic, the caller never sees the error
	r.RecordFollow(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.Empty(t, repo.created)
}

func TestRecordRecordActionKinds(t *testing.T) {
	repo := &fakeActivityRepo{}
	r := NewRecorder(repo, testLogger())
	actor := primitive.NewObjectID()
	rec := &models.Record{ID: primitive.NewObjectID(), Title: "Harvest", Artist: "Neil Young"}

	r.RecordRecordAction(context.Background(), actor, models.ActivityAddRecord, rec)
	r.RecordRecordAction(context.Background(), actor, models.ActivityPlayRecord, rec)
	r.RecordRecordAction(context.Background(), actor, models.ActivityLikeRecord, rec)

	require.Len(t, repo.created, 3)
	for _, a := range repo.created {
		require.NotNil(t, a.RecordID)
		assert.Equal(t, rec.ID, *a.RecordID)
	}
}
