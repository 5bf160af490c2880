package records

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/spinshelf/backend/internal/models"
	"github.com/spinshelf/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeFeaturedRepo is an in-memory FeaturedRepository.
type fakeFeaturedRepo struct {
	slots []models.FeaturedRecord
}

func (f *fakeFeaturedRepo) List(ctx context.Context) ([]models.FeaturedRecord, error) {
	out := make([]models.FeaturedRecord, len(f.slots))
	copy(out, f.slots)
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *fakeFeaturedRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.slots)), nil
}

func (f *fakeFeaturedRepo) GetByNaturalKey(ctx context.Context, title, artist string) (*models.FeaturedRecord, error) {
	for i := range f.slots {
		if f.slots[i].Title == title && f.slots[i].Artist == artist {
			s := f.slots[i]
			return &s, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeFeaturedRepo) GetByRecordID(ctx context.Context, recordID primitive.ObjectID) (*models.FeaturedRecord, error) {
	for i := range f.slots {
		if f.slots[i].RecordID == recordID {
			s := f.slots[i]
			return &s, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeFeaturedRepo) Insert(ctx context.Context, slot *models.FeaturedRecord) error {
	slot.ID = primitive.NewObjectID()
	f.slots = append(f.slots, *slot)
	return nil
}

func (f *fakeFeaturedRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i := range f.slots {
		if f.slots[i].ID == id {
			f.slots = append(f.slots[:i], f.slots[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeFeaturedRepo) SetOrder(ctx context.Context, id primitive.ObjectID, order int) error {
	for i := range f.slots {
		if f.slots[i].ID == id {
			f.slots[i].Order = order
			return nil
		}
	}
	return models.ErrNotFound
}

// fakeRecordRepo only tracks the heavy_rotation flag the slot manager flips.
type fakeRecordRepo struct {
	repositories.RecordRepository
	heavy map[string]bool
}

func (f *fakeRecordRepo) SetHeavyRotation(ctx context.Context, id string, heavy bool) error {
	f.heavy[id] = heavy
	return nil
}

func newSlotFixture() (*SlotManager, *fakeFeaturedRepo, *fakeRecordRepo) {
	featured := &fakeFeaturedRepo{}
	records := &fakeRecordRepo{heavy: make(map[string]bool)}
	return NewSlotManager(featured, records), featured, records
}

func newRecord(title, artist string) *models.Record {
	return &models.Record{ID: primitive.NewObjectID(), Title: title, Artist: artist}
}

func assertDenseOrder(t *testing.T, repo *fakeFeaturedRepo) {
	t.Helper()
	slots, err := repo.List(context.Background())
	require.NoError(t, err)
	for i := range slots {
		assert.Equal(t, i+1, slots[i].Order)
	}
}

func TestSetFeaturedAssignsNextOrder(t *testing.T) {
	m, repo, records := newSlotFixture()
	rec := newRecord("Loveless", "My Bloody Valentine")

	require.NoError(t, m.SetFeatured(context.Background(), rec))

	slots, _ := repo.List(context.Background())
	require.Len(t, slots, 1)
	assert.Equal(t, 1, slots[0].Order)
	assert.Equal(t, rec.ID, slots[0].RecordID)
	assert.True(t, records.heavy[rec.ID.Hex()])
}

func TestSetFeaturedIdempotentByNaturalKey(t *testing.T) {
	m, repo, _ := newSlotFixture()
	first := newRecord("Nevermind", "Nirvana")
	duplicate := newRecord("Nevermind", "Nirvana")

	require.NoError(t, m.SetFeatured(context.Background(), first))
	require.NoError(t, m.SetFeatured(context.Background(), duplicate))

	slots, _ := repo.List(context.Background())
	require.Len(t, slots, 1)
	assert.Equal(t, first.ID, slots[0].RecordID)
}

func TestSetFeaturedSilentlyRefusesAtCap(t *testing.T) {
	m, repo, records := newSlotFixture()
	for i := 0; i < models.MaxFeaturedRecords; i++ {
		require.NoError(t, m.SetFeatured(context.Background(), newRecord(fmt.Sprintf("Album %d", i), "Artist")))
	}

	overflow := newRecord("One Too Many", "Artist")
	require.NoError(t, m.SetFeatured(context.Background(), overflow))

	slots, _ := repo.List(context.Background())
	assert.Len(t, slots, models.MaxFeaturedRecords)
	assert.False(t, records.heavy[overflow.ID.Hex()])
	assertDenseOrder(t, repo)
}

func TestSetFeaturedStrictErrorsAtCap(t *testing.T) {
	m, _, _ := newSlotFixture()
	for i := 0; i < models.MaxFeaturedRecords; i++ {
		require.NoError(t, m.SetFeaturedStrict(context.Background(), newRecord(fmt.Sprintf("Album %d", i), "Artist")))
	}

	err := m.SetFeaturedStrict(context.Background(), newRecord("One Too Many", "Artist"))
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}

func TestUnsetFeaturedRepacksOrders(t *testing.T) {
	m, repo, records := newSlotFixture()
	recs := make([]*models.Record, 0, 4)
	for i := 0; i < 4; i++ {
		rec := newRecord(fmt.Sprintf("Album %d", i), "Artist")
		recs = append(recs, rec)
		require.NoError(t, m.SetFeatured(context.Background(), rec))
	}

	// remove the second slot; the gap must close
	require.NoError(t, m.UnsetFeatured(context.Background(), recs[1]))

	slots, _ := repo.List(context.Background())
	require.Len(t, slots, 3)
	assertDenseOrder(t, repo)
	assert.False(t, records.heavy[recs[1].ID.Hex()])
	assert.Equal(t, recs[0].ID, slots[0].RecordID)
	assert.Equal(t, recs[2].ID, slots[1].RecordID)
	assert.Equal(t, recs[3].ID, slots[2].RecordID)
}

func TestUnsetFeaturedAfterRecordRename(t *testing.T) {
	m, repo, records := newSlotFixture()
	rec := newRecord("Original Title", "Artist")
	require.NoError(t, m.SetFeatured(context.Background(), rec))

	// the slot keeps the old title, so the natural key no longer matches
	rec.Title = "Renamed Title"
	require.NoError(t, m.UnsetFeatured(context.Background(), rec))

	slots, _ := repo.List(context.Background())
	assert.Empty(t, slots)
	assert.False(t, records.heavy[rec.ID.Hex()])
}

func TestUnsetFeaturedMissingIsNoOp(t *testing.T) {
	m, _, _ := newSlotFixture()
	assert.NoError(t, m.UnsetFeatured(context.Background(), newRecord("Never Featured", "Nobody")))
}

func TestReorderShiftsBetween(t *testing.T) {
	m, repo, _ := newSlotFixture()
	recs := make([]*models.Record, 0, 5)
	for i := 0; i < 5; i++ {
		rec := newRecord(fmt.Sprintf("Album %d", i), "Artist")
		recs = append(recs, rec)
		require.NoError(t, m.SetFeatured(context.Background(), rec))
	}

	slots, _ := repo.List(context.Background())
	// move the last slot to the front
	require.NoError(t, m.Reorder(context.Background(), slots[4].ID.Hex(), 1))

	reordered, _ := repo.List(context.Background())
	assertDenseOrder(t, repo)
	assert.Equal(t, recs[4].ID, reordered[0].RecordID)
	assert.Equal(t, recs[0].ID, reordered[1].RecordID)
	assert.Equal(t, recs[3].ID, reordered[4].RecordID)
}

func TestReorderRejectsOutOfRange(t *testing.T) {
	m, repo, _ := newSlotFixture()
	require.NoError(t, m.SetFeatured(context.Background(), newRecord("Solo", "Artist")))

	slots, _ := repo.List(context.Background())
	assert.True(t, models.IsValidation(m.Reorder(context.Background(), slots[0].ID.Hex(), 0)))
	assert.True(t, models.IsValidation(m.Reorder(context.Background(), slots[0].ID.Hex(), 2)))
}

func TestReorderUnknownSlot(t *testing.T) {
	m, _, _ := newSlotFixture()
	require.NoError(t, m.SetFeatured(context.Background(), newRecord("Solo", "Artist")))

	err := m.Reorder(context.Background(), primitive.NewObjectID().Hex(), 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
