// Package records holds collection-level policy that spans more than one
// repository, currently the featured promotional slots.
package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/spinshelf/backend/internal/models"
	"github.com/spinshelf/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SlotManager maintains the bounded, densely-ordered featured record list:
// at most models.MaxFeaturedRecords slots whose orders always form 1..N.
// It also keeps each record's heavy_rotation flag in sync with its featured
// state.
type SlotManager struct {
	featured repositories.FeaturedRepository
	records  repositories.RecordRepository
}

// NewSlotManager creates a SlotManager.
func NewSlotManager(featured repositories.FeaturedRepository, records repositories.RecordRepository) *SlotManager {
	return &SlotManager{featured: featured, records: records}
}

// List returns the current slots in display order.
func (m *SlotManager) List(ctx context.Context) ([]models.FeaturedRecord, error) {
	return m.featured.List(ctx)
}

// SetFeatured promotes a record. Idempotent by natural key: a slot with the
// same title+artist already present is a no-op. When all slots are occupied
// the request is silently refused (the promoted set saturates); strict
// callers that need the failure should use SetFeaturedStrict.
func (m *SlotManager) SetFeatured(ctx context.Context, record *models.Record) error {
	err := m.SetFeaturedStrict(ctx, record)
	var v *models.ValidationError
	if errors.As(err, &v) {
		return nil
	}
	return err
}

// SetFeaturedStrict is SetFeatured except that a full slot list is a
// ValidationError instead of a silent no-op. Used by the admin endpoint.
func (m *SlotManager) SetFeaturedStrict(ctx context.Context, record *models.Record) error {
	if _, err := m.featured.GetByNaturalKey(ctx, record.Title, record.Artist); err == nil {
		return nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	count, err := m.featured.Count(ctx)
	if err != nil {
		return err
	}
	if count >= models.MaxFeaturedRecords {
		return models.NewValidationError(fmt.Sprintf("maximum of %d featured records allowed", models.MaxFeaturedRecords))
	}

	slot := &models.FeaturedRecord{
		RecordID: record.ID,
		Title:    record.Title,
		Artist:   record.Artist,
		ImageURL: record.ImageURL,
		Order:    int(count) + 1,
	}
	if err := m.featured.Insert(ctx, slot); err != nil {
		return err
	}
	return m.records.SetHeavyRotation(ctx, record.ID.Hex(), true)
}

// UnsetFeatured removes the slot promoting the given record and repacks the
// remaining orders to a dense 1..N, preserving relative order.
func (m *SlotManager) UnsetFeatured(ctx context.Context, record *models.Record) error {
	slot, err := m.featured.GetByNaturalKey(ctx, record.Title, record.Artist)
	if errors.Is(err, models.ErrNotFound) {
		// The record may have been renamed after it was promoted.
		slot, err = m.featured.GetByRecordID(ctx, record.ID)
	}
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := m.featured.Delete(ctx, slot.ID); err != nil {
		return err
	}
	if err := m.records.SetHeavyRotation(ctx, record.ID.Hex(), false); err != nil {
		return err
	}
	return m.repack(ctx)
}

// Reorder moves one slot to newOrder, shifting the slots in between to keep
// orders unique and dense.
func (m *SlotManager) Reorder(ctx context.Context, slotID string, newOrder int) error {
	slots, err := m.featured.List(ctx)
	if err != nil {
		return err
	}
	if newOrder < 1 || newOrder > len(slots) {
		return models.NewValidationError(fmt.Sprintf("order must be between 1 and %d", len(slots)))
	}

	objID, err := primitive.ObjectIDFromHex(slotID)
	if err != nil {
		return fmt.Errorf("invalid featured record ID format: %w", err)
	}

	idx := -1
	for i := range slots {
		if slots[i].ID == objID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.ErrNotFound
	}

	moved := slots[idx]
	slots = append(slots[:idx], slots[idx+1:]...)
	rest := make([]models.FeaturedRecord, 0, len(slots)+1)
	rest = append(rest, slots[:newOrder-1]...)
	rest = append(rest, moved)
	rest = append(rest, slots[newOrder-1:]...)

	for i := range rest {
		if rest[i].Order == i+1 {
			continue
		}
		if err := m.featured.SetOrder(ctx, rest[i].ID, i+1); err != nil {
			return err
		}
	}
	return nil
}

// repack rewrites orders to 1..N after a removal.
func (m *SlotManager) repack(ctx context.Context) error {
	slots, err := m.featured.List(ctx)
	if err != nil {
		return err
	}
	for i := range slots {
		if slots[i].Order == i+1 {
			continue
		}
		if err := m.featured.SetOrder(ctx, slots[i].ID, i+1); err != nil {
			return err
		}
	}
	return nil
}
