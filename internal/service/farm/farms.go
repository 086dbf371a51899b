package farm

import (
	"context"
	"fmt"
	"strings"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/store"
)

// ListFarms returns every farm.
func (s *Service) ListFarms() []models.Farm {
	return store.Get[[]models.Farm](s.store, store.KeyFarms)
}

// CreateFarm stores a new farm and selects it when none is selected yet.
func (s *Service) CreateFarm(ctx context.Context, name, location string) (models.Farm, error) {
	f := models.Farm{
		Name:     strings.TrimSpace(name),
		Location: strings.TrimSpace(location),
	}
	if err := checkForm(f); err != nil {
		return models.Farm{}, err
	}
	f.ID = s.newID()
	f.CreatedAt = s.now().UTC()

	err := store.Update(ctx, s.store, store.KeyFarms, func(list []models.Farm) ([]models.Farm, error) {
		return append(list, f), nil
	})
	if err != nil {
		return models.Farm{}, fmt.Errorf("save farm: %w", err)
	}

	if store.Get[string](s.store, store.KeySelectedFarm) == "" {
		if err := store.Set(ctx, s.store, store.KeySelectedFarm, f.ID); err != nil {
			return f, fmt.Errorf("select farm: %w", err)
		}
	}
	return f, nil
}

// SelectFarm makes id the active farm.
func (s *Service) SelectFarm(ctx context.Context, id string) error {
	for _, f := range s.ListFarms() {
		if f.ID == id {
			return store.Set(ctx, s.store, store.KeySelectedFarm, id)
		}
	}
	return fmt.Errorf("farm %s: %w", id, models.ErrNotFound)
}

// SelectedFarm returns the active farm, if any.
func (s *Service) SelectedFarm() (models.Farm, bool) {
	id := store.Get[string](s.store, store.KeySelectedFarm)
	for _, f := range s.ListFarms() {
		if f.ID == id {
			return f, true
		}
	}
	return models.Farm{}, false
}
