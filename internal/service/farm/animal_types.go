package farm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/store"
)

// ListAnimalTypes returns every configured animal type.
func (s *Service) ListAnimalTypes() []models.AnimalType {
	return store.Get[[]models.AnimalType](s.store, store.KeyAnimalTypes)
}

// GetAnimalType looks an animal type up by id.
func (s *Service) GetAnimalType(id string) (models.AnimalType, error) {
	for _, at := range s.ListAnimalTypes() {
		if at.ID == id {
			return at, nil
		}
	}
	return models.AnimalType{}, fmt.Errorf("animal type %s: %w", id, models.ErrNotFound)
}

// CreateAnimalType validates at, fills defaults and stores it. The first type
// created becomes the selected one.
func (s *Service) CreateAnimalType(ctx context.Context, at models.AnimalType) (models.AnimalType, error) {
	at.Name = strings.TrimSpace(at.Name)
	if err := checkForm(at); err != nil {
		return models.AnimalType{}, err
	}

	at = at.WithDefaults()
	at.ID = s.newID()
	at.CreatedAt = s.now().UTC()
	if at.FarmID == "" {
		at.FarmID = store.Get[string](s.store, store.KeySelectedFarm)
	}

	err := store.Update(ctx, s.store, store.KeyAnimalTypes, func(list []models.AnimalType) ([]models.AnimalType, error) {
		if err := checkUniqueName(list, at); err != nil {
			return nil, err
		}
		return append(list, at), nil
	})
	if err != nil {
		return models.AnimalType{}, fmt.Errorf("save animal type: %w", err)
	}

	if store.Get[string](s.store, store.KeySelectedAnimalType) == "" {
		if err := store.Set(ctx, s.store, store.KeySelectedAnimalType, at.ID); err != nil {
			return at, fmt.Errorf("select animal type: %w", err)
		}
	}

	s.logger.Info("animal type created", zap.String("id", at.ID), zap.String("name", at.Name))
	return at, nil
}

// UpdateAnimalType replaces the editable fields of an existing type.
func (s *Service) UpdateAnimalType(ctx context.Context, id string, at models.AnimalType) (models.AnimalType, error) {
	at.Name = strings.TrimSpace(at.Name)
	if err := checkForm(at); err != nil {
		return models.AnimalType{}, err
	}
	at = at.WithDefaults()

	var updated models.AnimalType
	err := store.Update(ctx, s.store, store.KeyAnimalTypes, func(list []models.AnimalType) ([]models.AnimalType, error) {
		for i := range list {
			if list[i].ID != id {
				continue
			}
			at.ID = id
			at.CreatedAt = list[i].CreatedAt
			if at.FarmID == "" {
				at.FarmID = list[i].FarmID
			}
			if err := checkUniqueName(list, at); err != nil {
				return nil, err
			}
			list[i] = at
			updated = at
			return list, nil
		}
		return nil, fmt.Errorf("animal type %s: %w", id, models.ErrNotFound)
	})
	if err != nil {
		return models.AnimalType{}, fmt.Errorf("update animal type: %w", err)
	}
	return updated, nil
}

// DeleteAnimalType removes a type together with every record that belongs to it.
func (s *Service) DeleteAnimalType(ctx context.Context, id string) error {
	err := store.Update(ctx, s.store, store.KeyAnimalTypes, func(list []models.AnimalType) ([]models.AnimalType, error) {
		out, found := removeByID(list, id)
		if !found {
			return nil, fmt.Errorf("animal type %s: %w", id, models.ErrNotFound)
		}
		return out, nil
	})
	if err != nil {
		return fmt.Errorf("delete animal type: %w", err)
	}

	removed := 0
	for _, kind := range models.RecordKinds {
		n, err := recordOpsByKind[kind].removeOwned(ctx, s.store, id)
		if err != nil {
			return fmt.Errorf("delete %s records of %s: %w", kind, id, err)
		}
		removed += n
	}

	if store.Get[string](s.store, store.KeySelectedAnimalType) == id {
		next := ""
		if remaining := s.ListAnimalTypes(); len(remaining) > 0 {
			next = remaining[0].ID
		}
		if err := store.Set(ctx, s.store, store.KeySelectedAnimalType, next); err != nil {
			return fmt.Errorf("reset selected animal type: %w", err)
		}
	}

	s.logger.Info("animal type deleted", zap.String("id", id), zap.Int("records_removed", removed))
	return nil
}

// SelectAnimalType makes id the active animal type.
func (s *Service) SelectAnimalType(ctx context.Context, id string) error {
	if _, err := s.GetAnimalType(id); err != nil {
		return err
	}
	return store.Set(ctx, s.store, store.KeySelectedAnimalType, id)
}

// SelectedAnimalType returns the active animal type, if any.
func (s *Service) SelectedAnimalType() (models.AnimalType, bool) {
	id := store.Get[string](s.store, store.KeySelectedAnimalType)
	if id == "" {
		return models.AnimalType{}, false
	}
	at, err := s.GetAnimalType(id)
	return at, err == nil
}

// FindAnimalType resolves an id or a case-insensitive name.
func (s *Service) FindAnimalType(ref string) (models.AnimalType, error) {
	ref = strings.TrimSpace(ref)
	for _, at := range s.ListAnimalTypes() {
		if at.ID == ref || strings.EqualFold(at.Name, ref) {
			return at, nil
		}
	}
	return models.AnimalType{}, fmt.Errorf("animal type %q: %w", ref, models.ErrNotFound)
}

func checkUniqueName(list []models.AnimalType, at models.AnimalType) error {
	for _, existing := range list {
		if existing.ID != at.ID && strings.EqualFold(existing.Name, at.Name) {
			verr := &models.ValidationError{}
			verr.Add("name", fmt.Sprintf("an animal type named %q already exists", existing.Name))
			return verr
		}
	}
	return nil
}

func removeByID[T interface{ EntityID() string }](list []T, id string) ([]T, bool) {
	out := make([]T, 0, len(list))
	found := false
	for _, item := range list {
		if item.EntityID() == id {
			found = true
			continue
		}
		out = append(out, item)
	}
	return out, found
}
