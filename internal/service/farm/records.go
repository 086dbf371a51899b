package farm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/store"
)

// recordPtr ties a record value type to its pointer, which implements models.Record.
type recordPtr[T any] interface {
	*T
	models.Record
}

// recordOps are the persistence operations of one record kind.
type recordOps struct {
	list        func(st *store.Store, animalTypeID string) []models.Record
	insert      func(ctx context.Context, st *store.Store, rec models.Record) error
	replace     func(ctx context.Context, st *store.Store, rec models.Record) error
	remove      func(ctx context.Context, st *store.Store, id string) error
	removeOwned func(ctx context.Context, st *store.Store, animalTypeID string) (int, error)
}

var recordOpsByKind = map[models.RecordKind]recordOps{
	models.KindHealth:     opsFor[models.HealthRecord](store.KeyHealthRecords),
	models.KindBreeding:   opsFor[models.BreedingRecord](store.KeyBreedingRecords),
	models.KindFeed:       opsFor[models.FeedRecord](store.KeyFeedRecords),
	models.KindInventory:  opsFor[models.InventoryRecord](store.KeyInventoryRecords),
	models.KindProduction: opsFor[models.ProductionRecord](store.KeyProductionRecords),
	models.KindAnimal:     opsFor[models.AnimalRecord](store.KeyAnimals),
}

func opsFor[T any, P recordPtr[T]](key store.Key) recordOps {
	return recordOps{
		list: func(st *store.Store, animalTypeID string) []models.Record {
			items := store.Get[[]T](st, key)
			out := make([]models.Record, 0, len(items))
			for i := range items {
				rec := P(&items[i])
				if animalTypeID != "" && rec.Meta().AnimalTypeID != animalTypeID {
					continue
				}
				out = append(out, rec)
			}
			return out
		},
		insert: func(ctx context.Context, st *store.Store, rec models.Record) error {
			typed, ok := rec.(P)
			if !ok {
				return fmt.Errorf("%w: %T", models.ErrUnknownRecordKind, rec)
			}
			return store.Update(ctx, st, key, func(list []T) ([]T, error) {
				return append(list, *typed), nil
			})
		},
		replace: func(ctx context.Context, st *store.Store, rec models.Record) error {
			typed, ok := rec.(P)
			if !ok {
				return fmt.Errorf("%w: %T", models.ErrUnknownRecordKind, rec)
			}
			id := typed.Meta().ID
			return store.Update(ctx, st, key, func(list []T) ([]T, error) {
				for i := range list {
					if P(&list[i]).Meta().ID == id {
						list[i] = *typed
						return list, nil
					}
				}
				return nil, fmt.Errorf("%s record %s: %w", typed.Kind(), id, models.ErrNotFound)
			})
		},
		remove: func(ctx context.Context, st *store.Store, id string) error {
			return store.Update(ctx, st, key, func(list []T) ([]T, error) {
				out := make([]T, 0, len(list))
				for i := range list {
					if P(&list[i]).Meta().ID != id {
						out = append(out, list[i])
					}
				}
				if len(out) == len(list) {
					return nil, fmt.Errorf("record %s: %w", id, models.ErrNotFound)
				}
				return out, nil
			})
		},
		removeOwned: func(ctx context.Context, st *store.Store, animalTypeID string) (int, error) {
			removed := 0
			err := store.Update(ctx, st, key, func(list []T) ([]T, error) {
				out := make([]T, 0, len(list))
				for i := range list {
					if P(&list[i]).Meta().AnimalTypeID == animalTypeID {
						removed++
						continue
					}
					out = append(out, list[i])
				}
				return out, nil
			})
			return removed, err
		},
	}
}

func opsOf(kind models.RecordKind) (recordOps, error) {
	ops, ok := recordOpsByKind[kind]
	if !ok {
		return recordOps{}, fmt.Errorf("%w: %s", models.ErrUnknownRecordKind, kind)
	}
	return ops, nil
}

// ListRecords returns the records of one kind, newest first. Records with an
// unparseable date sort last. An empty animalTypeID lists every type.
func (s *Service) ListRecords(kind models.RecordKind, animalTypeID string) ([]models.Record, error) {
	ops, err := opsOf(kind)
	if err != nil {
		return nil, err
	}
	out := ops.list(s.store, animalTypeID)

	dates := make(map[models.Record]time.Time, len(out))
	for _, rec := range out {
		if d, err := models.ParseDate(rec.Meta().Date); err == nil {
			dates[rec] = d
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, iok := dates[out[i]]
		dj, jok := dates[out[j]]
		if iok != jok {
			return iok
		}
		return di.After(dj)
	})
	return out, nil
}

// GetRecord looks one record up by kind and id.
func (s *Service) GetRecord(kind models.RecordKind, id string) (models.Record, error) {
	ops, err := opsOf(kind)
	if err != nil {
		return nil, err
	}
	for _, rec := range ops.list(s.store, "") {
		if rec.Meta().ID == id {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("%s record %s: %w", kind, id, models.ErrNotFound)
}

// CreateRecord assigns an id, validates and stores rec.
func (s *Service) CreateRecord(ctx context.Context, rec models.Record) (models.Record, error) {
	ops, err := opsOf(rec.Kind())
	if err != nil {
		return nil, err
	}

	rec.Meta().ID = s.newID()
	if err := s.validateRecord(rec); err != nil {
		return nil, err
	}
	if err := ops.insert(ctx, s.store, rec); err != nil {
		return nil, fmt.Errorf("save %s record: %w", rec.Kind(), err)
	}

	s.logger.Debug("record created",
		zap.String("kind", string(rec.Kind())),
		zap.String("id", rec.Meta().ID),
		zap.String("animal_type_id", rec.Meta().AnimalTypeID),
	)
	return rec, nil
}

// UpdateRecord replaces the record with the given id.
func (s *Service) UpdateRecord(ctx context.Context, id string, rec models.Record) (models.Record, error) {
	ops, err := opsOf(rec.Kind())
	if err != nil {
		return nil, err
	}

	rec.Meta().ID = id
	if err := s.validateRecord(rec); err != nil {
		return nil, err
	}
	if err := ops.replace(ctx, s.store, rec); err != nil {
		return nil, fmt.Errorf("update %s record: %w", rec.Kind(), err)
	}
	return rec, nil
}

// DeleteRecord removes one record.
func (s *Service) DeleteRecord(ctx context.Context, kind models.RecordKind, id string) error {
	ops, err := opsOf(kind)
	if err != nil {
		return err
	}
	if err := ops.remove(ctx, s.store, id); err != nil {
		return fmt.Errorf("delete %s record: %w", kind, err)
	}
	return nil
}

func (s *Service) validateRecord(rec models.Record) error {
	meta := rec.Meta()
	meta.AnimalTypeID = strings.TrimSpace(meta.AnimalTypeID)
	meta.Date = strings.TrimSpace(meta.Date)
	if err := checkForm(rec); err != nil {
		return err
	}

	if _, err := s.GetAnimalType(meta.AnimalTypeID); err != nil {
		verr := &models.ValidationError{}
		verr.Add("animalTypeId", fmt.Sprintf("unknown animal type %q", meta.AnimalTypeID))
		return verr
	}
	return nil
}
