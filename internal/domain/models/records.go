package models

import (
	"fmt"
	"strings"
)

// RecordKind tags each record variant.
type RecordKind string

const (
	KindHealth     RecordKind = "health"
	KindBreeding   RecordKind = "breeding"
	KindFeed       RecordKind = "feed"
	KindInventory  RecordKind = "inventory"
	KindProduction RecordKind = "production"
	KindAnimal     RecordKind = "animal"
)

// RecordKinds lists every record variant.
var RecordKinds = []RecordKind{KindHealth, KindBreeding, KindFeed, KindInventory, KindProduction, KindAnimal}

// ParseRecordKind maps a route segment or command argument to a RecordKind.
func ParseRecordKind(value string) (RecordKind, error) {
	v := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(value)), "s")
	for _, k := range RecordKinds {
		if string(k) == v {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownRecordKind, value)
}

// Record is implemented by the six record variants. Field constraints are
// declared as validate tags on each variant.
type Record interface {
	Kind() RecordKind
	Meta() *RecordBase
}

// NewRecord returns an empty record of the given kind, ready for JSON decoding.
func NewRecord(kind RecordKind) (Record, error) {
	switch kind {
	case KindHealth:
		return &HealthRecord{}, nil
	case KindBreeding:
		return &BreedingRecord{}, nil
	case KindFeed:
		return &FeedRecord{}, nil
	case KindInventory:
		return &InventoryRecord{}, nil
	case KindProduction:
		return &ProductionRecord{}, nil
	case KindAnimal:
		return &AnimalRecord{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownRecordKind, kind)
	}
}

// RecordBase holds the fields every record shares.
type RecordBase struct {
	ID           string `json:"id"`
	AnimalTypeID string `json:"animalTypeId" validate:"notblank"`
	Date         string `json:"date" validate:"required,isodate"`
	Notes        string `json:"notes,omitempty" validate:"max=500"`
}

// Meta exposes the shared fields for mutation.
func (b *RecordBase) Meta() *RecordBase { return b }

// EntityID returns the record id.
func (b RecordBase) EntityID() string { return b.ID }

// OwnerID returns the owning animal type id.
func (b RecordBase) OwnerID() string { return b.AnimalTypeID }

// HealthRecordType classifies a health event.
type HealthRecordType string

const (
	HealthCheckup     HealthRecordType = "checkup"
	HealthVaccination HealthRecordType = "vaccination"
	HealthTreatment   HealthRecordType = "treatment"
	HealthInjury      HealthRecordType = "injury"
	HealthIllness     HealthRecordType = "illness"
)

// HealthRecord logs a veterinary or care event.
type HealthRecord struct {
	RecordBase
	RecordType   HealthRecordType `json:"recordType" validate:"oneof=checkup vaccination treatment injury illness"`
	Description  string           `json:"description" validate:"notblank"`
	Veterinarian string           `json:"veterinarian,omitempty"`
	Medication   string           `json:"medication,omitempty"`
	Cost         float64          `json:"cost,omitempty" validate:"finite,gte=0"`
}

func (*HealthRecord) Kind() RecordKind { return KindHealth }

// BreedingEventType classifies a reproduction event.
type BreedingEventType string

const (
	BreedingMating    BreedingEventType = "mating"
	BreedingPregnancy BreedingEventType = "pregnancy"
	BreedingBirth     BreedingEventType = "birth"
	BreedingWeaning   BreedingEventType = "weaning"
)

// BreedingRecord logs a reproduction event.
type BreedingRecord struct {
	RecordBase
	EventType       BreedingEventType `json:"eventType" validate:"oneof=mating pregnancy birth weaning"`
	FemaleID        string            `json:"femaleId,omitempty"`
	MaleID          string            `json:"maleId,omitempty"`
	ExpectedDueDate *string           `json:"expectedDueDate,omitempty" validate:"omitempty,isodate"`
	OffspringCount  *int              `json:"offspringCount,omitempty" validate:"omitempty,gte=0"`
}

func (*BreedingRecord) Kind() RecordKind { return KindBreeding }

// FeedRecord logs feed given to an animal type.
type FeedRecord struct {
	RecordBase
	FeedType string  `json:"feedType" validate:"notblank"`
	Quantity float64 `json:"quantity" validate:"finite,gt=0"`
	Unit     string  `json:"unit"`
	Cost     float64 `json:"cost,omitempty" validate:"finite,gte=0"`
}

func (*FeedRecord) Kind() RecordKind { return KindFeed }

// InventoryAction classifies a stock movement.
type InventoryAction string

const (
	InventoryAdded       InventoryAction = "added"
	InventorySold        InventoryAction = "sold"
	InventoryDeceased    InventoryAction = "deceased"
	InventoryTransferred InventoryAction = "transferred"
)

// InventoryRecord logs a change in head count.
type InventoryRecord struct {
	RecordBase
	Action   InventoryAction `json:"action" validate:"oneof=added sold deceased transferred"`
	Quantity int             `json:"quantity" validate:"gt=0"`
	Reason   string          `json:"reason,omitempty"`
}

func (*InventoryRecord) Kind() RecordKind { return KindInventory }

// ProductionRecord logs output such as eggs, milk or wool.
type ProductionRecord struct {
	RecordBase
	ProductType string  `json:"productType" validate:"notblank"`
	Quantity    float64 `json:"quantity" validate:"finite,gte=0"`
	Unit        string  `json:"unit"`
	Quality     string  `json:"quality,omitempty"`
}

func (*ProductionRecord) Kind() RecordKind { return KindProduction }

// AnimalStatus is the lifecycle state of an individual animal.
type AnimalStatus string

const (
	AnimalActive   AnimalStatus = "active"
	AnimalPregnant AnimalStatus = "pregnant"
	AnimalSick     AnimalStatus = "sick"
	AnimalSold     AnimalStatus = "sold"
	AnimalDeceased AnimalStatus = "deceased"
)

// Live reports whether the animal still counts towards the herd.
func (s AnimalStatus) Live() bool {
	return s != AnimalSold && s != AnimalDeceased
}

// AnimalRecord is an individual animal; Date is the acquisition date.
type AnimalRecord struct {
	RecordBase
	Name      string       `json:"name" validate:"notblank,max=50"`
	TagNumber string       `json:"tagNumber,omitempty"`
	Breed     string       `json:"breed,omitempty"`
	Gender    string       `json:"gender" validate:"oneof=male female"`
	BirthDate string       `json:"birthDate,omitempty" validate:"isodate"`
	Status    AnimalStatus `json:"status" validate:"oneof=active pregnant sick sold deceased"`
	Weight    float64      `json:"weight,omitempty" validate:"finite,gte=0"`
	SireID    string       `json:"sireId,omitempty"`
	DamID     string       `json:"damId,omitempty"`
}

func (*AnimalRecord) Kind() RecordKind { return KindAnimal }

// CheckRelations rejects self-referencing lineage.
func (r *AnimalRecord) CheckRelations(verr *ValidationError) {
	if r.SireID != "" && r.SireID == r.ID {
		verr.Add("sireId", "an animal cannot be its own sire")
	}
	if r.DamID != "" && r.DamID == r.ID {
		verr.Add("damId", "an animal cannot be its own dam")
	}
}

// RecordSet is a read-only snapshot of every record collection.
type RecordSet struct {
	Health     []HealthRecord
	Breeding   []BreedingRecord
	Feed       []FeedRecord
	Inventory  []InventoryRecord
	Production []ProductionRecord
	Animals    []AnimalRecord
}

// ForAnimalType returns the subset of records belonging to one animal type.
func (rs RecordSet) ForAnimalType(id string) RecordSet {
	return RecordSet{
		Health:     filterByType(rs.Health, id),
		Breeding:   filterByType(rs.Breeding, id),
		Feed:       filterByType(rs.Feed, id),
		Inventory:  filterByType(rs.Inventory, id),
		Production: filterByType(rs.Production, id),
		Animals:    filterByType(rs.Animals, id),
	}
}

// Count returns the number of records of the given kind.
func (rs RecordSet) Count(kind RecordKind) int {
	switch kind {
	case KindHealth:
		return len(rs.Health)
	case KindBreeding:
		return len(rs.Breeding)
	case KindFeed:
		return len(rs.Feed)
	case KindInventory:
		return len(rs.Inventory)
	case KindProduction:
		return len(rs.Production)
	case KindAnimal:
		return len(rs.Animals)
	}
	return 0
}

func filterByType[T interface{ OwnerID() string }](records []T, id string) []T {
	var out []T
	for _, r := range records {
		if r.OwnerID() == id {
			out = append(out, r)
		}
	}
	return out
}
