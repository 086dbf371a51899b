package reminders

import (
	"time"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

var fixedToday = time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

func dayOffset(days int) string {
	return models.FormatDate(fixedToday.AddDate(0, 0, days))
}

func rabbit(features ...models.TrackingFeature) models.AnimalType {
	if len(features) == 0 {
		features = models.AllFeatures
	}
	return models.AnimalType{
		ID:       "rabbit",
		Name:     "Rabbit",
		Features: features,
		Terminology: models.Terminology{
			Young:      "kits",
			Male:       "buck",
			Female:     "doe",
			BirthEvent: "kindling",
		},
	}
}

func healthRecord(id, typeID string, kind models.HealthRecordType, date string) models.HealthRecord {
	return models.HealthRecord{
		RecordBase:  models.RecordBase{ID: id, AnimalTypeID: typeID, Date: date},
		RecordType:  kind,
		Description: string(kind),
	}
}

func pregnancy(id, typeID, due string) models.BreedingRecord {
	return models.BreedingRecord{
		RecordBase:      models.RecordBase{ID: id, AnimalTypeID: typeID, Date: dayOffset(-25)},
		EventType:       models.BreedingPregnancy,
		ExpectedDueDate: &due,
	}
}

func animals(typeID string, n int, status models.AnimalStatus) []models.AnimalRecord {
	out := make([]models.AnimalRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.AnimalRecord{
			RecordBase: models.RecordBase{ID: typeID + "-" + string(status) + "-" + string(rune('a'+i)), AnimalTypeID: typeID, Date: dayOffset(-100)},
			Name:       "animal",
			Gender:     "female",
			Status:     status,
		})
	}
	return out
}

func ids(ns []models.Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.ID)
	}
	return out
}
