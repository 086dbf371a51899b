package store

import "github.com/mamadbah2/farmdash/internal/domain/models"

// Key names one persisted JSON blob.
type Key string

const (
	KeyProfile              Key = "farmdash.user"
	KeyFarms                Key = "farmdash.farms"
	KeySelectedFarm         Key = "farmdash.selectedFarm"
	KeyAnimalTypes          Key = "farmdash.animalTypes"
	KeySelectedAnimalType   Key = "farmdash.selectedAnimalType"
	KeyAnimals              Key = "farmdash.animals"
	KeyHealthRecords        Key = "farmdash.records.health"
	KeyBreedingRecords      Key = "farmdash.records.breeding"
	KeyFeedRecords          Key = "farmdash.records.feed"
	KeyInventoryRecords     Key = "farmdash.records.inventory"
	KeyProductionRecords    Key = "farmdash.records.production"
	KeyTheme                Key = "farmdash.theme"
	KeyLanguage             Key = "farmdash.language"
	KeyNotificationSettings Key = "farmdash.notificationSettings"
	KeyReadNotifications    Key = "farmdash.readNotifications"
	KeyClearedNotifications Key = "farmdash.clearedNotifications"
)

// schema maps every known key to a constructor for its default value. It is
// used to validate blobs on load and to answer Get for absent keys.
var schema = map[Key]func() any{
	KeyProfile:              func() any { return (*models.UserProfile)(nil) },
	KeyFarms:                func() any { return []models.Farm{} },
	KeySelectedFarm:         func() any { return "" },
	KeyAnimalTypes:          func() any { return []models.AnimalType{} },
	KeySelectedAnimalType:   func() any { return "" },
	KeyAnimals:              func() any { return []models.AnimalRecord{} },
	KeyHealthRecords:        func() any { return []models.HealthRecord{} },
	KeyBreedingRecords:      func() any { return []models.BreedingRecord{} },
	KeyFeedRecords:          func() any { return []models.FeedRecord{} },
	KeyInventoryRecords:     func() any { return []models.InventoryRecord{} },
	KeyProductionRecords:    func() any { return []models.ProductionRecord{} },
	KeyTheme:                func() any { return models.ThemeSystem },
	KeyLanguage:             func() any { return "en" },
	KeyNotificationSettings: func() any { return models.DefaultNotificationSettings() },
	KeyReadNotifications:    func() any { return []string{} },
	KeyClearedNotifications: func() any { return []string{} },
}

// RecordKey returns the key holding records of the given kind.
func RecordKey(kind models.RecordKind) (Key, bool) {
	switch kind {
	case models.KindHealth:
		return KeyHealthRecords, true
	case models.KindBreeding:
		return KeyBreedingRecords, true
	case models.KindFeed:
		return KeyFeedRecords, true
	case models.KindInventory:
		return KeyInventoryRecords, true
	case models.KindProduction:
		return KeyProductionRecords, true
	case models.KindAnimal:
		return KeyAnimals, true
	}
	return "", false
}
