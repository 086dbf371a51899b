package farm

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

func TestCheckForm_Records(t *testing.T) {
	base := models.RecordBase{AnimalTypeID: "hens", Date: "2026-03-15"}
	count := -1
	due := "soon"
	empty := ""

	tests := []struct {
		name   string
		rec    models.Record
		fields map[string]string
	}{
		{"valid health", &models.HealthRecord{RecordBase: base, RecordType: models.HealthVaccination, Description: "ND"}, nil},
		{"health missing fields", &models.HealthRecord{}, map[string]string{
			"animalTypeId": "is required",
			"date":         "is required",
			"recordType":   "must be one of checkup, vaccination, treatment, injury, illness",
			"description":  "is required",
		}},
		{"blank animal type", &models.FeedRecord{RecordBase: models.RecordBase{AnimalTypeID: "  ", Date: "2026-03-15"}, FeedType: "mash", Quantity: 1}, map[string]string{
			"animalTypeId": "is required",
		}},
		{"breeding bad due date", &models.BreedingRecord{RecordBase: base, EventType: models.BreedingPregnancy, ExpectedDueDate: &due, OffspringCount: &count}, map[string]string{
			"expectedDueDate": "must be a YYYY-MM-DD date",
			"offspringCount":  "must not be negative",
		}},
		{"breeding empty due date", &models.BreedingRecord{RecordBase: base, EventType: models.BreedingMating, ExpectedDueDate: &empty}, nil},
		{"feed zero quantity", &models.FeedRecord{RecordBase: base, FeedType: "mash"}, map[string]string{"quantity": "must be positive"}},
		{"feed NaN quantity", &models.FeedRecord{RecordBase: base, FeedType: "mash", Quantity: math.NaN()}, map[string]string{"quantity": "must be a finite number"}},
		{"feed infinite quantity", &models.FeedRecord{RecordBase: base, FeedType: "mash", Quantity: math.Inf(1)}, map[string]string{"quantity": "must be a finite number"}},
		{"feed NaN cost", &models.FeedRecord{RecordBase: base, FeedType: "mash", Quantity: 1, Cost: math.NaN()}, map[string]string{"cost": "must be a finite number"}},
		{"inventory unknown action", &models.InventoryRecord{RecordBase: base, Action: "stolen", Quantity: 1}, map[string]string{
			"action": "must be one of added, sold, deceased, transferred",
		}},
		{"production negative", &models.ProductionRecord{RecordBase: base, ProductType: "eggs", Quantity: -1}, map[string]string{"quantity": "must not be negative"}},
		{"production NaN", &models.ProductionRecord{RecordBase: base, ProductType: "eggs", Quantity: math.NaN()}, map[string]string{"quantity": "must be a finite number"}},
		{"animal self sire", &models.AnimalRecord{RecordBase: models.RecordBase{ID: "a1", AnimalTypeID: "hens", Date: "2026-03-15"}, Name: "Ada", Gender: "female", Status: models.AnimalActive, SireID: "a1"}, map[string]string{
			"sireId": "an animal cannot be its own sire",
		}},
		{"animal bad gender and long name", &models.AnimalRecord{RecordBase: base, Name: strings.Repeat("a", 51), Gender: "hen", Status: models.AnimalActive}, map[string]string{
			"gender": "must be one of male, female",
			"name":   "must be at most 50 characters",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkForm(tt.rec)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.fields, verr.Fields)
		})
	}
}

func TestCheckForm_AnimalType(t *testing.T) {
	ok := models.AnimalType{Name: "Rabbit", Features: []models.TrackingFeature{models.FeatureHealth}}
	require.NoError(t, checkForm(ok))

	var verr *models.ValidationError
	require.ErrorAs(t, checkForm(models.AnimalType{Name: " ", Features: []models.TrackingFeature{"flying"}}), &verr)
	assert.Equal(t, "is required", verr.Fields["name"])
	assert.Equal(t, `unknown tracking feature "flying"`, verr.Fields["features"])

	require.ErrorAs(t, checkForm(models.AnimalType{Name: "Goats"}), &verr)
	assert.Equal(t, "at least 1 must be selected", verr.Fields["features"])
}

func TestCheckForm_Settings(t *testing.T) {
	assert.NoError(t, checkForm(models.DefaultNotificationSettings()))

	s := models.DefaultNotificationSettings()
	s.HealthCheckIntervalDays = 0
	s.VaccinationDaysBefore = 400
	s.LowInventoryThreshold = -1

	var verr *models.ValidationError
	require.ErrorAs(t, checkForm(s), &verr)
	assert.Equal(t, map[string]string{
		"healthCheckIntervalDays": "must be at least 1",
		"vaccinationDaysBefore":   "must be at most 365",
		"lowInventoryThreshold":   "must not be negative",
	}, verr.Fields)

	assert.NoError(t, checkForm(models.Preferences{}))
	require.ErrorAs(t, checkForm(models.Preferences{Theme: "neon", Language: "de"}), &verr)
	assert.Equal(t, "must be one of light, dark, system", verr.Fields["theme"])
	assert.Equal(t, "must be one of en, fr, es, pt", verr.Fields["language"])
}

func TestCreateRecord_RejectsNonFiniteQuantity(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	at := createRabbits(t, svc)

	_, err := svc.CreateRecord(ctx, &models.FeedRecord{
		RecordBase: models.RecordBase{AnimalTypeID: at.ID, Date: "2026-03-15"},
		FeedType:   "pellets", Quantity: math.NaN(), Unit: "kg",
	})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be a finite number", verr.Fields["quantity"])
	assert.Empty(t, st.Records().Feed)
}
