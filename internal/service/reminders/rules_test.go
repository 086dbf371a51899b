package reminders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

func TestVaccinationDue_Window(t *testing.T) {
	settings := models.DefaultNotificationSettings()

	tests := []struct {
		name         string
		daysAgo      int
		wantFire     bool
		wantPriority models.Priority
	}{
		{name: "due in 7 days", daysAgo: 83, wantFire: true, wantPriority: models.PriorityLow},
		{name: "due in 8 days is outside window", daysAgo: 82, wantFire: false},
		{name: "due in 3 days", daysAgo: 87, wantFire: true, wantPriority: models.PriorityMedium},
		{name: "due today", daysAgo: 90, wantFire: true, wantPriority: models.PriorityMedium},
		{name: "3 days overdue", daysAgo: 93, wantFire: true, wantPriority: models.PriorityHigh},
		{name: "7 days overdue", daysAgo: 97, wantFire: true, wantPriority: models.PriorityHigh},
		{name: "8 days overdue is suppressed", daysAgo: 98, wantFire: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{
				AnimalTypes: []models.AnimalType{rabbit()},
				Records: models.RecordSet{Health: []models.HealthRecord{
					healthRecord("v1", "rabbit", models.HealthVaccination, dayOffset(-tt.daysAgo)),
				}},
			}

			got := VaccinationDue(in, settings, fixedToday)
			if !tt.wantFire {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantPriority, got[0].Priority)
			assert.Equal(t, models.NotificationVaccination, got[0].Type)
		})
	}
}

func TestVaccinationDue_UsesLatestVaccinationOnly(t *testing.T) {
	in := Input{
		AnimalTypes: []models.AnimalType{rabbit()},
		Records: models.RecordSet{Health: []models.HealthRecord{
			healthRecord("old", "rabbit", models.HealthVaccination, dayOffset(-93)),
			healthRecord("new", "rabbit", models.HealthVaccination, dayOffset(-10)),
			healthRecord("chk", "rabbit", models.HealthCheckup, dayOffset(-85)),
		}},
	}

	assert.Empty(t, VaccinationDue(in, models.DefaultNotificationSettings(), fixedToday))
}

func TestVaccinationDue_NoHistoryNoReminder(t *testing.T) {
	in := Input{AnimalTypes: []models.AnimalType{rabbit()}}
	assert.Empty(t, VaccinationDue(in, models.DefaultNotificationSettings(), fixedToday))
}

func TestVaccinationDue_SkipsUnparseableDates(t *testing.T) {
	in := Input{
		AnimalTypes: []models.AnimalType{rabbit()},
		Records: models.RecordSet{Health: []models.HealthRecord{
			healthRecord("bad", "rabbit", models.HealthVaccination, "next tuesday"),
			healthRecord("ok", "rabbit", models.HealthVaccination, dayOffset(-85)),
		}},
	}

	got := VaccinationDue(in, models.DefaultNotificationSettings(), fixedToday)
	require.Len(t, got, 1)
	assert.Equal(t, "vaccination-rabbit-"+dayOffset(-85), got[0].ID)
}

func TestVaccinationDue_RequiresHealthFeature(t *testing.T) {
	in := Input{
		AnimalTypes: []models.AnimalType{rabbit(models.FeatureFeed)},
		Records: models.RecordSet{Health: []models.HealthRecord{
			healthRecord("v1", "rabbit", models.HealthVaccination, dayOffset(-85)),
		}},
	}
	assert.Empty(t, VaccinationDue(in, models.DefaultNotificationSettings(), fixedToday))
}

func TestRabbitEndToEnd(t *testing.T) {
	in := Input{
		AnimalTypes: []models.AnimalType{rabbit()},
		Records: models.RecordSet{
			Health: []models.HealthRecord{
				healthRecord("v1", "rabbit", models.HealthVaccination, dayOffset(-85)),
			},
		},
	}
	settings := models.DefaultNotificationSettings()
	settings.HealthCheckReminders = false

	got := Derive(in, settings, fixedToday)
	require.Len(t, got, 1)
	assert.Equal(t, models.PriorityLow, got[0].Priority)
	assert.Equal(t, dayOffset(5), models.FormatDate(got[0].Date))
	assert.Contains(t, got[0].Title, "Vaccination Due")
	assert.Equal(t, "Rabbit", got[0].AnimalTypeName)
	assert.Equal(t, "Rabbit vaccination is due in 5 days.", got[0].Message)
}

func TestExpectedBirth(t *testing.T) {
	settings := models.DefaultNotificationSettings()

	tests := []struct {
		name         string
		dueIn        int
		wantFire     bool
		wantPriority models.Priority
	}{
		{name: "due in 7 days", dueIn: 7, wantFire: true, wantPriority: models.PriorityLow},
		{name: "due in 8 days", dueIn: 8, wantFire: false},
		{name: "due in 2 days", dueIn: 2, wantFire: true, wantPriority: models.PriorityMedium},
		{name: "1 day late", dueIn: -1, wantFire: true, wantPriority: models.PriorityHigh},
		{name: "3 days late", dueIn: -3, wantFire: true, wantPriority: models.PriorityHigh},
		{name: "4 days late", dueIn: -4, wantFire: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{
				AnimalTypes: []models.AnimalType{rabbit()},
				Records:     models.RecordSet{Breeding: []models.BreedingRecord{pregnancy("p1", "rabbit", dayOffset(tt.dueIn))}},
			}

			got := ExpectedBirth(in, settings, fixedToday)
			if !tt.wantFire {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, "birth-p1", got[0].ID)
			assert.Equal(t, "Expected Kindling", got[0].Title)
			assert.Equal(t, tt.wantPriority, got[0].Priority)
		})
	}
}

func TestExpectedBirth_OneReminderPerPregnancy(t *testing.T) {
	mating := pregnancy("m1", "rabbit", dayOffset(2))
	mating.EventType = models.BreedingMating
	noDue := pregnancy("p3", "rabbit", "")
	noDue.ExpectedDueDate = nil

	in := Input{
		AnimalTypes: []models.AnimalType{rabbit()},
		Records: models.RecordSet{Breeding: []models.BreedingRecord{
			pregnancy("p1", "rabbit", dayOffset(2)),
			pregnancy("p2", "rabbit", dayOffset(5)),
			mating,
			noDue,
			pregnancy("p4", "rabbit", "soon"),
			pregnancy("p5", "ghost-type", dayOffset(1)),
		}},
	}

	got := ExpectedBirth(in, models.DefaultNotificationSettings(), fixedToday)
	assert.Equal(t, []string{"birth-p1", "birth-p2"}, ids(got))
}

func TestLowInventory_Boundaries(t *testing.T) {
	settings := models.DefaultNotificationSettings()
	settings.LowInventoryThreshold = 10

	tests := []struct {
		name         string
		live         int
		wantFire     bool
		wantPriority models.Priority
	}{
		{name: "at threshold", live: 10, wantFire: true, wantPriority: models.PriorityMedium},
		{name: "six", live: 6, wantFire: true, wantPriority: models.PriorityMedium},
		{name: "five", live: 5, wantFire: true, wantPriority: models.PriorityHigh},
		{name: "one", live: 1, wantFire: true, wantPriority: models.PriorityHigh},
		{name: "zero", live: 0, wantFire: false},
		{name: "above threshold", live: 11, wantFire: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			herd := animals("rabbit", tt.live, models.AnimalActive)
			herd = append(herd, animals("rabbit", 4, models.AnimalSold)...)
			herd = append(herd, animals("rabbit", 3, models.AnimalDeceased)...)

			in := Input{
				AnimalTypes: []models.AnimalType{rabbit()},
				Records:     models.RecordSet{Animals: herd},
			}

			got := LowInventory(in, settings, fixedToday)
			if !tt.wantFire {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, "low-inventory-rabbit", got[0].ID)
			assert.Equal(t, tt.wantPriority, got[0].Priority)
			assert.Equal(t, models.Day(fixedToday), got[0].Date)
		})
	}
}

func TestLowInventory_CountsPregnantAndSickAsLive(t *testing.T) {
	herd := append(animals("rabbit", 2, models.AnimalPregnant), animals("rabbit", 1, models.AnimalSick)...)
	in := Input{AnimalTypes: []models.AnimalType{rabbit()}, Records: models.RecordSet{Animals: herd}}

	got := LowInventory(in, models.DefaultNotificationSettings(), fixedToday)
	require.Len(t, got, 1)
	assert.Equal(t, "Only 3 Rabbit left (threshold 10).", got[0].Message)
}

func TestHealthCheckDue(t *testing.T) {
	settings := models.DefaultNotificationSettings()
	settings.HealthCheckIntervalDays = 30

	tests := []struct {
		name         string
		daysSince    int
		wantFire     bool
		wantPriority models.Priority
	}{
		{name: "recent checkup", daysSince: 29, wantFire: false},
		{name: "exactly one interval", daysSince: 30, wantFire: true, wantPriority: models.PriorityMedium},
		{name: "at 1.5 intervals", daysSince: 45, wantFire: true, wantPriority: models.PriorityMedium},
		{name: "past 1.5 intervals", daysSince: 46, wantFire: true, wantPriority: models.PriorityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{
				AnimalTypes: []models.AnimalType{rabbit()},
				Records: models.RecordSet{Health: []models.HealthRecord{
					healthRecord("c1", "rabbit", models.HealthCheckup, dayOffset(-tt.daysSince)),
				}},
			}

			got := HealthCheckDue(in, settings, fixedToday)
			if !tt.wantFire {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantPriority, got[0].Priority)
			assert.Equal(t, "health-check-rabbit-"+dayOffset(-tt.daysSince), got[0].ID)
			assert.Equal(t, dayOffset(30-tt.daysSince), models.FormatDate(got[0].Date))
		})
	}
}

func TestHealthCheckDue_NeverChecked(t *testing.T) {
	in := Input{AnimalTypes: []models.AnimalType{rabbit()}}

	got := HealthCheckDue(in, models.DefaultNotificationSettings(), fixedToday)
	require.Len(t, got, 1)
	assert.Equal(t, "health-check-rabbit-never", got[0].ID)
	assert.Equal(t, models.PriorityMedium, got[0].Priority)
	assert.Equal(t, models.Day(fixedToday), got[0].Date)
}

func TestDerive_DisabledRulesContributeNothing(t *testing.T) {
	in := Input{
		AnimalTypes: []models.AnimalType{rabbit()},
		Records: models.RecordSet{
			Health:   []models.HealthRecord{healthRecord("v1", "rabbit", models.HealthVaccination, dayOffset(-85))},
			Breeding: []models.BreedingRecord{pregnancy("p1", "rabbit", dayOffset(1))},
			Animals:  animals("rabbit", 3, models.AnimalActive),
		},
	}

	all := models.DefaultNotificationSettings()
	assert.Len(t, Derive(in, all, fixedToday), 4)

	none := all
	none.VaccinationReminders = false
	none.BirthReminders = false
	none.LowInventoryAlerts = false
	none.HealthCheckReminders = false
	assert.Empty(t, Derive(in, none, fixedToday))
}

func TestDerive_IdempotentIDs(t *testing.T) {
	in := Input{
		AnimalTypes: []models.AnimalType{rabbit(), {ID: "cattle", Name: "Cattle", Features: models.AllFeatures}},
		Records: models.RecordSet{
			Health: []models.HealthRecord{
				healthRecord("v1", "rabbit", models.HealthVaccination, dayOffset(-85)),
				healthRecord("v2", "cattle", models.HealthVaccination, dayOffset(-92)),
			},
			Breeding: []models.BreedingRecord{pregnancy("p1", "cattle", dayOffset(3))},
			Animals:  animals("cattle", 7, models.AnimalActive),
		},
	}
	settings := models.DefaultNotificationSettings()

	first := Aggregate(Derive(in, settings, fixedToday), nil, nil)
	second := Aggregate(Derive(in, settings, fixedToday.Add(5*time.Hour)), nil, nil)

	require.NotEmpty(t, first)
	assert.Equal(t, ids(first), ids(second))
}
