package reminders

import (
	"fmt"
	"sort"
	"time"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

// Calendar lists dated farm events between from and to (inclusive): recorded
// health and breeding events, upcoming vaccination dates and expected births.
// Projected dates follow the same feature gates as the reminder rules.
func Calendar(in Input, from, to, today time.Time) []models.CalendarEvent {
	from, to, today = models.Day(from), models.Day(to), models.Day(today)
	types := indexTypes(in.AnimalTypes)
	var out []models.CalendarEvent

	add := func(id, title, kind string, at models.AnimalType, date time.Time) {
		if date.Before(from) || date.After(to) {
			return
		}
		out = append(out, models.CalendarEvent{
			ID:             id,
			Title:          title,
			Date:           date,
			Kind:           kind,
			AnimalTypeID:   at.ID,
			AnimalTypeName: at.Name,
			Upcoming:       !date.Before(today),
		})
	}

	for _, r := range in.Records.Health {
		at, ok := types[r.AnimalTypeID]
		if !ok {
			continue
		}
		if d, err := models.ParseDate(r.Date); err == nil {
			add("health-"+r.ID, fmt.Sprintf("%s %s", at.Name, r.RecordType), string(models.KindHealth), at, d)
		}
	}

	for _, r := range in.Records.Breeding {
		at, ok := types[r.AnimalTypeID]
		if !ok {
			continue
		}
		if d, err := models.ParseDate(r.Date); err == nil {
			add("breeding-"+r.ID, fmt.Sprintf("%s %s", at.Name, r.EventType), string(models.KindBreeding), at, d)
		}
		if r.EventType == models.BreedingPregnancy && r.ExpectedDueDate != nil && at.HasFeature(models.FeatureReproduction) {
			if due, err := models.ParseDate(*r.ExpectedDueDate); err == nil {
				event := at.WithDefaults().Terminology.BirthEvent
				add("birth-"+r.ID, fmt.Sprintf("%s expected %s", at.Name, event), string(models.NotificationBirth), at, due)
			}
		}
	}

	for _, at := range in.AnimalTypes {
		if !at.HasFeature(models.FeatureHealth) {
			continue
		}
		if last, ok := latestHealthEvent(in.Records.Health, at.ID, models.HealthVaccination); ok {
			next := last.AddDate(0, 0, VaccinationCycleDays)
			add(fmt.Sprintf("vaccination-%s-%s", at.ID, models.FormatDate(last)),
				fmt.Sprintf("%s vaccination due", at.Name), string(models.NotificationVaccination), at, next)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
