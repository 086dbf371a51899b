// Package reminders derives farm reminders from records and settings.
//
// Rules are pure functions of (input, settings, today). The same inputs always
// yield the same reminder ids in the same order, which is what lets persisted
// read and cleared id sets keep matching across recomputation.
package reminders

import (
	"fmt"
	"strings"
	"time"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

const (
	// VaccinationCycleDays is the fixed revaccination interval. It is not derived
	// from NotificationSettings.VaccinationDaysBefore, which only sets how early
	// the reminder becomes visible.
	VaccinationCycleDays = 90
	// VaccinationOverdueGraceDays is how long an overdue vaccination keeps firing.
	VaccinationOverdueGraceDays = 7
	// BirthOverdueGraceDays is how long a past-due expected birth keeps firing.
	BirthOverdueGraceDays = 3
	// LowInventoryHighCount is the live head count at or below which a low
	// inventory alert becomes high priority.
	LowInventoryHighCount = 5
	// HealthCheckHighFactor escalates a health check once this many intervals have passed.
	HealthCheckHighFactor = 1.5
	// dueSoonDays is the window in which an upcoming event is medium priority.
	dueSoonDays = 3
)

// Input is the read-only slice of the record store the rules look at.
type Input struct {
	AnimalTypes []models.AnimalType
	Records     models.RecordSet
}

// RuleFunc derives candidate reminders.
type RuleFunc func(in Input, settings models.NotificationSettings, today time.Time) []models.Notification

// Rule couples a RuleFunc with the settings toggle that gates it.
type Rule struct {
	Name     string
	Enabled  func(models.NotificationSettings) bool
	Evaluate RuleFunc
}

// Rules returns the rule set in evaluation order.
func Rules() []Rule {
	return []Rule{
		{
			Name:     "vaccination",
			Enabled:  func(s models.NotificationSettings) bool { return s.VaccinationReminders },
			Evaluate: VaccinationDue,
		},
		{
			Name:     "birth",
			Enabled:  func(s models.NotificationSettings) bool { return s.BirthReminders },
			Evaluate: ExpectedBirth,
		},
		{
			Name:     "low-inventory",
			Enabled:  func(s models.NotificationSettings) bool { return s.LowInventoryAlerts },
			Evaluate: LowInventory,
		},
		{
			Name:     "health-check",
			Enabled:  func(s models.NotificationSettings) bool { return s.HealthCheckReminders },
			Evaluate: HealthCheckDue,
		},
	}
}

// Derive runs every enabled rule and concatenates their output in rule order.
func Derive(in Input, settings models.NotificationSettings, today time.Time) []models.Notification {
	var out []models.Notification
	for _, rule := range Rules() {
		if !rule.Enabled(settings) {
			continue
		}
		out = append(out, rule.Evaluate(in, settings, today)...)
	}
	return out
}

// VaccinationDue fires when the latest vaccination of an animal type is about to
// lapse or lapsed less than VaccinationOverdueGraceDays ago. Types without any
// vaccination history never fire.
func VaccinationDue(in Input, settings models.NotificationSettings, today time.Time) []models.Notification {
	today = models.Day(today)
	var out []models.Notification

	for _, at := range in.AnimalTypes {
		if !at.HasFeature(models.FeatureHealth) {
			continue
		}
		last, ok := latestHealthEvent(in.Records.Health, at.ID, models.HealthVaccination)
		if !ok {
			continue
		}

		nextDue := last.AddDate(0, 0, VaccinationCycleDays)
		days := models.DaysBetween(today, nextDue)
		if days > settings.VaccinationDaysBefore || days < -VaccinationOverdueGraceDays {
			continue
		}

		out = append(out, models.Notification{
			ID:             fmt.Sprintf("vaccination-%s-%s", at.ID, models.FormatDate(last)),
			Type:           models.NotificationVaccination,
			Title:          "Vaccination Due",
			Message:        fmt.Sprintf("%s vaccination %s.", at.Name, describeDue(days)),
			AnimalTypeID:   at.ID,
			AnimalTypeName: at.Name,
			Date:           nextDue,
			Priority:       dueSoonPriority(days),
		})
	}
	return out
}

// ExpectedBirth fires once per pregnancy record whose expected due date is near.
func ExpectedBirth(in Input, settings models.NotificationSettings, today time.Time) []models.Notification {
	today = models.Day(today)
	types := indexTypes(in.AnimalTypes)
	var out []models.Notification

	for _, rec := range in.Records.Breeding {
		if rec.EventType != models.BreedingPregnancy || rec.ExpectedDueDate == nil {
			continue
		}
		at, ok := types[rec.AnimalTypeID]
		if !ok || !at.HasFeature(models.FeatureReproduction) {
			continue
		}
		due, err := models.ParseDate(*rec.ExpectedDueDate)
		if err != nil {
			continue
		}

		days := models.DaysBetween(today, due)
		if days > settings.BirthDaysBefore || days < -BirthOverdueGraceDays {
			continue
		}

		event := at.WithDefaults().Terminology.BirthEvent
		out = append(out, models.Notification{
			ID:             "birth-" + rec.ID,
			Type:           models.NotificationBirth,
			Title:          "Expected " + capitalize(event),
			Message:        fmt.Sprintf("%s %s %s.", at.Name, event, describeExpected(days)),
			AnimalTypeID:   at.ID,
			AnimalTypeName: at.Name,
			Date:           due,
			Priority:       dueSoonPriority(days),
		})
	}
	return out
}

// LowInventory fires when an animal type still has live animals but no more
// than the configured threshold.
func LowInventory(in Input, settings models.NotificationSettings, today time.Time) []models.Notification {
	today = models.Day(today)
	live := make(map[string]int)
	for _, a := range in.Records.Animals {
		if a.Status.Live() {
			live[a.AnimalTypeID]++
		}
	}

	var out []models.Notification
	for _, at := range in.AnimalTypes {
		if !at.HasFeature(models.FeatureInventory) {
			continue
		}
		count := live[at.ID]
		if count == 0 || count > settings.LowInventoryThreshold {
			continue
		}

		priority := models.PriorityMedium
		if count <= LowInventoryHighCount {
			priority = models.PriorityHigh
		}
		out = append(out, models.Notification{
			ID:             "low-inventory-" + at.ID,
			Type:           models.NotificationInventory,
			Title:          "Low Inventory",
			Message:        fmt.Sprintf("Only %d %s left (threshold %d).", count, at.Name, settings.LowInventoryThreshold),
			AnimalTypeID:   at.ID,
			AnimalTypeName: at.Name,
			Date:           today,
			Priority:       priority,
		})
	}
	return out
}

// HealthCheckDue fires when an animal type's last checkup is at least one
// interval old. Types that were never checked are treated as one day overdue.
func HealthCheckDue(in Input, settings models.NotificationSettings, today time.Time) []models.Notification {
	today = models.Day(today)
	interval := settings.HealthCheckIntervalDays
	var out []models.Notification

	for _, at := range in.AnimalTypes {
		if !at.HasFeature(models.FeatureHealth) {
			continue
		}

		last, checked := latestHealthEvent(in.Records.Health, at.ID, models.HealthCheckup)
		daysSince := interval + 1
		subject := "never"
		date := today
		message := fmt.Sprintf("%s has no recorded checkup.", at.Name)
		if checked {
			daysSince = models.DaysBetween(last, today)
			subject = models.FormatDate(last)
			date = last.AddDate(0, 0, interval)
			message = fmt.Sprintf("%s last had a checkup %d days ago.", at.Name, daysSince)
		}
		if daysSince < interval {
			continue
		}

		priority := models.PriorityMedium
		if float64(daysSince) > HealthCheckHighFactor*float64(interval) {
			priority = models.PriorityHigh
		}
		out = append(out, models.Notification{
			ID:             fmt.Sprintf("health-check-%s-%s", at.ID, subject),
			Type:           models.NotificationHealthCheck,
			Title:          "Health Check Due",
			Message:        message,
			AnimalTypeID:   at.ID,
			AnimalTypeName: at.Name,
			Date:           date,
			Priority:       priority,
		})
	}
	return out
}

// latestHealthEvent returns the most recent parseable date of a health record
// of the given type. Records with unparseable dates are skipped.
func latestHealthEvent(records []models.HealthRecord, animalTypeID string, kind models.HealthRecordType) (time.Time, bool) {
	var (
		latest time.Time
		found  bool
	)
	for _, r := range records {
		if r.AnimalTypeID != animalTypeID || r.RecordType != kind {
			continue
		}
		d, err := models.ParseDate(r.Date)
		if err != nil {
			continue
		}
		if !found || d.After(latest) {
			latest, found = d, true
		}
	}
	return latest, found
}

func indexTypes(types []models.AnimalType) map[string]models.AnimalType {
	out := make(map[string]models.AnimalType, len(types))
	for _, at := range types {
		out[at.ID] = at
	}
	return out
}

func dueSoonPriority(days int) models.Priority {
	switch {
	case days < 0:
		return models.PriorityHigh
	case days <= dueSoonDays:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

func describeDue(days int) string {
	switch {
	case days < 0:
		return "is overdue by " + pluralDays(-days)
	case days == 0:
		return "is due today"
	default:
		return "is due in " + pluralDays(days)
	}
}

func describeExpected(days int) string {
	switch {
	case days < 0:
		return "was expected " + pluralDays(-days) + " ago"
	case days == 0:
		return "is expected today"
	default:
		return "is expected in " + pluralDays(days)
	}
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
