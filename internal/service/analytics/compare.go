package analytics

import (
	"time"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

// CalcChange is the percent change from previous to current. A zero previous
// value yields 100 when current is non-zero and 0 otherwise.
func CalcChange(current, previous float64) float64 {
	if previous == 0 {
		if current != 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// Period is an inclusive range of calendar days.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether day falls between From and To, both inclusive.
func (p Period) Contains(day time.Time) bool {
	day = models.Day(day)
	return !day.Before(models.Day(p.From)) && !day.After(models.Day(p.To))
}

// TrailingPeriods returns the last days days ending today and the equally long
// period right before it.
func TrailingPeriods(today time.Time, days int) (current, previous Period) {
	today = models.Day(today)
	current = Period{From: today.AddDate(0, 0, -(days - 1)), To: today}
	previous = Period{From: current.From.AddDate(0, 0, -days), To: current.From.AddDate(0, 0, -1)}
	return current, previous
}

// Comparison holds two period totals and the percent change between them.
type Comparison struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Change   float64 `json:"change"`
}

// Compare totals value over both periods.
func Compare[R any](records []R, current, previous Period, dateOf func(R) string, value func(R) float64) Comparison {
	var c Comparison
	for _, r := range records {
		d, err := models.ParseDate(dateOf(r))
		if err != nil {
			continue
		}
		if current.Contains(d) {
			c.Current += value(r)
		}
		if previous.Contains(d) {
			c.Previous += value(r)
		}
	}
	c.Change = CalcChange(c.Current, c.Previous)
	return c
}
