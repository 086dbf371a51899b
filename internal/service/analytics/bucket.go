// Package analytics buckets record collections into calendar windows for charts
// and period comparisons.
package analytics

import (
	"time"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

// Unit is the calendar granularity of a bucket.
type Unit string

const (
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
)

// Window is one calendar slice: Start inclusive, End exclusive.
type Window struct {
	Label string
	Start time.Time
	End   time.Time
}

// Contains reports whether day falls inside the window.
func (w Window) Contains(day time.Time) bool {
	return !day.Before(w.Start) && day.Before(w.End)
}

// Range is an ordered, contiguous run of windows ending at the current unit.
type Range struct {
	Unit    Unit
	Windows []Window
}

// Len is the number of buckets the range produces.
func (r Range) Len() int { return len(r.Windows) }

// LastDays covers the n calendar days ending with today.
func LastDays(today time.Time, n int) Range {
	today = models.Day(today)
	rng := Range{Unit: UnitDay, Windows: make([]Window, 0, max(n, 0))}
	for i := n - 1; i >= 0; i-- {
		start := today.AddDate(0, 0, -i)
		rng.Windows = append(rng.Windows, Window{
			Label: start.Format("Jan 2"),
			Start: start,
			End:   start.AddDate(0, 0, 1),
		})
	}
	return rng
}

// LastWeeks covers the n Monday-based weeks ending with the week holding today.
func LastWeeks(today time.Time, n int) Range {
	today = models.Day(today)
	offset := (int(today.Weekday()) + 6) % 7
	monday := today.AddDate(0, 0, -offset)

	rng := Range{Unit: UnitWeek, Windows: make([]Window, 0, max(n, 0))}
	for i := n - 1; i >= 0; i-- {
		start := monday.AddDate(0, 0, -7*i)
		rng.Windows = append(rng.Windows, Window{
			Label: "Week of " + start.Format("Jan 2"),
			Start: start,
			End:   start.AddDate(0, 0, 7),
		})
	}
	return rng
}

// LastMonths covers the n calendar months ending with the month holding today.
func LastMonths(today time.Time, n int) Range {
	today = models.Day(today)
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	rng := Range{Unit: UnitMonth, Windows: make([]Window, 0, max(n, 0))}
	for i := n - 1; i >= 0; i-- {
		start := first.AddDate(0, -i, 0)
		rng.Windows = append(rng.Windows, Window{
			Label: start.Format("Jan 2006"),
			Start: start,
			End:   start.AddDate(0, 1, 0),
		})
	}
	return rng
}

// Bucket is one reduced window.
type Bucket[V any] struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	Value V         `json:"value"`
}

// Bucketize assigns each record to the window holding its date and reduces every
// window, empty ones included, so the result always has rng.Len() entries.
// Records whose date does not parse are skipped.
func Bucketize[R, V any](records []R, rng Range, dateOf func(R) string, reduce func([]R) V) []Bucket[V] {
	groups := make([][]R, len(rng.Windows))
	for _, r := range records {
		d, err := models.ParseDate(dateOf(r))
		if err != nil {
			continue
		}
		for i, w := range rng.Windows {
			if w.Contains(d) {
				groups[i] = append(groups[i], r)
				break
			}
		}
	}

	out := make([]Bucket[V], len(rng.Windows))
	for i, w := range rng.Windows {
		out[i] = Bucket[V]{Label: w.Label, Start: w.Start, Value: reduce(groups[i])}
	}
	return out
}

// Sum reduces a bucket to the total of value.
func Sum[R any](value func(R) float64) func([]R) float64 {
	return func(records []R) float64 {
		var total float64
		for _, r := range records {
			total += value(r)
		}
		return total
	}
}

// Count reduces a bucket to its size.
func Count[R any]() func([]R) int {
	return func(records []R) int { return len(records) }
}

// CountBy reduces a bucket to a count per subtype. The map is never nil.
func CountBy[R any](key func(R) string) func([]R) map[string]int {
	return func(records []R) map[string]int {
		out := make(map[string]int)
		for _, r := range records {
			out[key(r)]++
		}
		return out
	}
}

// SumBy reduces a bucket to a total of value per subtype. The map is never nil.
func SumBy[R any](key func(R) string, value func(R) float64) func([]R) map[string]float64 {
	return func(records []R) map[string]float64 {
		out := make(map[string]float64)
		for _, r := range records {
			out[key(r)] += value(r)
		}
		return out
	}
}
