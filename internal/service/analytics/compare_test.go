package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

func TestCalcChange(t *testing.T) {
	tests := []struct {
		current, previous, want float64
	}{
		{0, 0, 0},
		{5, 0, 100},
		{0, 5, -100},
		{15, 10, 50},
		{5, 10, -50},
		{10, 10, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, CalcChange(tt.current, tt.previous), 1e-9, "CalcChange(%v, %v)", tt.current, tt.previous)
	}
}

func TestTrailingPeriods(t *testing.T) {
	current, previous := TrailingPeriods(today, 7)

	assert.Equal(t, "2026-03-09", models.FormatDate(current.From))
	assert.Equal(t, "2026-03-15", models.FormatDate(current.To))
	assert.Equal(t, "2026-03-02", models.FormatDate(previous.From))
	assert.Equal(t, "2026-03-08", models.FormatDate(previous.To))
}

func TestCompare(t *testing.T) {
	records := []models.ProductionRecord{
		production("2026-03-09", 10),
		production("2026-03-15", 20),
		production("2026-03-08", 10),
		production("2026-03-01", 500),
		production("garbage", 500),
	}
	current, previous := TrailingPeriods(today, 7)

	got := Compare(records, current, previous, productionDate, productionQuantity)
	assert.Equal(t, Comparison{Current: 30, Previous: 10, Change: 200}, got)
}

func TestPeriodContainsIgnoresTimeOfDay(t *testing.T) {
	p := Period{From: time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC), To: time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)}
	assert.True(t, p.Contains(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)))
}
