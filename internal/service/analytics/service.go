package analytics

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/store"
)

const (
	productionTrendDays = 30
	feedTrendDays       = 14
	healthTrendDays     = 30
	movementMonths      = 6
	statsPeriodDays     = 30
)

// Metric names a comparable scalar series.
type Metric string

const (
	MetricProduction   Metric = "production"
	MetricFeedQuantity Metric = "feed_quantity"
	MetricFeedCost     Metric = "feed_cost"
	MetricHealthEvents Metric = "health_events"
	MetricHealthCost   Metric = "health_cost"
	MetricBreeding     Metric = "breeding_events"
)

// FeedTotals is a feed trend point.
type FeedTotals struct {
	Quantity float64 `json:"quantity"`
	Cost     float64 `json:"cost"`
}

// DashboardStats is the headline block for one animal type.
type DashboardStats struct {
	AnimalTypeID    string         `json:"animalTypeId"`
	TotalAnimals    int            `json:"totalAnimals"`
	LiveAnimals     int            `json:"liveAnimals"`
	ByStatus        map[string]int `json:"byStatus"`
	ProductionTotal float64        `json:"productionTotal"`
	Production      Comparison     `json:"production"`
	FeedCost        Comparison     `json:"feedCost"`
	HealthEvents    Comparison     `json:"healthEvents"`
	RecordCounts    map[string]int `json:"recordCounts"`
}

// Service serves chart series for one animal type at a time.
type Service struct {
	store  *store.Store
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewService wires the chart service over st.
func NewService(st *store.Store, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: st, logger: logger, loc: loc, now: time.Now}
}

func (s *Service) today() time.Time {
	return models.Day(s.now().In(s.loc))
}

func (s *Service) records(animalTypeID string) models.RecordSet {
	return s.store.Records().ForAnimalType(animalTypeID)
}

// ProductionTrend sums production quantity per day over the last 30 days.
func (s *Service) ProductionTrend(animalTypeID string) []Bucket[float64] {
	return Bucketize(s.records(animalTypeID).Production, LastDays(s.today(), productionTrendDays),
		productionDate, Sum(productionQuantity))
}

// FeedTrend sums feed quantity and cost per day over the last 14 days.
func (s *Service) FeedTrend(animalTypeID string) []Bucket[FeedTotals] {
	return Bucketize(s.records(animalTypeID).Feed, LastDays(s.today(), feedTrendDays),
		func(r models.FeedRecord) string { return r.Date },
		func(rs []models.FeedRecord) FeedTotals {
			var t FeedTotals
			for _, r := range rs {
				t.Quantity += r.Quantity
				t.Cost += r.Cost
			}
			return t
		})
}

// HealthTrend counts health events per record type per day over the last 30 days.
func (s *Service) HealthTrend(animalTypeID string) []Bucket[map[string]int] {
	return Bucketize(s.records(animalTypeID).Health, LastDays(s.today(), healthTrendDays),
		func(r models.HealthRecord) string { return r.Date },
		CountBy(func(r models.HealthRecord) string { return string(r.RecordType) }))
}

// InventoryMovement sums head count moved per action per month over six months.
func (s *Service) InventoryMovement(animalTypeID string) []Bucket[map[string]float64] {
	return Bucketize(s.records(animalTypeID).Inventory, LastMonths(s.today(), movementMonths),
		func(r models.InventoryRecord) string { return r.Date },
		SumBy(
			func(r models.InventoryRecord) string { return string(r.Action) },
			func(r models.InventoryRecord) float64 { return float64(r.Quantity) },
		))
}

// BreedingActivity counts breeding events per event type per month over six months.
func (s *Service) BreedingActivity(animalTypeID string) []Bucket[map[string]int] {
	return Bucketize(s.records(animalTypeID).Breeding, LastMonths(s.today(), movementMonths),
		func(r models.BreedingRecord) string { return r.Date },
		CountBy(func(r models.BreedingRecord) string { return string(r.EventType) }))
}

// ProductionByWeek sums production per Monday-based week.
func (s *Service) ProductionByWeek(animalTypeID string, weeks int) []Bucket[float64] {
	return Bucketize(s.records(animalTypeID).Production, LastWeeks(s.today(), weeks),
		productionDate, Sum(productionQuantity))
}

// Compare totals metric over two periods.
func (s *Service) Compare(animalTypeID string, metric Metric, current, previous Period) (Comparison, error) {
	rs := s.records(animalTypeID)
	switch metric {
	case MetricProduction:
		return Compare(rs.Production, current, previous, productionDate, productionQuantity), nil
	case MetricFeedQuantity:
		return Compare(rs.Feed, current, previous, feedDate, func(r models.FeedRecord) float64 { return r.Quantity }), nil
	case MetricFeedCost:
		return Compare(rs.Feed, current, previous, feedDate, func(r models.FeedRecord) float64 { return r.Cost }), nil
	case MetricHealthEvents:
		return Compare(rs.Health, current, previous, healthDate, func(models.HealthRecord) float64 { return 1 }), nil
	case MetricHealthCost:
		return Compare(rs.Health, current, previous, healthDate, func(r models.HealthRecord) float64 { return r.Cost }), nil
	case MetricBreeding:
		return Compare(rs.Breeding, current, previous,
			func(r models.BreedingRecord) string { return r.Date },
			func(models.BreedingRecord) float64 { return 1 }), nil
	}

	verr := &models.ValidationError{}
	verr.Add("metric", fmt.Sprintf("unknown metric %q", metric))
	return Comparison{}, verr
}

// Stats builds the dashboard block comparing the last 30 days with the 30 before.
func (s *Service) Stats(animalTypeID string) DashboardStats {
	rs := s.records(animalTypeID)
	current, previous := TrailingPeriods(s.today(), statsPeriodDays)

	stats := DashboardStats{
		AnimalTypeID: animalTypeID,
		TotalAnimals: len(rs.Animals),
		ByStatus:     CountBy(func(r models.AnimalRecord) string { return string(r.Status) })(rs.Animals),
		Production:   Compare(rs.Production, current, previous, productionDate, productionQuantity),
		FeedCost:     Compare(rs.Feed, current, previous, feedDate, func(r models.FeedRecord) float64 { return r.Cost }),
		HealthEvents: Compare(rs.Health, current, previous, healthDate, func(models.HealthRecord) float64 { return 1 }),
		RecordCounts: make(map[string]int, len(models.RecordKinds)),
	}
	for _, a := range rs.Animals {
		if a.Status.Live() {
			stats.LiveAnimals++
		}
	}
	stats.ProductionTotal = Sum(productionQuantity)(rs.Production)
	for _, kind := range models.RecordKinds {
		stats.RecordCounts[string(kind)] = rs.Count(kind)
	}
	return stats
}

func productionDate(r models.ProductionRecord) string { return r.Date }
func productionQuantity(r models.ProductionRecord) float64 { return r.Quantity }
func feedDate(r models.FeedRecord) string { return r.Date }
func healthDate(r models.HealthRecord) string { return r.Date }
