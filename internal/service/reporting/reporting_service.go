package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/service/analytics"
	"github.com/mamadbah2/farmdash/internal/store"
)

const digestDays = 7

// ReminderLister is the slice of the reminder service reporting reads.
type ReminderLister interface {
	List() []models.Notification
}

// Service renders text reports, digests and archive rows from the record store.
type Service struct {
	store     *store.Store
	reminders ReminderLister
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(st *store.Store, reminders ReminderLister, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, reminders: reminders, logger: logger, now: time.Now}
}

func (s *Service) animalTypes() []models.AnimalType {
	return store.Get[[]models.AnimalType](s.store, store.KeyAnimalTypes)
}

func (s *Service) animalType(id string) (models.AnimalType, error) {
	for _, at := range s.animalTypes() {
		if at.ID == id {
			return at, nil
		}
	}
	return models.AnimalType{}, fmt.Errorf("animal type %s: %w", id, models.ErrNotFound)
}

func (s *Service) openReminders(animalTypeID string) []models.Notification {
	if s.reminders == nil {
		return nil
	}
	var out []models.Notification
	for _, n := range s.reminders.List() {
		if n.Read || (animalTypeID != "" && n.AnimalTypeID != animalTypeID) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// TextReport renders a plain-text summary of one animal type between from and
// to, both inclusive.
func (s *Service) TextReport(animalTypeID string, from, to time.Time) (string, error) {
	at, err := s.animalType(animalTypeID)
	if err != nil {
		return "", err
	}
	period := analytics.Period{From: models.Day(from), To: models.Day(to)}
	if period.To.Before(period.From) {
		verr := &models.ValidationError{}
		verr.Add("to", "end date must not be before start date")
		return "", verr
	}

	rs := s.store.Records().ForAnimalType(at.ID)
	var b strings.Builder

	fmt.Fprintf(&b, "FarmDash report: %s\n", at.Name)
	fmt.Fprintf(&b, "Period: %s to %s\n", models.FormatDate(period.From), models.FormatDate(period.To))
	fmt.Fprintf(&b, "Generated: %s\n\n", s.now().UTC().Format(time.RFC3339))

	byStatus := make(map[string]int)
	live := 0
	for _, a := range rs.Animals {
		byStatus[string(a.Status)]++
		if a.Status.Live() {
			live++
		}
	}
	fmt.Fprintf(&b, "Animals: %d live of %d%s\n", live, len(rs.Animals), breakdown(byStatus))

	production := within(rs.Production, period, func(r models.ProductionRecord) string { return r.Date })
	byProduct := make(map[string]float64)
	var productionTotal float64
	for _, r := range production {
		byProduct[r.ProductType] += r.Quantity
		productionTotal += r.Quantity
	}
	fmt.Fprintf(&b, "Production: %.2f across %d entries%s\n", productionTotal, len(production), breakdownFloat(byProduct))

	feed := within(rs.Feed, period, func(r models.FeedRecord) string { return r.Date })
	var feedQty, feedCost float64
	for _, r := range feed {
		feedQty += r.Quantity
		feedCost += r.Cost
	}
	fmt.Fprintf(&b, "Feed: %.2f %s, cost %.2f across %d entries\n", feedQty, unitOr(at.MeasurementUnit, "kg"), feedCost, len(feed))

	health := within(rs.Health, period, func(r models.HealthRecord) string { return r.Date })
	byHealth := make(map[string]int)
	var healthCost float64
	for _, r := range health {
		byHealth[string(r.RecordType)]++
		healthCost += r.Cost
	}
	fmt.Fprintf(&b, "Health events: %d%s, cost %.2f\n", len(health), breakdown(byHealth), healthCost)

	breeding := within(rs.Breeding, period, func(r models.BreedingRecord) string { return r.Date })
	byBreeding := make(map[string]int)
	for _, r := range breeding {
		byBreeding[string(r.EventType)]++
	}
	fmt.Fprintf(&b, "Breeding events: %d%s\n", len(breeding), breakdown(byBreeding))

	inventory := within(rs.Inventory, period, func(r models.InventoryRecord) string { return r.Date })
	byAction := make(map[string]int)
	for _, r := range inventory {
		byAction[string(r.Action)] += r.Quantity
	}
	fmt.Fprintf(&b, "Inventory movements: %d%s\n", len(inventory), breakdown(byAction))

	open := s.openReminders(at.ID)
	b.WriteString("\nOpen reminders:\n")
	if len(open) == 0 {
		b.WriteString("- none\n")
	}
	for _, n := range open {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", n.Priority, n.Title, n.Message)
	}

	return b.String(), nil
}

// DailyReports builds one archive row per animal type for day.
func (s *Service) DailyReports(day time.Time) []models.DailyReport {
	day = models.Day(day)
	period := analytics.Period{From: day, To: day}
	all := s.store.Records()
	createdAt := s.now().UTC()

	types := s.animalTypes()
	out := make([]models.DailyReport, 0, len(types))
	for _, at := range types {
		rs := all.ForAnimalType(at.ID)
		report := models.DailyReport{
			Date:           day,
			AnimalTypeID:   at.ID,
			AnimalTypeName: at.Name,
			OpenReminders:  len(s.openReminders(at.ID)),
			CreatedAt:      createdAt,
		}
		for _, a := range rs.Animals {
			if a.Status.Live() {
				report.LiveAnimals++
			}
		}
		for _, r := range within(rs.Production, period, func(r models.ProductionRecord) string { return r.Date }) {
			report.ProductionTotal += r.Quantity
		}
		for _, r := range within(rs.Feed, period, func(r models.FeedRecord) string { return r.Date }) {
			report.FeedConsumed += r.Quantity
			report.FeedCost += r.Cost
		}
		report.HealthEvents = len(within(rs.Health, period, func(r models.HealthRecord) string { return r.Date }))
		report.BreedingEvents = len(within(rs.Breeding, period, func(r models.BreedingRecord) string { return r.Date }))
		out = append(out, report)
	}
	return out
}

// WeeklyDigest compares the last seven days with the seven before, per animal type.
func (s *Service) WeeklyDigest(now time.Time) string {
	current, previous := analytics.TrailingPeriods(now, digestDays)
	all := s.store.Records()

	var b strings.Builder
	fmt.Fprintf(&b, "Weekly digest (%s to %s)\n", models.FormatDate(current.From), models.FormatDate(current.To))

	types := s.animalTypes()
	if len(types) == 0 {
		b.WriteString("No animal types configured yet.")
		return b.String()
	}

	for _, at := range types {
		rs := all.ForAnimalType(at.ID)
		prod := analytics.Compare(rs.Production, current, previous,
			func(r models.ProductionRecord) string { return r.Date },
			func(r models.ProductionRecord) float64 { return r.Quantity })
		feed := analytics.Compare(rs.Feed, current, previous,
			func(r models.FeedRecord) string { return r.Date },
			func(r models.FeedRecord) float64 { return r.Cost })
		health := analytics.Compare(rs.Health, current, previous,
			func(r models.HealthRecord) string { return r.Date },
			func(models.HealthRecord) float64 { return 1 })

		fmt.Fprintf(&b, "\n%s\n", at.Name)
		fmt.Fprintf(&b, "- production %.2f (%s)\n", prod.Current, signedPercent(prod.Change))
		fmt.Fprintf(&b, "- feed cost %.2f (%s)\n", feed.Current, signedPercent(feed.Change))
		fmt.Fprintf(&b, "- health events %.0f (%s)\n", health.Current, signedPercent(health.Change))
		fmt.Fprintf(&b, "- open reminders %d\n", len(s.openReminders(at.ID)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// ReminderDigest lists unread reminders across every animal type. It returns
// an empty string when there is nothing to send.
func (s *Service) ReminderDigest() string {
	open := s.openReminders("")
	if len(open) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d open reminder(s):", len(open))
	for _, n := range open {
		fmt.Fprintf(&b, "\n- [%s] %s (%s): %s", n.Priority, n.Title, n.AnimalTypeName, n.Message)
	}
	return b.String()
}

func within[R any](records []R, period analytics.Period, dateOf func(R) string) []R {
	var out []R
	for _, r := range records {
		d, err := models.ParseDate(dateOf(r))
		if err != nil || !period.Contains(d) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func breakdown(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(counts))
	for _, k := range sortedKeys(counts) {
		parts = append(parts, fmt.Sprintf("%s %d", k, counts[k]))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func breakdownFloat(totals map[string]float64) string {
	if len(totals) == 0 {
		return ""
	}
	parts := make([]string, 0, len(totals))
	for _, k := range sortedKeys(totals) {
		parts = append(parts, fmt.Sprintf("%s %.2f", k, totals[k]))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func signedPercent(change float64) string {
	return fmt.Sprintf("%+.1f%%", change)
}

func unitOr(unit, fallback string) string {
	if unit == "" {
		return fallback
	}
	return unit
}
