package reminders

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/store"
)

// inputKeys are the store keys the rule set reads. Writes to any of them drop
// the cached candidates; read and cleared sets are overlaid on every call.
var inputKeys = map[store.Key]bool{
	store.KeyAnimalTypes:          true,
	store.KeyAnimals:              true,
	store.KeyHealthRecords:        true,
	store.KeyBreedingRecords:      true,
	store.KeyNotificationSettings: true,
}

// Service serves the aggregated reminder list and persists read/cleared state.
type Service struct {
	store       *store.Store
	logger      *zap.Logger
	loc         *time.Location
	now         func() time.Time
	unsubscribe func()

	mu        sync.Mutex
	cacheDay  time.Time
	cached    []models.Notification
	cacheLive bool
}

// NewService wires a reminder service over st. Dates are evaluated in loc.
func NewService(st *store.Store, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	s := &Service{
		store:  st,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
	s.unsubscribe = st.Subscribe(func(key store.Key) {
		if inputKeys[key] {
			s.invalidate()
		}
	})
	return s
}

// Close detaches the service from store notifications.
func (s *Service) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Today is the current calendar day in the farm's timezone.
func (s *Service) Today() time.Time {
	return models.Day(s.now().In(s.loc))
}

// Input snapshots the animal types and records the rules read.
func (s *Service) Input() Input {
	return Input{
		AnimalTypes: store.Get[[]models.AnimalType](s.store, store.KeyAnimalTypes),
		Records:     s.store.Records(),
	}
}

func (s *Service) invalidate() {
	s.mu.Lock()
	s.cacheLive = false
	s.mu.Unlock()
}

// candidates returns the derived reminders for today, recomputing when an input
// key changed or the day rolled over.
func (s *Service) candidates() []models.Notification {
	today := s.Today()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cacheLive && s.cacheDay.Equal(today) {
		return s.cached
	}

	settings := store.Get[models.NotificationSettings](s.store, store.KeyNotificationSettings)
	s.cached = Derive(s.Input(), settings, today)
	s.cacheDay = today
	s.cacheLive = true

	s.logger.Debug("reminders recomputed", zap.Int("candidates", len(s.cached)), zap.String("day", models.FormatDate(today)))
	return s.cached
}

// List returns the visible reminders, read state applied, sorted.
func (s *Service) List() []models.Notification {
	read := NewIDSet(store.Get[[]string](s.store, store.KeyReadNotifications))
	cleared := NewIDSet(store.Get[[]string](s.store, store.KeyClearedNotifications))
	return Aggregate(s.candidates(), read, cleared)
}

// UnreadCount counts visible unread reminders.
func (s *Service) UnreadCount() int {
	return UnreadCount(s.List())
}

// MarkAsRead adds id to the persisted read set.
func (s *Service) MarkAsRead(ctx context.Context, id string) error {
	return s.addIDs(ctx, store.KeyReadNotifications, id)
}

// MarkAllAsRead marks every currently visible reminder as read.
func (s *Service) MarkAllAsRead(ctx context.Context) error {
	return s.addIDs(ctx, store.KeyReadNotifications, visibleIDs(s.List())...)
}

// Clear hides id until the underlying condition produces a different id.
func (s *Service) Clear(ctx context.Context, id string) error {
	return s.addIDs(ctx, store.KeyClearedNotifications, id)
}

// ClearAll hides every currently visible reminder.
func (s *Service) ClearAll(ctx context.Context) error {
	return s.addIDs(ctx, store.KeyClearedNotifications, visibleIDs(s.List())...)
}

// Calendar lists farm events between from and to.
func (s *Service) Calendar(from, to time.Time) []models.CalendarEvent {
	return Calendar(s.Input(), from, to, s.Today())
}

func (s *Service) addIDs(ctx context.Context, key store.Key, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return store.Update(ctx, s.store, key, func(list []string) ([]string, error) {
		return appendUnique(list, ids...), nil
	})
}

func visibleIDs(notifications []models.Notification) []string {
	ids := make([]string, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.ID)
	}
	return ids
}
