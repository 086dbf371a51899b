package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/repository/kv"
)

func openTestStore(t *testing.T, backend kv.Backend) *Store {
	t.Helper()
	s, err := Open(context.Background(), backend, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestGet_DefaultsForAbsentKeys(t *testing.T) {
	s := openTestStore(t, kv.NewMemoryBackend())

	assert.Equal(t, models.DefaultNotificationSettings(), Get[models.NotificationSettings](s, KeyNotificationSettings))
	assert.Equal(t, models.ThemeSystem, Get[models.Theme](s, KeyTheme))
	assert.Equal(t, "en", Get[string](s, KeyLanguage))
	assert.Empty(t, Get[[]string](s, KeyReadNotifications))
	assert.Nil(t, Get[*models.UserProfile](s, KeyProfile))
}

func TestSet_PersistsAndSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	s := openTestStore(t, backend)

	types := []models.AnimalType{{ID: "t1", Name: "Rabbit", Features: []models.TrackingFeature{models.FeatureHealth}}}
	require.NoError(t, Set(ctx, s, KeyAnimalTypes, types))
	require.NoError(t, Set(ctx, s, KeyTheme, models.ThemeDark))

	reopened := openTestStore(t, backend)
	assert.Equal(t, types, Get[[]models.AnimalType](reopened, KeyAnimalTypes))
	assert.Equal(t, models.ThemeDark, Get[models.Theme](reopened, KeyTheme))
}

func TestOpen_MalformedJSONTreatedAsAbsent(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	require.NoError(t, backend.Put(ctx, string(KeyAnimalTypes), []byte(`{not json`)))
	require.NoError(t, backend.Put(ctx, string(KeyNotificationSettings), []byte(`[1,2,3]`)))
	require.NoError(t, backend.Put(ctx, string(KeyLanguage), []byte(`"de"`)))

	s := openTestStore(t, backend)

	assert.Empty(t, Get[[]models.AnimalType](s, KeyAnimalTypes))
	assert.Equal(t, models.DefaultNotificationSettings(), Get[models.NotificationSettings](s, KeyNotificationSettings))
	assert.Equal(t, "de", Get[string](s, KeyLanguage))
}

func TestUpdate_ErrorLeavesValueUntouched(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, kv.NewMemoryBackend())
	require.NoError(t, Set(ctx, s, KeyReadNotifications, []string{"a"}))
	rev := s.Revision()

	boom := errors.New("boom")
	err := Update(ctx, s, KeyReadNotifications, func(ids []string) ([]string, error) {
		return append(ids, "b"), boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a"}, Get[[]string](s, KeyReadNotifications))
	assert.Equal(t, rev, s.Revision())
}

func TestUpdate_ConcurrentAppendsAreSerialized(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, kv.NewMemoryBackend())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = Update(ctx, s, KeyReadNotifications, func(ids []string) ([]string, error) {
				return append(ids, "x"), nil
			})
		}()
	}
	wg.Wait()

	assert.Len(t, Get[[]string](s, KeyReadNotifications), 50)
	assert.Equal(t, uint64(50), s.Revision())
}

func TestSubscribe_NotifiesUntilUnsubscribed(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, kv.NewMemoryBackend())

	var seen []Key
	unsubscribe := s.Subscribe(func(k Key) { seen = append(seen, k) })

	require.NoError(t, Set(ctx, s, KeyTheme, models.ThemeLight))
	require.NoError(t, s.Delete(ctx, KeyTheme))
	unsubscribe()
	require.NoError(t, Set(ctx, s, KeyLanguage, "fr"))

	assert.Equal(t, []Key{KeyTheme, KeyTheme}, seen)
	assert.Equal(t, models.ThemeSystem, Get[models.Theme](s, KeyTheme))
}

type failingBackend struct {
	*kv.MemoryBackend
}

func (failingBackend) Put(context.Context, string, []byte) error { return errors.New("disk full") }

func TestSet_BackendFailureKeepsPreviousValue(t *testing.T) {
	s := openTestStore(t, failingBackend{kv.NewMemoryBackend()})

	err := Set(context.Background(), s, KeyLanguage, "fr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "en", Get[string](s, KeyLanguage))
}

func TestRecords_Snapshot(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, kv.NewMemoryBackend())

	health := []models.HealthRecord{{RecordBase: models.RecordBase{ID: "h1", AnimalTypeID: "t1", Date: "2026-01-01"}, RecordType: models.HealthCheckup}}
	require.NoError(t, Set(ctx, s, KeyHealthRecords, health))

	rs := s.Records()
	assert.Equal(t, health, rs.Health)
	assert.Empty(t, rs.Breeding)
	assert.Equal(t, 1, rs.Count(models.KindHealth))
}
