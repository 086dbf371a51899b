package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmdash/internal/config"
	"github.com/mamadbah2/farmdash/internal/domain/models"
)

type stubReports struct {
	days    []time.Time
	reports []models.DailyReport
	weekly  string
	digest  string
}

func (s *stubReports) DailyReports(day time.Time) []models.DailyReport {
	s.days = append(s.days, day)
	return s.reports
}
func (s *stubReports) WeeklyDigest(time.Time) string { return s.weekly }
func (s *stubReports) ReminderDigest() string { return s.digest }

type stubArchive struct {
	saved [][]models.DailyReport
	err   error
}

func (a *stubArchive) SaveDailyReports(_ context.Context, reports []models.DailyReport) error {
	a.saved = append(a.saved, reports)
	return a.err
}

func (a *stubArchive) ListDailyReports(context.Context, string, time.Time, time.Time) ([]models.DailyReport, error) {
	return nil, nil
}

type stubSheets struct {
	rows []models.DailyReport
	err  error
}

func (s *stubSheets) AppendDailyReports(_ context.Context, reports []models.DailyReport) error {
	s.rows = append(s.rows, reports...)
	return s.err
}

type stubMessaging struct {
	sent []models.OutboundMessageRequest
}

func (m *stubMessaging) VerifyWebhookToken(string, string, string) (string, error) { return "", nil }
func (m *stubMessaging) HandleWebhook(context.Context, models.WebhookPayload) error { return nil }
func (m *stubMessaging) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	m.sent = append(m.sent, req)
	return nil
}

type stubSessions struct{ idle time.Duration }

func (s *stubSessions) ExpireSessions(idle time.Duration) int {
	s.idle = idle
	return 1
}

func testConfig() config.Config {
	return config.Config{
		WhatsApp: config.WhatsAppConfig{NotifyTo: "224600"},
		Reporting: config.ReportingConfig{
			ArchiveSchedule: "55 23 * * *",
			DigestSchedule:  "0 7 * * *",
			WeeklySchedule:  "0 20 * * 5",
			Timezone:        "Africa/Conakry",
		},
	}
}

func newTestScheduler(deps Deps) *Scheduler {
	s := NewScheduler(testConfig(), deps, nil)
	s.now = func() time.Time { return time.Date(2026, 3, 15, 23, 55, 0, 0, time.UTC) }
	return s
}

var sampleReport = models.DailyReport{
	Date:            time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	AnimalTypeID:    "hens",
	AnimalTypeName:  "Hens",
	LiveAnimals:     12,
	ProductionTotal: 24,
}

func TestArchiveDailyReports(t *testing.T) {
	reports := &stubReports{reports: []models.DailyReport{sampleReport}}
	archive := &stubArchive{}
	sheet := &stubSheets{}
	s := newTestScheduler(Deps{Reports: reports, Archive: archive, Sheets: sheet})

	require.NoError(t, s.archiveDailyReports(context.Background()))

	require.Len(t, reports.days, 1)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), reports.days[0])
	require.Len(t, archive.saved, 1)
	assert.Equal(t, []models.DailyReport{sampleReport}, archive.saved[0])
	assert.Equal(t, []models.DailyReport{sampleReport}, sheet.rows)
}

func TestArchiveDailyReports_PartialFailure(t *testing.T) {
	archive := &stubArchive{err: errors.New("mongo down")}
	sheet := &stubSheets{}
	s := newTestScheduler(Deps{Reports: &stubReports{reports: []models.DailyReport{sampleReport}}, Archive: archive, Sheets: sheet})

	err := s.archiveDailyReports(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo down")
	assert.Len(t, sheet.rows, 1, "sheets still receives the rows")
}

func TestArchiveDailyReports_NothingToDo(t *testing.T) {
	archive := &stubArchive{}
	s := newTestScheduler(Deps{Reports: &stubReports{}, Archive: archive})

	require.NoError(t, s.archiveDailyReports(context.Background()))
	assert.Empty(t, archive.saved)
}

func TestReminderDigest(t *testing.T) {
	msg := &stubMessaging{}
	reports := &stubReports{}
	s := newTestScheduler(Deps{Reports: reports, Messaging: msg})

	require.NoError(t, s.sendReminderDigest(context.Background()))
	assert.Empty(t, msg.sent, "empty digest is not sent")

	reports.digest = "2 open reminders"
	require.NoError(t, s.sendReminderDigest(context.Background()))
	require.Len(t, msg.sent, 1)
	assert.Equal(t, models.OutboundMessageRequest{To: "224600", Message: "2 open reminders"}, msg.sent[0])
}

func TestWeeklyDigestWithoutRecipient(t *testing.T) {
	msg := &stubMessaging{}
	cfg := testConfig()
	cfg.WhatsApp.NotifyTo = ""
	s := NewScheduler(cfg, Deps{Reports: &stubReports{weekly: "week"}, Messaging: msg}, nil)

	require.NoError(t, s.sendWeeklyDigest(context.Background()))
	assert.Empty(t, msg.sent)
}

func TestExpireSessions(t *testing.T) {
	sessions := &stubSessions{}
	s := newTestScheduler(Deps{Reports: &stubReports{}, Sessions: sessions})

	require.NoError(t, s.expireSessions(context.Background()))
	assert.Equal(t, sessionIdle, sessions.idle)
}

func TestStart(t *testing.T) {
	s := newTestScheduler(Deps{Reports: &stubReports{}})
	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 4)
	s.Stop()

	cfg := testConfig()
	cfg.Reporting.DigestSchedule = ""
	s = NewScheduler(cfg, Deps{Reports: &stubReports{}}, nil)
	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 3)
	s.Stop()

	cfg.Reporting.WeeklySchedule = "every friday"
	s = NewScheduler(cfg, Deps{Reports: &stubReports{}}, nil)
	assert.Error(t, s.Start())
}
