package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/config"
	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/repository/mongodb"
	"github.com/mamadbah2/farmdash/internal/repository/sheets"
	"github.com/mamadbah2/farmdash/internal/service/whatsapp"
)

const (
	jobTimeout = 2 * time.Minute
	// sessionIdle is how long a WhatsApp sender is remembered for redelivery checks.
	sessionIdle = 24 * time.Hour
)

// Reports produces the content the scheduled jobs publish.
type Reports interface {
	DailyReports(day time.Time) []models.DailyReport
	WeeklyDigest(now time.Time) string
	ReminderDigest() string
}

// SessionJanitor forgets idle WhatsApp senders.
type SessionJanitor interface {
	ExpireSessions(idle time.Duration) int
}

// Deps are the collaborators of the scheduled jobs. Archive, Sheets and
// Messaging may be nil when the integration is not configured.
type Deps struct {
	Reports   Reports
	Archive   mongodb.Repository
	Sheets    sheets.Repository
	Messaging whatsapp.MessagingService
	Sessions  SessionJanitor
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron   *cron.Cron
	deps   Deps
	cfg    config.Config
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewScheduler creates a scheduler whose cron expressions are read in the
// configured timezone.
func NewScheduler(cfg config.Config, deps Deps, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := cfg.Reporting.Location()

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		deps:   deps,
		cfg:    cfg,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("timezone", s.loc.String()))

	jobs := []struct {
		name     string
		schedule string
		run      func(context.Context) error
	}{
		{"daily archive", s.cfg.Reporting.ArchiveSchedule, s.archiveDailyReports},
		{"reminder digest", s.cfg.Reporting.DigestSchedule, s.sendReminderDigest},
		{"weekly digest", s.cfg.Reporting.WeeklySchedule, s.sendWeeklyDigest},
		{"session cleanup", "@hourly", s.expireSessions},
	}
	for _, job := range jobs {
		if job.schedule == "" {
			s.logger.Info("job disabled", zap.String("job", job.name))
			continue
		}
		if _, err := s.cron.AddFunc(job.schedule, s.wrap(job.name, job.run)); err != nil {
			return fmt.Errorf("schedule %s %q: %w", job.name, job.schedule, err)
		}
		s.logger.Info("job scheduled", zap.String("job", job.name), zap.String("schedule", job.schedule))
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) wrap(name string, run func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := run(ctx); err != nil {
			s.logger.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.logger.Info("scheduled job finished", zap.String("job", name), zap.Duration("duration", time.Since(start)))
	}
}

// archiveDailyReports stores today's per-type snapshot in every configured sink.
func (s *Scheduler) archiveDailyReports(ctx context.Context) error {
	day := models.Day(s.now().In(s.loc))
	reports := s.deps.Reports.DailyReports(day)
	if len(reports) == 0 {
		s.logger.Debug("no animal types to archive")
		return nil
	}

	var errs []error
	if s.deps.Archive != nil {
		if err := s.deps.Archive.SaveDailyReports(ctx, reports); err != nil {
			errs = append(errs, fmt.Errorf("mongodb: %w", err))
		}
	}
	if s.deps.Sheets != nil {
		if err := s.deps.Sheets.AppendDailyReports(ctx, reports); err != nil {
			errs = append(errs, fmt.Errorf("sheets: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (s *Scheduler) sendReminderDigest(ctx context.Context) error {
	digest := s.deps.Reports.ReminderDigest()
	if digest == "" {
		s.logger.Debug("no open reminders, digest skipped")
		return nil
	}
	return s.notify(ctx, digest)
}

func (s *Scheduler) sendWeeklyDigest(ctx context.Context) error {
	return s.notify(ctx, s.deps.Reports.WeeklyDigest(s.now().In(s.loc)))
}

func (s *Scheduler) expireSessions(context.Context) error {
	if s.deps.Sessions == nil {
		return nil
	}
	if n := s.deps.Sessions.ExpireSessions(sessionIdle); n > 0 {
		s.logger.Debug("expired whatsapp sessions", zap.Int("count", n))
	}
	return nil
}

func (s *Scheduler) notify(ctx context.Context, message string) error {
	to := s.cfg.WhatsApp.NotifyTo
	if s.deps.Messaging == nil || to == "" {
		s.logger.Debug("no whatsapp recipient configured, message dropped")
		return nil
	}
	return s.deps.Messaging.SendOutbound(ctx, models.OutboundMessageRequest{To: to, Message: message})
}
