package commands

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// maxListed caps the reminders listed in one reply.
const maxListed = 10

// HelpText lists the supported commands.
const HelpText = "Supported commands:\n" +
	"/reminders - list open reminders\n" +
	"/read <id|all> - mark reminders as read\n" +
	"/clear <id|all> - dismiss reminders\n" +
	"/summary - weekly digest\n" +
	"/feed <animal type> <qty> [feed type]\n" +
	"/production <animal type> <qty> [product]"

// ReminderService is the reminder surface the dispatcher drives.
type ReminderService interface {
	List() []models.Notification
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context) error
	Clear(ctx context.Context, id string) error
	ClearAll(ctx context.Context) error
}

// RecordService resolves animal types and stores records.
type RecordService interface {
	FindAnimalType(ref string) (models.AnimalType, error)
	CreateRecord(ctx context.Context, rec models.Record) (models.Record, error)
}

// ReportingAdapter renders the digest behind /summary.
type ReportingAdapter interface {
	WeeklyDigest(now time.Time) string
}

// Dispatcher executes parsed commands.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	reminders ReminderService
	records   RecordService
	reporting ReportingAdapter
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time
}

// NewService constructs a command dispatcher.
func NewService(reminders ReminderService, records RecordService, reporting ReportingAdapter, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		reminders: reminders,
		records:   records,
		reporting: reporting,
		logger:    logger,
		loc:       loc,
		now:       time.Now,
	}
}

// HandleCommand runs cmd and returns the reply text.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandReminders:
		return s.listReminders(), nil
	case models.CommandRead:
		return s.markRead(ctx, cmd)
	case models.CommandClear:
		return s.clear(ctx, cmd)
	case models.CommandSummary:
		return s.reporting.WeeklyDigest(s.now().In(s.loc)), nil
	case models.CommandFeed:
		return s.logFeed(ctx, cmd)
	case models.CommandProduction:
		return s.logProduction(ctx, cmd)
	case models.CommandHelp:
		return HelpText, nil
	default:
		return "Unknown command.\n" + HelpText, nil
	}
}

func (s *Service) listReminders() string {
	var open []models.Notification
	for _, n := range s.reminders.List() {
		if !n.Read {
			open = append(open, n)
		}
	}
	if len(open) == 0 {
		return "No open reminders."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d open reminder(s):", len(open))
	for i, n := range open {
		if i == maxListed {
			fmt.Fprintf(&b, "\n...and %d more", len(open)-maxListed)
			break
		}
		fmt.Fprintf(&b, "\n- [%s] %s: %s (id: %s)", n.Priority, n.Title, n.Message, n.ID)
	}
	return b.String()
}

func (s *Service) markRead(ctx context.Context, cmd models.Command) (string, error) {
	if len(cmd.Args) != 1 {
		return "", fmt.Errorf("%w: usage /read <id|all>", ErrInvalidArguments)
	}
	if strings.EqualFold(cmd.Args[0], "all") {
		if err := s.reminders.MarkAllAsRead(ctx); err != nil {
			return "", fmt.Errorf("mark all reminders read: %w", err)
		}
		return "All reminders marked as read.", nil
	}
	if err := s.reminders.MarkAsRead(ctx, cmd.Args[0]); err != nil {
		return "", fmt.Errorf("mark reminder read: %w", err)
	}
	return fmt.Sprintf("Reminder %s marked as read.", cmd.Args[0]), nil
}

func (s *Service) clear(ctx context.Context, cmd models.Command) (string, error) {
	if len(cmd.Args) != 1 {
		return "", fmt.Errorf("%w: usage /clear <id|all>", ErrInvalidArguments)
	}
	if strings.EqualFold(cmd.Args[0], "all") {
		if err := s.reminders.ClearAll(ctx); err != nil {
			return "", fmt.Errorf("clear reminders: %w", err)
		}
		return "All reminders cleared.", nil
	}
	if err := s.reminders.Clear(ctx, cmd.Args[0]); err != nil {
		return "", fmt.Errorf("clear reminder: %w", err)
	}
	return fmt.Sprintf("Reminder %s cleared.", cmd.Args[0]), nil
}

func (s *Service) logFeed(ctx context.Context, cmd models.Command) (string, error) {
	at, qty, rest, err := s.parseQuantityArgs(cmd, "/feed <animal type> <qty> [feed type]")
	if err != nil {
		return "", err
	}

	rec := &models.FeedRecord{
		RecordBase: models.RecordBase{AnimalTypeID: at.ID, Date: s.today(), Notes: "logged via WhatsApp"},
		FeedType:   orDefault(rest, "feed"),
		Quantity:   qty,
		Unit:       orDefault(at.MeasurementUnit, "kg"),
	}
	if _, err := s.records.CreateRecord(ctx, rec); err != nil {
		return "", err
	}
	return fmt.Sprintf("Feed saved for %s on %s: %.2f %s of %s.", at.Name, rec.Date, rec.Quantity, rec.Unit, rec.FeedType), nil
}

func (s *Service) logProduction(ctx context.Context, cmd models.Command) (string, error) {
	at, qty, rest, err := s.parseQuantityArgs(cmd, "/production <animal type> <qty> [product]")
	if err != nil {
		return "", err
	}

	rec := &models.ProductionRecord{
		RecordBase:  models.RecordBase{AnimalTypeID: at.ID, Date: s.today(), Notes: "logged via WhatsApp"},
		ProductType: orDefault(rest, "general"),
		Quantity:    qty,
		Unit:        at.MeasurementUnit,
	}
	if _, err := s.records.CreateRecord(ctx, rec); err != nil {
		return "", err
	}
	return fmt.Sprintf("Production saved for %s on %s: %.2f %s.", at.Name, rec.Date, rec.Quantity, rec.ProductType), nil
}

// parseQuantityArgs reads "<animal type> <qty> [rest...]". The animal type may
// span several words; the first numeric token ends it and must be a finite
// positive number.
func (s *Service) parseQuantityArgs(cmd models.Command, usage string) (models.AnimalType, float64, string, error) {
	qtyIdx := -1
	var qty float64
	for i, arg := range cmd.Args {
		if v, err := strconv.ParseFloat(arg, 64); err == nil {
			qtyIdx, qty = i, v
			break
		}
	}
	if qtyIdx < 1 || math.IsNaN(qty) || math.IsInf(qty, 0) || qty <= 0 {
		return models.AnimalType{}, 0, "", fmt.Errorf("%w: usage %s", ErrInvalidArguments, usage)
	}

	at, err := s.records.FindAnimalType(strings.Join(cmd.Args[:qtyIdx], " "))
	if err != nil {
		return models.AnimalType{}, 0, "", err
	}
	return at, qty, strings.Join(cmd.Args[qtyIdx+1:], " "), nil
}

func (s *Service) today() string {
	return models.FormatDate(s.now().In(s.loc))
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
