package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/farmdash/internal/config"
	"github.com/mamadbah2/farmdash/internal/domain/models"
)

// Repository exports archived daily reports to a spreadsheet.
type Repository interface {
	AppendDailyReports(ctx context.Context, reports []models.DailyReport) error
}

// GoogleSheetRepository implements Repository with the Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	reportRange   string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a repository authenticated with a service
// account credentials file. Extra client options are appended after the
// credentials, so tests can point the client at a fake endpoint.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ReportRange == "" {
		return nil, fmt.Errorf("sheets: report range must not be empty")
	}

	all := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if cfg.CredentialsPath != "" {
		all = append(all, option.WithCredentialsFile(cfg.CredentialsPath))
	}
	all = append(all, opts...)

	service, err := sheetsapi.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		reportRange:   cfg.ReportRange,
		logger:        logger,
	}, nil
}

// AppendDailyReports writes one row per report below the last filled row.
// An empty sheet gets the header row first.
func (r *GoogleSheetRepository) AppendDailyReports(ctx context.Context, reports []models.DailyReport) error {
	if len(reports) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(reports)+1)
	empty, err := r.sheetIsEmpty(ctx)
	if err != nil {
		return err
	}
	if empty {
		rows = append(rows, models.DailyReportHeader())
	}
	for _, report := range reports {
		rows = append(rows, report.Row())
	}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, r.reportRange, &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)
	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append daily reports into %s: %w", r.reportRange, err)
	}

	r.logger.Debug("daily reports appended to sheet",
		zap.String("range", r.reportRange),
		zap.Int("reports", len(reports)),
		zap.Bool("header", empty))
	return nil
}

func (r *GoogleSheetRepository) sheetIsEmpty(ctx context.Context) (bool, error) {
	headerRange := firstRow(r.reportRange)
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("read header %s: %w", headerRange, err)
	}
	return len(resp.Values) == 0, nil
}

// firstRow turns "Sheet!A:I" into "Sheet!1:1"; a bare range means the first sheet.
func firstRow(reportRange string) string {
	if sheet, _, ok := strings.Cut(reportRange, "!"); ok {
		return sheet + "!1:1"
	}
	return "1:1"
}
