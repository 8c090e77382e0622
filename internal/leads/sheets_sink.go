package leads

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ironclubfit/gymlead-ai/pkg/logging"
)

const appendTimeout = 15 * time.Second

// SheetsSink appends leads to a Google Sheets tab via a service account.
type SheetsSink struct {
	service       *sheets.Service
	spreadsheetID string
	tab           string
	logger        *logging.Logger
}

// SheetsConfig holds the lead sink target.
type SheetsConfig struct {
	CredentialsFile string
	SpreadsheetID   string
	Tab             string
}

// NewSheetsSink creates a Google Sheets lead sink. Returns nil when no
// spreadsheet is configured, matching the nil-safe adapter convention.
func NewSheetsSink(ctx context.Context, cfg SheetsConfig, logger *logging.Logger) (*SheetsSink, error) {
	if cfg.SpreadsheetID == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Tab == "" {
		cfg.Tab = "leads"
	}

	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("leads: create sheets service: %w", err)
	}

	return &SheetsSink{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		tab:           cfg.Tab,
		logger:        logger,
	}, nil
}

// Append appends the lead as one row to the configured tab.
func (s *SheetsSink) Append(ctx context.Context, lead Lead) error {
	if s == nil || s.service == nil {
		return ErrSinkNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, appendTimeout)
	defer cancel()

	values := &sheets.ValueRange{Values: [][]any{lead.Row()}}
	rangeA1 := fmt.Sprintf("%s!A:F", s.tab)

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, rangeA1, values).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("leads: append row: %w", err)
	}

	s.logger.Info("lead appended to sheet",
		"sender_id", lead.SenderID,
		"tab", s.tab,
	)
	return nil
}
