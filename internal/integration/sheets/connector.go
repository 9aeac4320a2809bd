// Package sheets fetches source rows from the Google Sheets API.
package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/edurag/knowledge-backend/internal/config"
	"github.com/edurag/knowledge-backend/internal/entity"
	pkghttp "github.com/edurag/knowledge-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// headerRowIndex is the zero-based position of the header row: the first
// five rows of every sheet hold authoring metadata, the sixth names the
// columns.
const headerRowIndex = 5

// Error is a typed Google Sheets API failure.
type Error struct {
	Message   string
	Status    int
	SheetName string
}

func (e *Error) Error() string {
	if e.SheetName != "" {
		return fmt.Sprintf("sheets: %s (status %d, sheet %s)", e.Message, e.Status, e.SheetName)
	}
	return fmt.Sprintf("sheets: %s (status %d)", e.Message, e.Status)
}

type Connector struct {
	config    config.SheetsConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(cfg config.SheetsConfig, logger *zap.Logger) *Connector {
	connector := pkghttp.NewConnector(
		&pkghttp.ConnectorConfig{
			BaseURL: cfg.BaseURL,
			Logger:  logger,
		},
		pkghttp.WithRequestTimeout(cfg.RequestTimeout),
		pkghttp.WithConnTimeout(cfg.ConnTimeout),
		pkghttp.WithKeepAlive(cfg.KeepAlive),
		pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkghttp.WithRequestLogging(),
		pkghttp.WithAPIKey(cfg.APIKey),
	)

	return &Connector{
		config:    cfg,
		connector: connector,
		logger:    logger,
	}
}

type spreadsheetResponse struct {
	Sheets []struct {
		Properties struct {
			Title string `json:"title"`
		} `json:"properties"`
	} `json:"sheets"`
}

type valuesResponse struct {
	Values [][]string `json:"values"`
}

// SheetNames lists the titles of all sheets in the spreadsheet.
func (c *Connector) SheetNames(ctx context.Context) ([]string, error) {
	endpoint := "/" + c.config.SpreadsheetID

	var resp spreadsheetResponse
	err := retry.Do(func() error {
		return c.connector.Get(ctx, endpoint, &resp)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return nil, wrapError(err, "")
	}

	names := make([]string, 0, len(resp.Sheets))
	for _, sheet := range resp.Sheets {
		names = append(names, sheet.Properties.Title)
	}
	return names, nil
}

// SheetRows fetches one sheet and maps its tabular values onto source
// rows. Only rows carrying both a message ID and contents are kept.
func (c *Connector) SheetRows(ctx context.Context, sheetName string) ([]entity.SourceRow, error) {
	endpoint := fmt.Sprintf("/%s/values/%s", c.config.SpreadsheetID,
		url.PathEscape(fmt.Sprintf("%s!A:Z", sheetName)))

	var resp valuesResponse
	err := retry.Do(func() error {
		return c.connector.Get(ctx, endpoint, &resp)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return nil, wrapError(err, sheetName)
	}

	rows := ParseRows(resp.Values)

	ctxzap.Debug(ctx, "fetched sheet",
		zap.String("sheet", sheetName),
		zap.Int("raw_rows", len(resp.Values)),
		zap.Int("usable_rows", len(rows)),
	)

	return rows, nil
}

// MultipleSheets fetches several sheets with a delay between requests to
// respect API rate limits. A failing sheet is logged and skipped; it does
// not abort the remaining fetches.
func (c *Connector) MultipleSheets(ctx context.Context, sheetNames []string) (map[string][]entity.SourceRow, error) {
	results := make(map[string][]entity.SourceRow, len(sheetNames))
	failed := 0

	for i, sheetName := range sheetNames {
		rows, err := c.SheetRows(ctx, sheetName)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return results, err
			}
			ctxzap.Error(ctx, "failed to fetch sheet, skipping",
				zap.String("sheet", sheetName),
				zap.Error(err),
			)
			failed++
			continue
		}
		results[sheetName] = rows

		if i < len(sheetNames)-1 && c.config.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(c.config.RequestDelay):
			}
		}
	}

	if failed > 0 {
		ctxzap.Warn(ctx, "some sheets could not be fetched",
			zap.Int("failed", failed),
			zap.Int("total", len(sheetNames)),
		)
	}

	return results, nil
}

// ParseRows maps raw sheet values onto source rows using the header row
// (row 6) for the column-to-field mapping. Header names are lower-cased
// with spaces replaced by underscores. Rows missing a message ID or
// contents are dropped.
func ParseRows(values [][]string) []entity.SourceRow {
	if len(values) <= headerRowIndex {
		return nil
	}

	headers := values[headerRowIndex]
	var rows []entity.SourceRow

	for _, raw := range values[headerRowIndex+1:] {
		fields := make(map[string]string, len(headers))
		for col, header := range headers {
			if col >= len(raw) || raw[col] == "" {
				continue
			}
			key := strings.ReplaceAll(strings.ToLower(header), " ", "_")
			fields[key] = raw[col]
		}

		row := entity.SourceRow{
			MessageID:     fields["message_id"],
			Section:       fields["section"],
			Type:          fields["type"],
			Subtype:       fields["subtype"],
			Contents:      fields["contents"],
			Choices:       fields["choices"],
			CorrectAnswer: fields["correct_answer"],
		}

		if row.MessageID == "" || row.Contents == "" {
			continue
		}
		rows = append(rows, row)
	}

	return rows
}

func wrapError(err error, sheetName string) error {
	var httpErr *pkghttp.HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}

	sheetsErr := &Error{
		Message:   httpErr.Message,
		Status:    httpErr.StatusCode,
		SheetName: sheetName,
	}

	var body struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if jsonErr := json.Unmarshal([]byte(httpErr.Message), &body); jsonErr == nil && body.Error.Message != "" {
		sheetsErr.Message = body.Error.Message
	}

	return sheetsErr
}
