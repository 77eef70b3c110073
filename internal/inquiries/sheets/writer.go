// Package sheets appends inquiries to a Google Sheets tab, creating the tab
// and its header row on first use.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"codemasters_backend/internal/inquiries/domain"
	"codemasters_backend/platform/config"
	"codemasters_backend/platform/logger"
)

const (
	reasonNoSpreadsheet = "GOOGLE_SHEETS_SPREADSHEET_ID not set"
	reasonNoCredentials = "Service account not configured/failed to load"
	headerColumns       = "A1:K1"
	appendColumn        = "A:A"
)

// API is the subset of the Sheets service the writer needs.
type API interface {
	SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error)
	AddSheet(ctx context.Context, spreadsheetID, title string) error
	UpdateValues(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error
	AppendValues(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error
}

// Writer is the spreadsheet sink. A nil api means credentials were missing
// or unusable, and every write is skipped.
type Writer struct {
	api           API
	spreadsheetID string
	tab           string
	log           *logger.Logger
}

// NewWriter creates a writer for the configured spreadsheet and tab.
func NewWriter(cfg config.SheetsConfig, api API, log *logger.Logger) *Writer {
	return &Writer{
		api:           api,
		spreadsheetID: cfg.GetSheetsSpreadsheetID(),
		tab:           cfg.GetSheetsTabName(),
		log:           log,
	}
}

// Enabled reports whether writes will reach the spreadsheet.
func (w *Writer) Enabled() bool {
	return w.spreadsheetID != "" && w.api != nil
}

// Write appends one row. Missing configuration yields a skipped result;
// an unusable tab or a failed append is returned as an error.
func (w *Writer) Write(ctx context.Context, inquiry domain.Inquiry) (domain.SinkResult, error) {
	if w.spreadsheetID == "" {
		return domain.Skipped(reasonNoSpreadsheet), nil
	}
	if w.api == nil {
		return domain.Skipped(reasonNoCredentials), nil
	}

	if err := w.ensureTab(ctx); err != nil {
		return domain.SinkResult{}, err
	}

	rng := A1Range(w.tab, appendColumn)
	if err := w.api.AppendValues(ctx, w.spreadsheetID, rng, [][]interface{}{inquiry.SheetRow()}); err != nil {
		return domain.SinkResult{}, fmt.Errorf("append row: %w", err)
	}
	return domain.Saved(), nil
}

// ensureTab makes sure the target tab exists. The first check-and-create
// pass only logs failures; the second listing decides.
func (w *Writer) ensureTab(ctx context.Context) error {
	exists, err := w.tabExists(ctx)
	if err == nil && !exists {
		if err = w.createTab(ctx); err == nil {
			exists = true
		}
	}
	if err != nil {
		w.log.WithContext(ctx).Warn("sheet check/create failed",
			"tab", w.tab,
			"error", err,
		)
	}
	if exists {
		return nil
	}

	exists, err = w.tabExists(ctx)
	if err != nil {
		return fmt.Errorf("cannot verify sheet existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("sheet %q does not exist and could not be created; create it manually in the spreadsheet", w.tab)
	}
	return nil
}

func (w *Writer) tabExists(ctx context.Context) (bool, error) {
	titles, err := w.api.SheetTitles(ctx, w.spreadsheetID)
	if err != nil {
		return false, err
	}
	for _, title := range titles {
		if title == w.tab {
			return true, nil
		}
	}
	return false, nil
}

func (w *Writer) createTab(ctx context.Context) error {
	if err := w.api.AddSheet(ctx, w.spreadsheetID, w.tab); err != nil {
		return fmt.Errorf("add sheet %q: %w", w.tab, err)
	}
	header := [][]interface{}{domain.SheetHeader}
	if err := w.api.UpdateValues(ctx, w.spreadsheetID, A1Range(w.tab, headerColumns), header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.log.WithContext(ctx).Info("sheet tab created", "tab", w.tab)
	return nil
}

// A1Range builds "<tab>!<cells>", quoting the tab name when it contains
// whitespace, punctuation or symbols. Embedded single quotes are doubled.
func A1Range(tab, cells string) string {
	if needsQuoting(tab) {
		return "'" + strings.ReplaceAll(tab, "'", "''") + "'!" + cells
	}
	return tab + "!" + cells
}

func needsQuoting(tab string) bool {
	return strings.IndexFunc(tab, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	}) >= 0
}
