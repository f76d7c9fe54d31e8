// Package worker maintains a CSV mirror of the stored records. It
// consumes record change events and rewrites the snapshot file on every
// change, so the export is eventually consistent with the database.
package worker

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"uscite/internal/amqp"
	"uscite/internal/core"
	"uscite/internal/storage"
)

type ExportWorker struct {
	storage    *storage.SQLiteRepository
	exportPath string
}

func NewExportWorker(storage *storage.SQLiteRepository, exportPath string) *ExportWorker {
	return &ExportWorker{
		storage:    storage,
		exportPath: exportPath,
	}
}

// HandleEvent processes one record change event. The snapshot is always
// rebuilt from the full record list, so the operation kind only matters
// for logging.
func (w *ExportWorker) HandleEvent(ctx context.Context, ev *amqp.RecordEvent) error {
	slog.InfoContext(ctx, "Processing record event", "id", ev.ID, "op", ev.Op)
	return w.WriteSnapshot(ctx)
}

// WriteSnapshot writes the current record list to the export path. The
// file is written to a temp name and renamed so readers never see a
// partial snapshot.
func (w *ExportWorker) WriteSnapshot(ctx context.Context) error {
	records, err := w.storage.ListExpenses(ctx)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(w.exportPath), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(w.exportPath), "export-*.csv")
	if err != nil {
		return fmt.Errorf("create temp export: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeCSV(tmp, records); err != nil {
		tmp.Close()
		return fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp export: %w", err)
	}

	if err := os.Rename(tmp.Name(), w.exportPath); err != nil {
		return fmt.Errorf("replace export: %w", err)
	}

	slog.InfoContext(ctx, "Export snapshot written",
		"path", w.exportPath, "records", len(records))

	return nil
}

func writeCSV(out io.Writer, records []core.Record) error {
	cw := csv.NewWriter(out)

	if err := cw.Write([]string{"id", "amount", "category", "note", "date"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.Amount.Decimal(),
			r.Category,
			r.Note,
			r.Date,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
