package worker

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"uscite/internal/amqp"
	"uscite/internal/core"
	"uscite/internal/storage"
)

func TestWriteCSV(t *testing.T) {
	records := []core.Record{
		{ID: 2, Amount: core.Money{Cents: 1250}, Category: "Books", Note: "used, like new", Date: "2024-03-05"},
		{ID: 1, Amount: core.Money{Cents: 500}, Category: "Food"},
	}

	var sb strings.Builder
	if err := writeCSV(&sb, records); err != nil {
		t.Fatalf("writeCSV: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := [][]string{
		{"id", "amount", "category", "note", "date"},
		{"2", "12.50", "Books", "used, like new", "2024-03-05"},
		{"1", "5.00", "Food", "", ""},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(rows), len(want))
	}
	for i := range want {
		for j := range want[i] {
			if rows[i][j] != want[i][j] {
				t.Errorf("row %d col %d = %q, want %q", i, j, rows[i][j], want[i][j])
			}
		}
	}
}

func TestWriteSnapshot(t *testing.T) {
	dir := t.TempDir()
	repo, err := storage.NewSQLiteRepository(filepath.Join(dir, "uscite.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	if _, err := repo.CreateExpense(ctx, core.Record{
		Amount: core.Money{Cents: 1000}, Category: "Food", Date: "2024-03-05",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	exportPath := filepath.Join(dir, "export", "records.csv")
	w := NewExportWorker(repo, exportPath)

	if err := w.HandleEvent(ctx, amqp.NewRecordEvent(1, amqp.OpUpsert)); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "10.00,Food") {
		t.Errorf("export missing record, got:\n%s", content)
	}

	// No stray temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(exportPath))
	if err != nil {
		t.Fatalf("read export dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("export dir has %d entries, want 1", len(entries))
	}
}
