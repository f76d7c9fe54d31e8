package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"uscite/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "uscite.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestReopenExistingDatabase(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "uscite.db")

	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	id, err := repo.CreateExpense(ctx, core.Record{
		Amount:   core.Money{Cents: 750},
		Category: "Food",
		Date:     "2024-03-05",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Migrations are already applied; a second open must tolerate that
	// and leave the stored rows alone.
	reopened, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	t.Cleanup(func() { reopened.Close() })

	rec, err := reopened.GetExpense(ctx, id)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if rec.Amount.Cents != 750 || rec.Date != "2024-03-05" {
		t.Errorf("record after reopen = %+v", rec)
	}
}

func TestCreateAndListExpenses(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.CreateExpense(ctx, core.Record{
		Amount:   core.Money{Cents: 1234},
		Category: "Food",
		Note:     "lunch",
		Date:     "2024-03-05",
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := repo.CreateExpense(ctx, core.Record{
		Amount:   core.Money{Cents: 500},
		Category: "Books",
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second <= first {
		t.Fatalf("ids not increasing: %d after %d", second, first)
	}

	records, err := repo.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	// Newest first.
	if records[0].ID != second || records[1].ID != first {
		t.Errorf("order = [%d, %d], want [%d, %d]", records[0].ID, records[1].ID, second, first)
	}
	if records[1].Note != "lunch" || records[1].Date != "2024-03-05" {
		t.Errorf("first record fields = %+v", records[1])
	}
	if records[0].Note != "" || records[0].Date != "" {
		t.Errorf("optional fields should be empty, got %+v", records[0])
	}
}

func TestUpdateExpense(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.CreateExpense(ctx, core.Record{
		Amount:   core.Money{Cents: 100},
		Category: "Food",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = repo.UpdateExpense(ctx, core.Record{
		ID:       id,
		Amount:   core.Money{Cents: 250},
		Category: "Books",
		Note:     "used",
		Date:     "2024-03-06",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetExpense(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := core.Record{ID: id, Amount: core.Money{Cents: 250}, Category: "Books", Note: "used", Date: "2024-03-06"}
	if got != want {
		t.Errorf("record = %+v, want %+v", got, want)
	}

	err = repo.UpdateExpense(ctx, core.Record{ID: 9999, Amount: core.Money{Cents: 1}, Category: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing id err = %v, want ErrNotFound", err)
	}
}

func TestDeleteExpense(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.CreateExpense(ctx, core.Record{Amount: core.Money{Cents: 100}, Category: "Food"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.DeleteExpense(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetExpense(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete err = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteExpense(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete err = %v, want ErrNotFound", err)
	}
}

func TestGetExpenseNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetExpense(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
