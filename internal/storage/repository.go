// Package storage persists expense records in an embedded SQLite
// database. The schema is managed by embedded migrations; legacy date
// values are repaired best-effort after every migration run.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"uscite/internal/core"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when an operation targets a record id that
// does not exist.
var ErrNotFound = errors.New("record not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{db: db}

	// Rewrite any pre-existing non-canonical dates. Row failures are
	// reported and logged but never abort startup.
	report, err := repo.RepairDates(context.Background())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("repair legacy dates: %w", err)
	}
	if report.Examined > 0 {
		slog.Info("Legacy date repair completed",
			"examined", report.Examined,
			"rewritten", report.Rewritten,
			"failed", len(report.Failures))
	}

	return repo, nil
}

// applyMigrations brings the schema up to date on the repository's own
// connection. The migrator is not closed: closing it would close db,
// which the repository keeps using.
func applyMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		src.Close()
		return fmt.Errorf("prepare sqlite driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		src.Close()
		return fmt.Errorf("prepare migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return src.Close()
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateExpense inserts a validated record and returns the id the store
// assigned to it.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, rec core.Record) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (amount_cents, category, note, spent_on)
		 VALUES (?, ?, ?, ?)`,
		rec.Amount.Cents, rec.Category, nullable(rec.Note), nullable(rec.Date))
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"amount_cents", rec.Amount.Cents,
		"category", rec.Category,
		"spent_on", rec.Date)

	return id, nil
}

// UpdateExpense overwrites every field except the id.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, rec core.Record) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses
		 SET amount_cents = ?, category = ?, note = ?, spent_on = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		rec.Amount.Cents, rec.Category, nullable(rec.Note), nullable(rec.Date), rec.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Record, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, amount_cents, category, note, spent_on FROM expenses WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Record{}, ErrNotFound
	}
	if err != nil {
		return core.Record{}, fmt.Errorf("get expense: %w", err)
	}
	return rec, nil
}

// ListExpenses returns every record, newest first.
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount_cents, category, note, spent_on FROM expenses ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (core.Record, error) {
	var (
		rec  core.Record
		note sql.NullString
		date sql.NullString
	)
	if err := row.Scan(&rec.ID, &rec.Amount.Cents, &rec.Category, &note, &date); err != nil {
		return core.Record{}, err
	}
	rec.Note = note.String
	rec.Date = date.String
	return rec, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
