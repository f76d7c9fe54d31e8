package storage

import (
	"context"
	"fmt"
	"log/slog"

	"uscite/internal/core"
)

// RowFailure records one date value that could not be normalized during
// a repair pass.
type RowFailure struct {
	ID    int64
	Value string
}

// RepairReport summarizes a best-effort date repair pass. Failures never
// abort the pass; they are collected here so callers and tests can
// inspect partial results.
type RepairReport struct {
	Examined  int
	Rewritten int
	Failures  []RowFailure
}

// RepairDates rewrites every stored non-canonical date through the
// normalizer. Values that cannot be normalized are left in place and
// reported as failures.
func (r *SQLiteRepository) RepairDates(ctx context.Context) (RepairReport, error) {
	var report RepairReport

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, spent_on FROM expenses WHERE spent_on IS NOT NULL AND spent_on != ''`)
	if err != nil {
		return report, fmt.Errorf("query legacy dates: %w", err)
	}
	defer rows.Close()

	type legacyRow struct {
		id    int64
		value string
	}
	var legacy []legacyRow
	for rows.Next() {
		var lr legacyRow
		if err := rows.Scan(&lr.id, &lr.value); err != nil {
			return report, fmt.Errorf("scan legacy date: %w", err)
		}
		legacy = append(legacy, lr)
	}
	if err := rows.Err(); err != nil {
		return report, fmt.Errorf("iterate legacy dates: %w", err)
	}

	for _, lr := range legacy {
		report.Examined++

		normalized, ok := core.Normalize(lr.value)
		if !ok {
			report.Failures = append(report.Failures, RowFailure{ID: lr.id, Value: lr.value})
			slog.WarnContext(ctx, "Date repair skipped row", "id", lr.id, "value", lr.value)
			continue
		}
		if normalized == lr.value {
			continue
		}

		if _, err := r.db.ExecContext(ctx,
			`UPDATE expenses SET spent_on = ? WHERE id = ?`, normalized, lr.id); err != nil {
			report.Failures = append(report.Failures, RowFailure{ID: lr.id, Value: lr.value})
			slog.WarnContext(ctx, "Date repair update failed", "id", lr.id, "error", err)
			continue
		}
		report.Rewritten++
	}

	return report, nil
}
