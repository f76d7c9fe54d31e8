// Package services orchestrates record operations across storage and the
// optional event broker.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"uscite/internal/amqp"
	"uscite/internal/core"
	"uscite/internal/storage"
)

// Overview is what a single render pass needs: the filtered records and
// their aggregate, computed together from one storage read.
type Overview struct {
	Records []core.Record
	Summary core.Summary
}

// ExpenseService validates and normalizes user input, persists records,
// and publishes change events best-effort. A failed event publish never
// fails the request; the record is already stored locally.
type ExpenseService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewExpenseService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *ExpenseService {
	return &ExpenseService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// AddExpense validates the draft and stores it as a new record. A
// validation error aborts before any write.
func (s *ExpenseService) AddExpense(ctx context.Context, d core.Draft) (int64, error) {
	rec, err := d.Record()
	if err != nil {
		return 0, err
	}

	id, err := s.storage.CreateExpense(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}

	s.publishEvent(ctx, id, amqp.OpUpsert)

	return id, nil
}

// EditExpense overwrites every field of an existing record except its id,
// under the same validation rules as AddExpense.
func (s *ExpenseService) EditExpense(ctx context.Context, id int64, d core.Draft) error {
	rec, err := d.Record()
	if err != nil {
		return err
	}
	rec.ID = id

	if err := s.storage.UpdateExpense(ctx, rec); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	s.publishEvent(ctx, id, amqp.OpUpsert)

	return nil
}

// RemoveExpense deletes the record with the given id.
func (s *ExpenseService) RemoveExpense(ctx context.Context, id int64) error {
	if err := s.storage.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.publishEvent(ctx, id, amqp.OpDelete)

	return nil
}

// Overview loads all records and applies the window and category filter
// plus aggregation for a single render.
func (s *ExpenseService) Overview(ctx context.Context, window core.Window, category string, now time.Time) (Overview, error) {
	records, err := s.storage.ListExpenses(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("list expenses: %w", err)
	}

	filtered := core.Filter(records, window, category, now)
	return Overview{
		Records: filtered,
		Summary: core.Aggregate(filtered),
	}, nil
}

func (s *ExpenseService) publishEvent(ctx context.Context, id int64, op string) {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping event", "id", id, "op", op)
		return
	}
	if err := s.amqpClient.PublishRecordEvent(ctx, amqp.NewRecordEvent(id, op)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record event",
			"id", id, "op", op, "error", err)
	}
}

// Close closes both storage and AMQP connections.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}
	return nil
}
