package core

import (
	"errors"
	"testing"
)

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		wantErr error
	}{
		{
			name:   "valid",
			record: Record{Amount: Money{Cents: 100}, Category: "Food"},
		},
		{
			name:    "zero amount",
			record:  Record{Amount: Money{Cents: 0}, Category: "Food"},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			record:  Record{Amount: Money{Cents: -50}, Category: "Food"},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "blank category",
			record:  Record{Amount: Money{Cents: 100}, Category: "   "},
			wantErr: ErrEmptyCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDraftRecord(t *testing.T) {
	tests := []struct {
		name    string
		draft   Draft
		want    Record
		wantErr error
	}{
		{
			name:  "full draft",
			draft: Draft{Amount: "12,34", Category: " Food ", Note: " lunch ", Date: "1700000000"},
			want:  Record{Amount: Money{Cents: 1234}, Category: "Food", Note: "lunch", Date: "2023-11-14"},
		},
		{
			name:  "no note no date",
			draft: Draft{Amount: "5", Category: "Books"},
			want:  Record{Amount: Money{Cents: 500}, Category: "Books"},
		},
		{
			name:  "unparseable date becomes no date",
			draft: Draft{Amount: "5", Category: "Books", Date: "whenever"},
			want:  Record{Amount: Money{Cents: 500}, Category: "Books"},
		},
		{
			name:    "invalid amount",
			draft:   Draft{Amount: "-3", Category: "Food"},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "blank category",
			draft:   Draft{Amount: "3", Category: "  "},
			wantErr: ErrEmptyCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.draft.Record()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Record() err = %v, want %v", err, tt.wantErr)
				}
				if !IsValidationError(err) {
					t.Errorf("IsValidationError(%v) = false, want true", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Record() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Record() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
