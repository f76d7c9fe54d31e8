package core

import (
	"errors"
	"strings"
)

type (
	Money struct {
		Cents int64
	}

	// Record is a single stored expense. ID is assigned by storage on
	// creation and never changes afterwards. Date holds the canonical
	// YYYY-MM-DD form, or the empty string when no date is known.
	Record struct {
		ID       int64
		Amount   Money
		Category string
		Note     string
		Date     string
	}

	// Draft carries raw user input for a record before validation and
	// normalization. Amount is the decimal string the user typed.
	Draft struct {
		Amount   string
		Category string
		Note     string
		Date     string
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (r Record) Validate() error {
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Record validates and normalizes the draft into a storable record.
// The amount must parse to positive cents and the category must be
// non-empty after trimming; a date that fails normalization becomes
// "no date" rather than an error.
func (d Draft) Record() (Record, error) {
	cents, err := ParseDecimalToCents(d.Amount)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		Amount:   Money{Cents: cents},
		Category: strings.TrimSpace(d.Category),
		Note:     strings.TrimSpace(d.Note),
	}
	if rec.Category == "" {
		return Record{}, ErrEmptyCategory
	}

	if normalized, ok := Normalize(d.Date); ok {
		rec.Date = normalized
	}

	return rec, nil
}

// IsValidationError reports whether err is a user-input validation
// failure, as opposed to a storage or transport failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) || errors.Is(err, ErrEmptyCategory)
}
