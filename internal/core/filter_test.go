package core

import (
	"testing"
	"time"
)

func rec(id int64, cents int64, category, date string) Record {
	return Record{ID: id, Amount: Money{Cents: cents}, Category: category, Date: date}
}

func ids(records []Record) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestFilterAll(t *testing.T) {
	records := []Record{
		rec(3, 100, "Food", "2024-03-06"),
		rec(2, 200, "Books", ""),
		rec(1, 300, "Food", "garbage"),
	}
	now := time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC)

	got := Filter(records, WindowAll, "", now)
	if len(got) != 3 {
		t.Fatalf("expected all 3 records, got %d", len(got))
	}
	for i, r := range got {
		if r.ID != records[i].ID {
			t.Errorf("order changed at %d: got id %d, want %d", i, r.ID, records[i].ID)
		}
	}
}

func TestFilterWeek(t *testing.T) {
	// Wednesday; the current week is [Sunday 2024-03-03, Sunday 2024-03-10).
	now := time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		date string
		want bool
	}{
		{name: "preceding Sunday included", date: "2024-03-03", want: true},
		{name: "today included", date: "2024-03-06", want: true},
		{name: "Saturday included", date: "2024-03-09", want: true},
		{name: "following Sunday excluded", date: "2024-03-10", want: false},
		{name: "previous Saturday excluded", date: "2024-03-02", want: false},
		{name: "no date excluded", date: "", want: false},
		{name: "unparseable date excluded", date: "03/06/24", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter([]Record{rec(1, 100, "Food", tt.date)}, WindowWeek, "", now)
			if matched := len(got) == 1; matched != tt.want {
				t.Errorf("date %q matched = %v, want %v", tt.date, matched, tt.want)
			}
		})
	}
}

func TestFilterMonth(t *testing.T) {
	now := time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		date string
		want bool
	}{
		{name: "first of current month included", date: "2024-03-01", want: true},
		{name: "last of current month included", date: "2024-03-31", want: true},
		{name: "first of next month excluded", date: "2024-04-01", want: false},
		{name: "last of previous month excluded", date: "2024-02-29", want: false},
		{name: "no date excluded", date: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter([]Record{rec(1, 100, "Food", tt.date)}, WindowMonth, "", now)
			if matched := len(got) == 1; matched != tt.want {
				t.Errorf("date %q matched = %v, want %v", tt.date, matched, tt.want)
			}
		})
	}
}

func TestFilterCategory(t *testing.T) {
	records := []Record{
		rec(4, 100, "Food", "2024-03-06"),
		rec(3, 200, "Books", "2024-03-06"),
		rec(2, 300, " Food ", "2024-03-06"),
		rec(1, 400, "food", "2024-03-06"),
	}
	now := time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC)

	got := Filter(records, WindowAll, " Food ", now)
	want := []int64{4, 2}
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("ids = %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("ids = %v, want %v", gotIDs, want)
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := []Record{
		rec(2, 100, "Food", "2024-03-06"),
		rec(1, 200, "Books", "2024-01-01"),
	}
	now := time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC)

	_ = Filter(records, WindowMonth, "Food", now)

	if records[0].ID != 2 || records[1].ID != 1 {
		t.Fatal("input slice was mutated")
	}
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in   string
		want Window
		ok   bool
	}{
		{"all", WindowAll, true},
		{"", WindowAll, true},
		{"week", WindowWeek, true},
		{"month", WindowMonth, true},
		{" month ", WindowMonth, true},
		{"year", WindowAll, false},
	}
	for _, tt := range tests {
		got, ok := ParseWindow(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseWindow(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
