package core

import "testing"

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil)
	if s.Total.Cents != 0 {
		t.Errorf("total = %d, want 0", s.Total.Cents)
	}
	if len(s.ByCategory) != 0 {
		t.Errorf("byCategory = %v, want empty", s.ByCategory)
	}
}

func TestAggregate(t *testing.T) {
	records := []Record{
		rec(1, 1000, "Food", ""),
		rec(2, 500, "Food", ""),
		rec(3, 300, "Books", ""),
	}

	s := Aggregate(records)

	if s.Total.Cents != 1800 {
		t.Errorf("total = %d, want 1800", s.Total.Cents)
	}
	want := []CategoryAmount{
		{Name: "Food", Amount: Money{Cents: 1500}},
		{Name: "Books", Amount: Money{Cents: 300}},
	}
	if len(s.ByCategory) != len(want) {
		t.Fatalf("byCategory = %v, want %v", s.ByCategory, want)
	}
	for i := range want {
		if s.ByCategory[i] != want[i] {
			t.Errorf("byCategory[%d] = %v, want %v", i, s.ByCategory[i], want[i])
		}
	}
}

func TestAggregateUncategorized(t *testing.T) {
	records := []Record{
		rec(1, 100, "  ", ""),
		rec(2, 200, "", ""),
	}

	s := Aggregate(records)

	if len(s.ByCategory) != 1 {
		t.Fatalf("byCategory = %v, want single group", s.ByCategory)
	}
	if s.ByCategory[0].Name != UncategorizedLabel {
		t.Errorf("group name = %q, want %q", s.ByCategory[0].Name, UncategorizedLabel)
	}
	if s.ByCategory[0].Amount.Cents != 300 {
		t.Errorf("group sum = %d, want 300", s.ByCategory[0].Amount.Cents)
	}
}

func TestAggregateTieBreaksByName(t *testing.T) {
	records := []Record{
		rec(1, 500, "Zoo", ""),
		rec(2, 500, "Art", ""),
	}

	s := Aggregate(records)

	if s.ByCategory[0].Name != "Art" || s.ByCategory[1].Name != "Zoo" {
		t.Errorf("tie order = [%s, %s], want [Art, Zoo]", s.ByCategory[0].Name, s.ByCategory[1].Name)
	}
}
