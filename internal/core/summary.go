package core

import (
	"sort"
	"strings"
)

// UncategorizedLabel groups records whose category is blank.
const UncategorizedLabel = "Uncategorized"

// CategoryAmount is an amount aggregated under one category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Summary is the aggregate of a (filtered) record list.
type Summary struct {
	Total      Money
	ByCategory []CategoryAmount
}

// Aggregate computes the total amount and the per-category sums, sorted
// descending by sum. Equal sums order by category name ascending so the
// result is deterministic regardless of input order. Empty input yields a
// zero total and no groups.
func Aggregate(records []Record) Summary {
	var s Summary
	index := make(map[string]int)

	for _, r := range records {
		s.Total.Cents += r.Amount.Cents

		name := strings.TrimSpace(r.Category)
		if name == "" {
			name = UncategorizedLabel
		}
		i, ok := index[name]
		if !ok {
			i = len(s.ByCategory)
			index[name] = i
			s.ByCategory = append(s.ByCategory, CategoryAmount{Name: name})
		}
		s.ByCategory[i].Amount.Cents += r.Amount.Cents
	}

	sort.SliceStable(s.ByCategory, func(i, j int) bool {
		if s.ByCategory[i].Amount.Cents != s.ByCategory[j].Amount.Cents {
			return s.ByCategory[i].Amount.Cents > s.ByCategory[j].Amount.Cents
		}
		return s.ByCategory[i].Name < s.ByCategory[j].Name
	})

	return s
}
