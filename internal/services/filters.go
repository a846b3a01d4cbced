package services

import (
	"time"

	"sales-dashboard/internal/models"
)

// AllValue is the selector sentinel meaning "no constraint" for a
// categorical filter, alongside the empty string.
const AllValue = "All"

// ApplyFilters returns the view of rows satisfying every active option at
// once (logical AND). It is a pure function of (table, options): the same
// inputs always yield the same rows, in source order.
//
// The date range is inclusive on both ends and compares calendar days.
// While a range is active, rows whose order date failed to parse at load
// time are excluded; if the order-date column was absent from the file
// entirely, the date filter is skipped. An empty result is a valid state,
// not an error.
func ApplyFilters(t *Table, opts models.FilterOptions) View {
	dateActive := (opts.StartDate != nil || opts.EndDate != nil) && t.HasColumn(ColOrderDate)

	idx := make([]int, 0, len(t.rows))
	for i, o := range t.rows {
		if dateActive && !inDateRange(o.OrderDate, opts.StartDate, opts.EndDate) {
			continue
		}
		if !matchesValue(opts.Product, o.ProductName) {
			continue
		}
		if !matchesValue(opts.Category, o.Category) {
			continue
		}
		if !matchesValue(opts.State, o.State) {
			continue
		}
		if !matchesValue(opts.Gender, o.Gender) {
			continue
		}
		if o.LineRevenue < opts.MinRevenue {
			continue
		}
		idx = append(idx, i)
	}
	return View{table: t, idx: idx}
}

func matchesValue(want, have string) bool {
	return want == "" || want == AllValue || want == have
}

func inDateRange(d time.Time, start, end *time.Time) bool {
	if d.IsZero() {
		return false
	}
	day := truncateToDay(d)
	if start != nil && day.Before(truncateToDay(*start)) {
		return false
	}
	if end != nil && day.After(truncateToDay(*end)) {
		return false
	}
	return true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
