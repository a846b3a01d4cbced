package services

import (
	"testing"
	"time"

	"sales-dashboard/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testOrders() []models.Order {
	return []models.Order{
		{
			OrderID: "O1", CustomerID: "C1", CustomerName: "Ana Souza",
			ProductName: "A", Category: "X", State: "SP", Gender: "F", AgeBracket: "25-34",
			OrderDate: date(2023, 1, 15), Quantity: 2, UnitPrice: 50, LineRevenue: 100,
		},
		{
			OrderID: "O2", CustomerID: "C2", CustomerName: "Bruno Lima",
			ProductName: "B", Category: "X", State: "RJ", Gender: "M", AgeBracket: "35-44",
			OrderDate: date(2023, 2, 10), Quantity: 5, UnitPrice: 10, LineRevenue: 50,
		},
	}
}

func viewKeys(v View) []string {
	keys := make([]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		keys = append(keys, v.Row(i).OrderID)
	}
	return keys
}

func TestApplyFilters_NoOptionsKeepsAll(t *testing.T) {
	table := NewTable(testOrders())
	v := ApplyFilters(table, models.FilterOptions{})

	if v.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", v.Len())
	}
	if got := viewKeys(v); got[0] != "O1" || got[1] != "O2" {
		t.Errorf("source order not preserved: %v", got)
	}
}

func TestApplyFilters_Idempotent(t *testing.T) {
	table := NewTable(testOrders())
	opts := models.FilterOptions{Category: "X", MinRevenue: 60}

	first := ApplyFilters(table, opts)
	second := ApplyFilters(table, opts)

	if first.Len() != second.Len() {
		t.Fatalf("filter not idempotent: %d vs %d rows", first.Len(), second.Len())
	}
	for i := 0; i < first.Len(); i++ {
		if first.Row(i).OrderID != second.Row(i).OrderID {
			t.Errorf("row %d differs between applications", i)
		}
	}
}

func TestApplyFilters_CategoricalAND(t *testing.T) {
	table := NewTable(testOrders())

	tests := []struct {
		name string
		opts models.FilterOptions
		want []string
	}{
		{"category only", models.FilterOptions{Category: "X"}, []string{"O1", "O2"}},
		{"category and state", models.FilterOptions{Category: "X", State: "RJ"}, []string{"O2"}},
		{"all sentinel means unset", models.FilterOptions{Product: "All", Gender: "All"}, []string{"O1", "O2"}},
		{"conflicting filters", models.FilterOptions{Product: "A", Gender: "M"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ApplyFilters(table, tt.opts)
			got := viewKeys(v)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestApplyFilters_MinRevenue(t *testing.T) {
	table := NewTable(testOrders())
	v := ApplyFilters(table, models.FilterOptions{MinRevenue: 75})

	if v.Len() != 1 || v.Row(0).OrderID != "O1" {
		t.Fatalf("min_revenue=75 should keep only O1, got %v", viewKeys(v))
	}

	kpis := ComputeKPIs(v)
	if kpis.TotalRevenue != 100 {
		t.Errorf("TotalRevenue = %v, want 100", kpis.TotalRevenue)
	}
	if kpis.TotalOrders != 1 {
		t.Errorf("TotalOrders = %v, want 1", kpis.TotalOrders)
	}
}

func TestApplyFilters_DateRange(t *testing.T) {
	table := NewTable(testOrders())

	start := date(2023, 1, 1)
	end := date(2023, 1, 31)
	v := ApplyFilters(table, models.FilterOptions{StartDate: &start, EndDate: &end})
	if v.Len() != 1 || v.Row(0).OrderID != "O1" {
		t.Errorf("january range should keep only O1, got %v", viewKeys(v))
	}

	// Inclusive on both ends
	exactStart := date(2023, 1, 15)
	exactEnd := date(2023, 2, 10)
	v = ApplyFilters(table, models.FilterOptions{StartDate: &exactStart, EndDate: &exactEnd})
	if v.Len() != 2 {
		t.Errorf("boundary dates should be included, got %v", viewKeys(v))
	}
}

func TestApplyFilters_DateRangeOutsideAllDates(t *testing.T) {
	table := NewTable(testOrders())

	start := date(2020, 1, 1)
	end := date(2020, 12, 31)
	v := ApplyFilters(table, models.FilterOptions{StartDate: &start, EndDate: &end})

	if v.Len() != 0 {
		t.Fatalf("expected empty view, got %d rows", v.Len())
	}

	// Downstream calculators degrade, not fail
	kpis := ComputeKPIs(v)
	if kpis != (models.KPISet{}) {
		t.Errorf("empty view should yield zero KPIs, got %+v", kpis)
	}
	insights, err := ComputeInsights(v)
	if err != nil {
		t.Fatalf("ComputeInsights() failed: %v", err)
	}
	if insights.BestSellingProduct.Key != models.NoData {
		t.Errorf("empty view should yield sentinel insights, got %+v", insights.BestSellingProduct)
	}
}

func TestApplyFilters_UnparseableDateExcludedWhileRangeActive(t *testing.T) {
	rows := testOrders()
	rows = append(rows, models.Order{
		OrderID: "O3", CustomerID: "C3", ProductName: "C", Category: "Y",
		State: "MG", Gender: "F", AgeBracket: "18-24", LineRevenue: 10,
		// OrderDate zero: the source value failed to parse
	})
	table := NewTable(rows)

	start := date(2023, 1, 1)
	end := date(2023, 12, 31)
	v := ApplyFilters(table, models.FilterOptions{StartDate: &start, EndDate: &end})
	for i := 0; i < v.Len(); i++ {
		if v.Row(i).OrderID == "O3" {
			t.Error("row with zero date should be excluded while a range is active")
		}
	}

	// Without a range the row passes
	v = ApplyFilters(table, models.FilterOptions{})
	if v.Len() != 3 {
		t.Errorf("expected 3 rows without date filter, got %d", v.Len())
	}
}

func TestApplyFilters_DateFilterSkippedWhenColumnAbsent(t *testing.T) {
	table := NewTable(testOrders(),
		ColOrderID, ColCustomerID, ColProductName, ColCategory, ColState,
		ColGender, ColAgeBracket, ColQuantity, ColLineRevenue)

	start := date(2020, 1, 1)
	end := date(2020, 12, 31)
	v := ApplyFilters(table, models.FilterOptions{StartDate: &start, EndDate: &end})

	if v.Len() != 2 {
		t.Errorf("date filter should be skipped when the column is absent, got %d rows", v.Len())
	}
}
