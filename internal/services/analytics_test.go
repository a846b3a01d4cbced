package services

import (
	"context"
	"os"
	"testing"

	"sales-dashboard/internal/models"
)

func createTempCSV(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "orders*.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(f.Name()) })
	return f.Name()
}

const fullHeader = "order_id,customer_id,customer_name,product_name,category,state,gender,age_bracket,order_date,registration_date,quantity,unit_price,line_revenue,order_total"

func TestNewAnalytics(t *testing.T) {
	a := NewAnalytics()
	if a == nil {
		t.Fatal("NewAnalytics() returned nil")
	}
	if a.Snapshot() == nil {
		t.Error("snapshot should be initialized")
	}
	if a.Snapshot().Len() != 0 {
		t.Error("fresh analytics should hold an empty table")
	}
}

func TestAnalytics_LoadFromCSV(t *testing.T) {
	csv := fullHeader + `
O1,C1,Ana Souza,A,X,SP,F,25-34,2023-01-15,2022-06-01,2,50,100,120
O2,C2,Bruno Lima,B,X,RJ,M,35-44,2023-02-10,2022-07-01,5,10,50,50`

	f := createTempCSV(t, csv)

	a := NewAnalytics()
	if err := a.LoadFromCSV(context.Background(), f); err != nil {
		t.Fatalf("LoadFromCSV() failed: %v", err)
	}

	table := a.Snapshot()
	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}
	if !table.HasColumn(ColOrderDate) {
		t.Error("order_date column should be recorded as present")
	}

	kpis := a.KPIs(models.FilterOptions{})
	if kpis.TotalRevenue != 150 {
		t.Errorf("TotalRevenue = %v, want 150", kpis.TotalRevenue)
	}
	if kpis.TotalOrders != 2 {
		t.Errorf("TotalOrders = %v, want 2", kpis.TotalOrders)
	}
}

func TestAnalytics_LoadFromCSV_CoercesBadValues(t *testing.T) {
	// Malformed values are coerced to defaults, never rejected: numbers to
	// 0, categoricals to "Unknown", dates to the zero time.
	csv := fullHeader + `
O1,C1,,A,,SP,F,25-34,not-a-date,2022-06-01,oops,50,abc,120`

	f := createTempCSV(t, csv)

	a := NewAnalytics()
	if err := a.LoadFromCSV(context.Background(), f); err != nil {
		t.Fatalf("LoadFromCSV() failed: %v", err)
	}

	v := a.Snapshot().All()
	if v.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", v.Len())
	}
	o := v.Row(0)
	if o.Category != models.Unknown {
		t.Errorf("empty category = %q, want Unknown", o.Category)
	}
	if o.CustomerName != models.Unknown {
		t.Errorf("empty customer name = %q, want Unknown", o.CustomerName)
	}
	if o.Quantity != 0 || o.LineRevenue != 0 {
		t.Errorf("bad numerics should coerce to 0, got qty=%v revenue=%v", o.Quantity, o.LineRevenue)
	}
	if !o.OrderDate.IsZero() {
		t.Errorf("bad date should coerce to zero time, got %v", o.OrderDate)
	}
}

func TestAnalytics_LoadFromCSV_DerivesRevenueWhenColumnAbsent(t *testing.T) {
	csv := `order_id,customer_id,product_name,quantity,unit_price
O1,C1,A,4,25`

	f := createTempCSV(t, csv)

	a := NewAnalytics()
	if err := a.LoadFromCSV(context.Background(), f); err != nil {
		t.Fatalf("LoadFromCSV() failed: %v", err)
	}

	table := a.Snapshot()
	if table.HasColumn(ColLineRevenue) {
		t.Error("line_revenue should be marked absent from the source")
	}
	if got := table.All().Row(0).LineRevenue; got != 100 {
		t.Errorf("derived line revenue = %v, want quantity*unit_price = 100", got)
	}
}

func TestAnalytics_LoadFromCSV_EmptyFile(t *testing.T) {
	f := createTempCSV(t, "")

	a := NewAnalytics()
	if err := a.LoadFromCSV(context.Background(), f); err == nil {
		t.Error("LoadFromCSV() should fail on an empty file")
	}
}

func TestAnalytics_Reload(t *testing.T) {
	csv := fullHeader + `
O1,C1,Ana Souza,A,X,SP,F,25-34,2023-01-15,2022-06-01,2,50,100,120`

	f := createTempCSV(t, csv)

	a := NewAnalytics()
	if err := a.LoadFromCSV(context.Background(), f); err != nil {
		t.Fatalf("LoadFromCSV() failed: %v", err)
	}
	before := a.Snapshot()

	extra := csv + "\nO2,C2,Bruno Lima,B,X,RJ,M,35-44,2023-02-10,2022-07-01,5,10,50,50"
	if err := os.WriteFile(f, []byte(extra), 0644); err != nil {
		t.Fatal(err)
	}

	if err := a.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}

	if a.Snapshot() == before {
		t.Error("reload should publish a new snapshot")
	}
	if before.Len() != 1 {
		t.Error("old snapshot must stay untouched after reload")
	}
	if a.Snapshot().Len() != 2 {
		t.Errorf("new snapshot should have 2 rows, got %d", a.Snapshot().Len())
	}
}

func TestAnalytics_ReloadWithoutLoad(t *testing.T) {
	a := NewAnalytics()
	if err := a.Reload(context.Background()); err == nil {
		t.Error("Reload() without a prior load should fail")
	}
}

func TestAnalytics_ConcurrentReads(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testOrders())

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- true }()

			_ = a.KPIs(models.FilterOptions{})
			_, _ = a.Insights(models.FilterOptions{})
			_, _ = a.Aggregate(models.FilterOptions{}, ColCategory, SumRevenue, 0)
			_, _ = a.RevenueSeries(models.FilterOptions{})
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestAnalytics_Stats(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testOrders())

	stats := a.Stats()
	if stats["record_count"] != 2 {
		t.Errorf("record_count = %v, want 2", stats["record_count"])
	}
}
