package models

import "time"

// Unknown is the fill value for categorical columns that were empty in the
// source file. NoData is the sentinel key insights fall back to when a view
// has no rows.
const (
	Unknown = "Unknown"
	NoData  = "N/A"
)

// Order is a single order line item. An order id is not unique: one order
// may span several rows, one per product line.
type Order struct {
	OrderID          string
	CustomerID       string
	CustomerName     string
	ProductName      string
	Category         string
	State            string
	Gender           string
	AgeBracket       string
	OrderDate        time.Time // zero when the source value was unparseable
	RegistrationDate time.Time
	Quantity         float64
	UnitPrice        float64
	LineRevenue      float64
	OrderTotal       float64
}

// FilterOptions describes the active dashboard filters. Zero values mean
// "no constraint": empty strings (or the literal "All") for the categorical
// filters, nil dates for the range, and 0 for the revenue threshold.
type FilterOptions struct {
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Product    string     `json:"product,omitempty"`
	Category   string     `json:"category,omitempty"`
	State      string     `json:"state,omitempty"`
	Gender     string     `json:"gender,omitempty"`
	MinRevenue float64    `json:"min_revenue,omitempty"`
}

// KPISet holds the headline metrics for a filtered view.
type KPISet struct {
	TotalRevenue    float64 `json:"total_revenue"`
	TotalOrders     int     `json:"total_orders"`
	UniqueCustomers int     `json:"unique_customers"`
	TotalQuantity   float64 `json:"total_quantity"`
	AvgTicket       float64 `json:"avg_ticket"`
}

// Insight is one argmax highlight: the winning group key, an optional
// display label, and the measure value that made it win.
type Insight struct {
	Key   string  `json:"key"`
	Label string  `json:"label,omitempty"`
	Value float64 `json:"value"`
}

// InsightSet holds the five business highlights for a filtered view.
type InsightSet struct {
	BestSellingProduct     Insight `json:"best_selling_product"`
	MostProfitableCategory Insight `json:"most_profitable_category"`
	TopState               Insight `json:"top_state"`
	TopAgeBracket          Insight `json:"top_age_bracket"`
	TopCustomer            Insight `json:"top_customer"`
}

// GroupTotal is one (group key, measure value) pair of an aggregation.
type GroupTotal struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// SeriesPoint is one calendar day of the revenue time series.
type SeriesPoint struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Revenue float64 `json:"revenue"`
}

// OrderValue is the summed revenue of one distinct order id, used for the
// order-value distribution histogram.
type OrderValue struct {
	OrderID string  `json:"order_id"`
	Value   float64 `json:"value"`
}
