package services

import (
	"slices"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

// Reduction is how a measure column is reduced within a group.
type Reduction string

const (
	ReduceSum      Reduction = "sum"
	ReduceDistinct Reduction = "distinct" // count of unique values, not rows
)

// Measure pairs a column with a reduction.
type Measure struct {
	Column string
	Reduce Reduction
}

// The measures the dashboard uses.
var (
	SumRevenue        = Measure{Column: ColLineRevenue, Reduce: ReduceSum}
	SumQuantity       = Measure{Column: ColQuantity, Reduce: ReduceSum}
	DistinctOrders    = Measure{Column: ColOrderID, Reduce: ReduceDistinct}
	DistinctCustomers = Measure{Column: ColCustomerID, Reduce: ReduceDistinct}
)

// Aggregate groups a view by a dimension column and reduces the measure
// within each group, in one pass over the rows. Results are sorted
// descending by value; groups with equal values keep first-encountered
// order (the sort is explicitly stable, callers may rely on it). A positive
// topN truncates the result; topN <= 0 returns all groups.
//
// A dimension absent from the source header is a configuration error and
// returns errors.MissingColumn — distinct from an empty view, which returns
// an empty slice.
func Aggregate(v View, dimension string, m Measure, topN int) ([]models.GroupTotal, error) {
	if !v.HasColumn(dimension) {
		return nil, errors.MissingColumn(dimension)
	}
	if !v.HasColumn(m.Column) {
		return nil, errors.MissingColumn(m.Column)
	}

	var order []string
	sums := make(map[string]float64)
	var seen map[string]map[string]struct{}
	if m.Reduce == ReduceDistinct {
		seen = make(map[string]map[string]struct{})
	}

	for i := 0; i < v.Len(); i++ {
		o := v.Row(i)
		key := dimensionValue(o, dimension)
		if _, exists := sums[key]; !exists {
			order = append(order, key)
			sums[key] = 0
		}
		switch m.Reduce {
		case ReduceDistinct:
			if seen[key] == nil {
				seen[key] = make(map[string]struct{})
			}
			seen[key][stringValue(o, m.Column)] = struct{}{}
		default:
			sums[key] += numericValue(o, m.Column)
		}
	}

	groups := make([]models.GroupTotal, 0, len(order))
	for _, key := range order {
		value := sums[key]
		if m.Reduce == ReduceDistinct {
			value = float64(len(seen[key]))
		}
		groups = append(groups, models.GroupTotal{Key: key, Value: value})
	}

	slices.SortStableFunc(groups, func(a, b models.GroupTotal) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		}
		return 0
	})

	if topN > 0 && len(groups) > topN {
		groups = groups[:topN]
	}
	return groups, nil
}

// RevenueSeries sums line revenue per calendar day, ascending by date.
// Rows without a parseable order date contribute no point.
func RevenueSeries(v View) ([]models.SeriesPoint, error) {
	if !v.HasColumn(ColOrderDate) {
		return nil, errors.MissingColumn(ColOrderDate)
	}

	daily := make(map[string]float64)
	for i := 0; i < v.Len(); i++ {
		o := v.Row(i)
		if o.OrderDate.IsZero() {
			continue
		}
		daily[o.OrderDate.Format(dateLayout)] += o.LineRevenue
	}

	points := make([]models.SeriesPoint, 0, len(daily))
	for day, revenue := range daily {
		points = append(points, models.SeriesPoint{Date: day, Revenue: revenue})
	}
	slices.SortFunc(points, func(a, b models.SeriesPoint) int {
		switch {
		case a.Date < b.Date:
			return -1
		case a.Date > b.Date:
			return 1
		}
		return 0
	})
	return points, nil
}

// OrderValues sums line revenue per distinct order id, in first-seen order.
// Feeds the order-value distribution histogram.
func OrderValues(v View) []models.OrderValue {
	var order []string
	totals := make(map[string]float64)
	for i := 0; i < v.Len(); i++ {
		o := v.Row(i)
		if _, exists := totals[o.OrderID]; !exists {
			order = append(order, o.OrderID)
		}
		totals[o.OrderID] += o.LineRevenue
	}

	values := make([]models.OrderValue, 0, len(order))
	for _, id := range order {
		values = append(values, models.OrderValue{OrderID: id, Value: totals[id]})
	}
	return values
}

// dimensionValue reads the group-by key for a known dimension column.
func dimensionValue(o models.Order, column string) string {
	switch column {
	case ColProductName:
		return o.ProductName
	case ColCategory:
		return o.Category
	case ColState:
		return o.State
	case ColGender:
		return o.Gender
	case ColAgeBracket:
		return o.AgeBracket
	case ColCustomerID:
		return o.CustomerID
	case ColCustomerName:
		return o.CustomerName
	case ColOrderID:
		return o.OrderID
	case ColOrderDate:
		if o.OrderDate.IsZero() {
			return models.Unknown
		}
		return o.OrderDate.Format(dateLayout)
	}
	return models.Unknown
}

func stringValue(o models.Order, column string) string {
	return dimensionValue(o, column)
}

func numericValue(o models.Order, column string) float64 {
	switch column {
	case ColQuantity:
		return o.Quantity
	case ColUnitPrice:
		return o.UnitPrice
	case ColLineRevenue:
		return o.LineRevenue
	case ColOrderTotal:
		return o.OrderTotal
	}
	return 0
}
