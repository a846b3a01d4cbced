package services

import (
	"sales-dashboard/internal/models"
)

// ComputeKPIs derives the headline metrics from one view snapshot. Total
// orders and unique customers count distinct ids, not rows. An empty view
// yields an all-zero set; the average ticket is 0 when there are no orders.
func ComputeKPIs(v View) models.KPISet {
	orders := make(map[string]struct{})
	customers := make(map[string]struct{})

	var kpis models.KPISet
	for i := 0; i < v.Len(); i++ {
		o := v.Row(i)
		kpis.TotalRevenue += o.LineRevenue
		kpis.TotalQuantity += o.Quantity
		orders[o.OrderID] = struct{}{}
		customers[o.CustomerID] = struct{}{}
	}

	kpis.TotalOrders = len(orders)
	kpis.UniqueCustomers = len(customers)
	if kpis.TotalOrders > 0 {
		kpis.AvgTicket = kpis.TotalRevenue / float64(kpis.TotalOrders)
	}
	return kpis
}
