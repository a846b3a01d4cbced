package handlers

import (
	"net/http"
	"strconv"
	"time"

	"sales-dashboard/internal/models"
)

// parseFilterOptions reads the shared filter query parameters every data
// endpoint accepts: start, end (YYYY-MM-DD), product, category, state,
// gender, min_revenue. Absent or unparseable parameters leave the option
// unset; filtering itself never fails on user input.
func parseFilterOptions(r *http.Request) models.FilterOptions {
	q := r.URL.Query()

	opts := models.FilterOptions{
		Product:  q.Get("product"),
		Category: q.Get("category"),
		State:    q.Get("state"),
		Gender:   q.Get("gender"),
	}

	if t, err := time.Parse("2006-01-02", q.Get("start")); err == nil {
		opts.StartDate = &t
	}
	if t, err := time.Parse("2006-01-02", q.Get("end")); err == nil {
		opts.EndDate = &t
	}
	if v, err := strconv.ParseFloat(q.Get("min_revenue"), 64); err == nil && v > 0 {
		opts.MinRevenue = v
	}
	return opts
}
