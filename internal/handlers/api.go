package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

const (
	topProductsLimit = 10
	cacheControl     = "public, max-age=300"
)

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func cacheHeaders() map[string]string {
	return map[string]string{"Cache-Control": cacheControl}
}

func (h *APIHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	opts := parseFilterOptions(r)
	errors.WriteSuccessWithHeaders(w, h.analytics.KPIs(opts), cacheHeaders())
}

func (h *APIHandlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	opts := parseFilterOptions(r)
	data, err := h.analytics.Insights(opts)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}
	errors.WriteSuccessWithHeaders(w, data, cacheHeaders())
}

func (h *APIHandlers) HandleRevenueSeries(w http.ResponseWriter, r *http.Request) {
	opts := parseFilterOptions(r)
	data, err := h.analytics.RevenueSeries(opts)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}
	errors.WriteSuccessWithHeaders(w, data, cacheHeaders())
}

func (h *APIHandlers) HandleRevenueByCategory(w http.ResponseWriter, r *http.Request) {
	h.aggregate(w, r, services.ColCategory, services.SumRevenue, 0)
}

func (h *APIHandlers) HandleRevenueByState(w http.ResponseWriter, r *http.Request) {
	h.aggregate(w, r, services.ColState, services.SumRevenue, 0)
}

func (h *APIHandlers) HandleRevenueByGender(w http.ResponseWriter, r *http.Request) {
	h.aggregate(w, r, services.ColGender, services.SumRevenue, 0)
}

// HandleTopProducts ranks products by summed revenue, or by summed
// quantity with ?by=quantity.
func (h *APIHandlers) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	measure := services.SumRevenue
	if r.URL.Query().Get("by") == "quantity" {
		measure = services.SumQuantity
	}
	h.aggregate(w, r, services.ColProductName, measure, topProductsLimit)
}

func (h *APIHandlers) HandleOrderValues(w http.ResponseWriter, r *http.Request) {
	opts := parseFilterOptions(r)
	errors.WriteSuccessWithHeaders(w, h.analytics.OrderValues(opts), cacheHeaders())
}

func (h *APIHandlers) aggregate(w http.ResponseWriter, r *http.Request, dimension string, m services.Measure, topN int) {
	opts := parseFilterOptions(r)
	data, err := h.analytics.Aggregate(opts, dimension, m, topN)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}
	errors.WriteSuccessWithHeaders(w, data, cacheHeaders())
}

func (h *APIHandlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.analytics.Reload(r.Context()); err != nil {
		errors.WriteError(w, h.logger,
			errors.InternalWrap(err, "dataset reload failed"),
			observability.GetRequestID(r.Context()))
		return
	}
	errors.WriteSuccess(w, h.analytics.Stats())
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}
	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
