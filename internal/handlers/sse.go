package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

var kpiTemplate = template.Must(template.New("kpis").Parse(`
<div id="kpi-content" class="kpi-grid">
<div class="kpi-card"><span class="kpi-label">Total Revenue</span><strong>R$ {{printf "%.2f" .TotalRevenue}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Total Orders</span><strong>{{.TotalOrders}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Unique Customers</span><strong>{{.UniqueCustomers}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Quantity Sold</span><strong>{{printf "%.0f" .TotalQuantity}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Average Ticket</span><strong>R$ {{printf "%.2f" .AvgTicket}}</strong></div>
</div>`))

var insightTemplate = template.Must(template.New("insights").Parse(`
<div id="insight-content" class="insight-grid">
<div class="insight-card"><span class="insight-label">Best Selling Product</span><strong>{{.BestSellingProduct.Key}}</strong><span>{{printf "%.0f" .BestSellingProduct.Value}} units</span></div>
<div class="insight-card"><span class="insight-label">Most Profitable Category</span><strong>{{.MostProfitableCategory.Key}}</strong><span>R$ {{printf "%.2f" .MostProfitableCategory.Value}}</span></div>
<div class="insight-card"><span class="insight-label">Highest Revenue State</span><strong>{{.TopState.Key}}</strong><span>R$ {{printf "%.2f" .TopState.Value}}</span></div>
<div class="insight-card"><span class="insight-label">Highest Spending Age Group</span><strong>{{.TopAgeBracket.Key}}</strong><span>R$ {{printf "%.2f" .TopAgeBracket.Value}}</span></div>
<div class="insight-card"><span class="insight-label">Top Customer</span><strong>{{.TopCustomer.Label}}</strong><span>R$ {{printf "%.2f" .TopCustomer.Value}}</span></div>
</div>`))

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *SSEHandlers) renderKPIs(kpis models.KPISet) (string, error) {
	var buf strings.Builder
	err := kpiTemplate.Execute(&buf, kpis)
	return buf.String(), err
}

func (h *SSEHandlers) renderInsights(insights models.InsightSet) (string, error) {
	var buf strings.Builder
	err := insightTemplate.Execute(&buf, insights)
	return buf.String(), err
}

// chartSignals collects every chart dataset for the current filters. A
// dimension missing from the source file drops that chart's key; the
// surviving charts still update.
func (h *SSEHandlers) chartSignals(opts models.FilterOptions) map[string]any {
	signals := make(map[string]any)

	if series, err := h.analytics.RevenueSeries(opts); err == nil {
		signals["seriesData"] = series
	} else {
		h.logger.Warn("revenue series unavailable", "error", err)
	}

	charts := []struct {
		key       string
		dimension string
		measure   services.Measure
		topN      int
	}{
		{"categoryData", services.ColCategory, services.SumRevenue, 0},
		{"stateData", services.ColState, services.SumRevenue, 0},
		{"genderData", services.ColGender, services.SumRevenue, 0},
		{"productsByRevenue", services.ColProductName, services.SumRevenue, topProductsLimit},
		{"productsByQuantity", services.ColProductName, services.SumQuantity, topProductsLimit},
	}
	for _, c := range charts {
		data, err := h.analytics.Aggregate(opts, c.dimension, c.measure, c.topN)
		if err != nil {
			h.logger.Warn("chart aggregation unavailable", "chart", c.key, "error", err)
			continue
		}
		signals[c.key] = data
	}

	signals["orderValues"] = h.analytics.OrderValues(opts)
	return signals
}

func (h *SSEHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	html, err := h.renderKPIs(h.analytics.KPIs(parseFilterOptions(r)))
	if err != nil {
		h.logger.Error("render kpis", "error", err)
		return
	}
	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	insights, err := h.analytics.Insights(parseFilterOptions(r))
	if err != nil {
		h.logger.Error("compute insights", "error", err)
		return
	}
	html, err := h.renderInsights(insights)
	if err != nil {
		h.logger.Error("render insights", "error", err)
		return
	}
	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleCharts(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	jsonData, err := json.Marshal(h.chartSignals(parseFilterOptions(r)))
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleRefreshAll recomputes everything for the active filters in one
// synchronous pass: KPI fragment, insight cards, and all chart signals.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	opts := parseFilterOptions(r)

	kpiHTML, err := h.renderKPIs(h.analytics.KPIs(opts))
	if err != nil {
		h.logger.Error("render kpis", "error", err)
		return
	}
	sse.PatchElements(kpiHTML)

	insights, err := h.analytics.Insights(opts)
	if err != nil {
		h.logger.Error("compute insights", "error", err)
		return
	}
	insightHTML, err := h.renderInsights(insights)
	if err != nil {
		h.logger.Error("render insights", "error", err)
		return
	}
	sse.PatchElements(insightHTML)

	jsonData, err := json.Marshal(h.chartSignals(opts))
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
