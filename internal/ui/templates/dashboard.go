package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Dashboard returns the dashboard shell. Content is filled in by the
// datastar SSE endpoints: KPI and insight fragments are patched as HTML,
// chart data arrives as signals consumed by the inline chart script.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardHTML)
		return err
	})
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Sales Analytics Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.2/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f0f2f6; color: #2c3e50; }
header { background: #1f77b4; color: #fff; padding: 1rem 2rem; }
main { padding: 1rem 2rem; }
.filter-bar { display: flex; gap: 0.75rem; flex-wrap: wrap; align-items: end; background: #fff; padding: 1rem; border-radius: 10px; }
.filter-bar label { display: flex; flex-direction: column; font-size: 0.8rem; gap: 0.25rem; }
.kpi-grid, .insight-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 1rem; margin: 1rem 0; }
.kpi-card, .insight-card { background: #fff; padding: 15px; border-radius: 10px; box-shadow: 2px 2px 5px rgba(0,0,0,0.1); display: flex; flex-direction: column; gap: 0.25rem; }
.kpi-label, .insight-label { font-size: 0.8rem; color: #7f8c8d; }
.chart-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(420px, 1fr)); gap: 1rem; }
.chart-card { background: #fff; padding: 1rem; border-radius: 10px; }
</style>
</head>
<body data-signals="{start: '', end: '', product: '', category: '', state: '', gender: '', minRevenue: 0, seriesData: [], categoryData: [], stateData: [], genderData: [], productsByRevenue: [], productsByQuantity: [], orderValues: []}"
      data-on-load="@get('/sse/refresh-all')">
<header><h1>Sales Analytics Dashboard</h1></header>
<main>
<section class="filter-bar">
<label>Start date <input type="date" data-bind-start></label>
<label>End date <input type="date" data-bind-end></label>
<label>Product <input type="text" data-bind-product placeholder="All"></label>
<label>Category <input type="text" data-bind-category placeholder="All"></label>
<label>State <input type="text" data-bind-state placeholder="All"></label>
<label>Gender <input type="text" data-bind-gender placeholder="All"></label>
<label>Min revenue <input type="number" min="0" step="100" data-bind-min-revenue></label>
<button data-on-click="@get('/sse/refresh-all?start='+$start+'&end='+$end+'&product='+$product+'&category='+$category+'&state='+$state+'&gender='+$gender+'&min_revenue='+$minRevenue)">Apply filters</button>
</section>
<section id="kpi-content" class="kpi-grid"></section>
<section class="chart-grid">
<div class="chart-card"><h3>Daily Revenue Trend</h3><canvas id="chart-series"></canvas></div>
<div class="chart-card"><h3>Revenue by Category</h3><canvas id="chart-category"></canvas></div>
<div class="chart-card"><h3>Top Products by Revenue</h3><canvas id="chart-products-revenue"></canvas></div>
<div class="chart-card"><h3>Top Products by Quantity</h3><canvas id="chart-products-quantity"></canvas></div>
<div class="chart-card"><h3>Revenue by State</h3><canvas id="chart-state"></canvas></div>
<div class="chart-card"><h3>Revenue by Gender</h3><canvas id="chart-gender"></canvas></div>
<div class="chart-card"><h3>Order Value Distribution</h3><canvas id="chart-order-values"></canvas></div>
</section>
<section id="insight-content" class="insight-grid"></section>
</main>
<script>
const charts = {};
function renderBar(id, pairs, horizontal) {
  const el = document.getElementById(id);
  if (!el || !pairs) return;
  if (charts[id]) charts[id].destroy();
  charts[id] = new Chart(el, {
    type: 'bar',
    data: {
      labels: pairs.map(p => p.key ?? p.date),
      datasets: [{ data: pairs.map(p => p.value ?? p.revenue), backgroundColor: '#1f77b4' }]
    },
    options: { indexAxis: horizontal ? 'y' : 'x', plugins: { legend: { display: false } } }
  });
}
document.addEventListener('datastar-signal-patch', () => {
  const s = window.ds ? window.ds.signals() : null;
  if (!s) return;
  renderBar('chart-series', s.seriesData);
  renderBar('chart-category', s.categoryData);
  renderBar('chart-products-revenue', s.productsByRevenue, true);
  renderBar('chart-products-quantity', s.productsByQuantity, true);
  renderBar('chart-state', s.stateData);
  renderBar('chart-gender', s.genderData);
  renderBar('chart-order-values', s.orderValues);
});
</script>
</body>
</html>
`
