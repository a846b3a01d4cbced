package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"sales-dashboard/internal/models"
)

// Analytics owns the loaded orders table and answers dashboard queries.
// The table is an immutable snapshot: every query filters it into a fresh
// view, and Reload publishes a replacement table atomically, so concurrent
// readers never see a half-updated dataset.
type Analytics struct {
	mu       sync.RWMutex
	table    *Table
	loadedAt time.Time
	csvPath  string
	logger   *slog.Logger
}

func NewAnalytics() *Analytics {
	return &Analytics{
		table:  NewTable(nil),
		logger: slog.Default(),
	}
}

// SetData replaces the table with in-memory rows assuming the full column
// schema. Used by tests and ad-hoc callers.
func (a *Analytics) SetData(rows []models.Order) {
	a.publish(NewTable(rows))
}

// LoadFromCSV parses the orders file into a new table snapshot, consulting
// the gob cache first. The cache is only a load accelerator; a source file
// newer than the cached snapshot forces a re-parse.
func (a *Analytics) LoadFromCSV(ctx context.Context, filename string) error {
	a.mu.Lock()
	a.csvPath = filename
	a.mu.Unlock()

	if cached, loadedAt, err := loadTableCache(filename); err == nil {
		if info, err := os.Stat(filename); err == nil && info.ModTime().Before(loadedAt) {
			a.publish(cached)
			a.logger.Info("loaded from cache", "records", cached.Len())
			return nil
		}
	}

	start := time.Now()
	a.logger.Info("processing CSV file", "filename", filename)

	table, err := loadTable(ctx, filename)
	if err != nil {
		return fmt.Errorf("process csv: %w", err)
	}
	a.publish(table)

	if err := saveTableCache(filename, table); err != nil {
		a.logger.Warn("failed to save cache", "error", err)
	}

	duration := time.Since(start)
	a.logger.Info("csv processing complete",
		"records", table.Len(),
		"duration", duration,
		"rate", fmt.Sprintf("%.0f records/sec", float64(table.Len())/duration.Seconds()))
	return nil
}

// Reload re-parses the source file and swaps in the new snapshot.
func (a *Analytics) Reload(ctx context.Context) error {
	a.mu.RLock()
	path := a.csvPath
	a.mu.RUnlock()
	if path == "" {
		return fmt.Errorf("no CSV file loaded")
	}

	table, err := loadTable(ctx, path)
	if err != nil {
		return fmt.Errorf("reload csv: %w", err)
	}
	a.publish(table)

	if err := saveTableCache(path, table); err != nil {
		a.logger.Warn("failed to save cache", "error", err)
	}
	a.logger.Info("dataset reloaded", "records", table.Len())
	return nil
}

func (a *Analytics) publish(t *Table) {
	a.mu.Lock()
	a.table = t
	a.loadedAt = time.Now()
	a.mu.Unlock()
}

// Snapshot returns the current immutable table.
func (a *Analytics) Snapshot() *Table {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.table
}

// Filter applies the options to the current snapshot.
func (a *Analytics) Filter(opts models.FilterOptions) View {
	return ApplyFilters(a.Snapshot(), opts)
}

func (a *Analytics) KPIs(opts models.FilterOptions) models.KPISet {
	return ComputeKPIs(a.Filter(opts))
}

func (a *Analytics) Insights(opts models.FilterOptions) (models.InsightSet, error) {
	return ComputeInsights(a.Filter(opts))
}

func (a *Analytics) Aggregate(opts models.FilterOptions, dimension string, m Measure, topN int) ([]models.GroupTotal, error) {
	return Aggregate(a.Filter(opts), dimension, m, topN)
}

func (a *Analytics) RevenueSeries(opts models.FilterOptions) ([]models.SeriesPoint, error) {
	return RevenueSeries(a.Filter(opts))
}

func (a *Analytics) OrderValues(opts models.FilterOptions) []models.OrderValue {
	return OrderValues(a.Filter(opts))
}

// Stats reports dataset metadata for the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return map[string]any{
		"record_count": a.table.Len(),
		"columns":      a.table.columnNames(),
		"loaded_at":    a.loadedAt,
		"csv_path":     a.csvPath,
	}
}
