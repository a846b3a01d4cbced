package services

import (
	"bufio"
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
)

const (
	batchSize    = 10000
	maxWorkers   = 10
	cacheVersion = "v1"
	cacheDir     = ".cache"
)

// Column names of the orders CSV. The loader maps columns by header name,
// not position, and records which ones were present so downstream code can
// tell "column missing from the file" apart from "no matching rows".
const (
	ColOrderID          = "order_id"
	ColCustomerID       = "customer_id"
	ColCustomerName     = "customer_name"
	ColProductName      = "product_name"
	ColCategory         = "category"
	ColState            = "state"
	ColGender           = "gender"
	ColAgeBracket       = "age_bracket"
	ColOrderDate        = "order_date"
	ColRegistrationDate = "registration_date"
	ColQuantity         = "quantity"
	ColUnitPrice        = "unit_price"
	ColLineRevenue      = "line_revenue"
	ColOrderTotal       = "order_total"
)

const dateLayout = "2006-01-02"

// Table is an immutable, fully loaded orders dataset. It is shared read-only
// between requests; reloads publish a new Table rather than mutating one.
type Table struct {
	rows    []models.Order
	columns map[string]bool
}

// NewTable builds a table over rows with the given source columns. An empty
// column list means the full schema (the SetData/test path).
func NewTable(rows []models.Order, columns ...string) *Table {
	if len(columns) == 0 {
		columns = allColumns()
	}
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	return &Table{rows: rows, columns: set}
}

func allColumns() []string {
	return []string{
		ColOrderID, ColCustomerID, ColCustomerName, ColProductName,
		ColCategory, ColState, ColGender, ColAgeBracket,
		ColOrderDate, ColRegistrationDate,
		ColQuantity, ColUnitPrice, ColLineRevenue, ColOrderTotal,
	}
}

func (t *Table) Len() int { return len(t.rows) }

// HasColumn reports whether the named column appeared in the source header.
func (t *Table) HasColumn(name string) bool { return t.columns[name] }

func (t *Table) columnNames() []string {
	names := make([]string, 0, len(t.columns))
	for _, c := range allColumns() {
		if t.columns[c] {
			names = append(names, c)
		}
	}
	return names
}

// All returns a view spanning every row, in source order.
func (t *Table) All() View {
	idx := make([]int, len(t.rows))
	for i := range idx {
		idx[i] = i
	}
	return View{table: t, idx: idx}
}

// View is a read-only subset of a Table: indices into the parent, in the
// parent's row order. No row data is copied.
type View struct {
	table *Table
	idx   []int
}

func (v View) Len() int { return len(v.idx) }

func (v View) Row(i int) models.Order { return v.table.rows[v.idx[i]] }

func (v View) HasColumn(name string) bool {
	if v.table == nil {
		return false
	}
	return v.table.HasColumn(name)
}

// loadTable parses an orders CSV into a Table. Rows are never rejected for
// bad values: numeric fields coerce to 0, categorical fields to "Unknown",
// and unparseable dates to the zero time. Only a missing header or an
// unreadable file is an error.
func loadTable(ctx context.Context, filename string) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 10*1024*1024) // 10MB buffer

	if !scanner.Scan() {
		return nil, fmt.Errorf("empty file")
	}

	header := splitLine(scanner.Text())
	index := make(map[string]int, len(header))
	columns := make([]string, 0, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		index[name] = i
		columns = append(columns, name)
	}

	var (
		mu   sync.Mutex
		rows []models.Order
	)

	flush := func(batch []string) error {
		parsed := make([]models.Order, len(batch))
		var wg errgroup.Group
		wg.SetLimit(maxWorkers)
		for i, line := range batch {
			wg.Go(func() error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				parsed[i] = parseOrder(splitLine(line), index)
				return nil
			})
		}
		if err := wg.Wait(); err != nil {
			return err
		}
		mu.Lock()
		rows = append(rows, parsed...)
		mu.Unlock()
		return nil
	}

	batch := make([]string, 0, batchSize)
	for scanner.Scan() {
		batch = append(batch, scanner.Text())
		if len(batch) >= batchSize {
			if err := flush(batch); err != nil {
				return nil, err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := flush(batch); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan error: %w", err)
	}

	return NewTable(rows, columns...), nil
}

// splitLine splits one CSV record. Fields may be double-quoted to carry
// embedded commas, with "" inside a quoted field standing for a literal
// quote. Records are line-based, so a quoted field cannot span lines.
func splitLine(line string) []string {
	if !strings.ContainsRune(line, '"') {
		return strings.Split(line, ",")
	}

	var fields []string
	var buf strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				buf.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			fields = append(fields, buf.String())
			buf.Reset()
		default:
			buf.WriteByte(c)
		}
	}
	fields = append(fields, buf.String())
	return fields
}

// parseOrder coerces one CSV record into an Order using the header index.
// Missing-value policy: numeric → 0, categorical → "Unknown", bad date →
// zero time. Line revenue is derived from quantity × unit price when the
// column is absent from the file.
func parseOrder(record []string, index map[string]int) models.Order {
	field := func(col string) (string, bool) {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return "", ok
		}
		return strings.TrimSpace(record[i]), true
	}
	category := func(col string) string {
		v, _ := field(col)
		if v == "" {
			return models.Unknown
		}
		return v
	}
	number := func(col string) float64 {
		v, _ := field(col)
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	}
	date := func(col string) time.Time {
		v, _ := field(col)
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return time.Time{}
		}
		return t
	}

	o := models.Order{
		OrderID:          category(ColOrderID),
		CustomerID:       category(ColCustomerID),
		CustomerName:     category(ColCustomerName),
		ProductName:      category(ColProductName),
		Category:         category(ColCategory),
		State:            category(ColState),
		Gender:           category(ColGender),
		AgeBracket:       category(ColAgeBracket),
		OrderDate:        date(ColOrderDate),
		RegistrationDate: date(ColRegistrationDate),
		Quantity:         number(ColQuantity),
		UnitPrice:        number(ColUnitPrice),
		LineRevenue:      number(ColLineRevenue),
		OrderTotal:       number(ColOrderTotal),
	}
	if _, present := index[ColLineRevenue]; !present {
		o.LineRevenue = o.Quantity * o.UnitPrice
	}
	return o
}

// tableSnapshot is the gob cache layout for a parsed table.
type tableSnapshot struct {
	Rows     []models.Order
	Columns  []string
	LoadedAt time.Time
}

func cacheFilename(csvPath string) string {
	return fmt.Sprintf("%s/%s_%s.gob", cacheDir, strings.ReplaceAll(csvPath, "/", "_"), cacheVersion)
}

func saveTableCache(csvPath string, t *Table) error {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return err
	}
	file, err := os.Create(cacheFilename(csvPath))
	if err != nil {
		return err
	}
	defer file.Close()

	snap := tableSnapshot{
		Rows:     t.rows,
		Columns:  t.columnNames(),
		LoadedAt: time.Now(),
	}
	return gob.NewEncoder(file).Encode(snap)
}

func loadTableCache(csvPath string) (*Table, time.Time, error) {
	file, err := os.Open(cacheFilename(csvPath))
	if err != nil {
		return nil, time.Time{}, err
	}
	defer file.Close()

	var snap tableSnapshot
	if err := gob.NewDecoder(file).Decode(&snap); err != nil {
		return nil, time.Time{}, err
	}
	return NewTable(snap.Rows, snap.Columns...), snap.LoadedAt, nil
}
