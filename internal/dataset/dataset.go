package dataset

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/JordanChem/VideoGame-prediction/internal/errs"
)

// Columns maps each record attribute to its header in the workbook.
// Name is optional; every other column must be present.
type Columns struct {
	Name         string
	TrailerViews string
	LagDay       string
	Instagram    string
	Facebook     string
	TikTok       string
	GlobalSales  string
}

func DefaultColumns() Columns {
	return Columns{
		Name:         "Name",
		TrailerViews: "Total vues trailer",
		LagDay:       "lag_day",
		Instagram:    "Instagram",
		Facebook:     "Facebook",
		TikTok:       "Tiktok",
		GlobalSales:  "global_sales",
	}
}

func (c Columns) required() []string {
	return []string{c.TrailerViews, c.LagDay, c.Instagram, c.Facebook, c.TikTok, c.GlobalSales}
}

// HistoricalRecord is one row of the training table. A nil field is a
// missing value.
type HistoricalRecord struct {
	Row          int
	Name         string
	TrailerViews *int64
	LagDay       *int64
	Instagram    *int64
	Facebook     *int64
	TikTok       *int64
	GlobalSales  *float64
}

type Table struct {
	Sheet       string
	Fingerprint string
	Records     []HistoricalRecord
}

// Parse builds a table from raw sheet rows. The first row is the header.
func Parse(rows [][]string, cols Columns) (*Table, error) {
	index := make(map[string]int)
	if len(rows) > 0 {
		for i, name := range rows[0] {
			name = strings.TrimSpace(name)
			if _, dup := index[name]; !dup && name != "" {
				index[name] = i
			}
		}
	}

	var missing []string
	for _, name := range cols.required() {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &errs.DataError{
			Column: strings.Join(missing, ", "),
			Err:    errs.ErrMissingColumn,
		}
	}

	p := rowParser{index: index}
	table := &Table{}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}

		p.row = row
		p.line = i + 1

		rec := HistoricalRecord{Row: p.line}
		if nameIdx, ok := index[cols.Name]; ok && cols.Name != "" && nameIdx < len(row) {
			rec.Name = strings.TrimSpace(row[nameIdx])
		}

		var err error
		if rec.TrailerViews, err = p.count(cols.TrailerViews); err != nil {
			return nil, err
		}
		if rec.LagDay, err = p.int(cols.LagDay); err != nil {
			return nil, err
		}
		if rec.Instagram, err = p.count(cols.Instagram); err != nil {
			return nil, err
		}
		if rec.Facebook, err = p.count(cols.Facebook); err != nil {
			return nil, err
		}
		if rec.TikTok, err = p.count(cols.TikTok); err != nil {
			return nil, err
		}
		if rec.GlobalSales, err = p.float(cols.GlobalSales); err != nil {
			return nil, err
		}

		table.Records = append(table.Records, rec)
	}

	return table, nil
}

type rowParser struct {
	index map[string]int
	row   []string
	line  int
}

func (p *rowParser) cell(column string) string {
	i := p.index[column]
	if i >= len(p.row) {
		return ""
	}

	return strings.TrimSpace(p.row[i])
}

func (p *rowParser) float(column string) (*float64, error) {
	raw := p.cell(column)
	if isMissing(raw) {
		return nil, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(v, 0) {
		return nil, &errs.DataError{Column: column, Row: p.line, Err: errs.ErrBadCell, Reason: strconv.Quote(raw)}
	}

	return &v, nil
}

// int accepts integral floats such as "1.5E+06", which spreadsheets emit
// for large counts.
func (p *rowParser) int(column string) (*int64, error) {
	raw := p.cell(column)
	if isMissing(raw) {
		return nil, nil
	}

	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return &v, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return nil, &errs.DataError{Column: column, Row: p.line, Err: errs.ErrBadCell, Reason: strconv.Quote(raw)}
	}

	v := int64(f)
	return &v, nil
}

// count is int for view and follower columns, which cannot be negative.
func (p *rowParser) count(column string) (*int64, error) {
	v, err := p.int(column)
	if err != nil || v == nil || *v >= 0 {
		return v, err
	}

	return nil, &errs.DataError{Column: column, Row: p.line, Err: errs.ErrBadCell, Reason: fmt.Sprintf("negative count %d", *v)}
}

func isMissing(raw string) bool {
	switch strings.ToLower(raw) {
	case "", "nan", "na", "n/a", "null", "#n/a":
		return true
	}

	return false
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}

// TopBySales returns up to n records with the highest global sales.
// Records without sales are skipped; ties keep sheet order.
func (t *Table) TopBySales(n int) []HistoricalRecord {
	if n <= 0 {
		return nil
	}

	ranked := make([]HistoricalRecord, 0, len(t.Records))
	for _, r := range t.Records {
		if r.GlobalSales != nil {
			ranked = append(ranked, r)
		}
	}

	slices.SortStableFunc(ranked, func(a, b HistoricalRecord) int {
		return cmp.Compare(*b.GlobalSales, *a.GlobalSales)
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	return ranked
}

// LagDayRange reports the smallest and largest lag_day present in the table.
func (t *Table) LagDayRange() (lo, hi int64, ok bool) {
	for _, r := range t.Records {
		if r.LagDay == nil {
			continue
		}
		if !ok {
			lo, hi, ok = *r.LagDay, *r.LagDay, true
			continue
		}
		lo = min(lo, *r.LagDay)
		hi = max(hi, *r.LagDay)
	}

	return lo, hi, ok
}

func (t *Table) String() string {
	return fmt.Sprintf("dataset(sheet=%q, records=%d, fingerprint=%s)", t.Sheet, len(t.Records), t.Fingerprint)
}
