// Package table holds a small, column-named, in-memory dataset with the
// operations needed to assemble a per-subject analysis file: projection,
// renaming, sentinel recoding, keyed left joins and delimited I/O.
//
// Every cell is a null.String. An invalid cell is missing. Numeric values are
// kept in their canonical decimal text so that they survive a round trip to
// CSV unchanged.
package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

type Table struct {
	Name string

	columns []string
	index   map[string]int
	rows    [][]null.String
}

// New creates an empty table. Column names must be unique and non-empty.
func New(name string, columns []string) (*Table, error) {
	t := &Table{
		Name:    name,
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}

	for _, col := range columns {
		if err := t.addColumnName(col); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (t *Table) addColumnName(col string) error {
	if col == "" {
		return fmt.Errorf("%s: column %d has an empty name", t.Name, len(t.columns))
	}
	if _, exists := t.index[col]; exists {
		return fmt.Errorf("%s: %w: %q", t.Name, ErrDuplicateColumn, col)
	}
	t.index[col] = len(t.columns)
	t.columns = append(t.columns, col)

	return nil
}

// Columns returns a copy of the column names, in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len is the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Width is the number of columns.
func (t *Table) Width() int { return len(t.columns) }

func (t *Table) Has(col string) bool {
	_, exists := t.index[col]
	return exists
}

// Index returns the position of col.
func (t *Table) Index(col string) (int, error) {
	i, exists := t.index[col]
	if !exists {
		return -1, fmt.Errorf("%s: %w: %q", t.Name, ErrMissingColumn, col)
	}

	return i, nil
}

// Require fails with one error naming every absent column.
func (t *Table) Require(cols ...string) error {
	missing := make([]string, 0)
	for _, col := range cols {
		if !t.Has(col) {
			missing = append(missing, strconv.Quote(col))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: %w: %s", t.Name, ErrMissingColumn, strings.Join(missing, ", "))
	}

	return nil
}

// Append adds a row. The table keeps the slice.
func (t *Table) Append(row []null.String) error {
	if len(row) != len(t.columns) {
		return fmt.Errorf("%s: %w: row %d has %d cells, expected %d", t.Name, ErrRowLength, len(t.rows), len(row), len(t.columns))
	}
	t.rows = append(t.rows, row)

	return nil
}

// AppendStrings adds a row of raw text values. Blank values are missing.
func (t *Table) AppendStrings(values []string) error {
	row := make([]null.String, len(values))
	for i, v := range values {
		row[i] = Cell(v)
	}

	return t.Append(row)
}

// Row returns row i. The returned slice belongs to the table.
func (t *Table) Row(i int) []null.String {
	return t.rows[i]
}

// Get returns the cell at row i of col.
func (t *Table) Get(i int, col string) (null.String, error) {
	j, err := t.Index(col)
	if err != nil {
		return null.String{}, err
	}

	return t.rows[i][j], nil
}

// Column returns a copy of every cell in col.
func (t *Table) Column(col string) ([]null.String, error) {
	j, err := t.Index(col)
	if err != nil {
		return nil, err
	}

	out := make([]null.String, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[j]
	}

	return out, nil
}

// AddColumn appends a new column. values must have one entry per row.
func (t *Table) AddColumn(col string, values []null.String) error {
	if t.Has(col) {
		return fmt.Errorf("%s: %w: %q", t.Name, ErrColumnCollision, col)
	}
	if len(values) != len(t.rows) {
		return fmt.Errorf("%s: %w: column %q has %d values for %d rows", t.Name, ErrRowLength, col, len(values), len(t.rows))
	}
	if err := t.addColumnName(col); err != nil {
		return err
	}

	for i := range t.rows {
		t.rows[i] = append(t.rows[i], values[i])
	}

	return nil
}

// Project returns a new table holding only cols, in the given order. Every
// column must exist.
func (t *Table) Project(cols []string) (*Table, error) {
	if err := t.Require(cols...); err != nil {
		return nil, err
	}

	out, err := New(t.Name, cols)
	if err != nil {
		return nil, err
	}

	positions := make([]int, len(cols))
	for k, col := range cols {
		positions[k] = t.index[col]
	}

	out.rows = make([][]null.String, len(t.rows))
	for i, row := range t.rows {
		projected := make([]null.String, len(positions))
		for k, j := range positions {
			projected[k] = row[j]
		}
		out.rows[i] = projected
	}

	return out, nil
}

// Rename renames columns in place, old name => new name. Every old name must
// exist, and no new name may collide with a column that keeps its name or
// with another new name.
func (t *Table) Rename(renames map[string]string) error {
	if len(renames) == 0 {
		return nil
	}

	next := make([]string, len(t.columns))
	copy(next, t.columns)

	for from, to := range renames {
		j, err := t.Index(from)
		if err != nil {
			return err
		}
		if to == "" {
			return fmt.Errorf("%s: cannot rename %q to an empty name", t.Name, from)
		}
		next[j] = to
	}

	index := make(map[string]int, len(next))
	for j, col := range next {
		if _, exists := index[col]; exists {
			return fmt.Errorf("%s: %w: renaming produces two columns named %q", t.Name, ErrColumnCollision, col)
		}
		index[col] = j
	}

	t.columns = next
	t.index = index

	return nil
}

// Recode replaces every cell in cols whose numeric value is one of sentinels
// with a missing value. It returns the number of cells recoded per column.
func (t *Table) Recode(cols []string, sentinels []float64) (map[string]int, error) {
	if err := t.Require(cols...); err != nil {
		return nil, err
	}

	lookup := make(map[float64]struct{}, len(sentinels))
	for _, s := range sentinels {
		lookup[s] = struct{}{}
	}

	counts := make(map[string]int, len(cols))
	for _, col := range cols {
		j := t.index[col]
		counts[col] = 0
		for _, row := range t.rows {
			f, ok := Float(row[j])
			if !ok {
				continue
			}
			if _, isSentinel := lookup[f]; isSentinel {
				row[j] = null.String{}
				counts[col]++
			}
		}
	}

	return counts, nil
}

// FillMissing sets every missing cell in col to value and returns how many
// cells were filled.
func (t *Table) FillMissing(col, value string) (int, error) {
	j, err := t.Index(col)
	if err != nil {
		return 0, err
	}

	filled := 0
	for _, row := range t.rows {
		if !row[j].Valid {
			row[j] = null.StringFrom(value)
			filled++
		}
	}

	return filled, nil
}

// CombineFirst fills missing cells in dst with the value of src from the same
// row. It returns how many cells were filled.
func (t *Table) CombineFirst(dst, src string) (int, error) {
	if err := t.Require(dst, src); err != nil {
		return 0, err
	}
	d, s := t.index[dst], t.index[src]

	filled := 0
	for _, row := range t.rows {
		if !row[d].Valid && row[s].Valid {
			row[d] = row[s]
			filled++
		}
	}

	return filled, nil
}

// MaskUnless sets col to missing on every row whose value in condCol is not
// exactly one of allowed. A missing condCol never matches. It returns how
// many non-missing cells were masked.
func (t *Table) MaskUnless(col, condCol string, allowed []string) (int, error) {
	if err := t.Require(col, condCol); err != nil {
		return 0, err
	}
	j, c := t.index[col], t.index[condCol]

	keep := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		keep[v] = struct{}{}
	}

	masked := 0
	for _, row := range t.rows {
		if row[c].Valid {
			if _, ok := keep[row[c].String]; ok {
				continue
			}
		}
		if row[j].Valid {
			masked++
		}
		row[j] = null.String{}
	}

	return masked, nil
}

// MoveToFront makes col the first column, keeping the order of the others.
func (t *Table) MoveToFront(col string) error {
	j, err := t.Index(col)
	if err != nil {
		return err
	}
	if j == 0 {
		return nil
	}

	copy(t.columns[1:j+1], t.columns[:j])
	t.columns[0] = col
	for k, name := range t.columns {
		t.index[name] = k
	}

	for _, row := range t.rows {
		cell := row[j]
		copy(row[1:j+1], row[:j])
		row[0] = cell
	}

	return nil
}

// Cell converts raw text to a cell. Blank text is missing.
func Cell(v string) null.String {
	if strings.TrimSpace(v) == "" {
		return null.String{}
	}

	return null.StringFrom(v)
}

// FloatCell renders a number in its shortest exact decimal form. NaN is
// missing.
func FloatCell(f float64) null.String {
	if math.IsNaN(f) {
		return null.String{}
	}

	return null.StringFrom(strconv.FormatFloat(f, 'f', -1, 64))
}

// Float parses a cell as a number.
func Float(v null.String) (float64, bool) {
	if !v.Valid {
		return 0, false
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(v.String), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}

	return f, true
}

// NormalizeKey returns the canonical form of a join key: surrounding space is
// removed, and integral numbers lose any trailing ".0" so that a key read from
// a statistical file as 19001.0 matches 19001 from a text file.
func NormalizeKey(v null.String) (string, bool) {
	if !v.Valid {
		return "", false
	}

	key := strings.TrimSpace(v.String)
	if key == "" {
		return "", false
	}

	if f, err := strconv.ParseFloat(key, 64); err == nil && f == float64(int64(f)) && strings.ContainsAny(key, ".eE") {
		return strconv.FormatInt(int64(f), 10), true
	}

	return key, true
}
