package table

import (
	"fmt"

	"gopkg.in/guregu/null.v3"
)

// KeyIndex maps each non-missing, normalized value of key to its row. A key
// that appears on more than one row is an error, because joining on it would
// multiply rows.
func KeyIndex(t *Table, key string) (map[string]int, error) {
	j, err := t.Index(key)
	if err != nil {
		return nil, err
	}

	out := make(map[string]int, len(t.rows))
	for i, row := range t.rows {
		k, ok := NormalizeKey(row[j])
		if !ok {
			continue
		}
		if prior, exists := out[k]; exists {
			return nil, fmt.Errorf("%s: %w: %q appears on rows %d and %d", t.Name, ErrDuplicateKey, k, prior+1, i+1)
		}
		out[k] = i
	}

	return out, nil
}

// LeftJoin returns a new table with every row of left, in order, extended by
// the non-key columns of the right row sharing its key. Left rows without a
// match get missing values. The row count of the result always equals
// left.Len(): duplicate keys on the right are reported instead of multiplying
// rows, and non-key column names shared by both tables are reported instead
// of being suffixed.
func LeftJoin(left, right *Table, key string) (*Table, error) {
	lk, err := left.Index(key)
	if err != nil {
		return nil, err
	}

	rightIndex, err := KeyIndex(right, key)
	if err != nil {
		return nil, err
	}
	rk := right.index[key]

	columns := left.Columns()
	rightCols := make([]int, 0, len(right.columns))
	for j, col := range right.columns {
		if j == rk {
			continue
		}
		if left.Has(col) {
			return nil, fmt.Errorf("%s + %s: %w: %q exists in both tables", left.Name, right.Name, ErrColumnCollision, col)
		}
		columns = append(columns, col)
		rightCols = append(rightCols, j)
	}

	out, err := New(left.Name, columns)
	if err != nil {
		return nil, err
	}

	out.rows = make([][]null.String, len(left.rows))
	for i, lrow := range left.rows {
		row := make([]null.String, 0, len(columns))
		row = append(row, lrow...)

		var rrow []null.String
		if k, ok := NormalizeKey(lrow[lk]); ok {
			if ri, exists := rightIndex[k]; exists {
				rrow = right.rows[ri]
			}
		}

		for _, j := range rightCols {
			if rrow == nil {
				row = append(row, null.String{})
				continue
			}
			row = append(row, rrow[j])
		}

		out.rows[i] = row
	}

	return out, nil
}
