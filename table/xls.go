package table

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/extrame/xls"
)

// ReadXLS reads the single worksheet of a legacy Excel workbook, treating its
// first non-empty row as the header.
func ReadXLS(name string, rs io.ReadSeeker, na NASet) (*Table, error) {
	wb, err := xls.OpenReader(rs, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	if n := wb.NumSheets(); n != 1 {
		return nil, fmt.Errorf("%s: expected exactly one worksheet, found %d", name, n)
	}

	return FromCells(name, wb.ReadAllCells(math.MaxInt32), na)
}

// FromCells builds a table from a grid of spreadsheet cells. Rows that hold no
// cells may be nil; the header is the first non-empty row and trailing blank
// header cells are dropped. A data row with a non-blank cell beyond the
// header is an error.
func FromCells(name string, cells [][]string, na NASet) (*Table, error) {
	start := 0
	for start < len(cells) && len(cells[start]) == 0 {
		start++
	}
	if start == len(cells) {
		return nil, fmt.Errorf("%s: no header row", name)
	}

	header := cells[start]
	for len(header) > 0 && strings.TrimSpace(header[len(header)-1]) == "" {
		header = header[:len(header)-1]
	}
	cols := make([]string, len(header))
	for i, col := range header {
		cols[i] = strings.TrimSpace(col)
	}

	t, err := New(name, cols)
	if err != nil {
		return nil, err
	}

	for i, record := range cells[start+1:] {
		if len(record) == 0 {
			continue
		}

		for j := len(cols); j < len(record); j++ {
			if strings.TrimSpace(record[j]) != "" {
				return nil, fmt.Errorf("%s: %w: spreadsheet row %d has a value in column %d, but the header has %d columns", name, ErrRowLength, start+i+2, j+1, len(cols))
			}
		}

		values := make([]string, len(cols))
		copy(values, record)
		if err := t.Append(na.Cells(values)); err != nil {
			return nil, err
		}
	}

	return t, nil
}
