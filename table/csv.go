package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

// ReadDelimited reads a delimited text table with a header row. Cells that are
// blank or hold one of the na tokens are missing.
func ReadDelimited(name string, r io.Reader, delim rune, na NASet) (*Table, error) {
	rdr := csv.NewReader(r)
	rdr.Comma = delim
	rdr.LazyQuotes = true
	rdr.ReuseRecord = false

	header, err := rdr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: no header row", name)
	} else if err != nil {
		return nil, fmt.Errorf("%s: header parsing error: %w", name, err)
	}

	cols := make([]string, len(header))
	for i, col := range header {
		if i == 0 {
			// Excel likes to prefix UTF-8 exports with a byte order mark.
			col = strings.TrimPrefix(col, utf8BOM)
		}
		cols[i] = strings.TrimSpace(col)
	}

	t, err := New(name, cols)
	if err != nil {
		return nil, err
	}

	for {
		record, err := rdr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		if err := t.Append(na.Cells(record)); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// WriteCSV writes the table as comma-separated text with a header row and no
// row index. Missing cells are written as na.
func (t *Table) WriteCSV(w io.Writer, na string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.columns); err != nil {
		return err
	}

	record := make([]string, len(t.columns))
	for _, row := range t.rows {
		for j, cell := range row {
			if cell.Valid {
				record[j] = cell.String
			} else {
				record[j] = na
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}
