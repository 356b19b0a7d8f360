// Package statfile loads SAS7BDAT and Stata dta files into a table.Table.
package statfile

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/carbocation/twinstudy/table"
	"github.com/kshedden/datareader"
	"gopkg.in/guregu/null.v3"
)

type Format byte

const (
	FormatUnknown Format = iota
	FormatSAS7BDAT
	FormatStata
)

func (f Format) String() string {
	switch f {
	case FormatSAS7BDAT:
		return "sas7bdat"
	case FormatStata:
		return "dta"
	}

	return "unknown"
}

// ChunkSize is the number of records requested from the underlying reader at
// a time.
var ChunkSize = 10000

// DateLayout is used to render SAS and Stata date values.
const DateLayout = "2006-01-02"

// FormatFromPath infers the file format from its extension, ignoring any
// trailing compression extension.
func FormatFromPath(path string) Format {
	lower := strings.ToLower(path)
	for _, ext := range []string{".gz", ".bz2", ".xz", ".zip"} {
		lower = strings.TrimSuffix(lower, ext)
	}

	switch filepath.Ext(lower) {
	case ".sas7bdat":
		return FormatSAS7BDAT
	case ".dta":
		return FormatStata
	}

	return FormatUnknown
}

// reader is the subset of datareader.StatfileReader that is needed here.
type reader interface {
	ColumnNames() []string
	Read(int) ([]*datareader.Series, error)
}

// Read parses an entire SAS7BDAT or Stata file into a table named name.
func Read(name string, r io.ReadSeeker, format Format) (*table.Table, error) {
	var rdr reader

	switch format {
	case FormatSAS7BDAT:
		sas, err := datareader.NewSAS7BDATReader(r)
		if err != nil {
			return nil, fmt.Errorf("%s: could not parse as sas7bdat: %w", name, err)
		}
		sas.TrimStrings = true
		sas.ConvertDates = true
		rdr = sas
	case FormatStata:
		stata, err := datareader.NewStataReader(r)
		if err != nil {
			return nil, fmt.Errorf("%s: could not parse as Stata dta: %w", name, err)
		}
		stata.ConvertDates = true
		stata.InsertCategoryLabels = false
		rdr = stata
	default:
		return nil, fmt.Errorf("%s: unrecognized statistical file format", name)
	}

	return readAll(name, rdr)
}

func readAll(name string, rdr reader) (*table.Table, error) {
	columns := rdr.ColumnNames()
	out, err := table.New(name, columns)
	if err != nil {
		return nil, err
	}

	for chunk := 0; ; chunk++ {
		series, err := rdr.Read(ChunkSize)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%s: reading chunk %d: %w", name, chunk, err)
		}
		if len(series) == 0 || series[0] == nil || series[0].Length() == 0 {
			break
		}
		if len(series) != len(columns) {
			return nil, fmt.Errorf("%s: chunk %d has %d columns, expected %d", name, chunk, len(series), len(columns))
		}

		cells := make([][]null.String, len(series))
		for j, s := range series {
			cells[j], err = Cells(s.Data(), s.Missing())
			if err != nil {
				return nil, fmt.Errorf("%s: column %q: %w", name, columns[j], err)
			}
			if len(cells[j]) != len(cells[0]) {
				return nil, fmt.Errorf("%s: column %q has %d values in chunk %d, expected %d", name, columns[j], len(cells[j]), chunk, len(cells[0]))
			}
		}

		for i := range cells[0] {
			row := make([]null.String, len(cells))
			for j := range cells {
				row[j] = cells[j][i]
			}
			if err := out.Append(row); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// Cells converts the column data returned by datareader into table cells.
// missing may be nil. NaN and blank strings are also treated as missing.
func Cells(data interface{}, missing []bool) ([]null.String, error) {
	var out []null.String

	switch vec := data.(type) {
	case []float64:
		out = make([]null.String, len(vec))
		for i, v := range vec {
			out[i] = table.FloatCell(v)
		}
	case []float32:
		out = make([]null.String, len(vec))
		for i, v := range vec {
			// Format at 32-bit precision so 0.1 does not become 0.10000000149011612
			f, _ := strconv.ParseFloat(strconv.FormatFloat(float64(v), 'g', -1, 32), 64)
			out[i] = table.FloatCell(f)
		}
	case []int64:
		out = make([]null.String, len(vec))
		for i, v := range vec {
			out[i] = null.StringFrom(strconv.FormatInt(v, 10))
		}
	case []int32:
		out = make([]null.String, len(vec))
		for i, v := range vec {
			out[i] = null.StringFrom(strconv.FormatInt(int64(v), 10))
		}
	case []int16:
		out = make([]null.String, len(vec))
		for i, v := range vec {
			out[i] = null.StringFrom(strconv.FormatInt(int64(v), 10))
		}
	case []int8:
		out = make([]null.String, len(vec))
		for i, v := range vec {
			out[i] = null.StringFrom(strconv.FormatInt(int64(v), 10))
		}
	case []uint64:
		out = make([]null.String, len(vec))
		for i, v := range vec {
			out[i] = null.StringFrom(strconv.FormatUint(v, 10))
		}
	case []string:
		out = make([]null.String, len(vec))
		for i, v := range vec {
			out[i] = table.Cell(strings.TrimRight(v, " \x00"))
		}
	case []time.Time:
		out = make([]null.String, len(vec))
		for i, v := range vec {
			if v.IsZero() {
				continue
			}
			out[i] = null.StringFrom(v.Format(DateLayout))
		}
	default:
		return nil, fmt.Errorf("unsupported column type %T", data)
	}

	for i, miss := range missing {
		if miss && i < len(out) {
			out[i] = null.String{}
		}
	}

	return out, nil
}
