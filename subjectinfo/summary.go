package subjectinfo

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/twinstudy/table"
	"github.com/gonum/stat"
	"github.com/montanaflynn/stats"
)

// ColumnSummary describes one column of the merged dataset.
type ColumnSummary struct {
	Column  string
	N       int
	Missing int
	Numeric bool
	Mean    float64
	SD      float64
	Median  float64
	Q1      float64
	Q3      float64
}

func numericValues(t *table.Table, col string) ([]float64, int, bool, error) {
	cells, err := t.Column(col)
	if err != nil {
		return nil, 0, false, err
	}

	values := make([]float64, 0, len(cells))
	missing := 0
	numeric := true
	for _, cell := range cells {
		if !cell.Valid {
			missing++
			continue
		}
		f, ok := table.Float(cell)
		if !ok {
			numeric = false
			continue
		}
		values = append(values, f)
	}

	return values, missing, numeric && len(values) > 0, nil
}

// Summarize computes per-column counts and, for numeric columns, location
// and spread. If cols is empty, every column is summarized.
func Summarize(t *table.Table, cols []string) ([]ColumnSummary, error) {
	if len(cols) == 0 {
		cols = t.Columns()
	}

	out := make([]ColumnSummary, 0, len(cols))
	for _, col := range cols {
		values, missing, numeric, err := numericValues(t, col)
		if err != nil {
			return nil, err
		}

		s := ColumnSummary{
			Column:  col,
			N:       t.Len() - missing,
			Missing: missing,
			Numeric: numeric,
		}

		if numeric {
			s.Mean, s.SD = stat.MeanStdDev(values, nil)
			if len(values) < 2 {
				s.SD = math.NaN()
			}
			if s.Median, err = stats.Median(values); err != nil {
				return nil, err
			}
			if s.Q1, err = stats.Percentile(values, 25); err != nil {
				return nil, err
			}
			if s.Q3, err = stats.Percentile(values, 75); err != nil {
				return nil, err
			}
		}

		out = append(out, s)
	}

	return out, nil
}

// FprintSummary writes summaries as a tab-delimited table.
func FprintSummary(w io.Writer, summaries []ColumnSummary) error {
	if _, err := fmt.Fprintf(w, "column\tn\tmissing\tmean\tsd\tq1\tmedian\tq3\n"); err != nil {
		return err
	}

	for _, s := range summaries {
		fields := []string{"", "", "", "", ""}
		if s.Numeric {
			fields = []string{formatStat(s.Mean), formatStat(s.SD), formatStat(s.Q1), formatStat(s.Median), formatStat(s.Q3)}
		}
		if _, err := fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", s.Column, s.N, s.Missing, strings.Join(fields, "\t")); err != nil {
			return err
		}
	}

	return nil
}

func formatStat(f float64) string {
	if math.IsNaN(f) {
		return "NA"
	}

	return fmt.Sprintf("%.4g", f)
}

// FprintHistogram draws a text histogram of a numeric column.
func FprintHistogram(w io.Writer, t *table.Table, col string, bins int) error {
	values, missing, numeric, err := numericValues(t, col)
	if err != nil {
		return err
	}
	if !numeric {
		return fmt.Errorf("column %q has no numeric values to plot", col)
	}

	if _, err := fmt.Fprintf(w, "%s (N=%d, %d missing)\n", col, len(values), missing); err != nil {
		return err
	}

	if bins < 1 {
		bins = 25
	}
	hist := histogram.Hist(bins, values)

	return histogram.Fprint(w, hist, histogram.Linear(40))
}
