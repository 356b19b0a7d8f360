package subjectinfo

import (
	"math"
	"strings"

	"github.com/carbocation/twinstudy/table"
)

type columnKind byte

const (
	kindEmpty columnKind = iota
	kindInteger
	kindFloat
	kindString
)

// columnKinds infers a storage type per column. A column is numeric only if
// every non-missing value is a number already written in canonical form, so
// identifiers like 00123 and codes like 8.0 stay text.
func columnKinds(t *table.Table) []columnKind {
	kinds := make([]columnKind, t.Width())

	for i := 0; i < t.Len(); i++ {
		for j, cell := range t.Row(i) {
			if !cell.Valid || kinds[j] == kindString {
				continue
			}

			f, ok := table.Float(cell)
			if !ok || table.FloatCell(f).String != strings.TrimSpace(cell.String) {
				kinds[j] = kindString
				continue
			}

			if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
				if kinds[j] == kindEmpty {
					kinds[j] = kindInteger
				}
				continue
			}
			kinds[j] = kindFloat
		}
	}

	return kinds
}
