package table

import (
	"strings"

	"gopkg.in/guregu/null.v3"
)

// DefaultNAValues are the tokens that statistical packages and spreadsheets
// commonly write for a missing value. Blank text is always missing.
var DefaultNAValues = []string{
	"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// NASet holds the tokens that are read as missing. Matching is exact, after
// surrounding space is removed. The zero value treats only blank text as
// missing.
type NASet map[string]struct{}

func NewNASet(tokens []string) NASet {
	out := make(NASet, len(tokens))
	for _, tok := range tokens {
		out[strings.TrimSpace(tok)] = struct{}{}
	}

	return out
}

// Cell converts raw text to a cell. Blank text and any token in the set are
// missing.
func (s NASet) Cell(v string) null.String {
	if _, isNA := s[strings.TrimSpace(v)]; isNA {
		return null.String{}
	}

	return Cell(v)
}

// Cells converts a record of raw text.
func (s NASet) Cells(values []string) []null.String {
	out := make([]null.String, len(values))
	for i, v := range values {
		out[i] = s.Cell(v)
	}

	return out
}
