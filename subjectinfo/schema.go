package subjectinfo

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/twinstudy/table"
	"github.com/gocarina/gocsv"
)

const (
	TableBMI   = "bmi"
	TableWave1 = "wave1"
	TableWave2 = "wave2"
)

//go:embed schema_default.tsv
var defaultSchemaTSV []byte

// SchemaEntry is one row of the mapping table: a source column of an input
// table, the name it takes in the merged dataset, and whether its sentinel
// codes mean "missing".
type SchemaEntry struct {
	Table  string `csv:"table"`
	Source string `csv:"source"`
	Target string `csv:"target"`
	Recode bool   `csv:"recode"`
}

// Schema is the declarative description of which columns are taken from each
// input table and what they are called in the output.
type Schema struct {
	Entries []SchemaEntry
}

// Projection is the part of a Schema that applies to a single table.
type Projection struct {
	Table   string
	Sources []string
	Renames map[string]string
	Recode  []string // target names
}

// DefaultSchema returns the built-in mapping table.
func DefaultSchema() (Schema, error) {
	return ParseSchema(bytes.NewReader(defaultSchemaTSV))
}

// ParseSchema reads a tab-delimited mapping table with the header
// table, source, target, recode. Lines beginning with # are ignored.
func ParseSchema(r io.Reader) (Schema, error) {
	rdr := csv.NewReader(r)
	rdr.Comma = '\t'
	rdr.Comment = '#'

	records := []*SchemaEntry{}
	if err := gocsv.UnmarshalCSV(rdr, &records); err != nil {
		return Schema{}, pfx.Err(err)
	}

	out := Schema{Entries: make([]SchemaEntry, 0, len(records))}
	for _, record := range records {
		record.Table = strings.ToLower(strings.TrimSpace(record.Table))
		record.Source = strings.TrimSpace(record.Source)
		record.Target = strings.TrimSpace(record.Target)
		out.Entries = append(out.Entries, *record)
	}

	if err := out.Validate(); err != nil {
		return Schema{}, err
	}

	return out, nil
}

// Validate checks that every entry names a known table and that no table maps
// two sources to one target or lists a source twice.
func (s Schema) Validate() error {
	sources := make(map[string]map[string]struct{})
	targets := make(map[string]map[string]string)

	for i, e := range s.Entries {
		switch e.Table {
		case TableBMI, TableWave1, TableWave2:
		default:
			return fmt.Errorf("schema entry %d: unknown table %q", i+1, e.Table)
		}
		if e.Source == "" || e.Target == "" {
			return fmt.Errorf("schema entry %d: source and target are both required", i+1)
		}

		if sources[e.Table] == nil {
			sources[e.Table] = make(map[string]struct{})
			targets[e.Table] = make(map[string]string)
		}
		if _, exists := sources[e.Table][e.Source]; exists {
			return fmt.Errorf("schema entry %d: %s column %q is listed twice", i+1, e.Table, e.Source)
		}
		if prior, exists := targets[e.Table][e.Target]; exists {
			return fmt.Errorf("schema entry %d: %s columns %q and %q both map to %q", i+1, e.Table, prior, e.Source, e.Target)
		}
		sources[e.Table][e.Source] = struct{}{}
		targets[e.Table][e.Target] = e.Source
	}

	return nil
}

// For returns the projection for one input table, in schema order.
func (s Schema) For(tableName string) Projection {
	p := Projection{
		Table:   tableName,
		Renames: make(map[string]string),
	}

	for _, e := range s.Entries {
		if e.Table != tableName {
			continue
		}
		p.Sources = append(p.Sources, e.Source)
		if e.Source != e.Target {
			p.Renames[e.Source] = e.Target
		}
		if e.Recode {
			p.Recode = append(p.Recode, e.Target)
		}
	}

	return p
}

// HasTarget reports whether the projection produces a column named target.
func (p Projection) HasTarget(target string) bool {
	for _, src := range p.Sources {
		if src == target && p.Renames[src] == "" {
			return true
		}
		if p.Renames[src] == target {
			return true
		}
	}

	return false
}

// Apply projects t onto the schema's source columns, renames them, and
// recodes sentinel values in the flagged columns. It returns the recode
// counts per column.
func (p Projection) Apply(t *table.Table, sentinels []float64) (*table.Table, map[string]int, error) {
	if len(p.Sources) == 0 {
		return nil, nil, fmt.Errorf("%s: the schema lists no columns for this table", p.Table)
	}

	out, err := t.Project(p.Sources)
	if err != nil {
		return nil, nil, err
	}

	if err := out.Rename(p.Renames); err != nil {
		return nil, nil, err
	}

	counts, err := out.Recode(p.Recode, sentinels)
	if err != nil {
		return nil, nil, err
	}

	return out, counts, nil
}
