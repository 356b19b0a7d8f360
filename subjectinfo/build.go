package subjectinfo

import (
	"fmt"
	"log"
	"sort"

	"github.com/carbocation/twinstudy/table"
)

// Inputs are the four source tables, as loaded.
type Inputs struct {
	Admin *table.Table
	BMI   *table.Table
	Wave1 *table.Table
	Wave2 *table.Table
}

// Report summarizes what Build did, for logging and tests.
type Report struct {
	Subjects        int
	Anomalies       []FamilyAnomaly
	Recoded         map[string]map[string]int // table => column => cells
	CarriedForward  int
	Masked          int
	IndicatorFilled map[string]int
}

// Log writes the report with the standard logger.
func (r Report) Log() {
	log.Printf("Merged dataset has %d subjects\n", r.Subjects)

	for _, a := range r.Anomalies {
		log.Printf("Family anomaly: %s\n", a)
	}

	tables := make([]string, 0, len(r.Recoded))
	for name := range r.Recoded {
		tables = append(tables, name)
	}
	sort.Strings(tables)
	for _, name := range tables {
		total := 0
		for _, n := range r.Recoded[name] {
			total += n
		}
		log.Printf("Recoded %d sentinel values to missing across %d %s columns\n", total, len(r.Recoded[name]), name)
	}

	log.Printf("Carried %d wave 1 values forward; masked %d values for subjects outside the return groups\n", r.CarriedForward, r.Masked)
}

// Build assembles the per-subject dataset from the loaded inputs. The
// administrative table anchors the result: every one of its subjects appears
// exactly once, in its original order. The subject ID is the first column.
// Build modifies in.Admin.
func Build(in Inputs, cfg Config, schema Schema) (*table.Table, Report, error) {
	report := Report{
		Recoded:         make(map[string]map[string]int),
		IndicatorFilled: make(map[string]int),
	}

	if err := cfg.validateColumns(); err != nil {
		return nil, report, err
	}
	if err := schema.Validate(); err != nil {
		return nil, report, err
	}

	admin := in.Admin
	if err := admin.Require(cfg.SubjectIDColumn, cfg.CaseColumn, cfg.DeceasedColumn, cfg.GroupColumn); err != nil {
		return nil, report, err
	}
	if _, err := table.KeyIndex(admin, cfg.SubjectIDColumn); err != nil {
		return nil, report, err
	}

	// Deceased sibling
	anomalies, err := AddDeceasedSibling(admin, cfg)
	if err != nil {
		return nil, report, err
	}
	report.Anomalies = anomalies
	if cfg.StrictFamilies && len(anomalies) > 0 {
		return nil, report, fmt.Errorf("%d families are not a pair with at most one deceased member; the first is %s", len(anomalies), anomalies[0])
	}

	merged := admin
	for _, v := range []struct {
		Name  string
		Table *table.Table
	}{
		{TableBMI, in.BMI},
		{TableWave1, in.Wave1},
		{TableWave2, in.Wave2},
	} {
		if v.Table == nil {
			return nil, report, fmt.Errorf("the %s table was not loaded", v.Name)
		}

		proj := schema.For(v.Name)
		if !proj.HasTarget(cfg.SubjectIDColumn) {
			return nil, report, fmt.Errorf("the schema for %s does not produce the subject ID column %q", v.Name, cfg.SubjectIDColumn)
		}

		projected, counts, err := proj.Apply(v.Table, cfg.Sentinels)
		if err != nil {
			return nil, report, err
		}
		report.Recoded[v.Name] = counts

		merged, err = table.LeftJoin(merged, projected, cfg.SubjectIDColumn)
		if err != nil {
			return nil, report, err
		}
	}

	// Fill, then mask. Masking first would discard the wave 1 value of
	// returning subjects who have no wave 2 value.
	report.CarriedForward, err = merged.CombineFirst(cfg.CarryForwardTarget, cfg.CarryForwardSource)
	if err != nil {
		return nil, report, err
	}
	report.Masked, err = merged.MaskUnless(cfg.CarryForwardTarget, cfg.GroupColumn, cfg.ReturnGroups)
	if err != nil {
		return nil, report, err
	}

	for _, col := range []string{cfg.DeceasedColumn, cfg.DeceasedSibColumn} {
		report.IndicatorFilled[col], err = merged.FillMissing(col, "0")
		if err != nil {
			return nil, report, err
		}
	}

	if err := merged.MoveToFront(cfg.SubjectIDColumn); err != nil {
		return nil, report, err
	}

	if merged.Len() != admin.Len() {
		return nil, report, fmt.Errorf("%w: merged dataset has %d rows but the administrative table has %d", table.ErrDuplicateKey, merged.Len(), admin.Len())
	}
	report.Subjects = merged.Len()

	return merged, report, nil
}
