package subjectinfo

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/carbocation/pfx"
	"github.com/carbocation/twinstudy"
	"github.com/carbocation/twinstudy/table"
)

// Config describes where the inputs live and how the study's columns are
// named. Paths may be local (with ~ expansion) or gs:// objects.
type Config struct {
	ConfigPath string `json:"-"`

	AdminPath          string `json:"admin"`
	BMIPath            string `json:"bmi"`
	Wave1Path          string `json:"wave1"`
	Wave2Path          string `json:"wave2"`
	OutputPath         string `json:"output"`
	SchemaPath         string `json:"schema"`
	SQLitePath         string `json:"sqlite"`
	BigQuerySchemaPath string `json:"bq_schema"`

	SubjectIDColumn    string    `json:"subject_id_column"`
	CaseColumn         string    `json:"case_column"`
	DeceasedColumn     string    `json:"deceased_column"`
	DeceasedSibColumn  string    `json:"deceased_sib_column"`
	GroupColumn        string    `json:"group_column"`
	ReturnGroups       []string  `json:"return_groups"`
	CarryForwardTarget string    `json:"carry_forward_target"`
	CarryForwardSource string    `json:"carry_forward_source"`
	Sentinels          []float64 `json:"sentinels"`

	// NA is written in place of missing values.
	NA string `json:"na"`

	// NAValues are read as missing in the delimited and spreadsheet inputs,
	// in addition to blank cells.
	NAValues []string `json:"na_values"`

	// StrictFamilies turns family anomalies (families that are not exactly a
	// pair, or that have more than one deceased member) into errors.
	StrictFamilies bool `json:"strict_families"`

	// FixQuotes rewrites \" to "" in delimited inputs before parsing.
	FixQuotes bool `json:"fix_quotes"`
}

// DefaultConfig returns the column conventions of the VETSA twin study. No
// paths are set.
func DefaultConfig() Config {
	return Config{
		SubjectIDColumn:    "vetsaid",
		CaseColumn:         "case",
		DeceasedColumn:     "deceased2013",
		DeceasedSibColumn:  "DECEASEDSIB",
		GroupColumn:        "VETSAGRP",
		ReturnGroups:       []string{"V1V2", "V2AR"},
		CarryForwardTarget: "TOCC_V2",
		CarryForwardSource: "TOCC",
		Sentinels:          []float64{8, 9, 99},
		NA:                 "",
		NAValues:           append([]string(nil), table.DefaultNAValues...),
	}
}

// ParseJSONConfigFromPath reads a JSON config file. Fields that the file does
// not set keep the values of DefaultConfig.
func ParseJSONConfigFromPath(path string) (Config, error) {
	out := DefaultConfig()
	out.ConfigPath = twinstudy.ExpandHome(path)

	f, err := os.Open(out.ConfigPath)
	if err != nil {
		return out, pfx.Err(err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		if e, ok := err.(*json.SyntaxError); ok {
			log.Printf("syntax error at byte offset %d", e.Offset)
		}
		return out, pfx.Err(err)
	}

	return out, nil
}

// Paths returns every input and output path that is set.
func (c Config) Paths() []string {
	out := make([]string, 0, 8)
	for _, p := range []string{c.AdminPath, c.BMIPath, c.Wave1Path, c.Wave2Path, c.OutputPath, c.SchemaPath, c.SQLitePath, c.BigQuerySchemaPath} {
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

// Validate checks that the required paths and column names are present.
func (c Config) Validate() error {
	for _, v := range []struct {
		Name  string
		Value string
	}{
		{"admin", c.AdminPath},
		{"bmi", c.BMIPath},
		{"wave1", c.Wave1Path},
		{"wave2", c.Wave2Path},
		{"output", c.OutputPath},
	} {
		if v.Value == "" {
			return fmt.Errorf("the %s path is required", v.Name)
		}
	}

	return c.validateColumns()
}

func (c Config) validateColumns() error {
	for _, v := range []struct {
		Name  string
		Value string
	}{
		{"subject_id_column", c.SubjectIDColumn},
		{"case_column", c.CaseColumn},
		{"deceased_column", c.DeceasedColumn},
		{"deceased_sib_column", c.DeceasedSibColumn},
		{"group_column", c.GroupColumn},
		{"carry_forward_target", c.CarryForwardTarget},
		{"carry_forward_source", c.CarryForwardSource},
	} {
		if v.Value == "" {
			return fmt.Errorf("%s must not be empty", v.Name)
		}
	}

	if len(c.ReturnGroups) == 0 {
		return fmt.Errorf("at least one return group is required")
	}

	return nil
}
