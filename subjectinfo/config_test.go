package subjectinfo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseJSONConfigFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	js := `{
	"admin": "/data/admin.csv",
	"bmi": "/data/bmi.csv.gz",
	"wave1": "gs://vetsa/wave1.sas7bdat",
	"wave2": "gs://vetsa/wave2.sas7bdat",
	"output": "/data/subjects.csv",
	"sentinels": [8, 9, 99, -1],
	"na_values": ["-9", "."],
	"strict_families": true
}`
	if err := os.WriteFile(path, []byte(js), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseJSONConfigFromPath(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]float64{8, 9, 99, -1}, cfg.Sentinels); diff != "" {
		t.Errorf("Unexpected sentinels (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"-9", "."}, cfg.NAValues); diff != "" {
		t.Errorf("Unexpected na_values (-want +got):\n%s", diff)
	}
	if !cfg.StrictFamilies {
		t.Error("Expected strict_families to be set")
	}

	// Unset fields keep their defaults
	if cfg.CarryForwardTarget != "TOCC_V2" || cfg.SubjectIDColumn != "vetsaid" {
		t.Errorf("Defaults were not kept: %+v", cfg)
	}
	if len(DefaultConfig().NAValues) == 0 {
		t.Error("Expected default na_values")
	}
	if diff := cmp.Diff([]string{"V1V2", "V2AR"}, cfg.ReturnGroups); diff != "" {
		t.Errorf("Unexpected return groups (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{
		"/data/admin.csv",
		"/data/bmi.csv.gz",
		"gs://vetsa/wave1.sas7bdat",
		"gs://vetsa/wave2.sas7bdat",
		"/data/subjects.csv",
	}, cfg.Paths()); diff != "" {
		t.Errorf("Unexpected paths (-want +got):\n%s", diff)
	}
}

func TestParseJSONConfigRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"admn": "/data/admin.csv"}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ParseJSONConfigFromPath(path); err == nil {
		t.Error("Expected an error for a misspelled field")
	}
}

func TestConfigValidate(t *testing.T) {
	complete := DefaultConfig()
	complete.AdminPath = "admin.csv"
	complete.BMIPath = "bmi.csv"
	complete.Wave1Path = "wave1.sas7bdat"
	complete.Wave2Path = "wave2.sas7bdat"
	complete.OutputPath = "out.csv"

	if err := complete.Validate(); err != nil {
		t.Fatal(err)
	}

	for _, v := range []struct {
		Want   string
		Modify func(c *Config)
	}{
		{"wave2", func(c *Config) { c.Wave2Path = "" }},
		{"output", func(c *Config) { c.OutputPath = "" }},
		{"case_column", func(c *Config) { c.CaseColumn = "" }},
		{"return group", func(c *Config) { c.ReturnGroups = nil }},
	} {
		cfg := complete
		v.Modify(&cfg)

		err := cfg.Validate()
		if err == nil {
			t.Errorf("Expected an error mentioning %q", v.Want)
			continue
		}
		if !strings.Contains(err.Error(), v.Want) {
			t.Errorf("Expected %q in %q", v.Want, err)
		}
	}
}
