package statfile

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/guregu/null.v3"
)

func cellStrings(cells []null.String) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		if c.Valid {
			out[i] = c.String
		} else {
			out[i] = "<NA>"
		}
	}
	return out
}

func TestCells(t *testing.T) {
	for _, v := range []struct {
		Name     string
		Data     interface{}
		Missing  []bool
		Expected []string
	}{
		{"float64", []float64{8, 99, 27.5, math.NaN()}, nil, []string{"8", "99", "27.5", "<NA>"}},
		{"float64 with mask", []float64{1, 2, 3}, []bool{false, true, false}, []string{"1", "<NA>", "3"}},
		{"float32", []float32{0.1, 2}, nil, []string{"0.1", "2"}},
		{"int16", []int16{-1, 9}, nil, []string{"-1", "9"}},
		{"string", []string{"19001A  ", "", "   "}, nil, []string{"19001A", "<NA>", "<NA>"}},
		{"time", []time.Time{time.Date(2013, 5, 1, 0, 0, 0, 0, time.UTC), {}}, nil, []string{"2013-05-01", "<NA>"}},
	} {
		cells, err := Cells(v.Data, v.Missing)
		if err != nil {
			t.Fatalf("%s: %v", v.Name, err)
		}
		if diff := cmp.Diff(v.Expected, cellStrings(cells)); diff != "" {
			t.Errorf("%s: unexpected cells (-want +got):\n%s", v.Name, diff)
		}
	}

	if _, err := Cells([]complex128{1}, nil); err == nil {
		t.Error("Expected an error for an unsupported column type")
	}
}

func TestFormatFromPath(t *testing.T) {
	for _, v := range []struct {
		Path     string
		Expected Format
	}{
		{"/data/vetsa1merged_21aug2014.sas7bdat", FormatSAS7BDAT},
		{"gs://bucket/VETSA2.SAS7BDAT.gz", FormatSAS7BDAT},
		{"wave2.dta", FormatStata},
		{"wave2.csv", FormatUnknown},
	} {
		if got := FormatFromPath(v.Path); got != v.Expected {
			t.Errorf("FormatFromPath(%q): expected %s, got %s", v.Path, v.Expected, got)
		}
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	garbage := bytes.NewReader([]byte("this is not a statistical file at all, not even close"))

	if _, err := Read("wave1", garbage, FormatSAS7BDAT); err == nil {
		t.Error("Expected an error parsing garbage as sas7bdat")
	}
	if _, err := Read("wave1", garbage, FormatUnknown); err == nil {
		t.Error("Expected an error for an unknown format")
	}
}

func TestReadStata(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "wave.dta"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	tab, err := Read("wave2", f, FormatStata)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"x", "y", "z"}, tab.Columns()); diff != "" {
		t.Errorf("Unexpected columns (-want +got):\n%s", diff)
	}

	for _, v := range []struct {
		Column   string
		Expected []string
	}{
		{"x", []string{"1", "3", "93"}},
		{"y", []string{"abc", "cba", "<NA>"}},
		{"z", []string{"abcdefghi", "qwertywertyqwerty", "strl"}},
	} {
		cells, err := tab.Column(v.Column)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(v.Expected, cellStrings(cells)); diff != "" {
			t.Errorf("%s: unexpected cells (-want +got):\n%s", v.Column, diff)
		}
	}
}
