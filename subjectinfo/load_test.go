package subjectinfo

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/twinstudy/table"
)

func TestLoadDelimitedCompressedTabs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bmi.tsv.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte("VETSAID\tBMI\tBMI_v2\nA\t30.1\t\nB\t25\t26.5\n")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	bmi, err := LoadDelimited(context.Background(), TableBMI, path, nil, false, table.DefaultNAValues)
	if err != nil {
		t.Fatal(err)
	}

	if bmi.Len() != 2 || bmi.Width() != 3 {
		t.Fatalf("Expected 2x3, got %dx%d", bmi.Len(), bmi.Width())
	}
	if v, _ := bmi.Get(1, "BMI_v2"); v.String != "26.5" {
		t.Errorf("Unexpected BMI_v2 %+v", v)
	}
	if v, _ := bmi.Get(0, "BMI_v2"); v.Valid {
		t.Errorf("Expected missing BMI_v2, got %+v", v)
	}
}

func TestLoadDelimitedFixQuotes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.csv")
	content := "vetsaid,case,note\nA,100,\"said \\\"hi\\\"\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	admin, err := LoadDelimited(context.Background(), "admin", path, nil, true, nil)
	if err != nil {
		t.Fatal(err)
	}

	if v, _ := admin.Get(0, "note"); v.String != `said "hi"` {
		t.Errorf("Unexpected note %q", v.String)
	}
}

func TestLoadStatFileGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wave1.sas7bdat")
	if err := os.WriteFile(path, []byte(strings.Repeat("not a sas file\n", 100)), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadStatFile(context.Background(), TableWave1, path, nil); err == nil {
		t.Error("Expected an error for a file that is not SAS7BDAT")
	}
}

func TestLoadSchemaFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.tsv")
	if err := os.WriteFile(path, []byte(testSchemaTSV), 0644); err != nil {
		t.Fatal(err)
	}

	schema, err := loadSchema(context.Background(), path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(schema.For(TableWave2).Sources) != 3 {
		t.Errorf("Expected 3 wave 2 sources, got %v", schema.For(TableWave2).Sources)
	}

	defaults, err := loadSchema(context.Background(), "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(defaults.For(TableWave1).Sources) != 28 {
		t.Errorf("Expected the default schema, got %d wave 1 sources", len(defaults.For(TableWave1).Sources))
	}
}

func TestWriteCSVLocal(t *testing.T) {
	merged := mustTable(t, "subjects", "vetsaid,BMI\nA,20\nB,\n")
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := WriteCSV(context.Background(), merged, path, "NA", nil); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "vetsaid,BMI\nA,20\nB,NA\n" {
		t.Errorf("Unexpected output %q", content)
	}
}

func TestRunRequiresPaths(t *testing.T) {
	if _, _, err := Run(context.Background(), DefaultConfig()); err == nil {
		t.Error("Expected an error when no paths are set")
	}
}

func TestLoadDelimitedNATokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.csv")
	content := "vetsaid,case,deceased2013,VETSAGRP\nA,100,NA,V1\nB,100,NaN,NA\nC,200,0,V2AR\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	admin, err := LoadDelimited(context.Background(), "admin", path, nil, false, DefaultConfig().NAValues)
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range []struct {
		Row    int
		Column string
	}{
		{0, "deceased2013"},
		{1, "deceased2013"},
		{1, "VETSAGRP"},
	} {
		if got, _ := admin.Get(v.Row, v.Column); got.Valid {
			t.Errorf("Row %d %s: expected missing, got %+v", v.Row, v.Column, got)
		}
	}
}
