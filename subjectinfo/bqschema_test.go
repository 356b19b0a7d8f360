package subjectinfo

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/bigquery"
	"github.com/google/go-cmp/cmp"
)

func TestBigQuerySchema(t *testing.T) {
	merged := mustTable(t, "subjects", "vetsaid,case,BMI,code,empty\n"+
		"A,100,30.1,8.0,\n"+
		"B,100,25,9,\n")

	got := make(map[string]bigquery.FieldType)
	for _, field := range BigQuerySchema(merged) {
		got[field.Name] = field.Type
	}

	expected := map[string]bigquery.FieldType{
		"vetsaid": bigquery.StringFieldType,
		"case":    bigquery.IntegerFieldType,
		"BMI":     bigquery.FloatFieldType,
		"code":    bigquery.StringFieldType,
		"empty":   bigquery.StringFieldType,
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Unexpected field types (-want +got):\n%s", diff)
	}
}

func TestWriteBigQuerySchema(t *testing.T) {
	merged := mustTable(t, "subjects", "vetsaid,case\nA,100\n")
	path := filepath.Join(t.TempDir(), "schema.json")

	if err := WriteBigQuerySchema(context.Background(), merged, path, nil); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var fields []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(content, &fields); err != nil {
		t.Fatal(err)
	}

	if len(fields) != 2 || fields[0].Name != "vetsaid" || fields[1].Type != "INTEGER" {
		t.Errorf("Unexpected schema %s", content)
	}
}
