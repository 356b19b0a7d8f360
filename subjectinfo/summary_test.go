package subjectinfo

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestSummarize(t *testing.T) {
	merged := mustTable(t, "subjects", "vetsaid,BMI,VETSAGRP\n"+
		"A,20,V1\n"+
		"B,22,V1V2\n"+
		"C,,V2AR\n"+
		"D,24,\n"+
		"E,26,V1\n")

	summaries, err := Summarize(merged, []string{"BMI", "VETSAGRP"})
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}

	bmi := summaries[0]
	if !bmi.Numeric || bmi.N != 4 || bmi.Missing != 1 {
		t.Errorf("Unexpected BMI counts: %+v", bmi)
	}
	if bmi.Mean != 23 {
		t.Errorf("Expected mean 23, got %v", bmi.Mean)
	}
	if math.Abs(bmi.SD-math.Sqrt(20.0/3)) > 1e-9 {
		t.Errorf("Expected the sample SD, got %v", bmi.SD)
	}
	if bmi.Median != 23 {
		t.Errorf("Expected median 23, got %v", bmi.Median)
	}
	if !(bmi.Q1 <= bmi.Median && bmi.Median <= bmi.Q3) {
		t.Errorf("Quartiles out of order: %+v", bmi)
	}

	grp := summaries[1]
	if grp.Numeric || grp.N != 4 || grp.Missing != 1 {
		t.Errorf("Unexpected VETSAGRP summary: %+v", grp)
	}

	if _, err := Summarize(merged, []string{"nope"}); err == nil {
		t.Error("Expected an error for a missing column")
	}

	var buf bytes.Buffer
	if err := FprintSummary(&buf, summaries); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected a header and 2 lines, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[1], "BMI\t4\t1\t23\t") {
		t.Errorf("Unexpected BMI line %q", lines[1])
	}
	if lines[2] != "VETSAGRP\t4\t1\t\t\t\t\t" {
		t.Errorf("Unexpected VETSAGRP line %q", lines[2])
	}
}

func TestSummarizeSingleValue(t *testing.T) {
	merged := mustTable(t, "subjects", "vetsaid,BMI\nA,20\n")

	summaries, err := Summarize(merged, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Expected every column to be summarized, got %d", len(summaries))
	}
	if !math.IsNaN(summaries[1].SD) {
		t.Errorf("Expected an undefined SD for one value, got %v", summaries[1].SD)
	}
	if formatStat(summaries[1].SD) != "NA" {
		t.Errorf("Expected NA, got %s", formatStat(summaries[1].SD))
	}
}

func TestFprintHistogram(t *testing.T) {
	merged := mustTable(t, "subjects", "vetsaid,BMI,VETSAGRP\n"+
		"A,20,V1\n"+
		"B,22,V1V2\n"+
		"C,,V2AR\n")

	var buf bytes.Buffer
	if err := FprintHistogram(&buf, merged, "BMI", 0); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "BMI (N=2, 1 missing)\n") {
		t.Errorf("Unexpected histogram header in %q", buf.String())
	}

	if err := FprintHistogram(&buf, merged, "VETSAGRP", 10); err == nil {
		t.Error("Expected an error for a non-numeric column")
	}
}
