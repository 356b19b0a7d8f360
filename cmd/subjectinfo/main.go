// subjectinfo merges the administrative, BMI, wave 1 and wave 2 tables of a
// longitudinal twin study into one CSV with a row per subject.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/carbocation/twinstudy/compileinfoprint"
	"github.com/carbocation/twinstudy/subjectinfo"
	"github.com/carbocation/twinstudy/table"
)

func main() {
	var configPath string
	var summary, strictFamilies, fixQuotes bool
	var histogramCols, naValues string
	var bins int

	cli := subjectinfo.Config{}
	flag.StringVar(&configPath, "config", "", "(Optional) JSON config file. Flags that are set override its values.")
	flag.StringVar(&cli.AdminPath, "admin", "", "Administrative (demographic) table. Delimited text, optionally compressed, or .xls. May be a gs:// path.")
	flag.StringVar(&cli.BMIPath, "bmi", "", "BMI table. Delimited text, optionally compressed, or .xls. May be a gs:// path.")
	flag.StringVar(&cli.Wave1Path, "wave1", "", "Wave 1 .sas7bdat or .dta file. May be a gs:// path.")
	flag.StringVar(&cli.Wave2Path, "wave2", "", "Wave 2 .sas7bdat or .dta file. May be a gs:// path.")
	flag.StringVar(&cli.OutputPath, "output", "", "Output CSV. May be a gs:// path.")
	flag.StringVar(&cli.SchemaPath, "schema", "", "(Optional) Tab-delimited column mapping (table, source, target, recode) replacing the built-in one.")
	flag.StringVar(&cli.SQLitePath, "sqlite", "", "(Optional) Also write the merged table into this SQLite database as 'subjects'.")
	flag.StringVar(&cli.BigQuerySchemaPath, "bq_schema", "", "(Optional) Also write a BigQuery JSON schema for the output CSV.")
	flag.StringVar(&cli.NA, "na", "", "(Optional) Text written for missing values. Default is an empty field.")
	flag.StringVar(&naValues, "na_values", "", "(Optional) Comma-separated tokens read as missing in the admin and BMI tables, replacing the default set (NA, NaN, N/A, NULL, #N/A, ...).")
	flag.BoolVar(&strictFamilies, "strict_families", false, "Fail if any family is not a pair with at most one deceased member?")
	flag.BoolVar(&fixQuotes, "fix_quotes", false, "Rewrite \\\" as \"\" in delimited inputs before parsing?")
	flag.BoolVar(&summary, "summary", false, "Print a per-column summary of the merged table to stderr?")
	flag.StringVar(&histogramCols, "histogram", "", "(Optional) Comma-separated numeric columns to draw histograms of on stderr.")
	flag.IntVar(&bins, "bins", 25, "Number of histogram bins.")
	flag.Parse()

	cfg := subjectinfo.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = subjectinfo.ParseJSONConfigFromPath(configPath)
		if err != nil {
			log.Fatalln(err)
		}
	}
	override(&cfg, cli)
	if naValues != "" {
		cfg.NAValues = strings.Split(naValues, ",")
	}
	if strictFamilies {
		cfg.StrictFamilies = true
	}
	if fixQuotes {
		cfg.FixQuotes = true
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.PrintDefaults()
		os.Exit(1)
	}

	merged, _, err := subjectinfo.Run(context.Background(), cfg)
	if err != nil {
		log.Fatalln(err)
	}

	if err := describe(merged, summary, histogramCols, bins); err != nil {
		log.Fatalln(err)
	}

	log.Println("Quitting")
}

// override copies every non-empty field of cli onto cfg.
func override(cfg *subjectinfo.Config, cli subjectinfo.Config) {
	for _, v := range []struct {
		Dst *string
		Src string
	}{
		{&cfg.AdminPath, cli.AdminPath},
		{&cfg.BMIPath, cli.BMIPath},
		{&cfg.Wave1Path, cli.Wave1Path},
		{&cfg.Wave2Path, cli.Wave2Path},
		{&cfg.OutputPath, cli.OutputPath},
		{&cfg.SchemaPath, cli.SchemaPath},
		{&cfg.SQLitePath, cli.SQLitePath},
		{&cfg.BigQuerySchemaPath, cli.BigQuerySchemaPath},
		{&cfg.NA, cli.NA},
	} {
		if v.Src != "" {
			*v.Dst = v.Src
		}
	}
}

func describe(merged *table.Table, summary bool, histogramCols string, bins int) error {
	if summary {
		summaries, err := subjectinfo.Summarize(merged, nil)
		if err != nil {
			return err
		}
		if err := subjectinfo.FprintSummary(os.Stderr, summaries); err != nil {
			return err
		}
	}

	if histogramCols == "" {
		return nil
	}

	for _, col := range strings.Split(histogramCols, ",") {
		if err := subjectinfo.FprintHistogram(os.Stderr, merged, strings.TrimSpace(col), bins); err != nil {
			return err
		}
	}

	return nil
}
