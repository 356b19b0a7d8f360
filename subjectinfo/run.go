package subjectinfo

import (
	"context"
	"log"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/twinstudy"
	"github.com/carbocation/twinstudy/table"
)

// Run loads every input named by cfg, builds the merged dataset and writes
// it, along with any optional side outputs. The merged table is returned so
// that callers can summarize it.
func Run(ctx context.Context, cfg Config) (*table.Table, Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Report{}, pfx.Err(err)
	}

	var client *storage.Client
	if twinstudy.NeedsStorageClient(cfg.Paths()...) {
		var err error
		client, err = storage.NewClient(ctx)
		if err != nil {
			return nil, Report{}, pfx.Err(err)
		}
		defer client.Close()
	}

	schema, err := loadSchema(ctx, cfg.SchemaPath, client)
	if err != nil {
		return nil, Report{}, pfx.Err(err)
	}

	var in Inputs
	if in.Admin, err = LoadDelimited(ctx, "admin", cfg.AdminPath, client, cfg.FixQuotes, cfg.NAValues); err != nil {
		return nil, Report{}, pfx.Err(err)
	}
	if in.BMI, err = LoadDelimited(ctx, TableBMI, cfg.BMIPath, client, cfg.FixQuotes, cfg.NAValues); err != nil {
		return nil, Report{}, pfx.Err(err)
	}
	if in.Wave1, err = LoadStatFile(ctx, TableWave1, cfg.Wave1Path, client); err != nil {
		return nil, Report{}, pfx.Err(err)
	}
	if in.Wave2, err = LoadStatFile(ctx, TableWave2, cfg.Wave2Path, client); err != nil {
		return nil, Report{}, pfx.Err(err)
	}

	merged, report, err := Build(in, cfg, schema)
	if err != nil {
		return nil, report, pfx.Err(err)
	}
	report.Log()

	if err := WriteCSV(ctx, merged, cfg.OutputPath, cfg.NA, client); err != nil {
		return nil, report, pfx.Err(err)
	}
	log.Printf("Wrote %d rows and %d columns to %s\n", merged.Len(), merged.Width(), cfg.OutputPath)

	if cfg.SQLitePath != "" {
		if err := WriteSQLite(cfg.SQLitePath, "subjects", merged); err != nil {
			return nil, report, pfx.Err(err)
		}
		log.Printf("Wrote the subjects table to %s\n", cfg.SQLitePath)
	}

	if cfg.BigQuerySchemaPath != "" {
		if err := WriteBigQuerySchema(ctx, merged, cfg.BigQuerySchemaPath, client); err != nil {
			return nil, report, pfx.Err(err)
		}
		log.Printf("Wrote the BigQuery schema to %s\n", cfg.BigQuerySchemaPath)
	}

	return merged, report, nil
}

func loadSchema(ctx context.Context, path string, client *storage.Client) (Schema, error) {
	if path == "" {
		return DefaultSchema()
	}

	log.Printf("Loading column mapping from %s\n", path)
	f, _, err := twinstudy.MaybeOpenSeekerFromGoogleStorage(ctx, path, client)
	if err != nil {
		return Schema{}, err
	}
	defer f.Close()

	return ParseSchema(f)
}

// WriteCSV writes t to path (local or gs://). The close error is checked,
// since for Google Storage that is when the upload is committed.
func WriteCSV(ctx context.Context, t *table.Table, path, na string, client *storage.Client) (err error) {
	w, err := twinstudy.MaybeCreateOnGoogleStorage(ctx, path, client)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return t.WriteCSV(w, na)
}
