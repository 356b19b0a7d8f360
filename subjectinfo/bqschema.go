package subjectinfo

import (
	"context"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/twinstudy"
	"github.com/carbocation/twinstudy/table"
)

// BigQuerySchema describes t for `bq load`. Column types follow the same
// inference as the SQLite export; columns with no values at all are STRING.
func BigQuerySchema(t *table.Table) bigquery.Schema {
	kinds := columnKinds(t)

	out := make(bigquery.Schema, 0, t.Width())
	for j, col := range t.Columns() {
		field := &bigquery.FieldSchema{
			Name: col,
			Type: bigquery.StringFieldType,
		}
		switch kinds[j] {
		case kindInteger:
			field.Type = bigquery.IntegerFieldType
		case kindFloat:
			field.Type = bigquery.FloatFieldType
		}
		out = append(out, field)
	}

	return out
}

// WriteBigQuerySchema writes the JSON schema of t to path (local or gs://).
func WriteBigQuerySchema(ctx context.Context, t *table.Table, path string, client *storage.Client) (err error) {
	js, err := BigQuerySchema(t).ToJSONFields()
	if err != nil {
		return pfx.Err(err)
	}

	w, err := twinstudy.MaybeCreateOnGoogleStorage(ctx, path, client)
	if err != nil {
		return pfx.Err(err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = pfx.Err(cerr)
		}
	}()

	if _, err := w.Write(append(js, '\n')); err != nil {
		return pfx.Err(err)
	}

	return nil
}
