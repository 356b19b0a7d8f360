package subjectinfo

import (
	"bytes"
	"context"
	"io"
	"log"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/twinstudy"
	"github.com/carbocation/twinstudy/statfile"
	"github.com/carbocation/twinstudy/table"
)

// readAllMaybeCompressed returns the decompressed content of path.
func readAllMaybeCompressed(ctx context.Context, path string, client *storage.Client) ([]byte, error) {
	f, _, err := twinstudy.MaybeOpenSeekerFromGoogleStorage(ctx, path, client)
	if err != nil {
		return nil, err
	}

	rc, dt, err := twinstudy.MaybeDecompressReadCloser(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	defer rc.Close()

	if dt != twinstudy.DataTypeNoCompression {
		log.Printf("Decompressing %s (%s)\n", path, dt)
	}

	return io.ReadAll(rc)
}

func isSpreadsheet(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xls")
}

// LoadDelimited loads a delimited text table (optionally compressed) or a
// legacy .xls workbook. Cells holding one of naValues are missing.
func LoadDelimited(ctx context.Context, name, path string, client *storage.Client, fixQuotes bool, naValues []string) (*table.Table, error) {
	log.Printf("Loading %s table from %s\n", name, path)

	content, err := readAllMaybeCompressed(ctx, path, client)
	if err != nil {
		return nil, pfx.Err(err)
	}

	na := table.NewNASet(naValues)

	if isSpreadsheet(path) {
		t, err := table.ReadXLS(name, bytes.NewReader(content), na)
		if err != nil {
			return nil, pfx.Err(err)
		}
		log.Printf("Read %d rows and %d columns from the %s spreadsheet\n", t.Len(), t.Width(), name)
		return t, nil
	}

	delim := twinstudy.DetermineDelimiter(content, ',')
	log.Printf("Determined %s delimiter to be %q\n", name, string(delim))

	var r io.Reader = bytes.NewReader(content)
	if fixQuotes {
		r = twinstudy.NewCSVQuoteFixReader(r)
	}

	t, err := table.ReadDelimited(name, r, delim, na)
	if err != nil {
		return nil, pfx.Err(err)
	}
	log.Printf("Read %d rows and %d columns from the %s table\n", t.Len(), t.Width(), name)

	return t, nil
}

// LoadStatFile loads a SAS7BDAT or Stata file. Both formats need random
// access, so uncompressed files are read through a seeker (local or gs://),
// while compressed files are first inflated into memory.
func LoadStatFile(ctx context.Context, name, path string, client *storage.Client) (*table.Table, error) {
	log.Printf("Loading %s table from %s\n", name, path)

	format := statfile.FormatFromPath(path)
	if format == statfile.FormatUnknown {
		format = statfile.FormatSAS7BDAT
		log.Printf("Could not infer the format of %s from its name; assuming %s\n", path, format)
	}

	f, _, err := twinstudy.MaybeOpenSeekerFromGoogleStorage(ctx, path, client)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	dt, err := twinstudy.DetectDataTypeFromSeeker(f)
	if err != nil {
		return nil, pfx.Err(err)
	}

	var rs io.ReadSeeker = f
	if dt != twinstudy.DataTypeNoCompression {
		content, err := readAllMaybeCompressed(ctx, path, client)
		if err != nil {
			return nil, pfx.Err(err)
		}
		rs = bytes.NewReader(content)
	}

	t, err := statfile.Read(name, rs, format)
	if err != nil {
		return nil, pfx.Err(err)
	}
	log.Printf("Read %d rows and %d columns from the %s %s file\n", t.Len(), t.Width(), name, format)

	return t, nil
}
