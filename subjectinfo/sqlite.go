package subjectinfo

import (
	"fmt"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/twinstudy"
	"github.com/carbocation/twinstudy/table"
	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite"
)

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// WriteSQLite stores t as tableName in the SQLite database at path, replacing
// any existing table of that name. Missing cells become NULL; numeric
// columns are stored as numbers and everything else as text.
func WriteSQLite(path, tableName string, t *table.Table) error {
	db, err := sqlx.Connect("sqlite", twinstudy.ExpandHome(path))
	if err != nil {
		return pfx.Err(err)
	}
	defer db.Close()

	cols := t.Columns()
	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = quoteIdent(col)
		placeholders[i] = "?"
	}

	tx, err := db.Beginx()
	if err != nil {
		return pfx.Err(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(tableName))); err != nil {
		return pfx.Err(err)
	}
	if _, err := tx.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(tableName), strings.Join(quoted, ", "))); err != nil {
		return pfx.Err(err)
	}

	stmt, err := tx.Preparex(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(tableName), strings.Join(quoted, ", "), strings.Join(placeholders, ", ")))
	if err != nil {
		return pfx.Err(err)
	}
	defer stmt.Close()

	kinds := columnKinds(t)
	args := make([]interface{}, len(cols))
	for i := 0; i < t.Len(); i++ {
		for j, cell := range t.Row(i) {
			args[j] = nil
			if !cell.Valid {
				continue
			}
			switch kinds[j] {
			case kindInteger:
				f, _ := table.Float(cell)
				args[j] = int64(f)
			case kindFloat:
				args[j], _ = table.Float(cell)
			default:
				args[j] = cell.String
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return pfx.Err(fmt.Errorf("row %d: %w", i+1, err))
		}
	}

	return pfx.Err(tx.Commit())
}
