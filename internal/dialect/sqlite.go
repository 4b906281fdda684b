package dialect

import (
	"fmt"
	"strings"
)

// SQLiteDialect targets mattn/go-sqlite3. SQLite has no information_schema,
// columns come from the pragma_table_info table-valued function.
type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string { return "sqlite3" }

func (d *SQLiteDialect) ColumnsQuery(schema, table string) (string, []any) {
	return `SELECT name, type FROM pragma_table_info(?) ORDER BY cid`, []any{table}
}

func (d *SQLiteDialect) InsertQuery(table string, cols []string) string {
	return StandardInsertQuery(table, cols, d.Placeholder)
}

func (d *SQLiteDialect) CountQuery(table string) string {
	return StandardCountQuery(table)
}

// SQLite has no TRUNCATE; an unqualified DELETE takes the truncate optimization.
func (d *SQLiteDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("DELETE FROM %s", table)
}

func (d *SQLiteDialect) Placeholder(index int) string {
	return "?"
}

func (d *SQLiteDialect) NormalizeType(sqlType string) string {
	t := DefaultNormalizeType(sqlType)
	if t == "int" {
		return "integer"
	}
	return t
}

func (d *SQLiteDialect) NormalizeIdentifier(name string) string {
	return name
}

func (d *SQLiteDialect) ColumnType(token string) string {
	return strings.ToUpper(token)
}

func (d *SQLiteDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}
