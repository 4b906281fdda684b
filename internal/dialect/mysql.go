package dialect

import (
	"fmt"
)

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string { return "mysql" }

func (d *MysqlDialect) ColumnsQuery(schema, table string) (string, []any) {
	if schema == "" {
		return `SELECT COLUMN_NAME, DATA_TYPE FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`,
			[]any{table}
	}
	return `SELECT COLUMN_NAME, DATA_TYPE FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`,
		[]any{schema, table}
}

func (d *MysqlDialect) InsertQuery(table string, cols []string) string {
	return StandardInsertQuery(table, cols, d.Placeholder)
}

func (d *MysqlDialect) CountQuery(table string) string {
	return StandardCountQuery(table)
}

func (d *MysqlDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", table)
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	t := DefaultNormalizeType(sqlType)
	switch t {
	case "int", "mediumint":
		return "integer"
	case "tinytext", "mediumtext", "longtext":
		return "text"
	default:
		return t
	}
}

func (d *MysqlDialect) NormalizeIdentifier(name string) string {
	return name
}

// TEXT columns cannot be indexed without a prefix length, so UNIQUE and
// PRIMARY KEY need a VARCHAR. REAL is an alias of DOUBLE.
func (d *MysqlDialect) ColumnType(token string) string {
	switch token {
	case "TEXT":
		return "VARCHAR(255)"
	default:
		return token
	}
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}
