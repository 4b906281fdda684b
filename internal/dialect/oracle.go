package dialect

import (
	"fmt"
	"strings"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string { return "oracle" }

func (d *OracleDialect) ColumnsQuery(schema, table string) (string, []any) {
	// USER_TAB_COLUMNS lists columns of tables owned by the current user.
	// Names are stored upper case; they are lowered to match NormalizeIdentifier.
	return `SELECT LOWER(COLUMN_NAME), DATA_TYPE FROM USER_TAB_COLUMNS WHERE TABLE_NAME = UPPER(:1) ORDER BY COLUMN_ID`,
		[]any{table}
}

// ORA-00955: name is already used by an existing object.
func (d *OracleDialect) CreateTableQuery(table, columnsDef string) string {
	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", table, columnsDef)
	return plsqlIgnoring(stmt, -955)
}

// ORA-00942: table or view does not exist.
func (d *OracleDialect) DropTableQuery(table string) string {
	return plsqlIgnoring(fmt.Sprintf("DROP TABLE %s", table), -942)
}

func plsqlIgnoring(stmt string, sqlcode int) string {
	return fmt.Sprintf("BEGIN EXECUTE IMMEDIATE '%s'; EXCEPTION WHEN OTHERS THEN IF SQLCODE != %d THEN RAISE; END IF; END;",
		strings.ReplaceAll(stmt, "'", "''"), sqlcode)
}

// SessionStatements sets the session date format so generated YYYY-MM-DD
// strings bind into DATE columns.
func (d *OracleDialect) SessionStatements() []string {
	return []string{"ALTER SESSION SET NLS_DATE_FORMAT = 'YYYY-MM-DD'"}
}

func (d *OracleDialect) InsertQuery(table string, cols []string) string {
	return StandardInsertQuery(table, cols, d.Placeholder)
}

func (d *OracleDialect) CountQuery(table string) string {
	return StandardCountQuery(table)
}

func (d *OracleDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", table)
}

func (d *OracleDialect) Placeholder(index int) string {
	// Oracle uses :1, :2, etc. (1-based index)
	return fmt.Sprintf(":%d", index+1)
}

func (d *OracleDialect) NormalizeType(sqlType string) string {
	s := DefaultNormalizeType(sqlType)
	switch {
	case strings.Contains(s, "char") || strings.Contains(s, "clob"):
		return "varchar"
	case s == "number" || strings.Contains(s, "int"):
		return "integer"
	case strings.HasPrefix(s, "binary_") || s == "float":
		return "float"
	case strings.HasPrefix(s, "timestamp"):
		return "timestamp"
	default:
		return s
	}
}

func (d *OracleDialect) NormalizeIdentifier(name string) string {
	return strings.ToLower(name)
}

func (d *OracleDialect) ColumnType(token string) string {
	switch token {
	case "TEXT":
		return "VARCHAR2(255)"
	case "INTEGER":
		return "NUMBER(10)"
	case "REAL":
		return "BINARY_DOUBLE"
	default:
		return token
	}
}

func (d *OracleDialect) GetSchemaName(input string) string {
	return input
}
