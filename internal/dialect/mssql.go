package dialect

import (
	"fmt"

	_ "github.com/denisenkom/go-mssqldb" // SQL Server Driver
)

type MSSQLDialect struct{}

// Helper: MSSQL Driver (go-mssqldb) prefers @p1, @p2 ordinal parameters over ?

func (d *MSSQLDialect) Name() string { return "sqlserver" }

func (d *MSSQLDialect) ColumnsQuery(schema, table string) (string, []any) {
	// Use @p1 for schema binding
	return `SELECT COLUMN_NAME, DATA_TYPE FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2 ORDER BY ORDINAL_POSITION`,
		[]any{d.GetSchemaName(schema), table}
}

// CREATE TABLE IF NOT EXISTS is not T-SQL; guard on OBJECT_ID instead.
func (d *MSSQLDialect) CreateTableQuery(table, columnsDef string) string {
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s (%s)", table, table, columnsDef)
}

func (d *MSSQLDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NOT NULL DROP TABLE %s", table, table)
}

func (d *MSSQLDialect) InsertQuery(table string, cols []string) string {
	return StandardInsertQuery(table, cols, d.Placeholder)
}

func (d *MSSQLDialect) CountQuery(table string) string {
	return StandardCountQuery(table)
}

func (d *MSSQLDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", table)
}

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}

func (d *MSSQLDialect) NormalizeType(sqlType string) string {
	t := DefaultNormalizeType(sqlType)
	switch t {
	case "nvarchar", "nchar", "char", "text", "ntext":
		return "varchar"
	case "int":
		return "integer"
	case "datetime", "datetime2", "smalldatetime":
		return "datetime"
	default:
		return t
	}
}

func (d *MSSQLDialect) NormalizeIdentifier(name string) string {
	return name
}

// TEXT is deprecated and cannot carry UNIQUE or PRIMARY KEY.
func (d *MSSQLDialect) ColumnType(token string) string {
	switch token {
	case "TEXT":
		return "NVARCHAR(255)"
	case "INTEGER":
		return "INT"
	default:
		return token
	}
}

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}
