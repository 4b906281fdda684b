package dialect

import (
	"fmt"
	"strings"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) ColumnsQuery(schema, table string) (string, []any) {
	// use $1 placeholder
	return `SELECT column_name, data_type FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`,
		[]any{d.GetSchemaName(schema), d.NormalizeIdentifier(table)}
}

func (d *PostgresDialect) InsertQuery(table string, cols []string) string {
	// Generate placeholders ($1, $2, ...)
	return StandardInsertQuery(table, cols, d.Placeholder)
}

func (d *PostgresDialect) CountQuery(table string) string {
	return StandardCountQuery(table)
}

func (d *PostgresDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", table)
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	t := DefaultNormalizeType(sqlType)
	switch t {
	case "int4", "int2":
		return "integer"
	case "int8":
		return "bigint"
	case "float4":
		return "real"
	case "float8", "double precision":
		return "double"
	case "bpchar", "character":
		return "char"
	case "character varying":
		return "varchar"
	default:
		return t
	}
}

// Unquoted identifiers are folded to lower case by Postgres.
func (d *PostgresDialect) NormalizeIdentifier(name string) string {
	return strings.ToLower(name)
}

func (d *PostgresDialect) ColumnType(token string) string {
	return token
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}
