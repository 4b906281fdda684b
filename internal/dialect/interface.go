package dialect

// Dialect abstracts database-specific operations.
type Dialect interface {
	Name() string

	// Metadata Queries (Schema Introspection)
	// ColumnsQuery returns a query yielding (column_name, data_type) rows of
	// one table, in ordinal order, plus its bind arguments.
	ColumnsQuery(schema, table string) (string, []any)

	// Query Generation
	InsertQuery(table string, cols []string) string
	CountQuery(table string) string
	TruncateQuery(table string) string
	Placeholder(index int) string // Returns ?, $1, @p1, etc.

	// Helpers
	NormalizeType(sqlType string) string
	NormalizeIdentifier(name string) string
	ColumnType(token string) string // INTEGER, DATE, REAL, TEXT -> dialect type
	GetSchemaName(input string) string
}

// TableDDL is implemented by dialects without CREATE TABLE IF NOT EXISTS /
// DROP TABLE IF EXISTS support.
type TableDDL interface {
	CreateTableQuery(table, columnsDef string) string
	DropTableQuery(table string) string
}

// SessionSetup is implemented by dialects that need per-connection settings
// before generated values can be bound.
type SessionSetup interface {
	SessionStatements() []string
}
