package schema

import (
	"fmt"
	"strings"

	"db-fill/internal/dialect"
)

func constraintKeyword(c ConstraintType) string {
	switch c {
	case ConstraintNotNull, ConstraintPrimary:
		return "NOT NULL"
	case ConstraintUnique:
		return "UNIQUE"
	default:
		return ""
	}
}

// BuildColumnsDefinition renders the column list of a CREATE TABLE with the
// canonical type tokens, e.g. "id INTEGER NOT NULL, name TEXT , PRIMARY KEY (id)".
func BuildColumnsDefinition(fields []Field) (string, error) {
	return buildColumns(fields, func(token string) string { return token })
}

// BuildColumnsDefinitionFor renders the column list with the dialect's
// physical types.
func BuildColumnsDefinitionFor(d dialect.Dialect, fields []Field) (string, error) {
	return buildColumns(fields, d.ColumnType)
}

func buildColumns(fields []Field, columnType func(string) string) (string, error) {
	if len(fields) == 0 {
		return "", fmt.Errorf("%w for columns definition generation", ErrEmptyFields)
	}

	clauses := make([]string, 0, len(fields)+1)
	var primary []string
	for _, f := range fields {
		var keywords []string
		seen := make(map[string]bool)
		for _, c := range f.Constraints {
			kw := constraintKeyword(c)
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			keywords = append(keywords, kw)
		}
		if f.IsPrimary() {
			primary = append(primary, f.Name)
		}
		clauses = append(clauses, fmt.Sprintf("%s %s %s", f.Name, columnType(PhysicalType(f.Type)), strings.Join(keywords, " ")))
	}
	if len(primary) > 0 {
		clauses = append(clauses, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(primary, ", ")))
	}
	return strings.Join(clauses, ", "), nil
}

// BuildCreateTable renders an idempotent CREATE TABLE statement.
func BuildCreateTable(d dialect.Dialect, table, columnsDef string) string {
	if ddl, ok := d.(dialect.TableDDL); ok {
		return ddl.CreateTableQuery(table, columnsDef)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, columnsDef)
}

// BuildDropTable renders an idempotent DROP TABLE statement.
func BuildDropTable(d dialect.Dialect, table string) string {
	if ddl, ok := d.(dialect.TableDDL); ok {
		return ddl.DropTableQuery(table)
	}
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
}
