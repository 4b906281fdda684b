package schema

import (
	"context"
	"database/sql"
	"fmt"

	"db-fill/internal/dialect"
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ExistingColumns reads the (name, type) pairs of table from the catalog.
// A table that does not exist yields an empty list.
func ExistingColumns(ctx context.Context, q Querier, d dialect.Dialect, schemaName, table string) ([]Field, error) {
	query, args := d.ColumnsQuery(schemaName, table)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", table, err)
	}
	defer rows.Close()

	var fields []Field
	for rows.Next() {
		var name, dataType sql.NullString
		if err := rows.Scan(&name, &dataType); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", table, err)
		}
		if !name.Valid {
			continue // Skip invalid rows
		}
		fields = append(fields, Field{
			Name: name.String,
			Type: FieldTypeFromPhysical(d.NormalizeType(dataType.String)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns of %s: %w", table, err)
	}
	return fields, nil
}
