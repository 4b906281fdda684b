package provision

import "fmt"

// SchemaConflictError is returned when the table exists with a different
// shape and the request did not ask to recreate it.
type SchemaConflictError struct {
	Table string
}

func (e *SchemaConflictError) Error() string {
	return fmt.Sprintf("table %s already exists with a different schema; set force_recreate_table=true to drop and recreate it", e.Table)
}
