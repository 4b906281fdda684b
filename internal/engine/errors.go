package engine

import "fmt"

// DBError wraps a failed DDL/DML/query statement with its context.
type DBError struct {
	Op    string
	Table string
	Err   error
}

func (e *DBError) Error() string {
	return fmt.Sprintf("%s on %s: %v", e.Op, e.Table, e.Err)
}

func (e *DBError) Unwrap() error { return e.Err }
