package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"db-fill/internal/dialect"
	"db-fill/internal/schema"

	"go.uber.org/zap"
)

// BuildInsert renders the parameterized insert for fields, one placeholder
// per field in declared order. Only identifiers are interpolated.
func BuildInsert(d dialect.Dialect, fields []schema.Field, table string) (string, error) {
	if len(fields) == 0 {
		return "", fmt.Errorf("%w for insert statement generation", schema.ErrEmptyFields)
	}
	colNames := make([]string, len(fields))
	for i, f := range fields {
		colNames[i] = f.Name
	}
	return d.InsertQuery(table, colNames), nil
}

// TxBeginner is satisfied by *sql.DB and *sql.Conn.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Pumper writes generated rows in a single transaction.
type Pumper struct {
	Generator        *Generator
	StatementTimeout time.Duration
	Logger           *zap.Logger
}

func NewPumper(g *Generator, logger *zap.Logger) *Pumper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pumper{Generator: g, Logger: logger}
}

// InsertRows generates rowCount rows and executes insertSQL once per row
// inside one transaction, committing only after every row succeeded.
// onProgress, when set, is called after each executed row.
func (p *Pumper) InsertRows(ctx context.Context, conn TxBeginner, table string, rowCount int, fields []schema.Field, insertSQL string, onProgress func()) ([]Row, error) {
	log := p.Logger.With(zap.String("table", table))
	log.Info("Generating and inserting values", zap.Int("row_number", rowCount))

	rows, err := p.Generator.GenerateValues(fields, rowCount)
	if err != nil {
		return nil, err
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, &DBError{Op: "begin", Table: table, Err: err}
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	for i, values := range rows {
		if err := p.exec(ctx, tx, insertSQL, values); err != nil {
			log.Error("Insert failed, rolling back batch",
				zap.Int("row", i), zap.String("sql", insertSQL), zap.Error(err))
			return nil, &DBError{Op: "insert", Table: table, Err: err}
		}
		if onProgress != nil {
			onProgress()
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, &DBError{Op: "commit", Table: table, Err: err}
	}
	tx = nil

	log.Info("Inserted rows", zap.Int("inserted", len(rows)))
	return rows, nil
}

func (p *Pumper) exec(ctx context.Context, tx *sql.Tx, query string, values Row) error {
	if p.StatementTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.StatementTimeout)
		defer cancel()
	}
	_, err := tx.ExecContext(ctx, query, values...)
	return err
}

// RowSource is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type RowSource interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RowCount returns SELECT COUNT(*) of table.
func RowCount(ctx context.Context, q RowSource, d dialect.Dialect, table string) (int, error) {
	var count int
	if err := q.QueryRowContext(ctx, d.CountQuery(table)).Scan(&count); err != nil {
		return 0, &DBError{Op: "count", Table: table, Err: err}
	}
	return count, nil
}
