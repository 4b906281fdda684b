package provision

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"db-fill/internal/dialect"
	"db-fill/internal/engine"
	"db-fill/internal/metrics"
	"db-fill/internal/schema"

	"go.uber.org/zap"
)

// Action is the reconciliation decision for a request.
type Action string

const (
	ActionCreate   Action = "create"   // table absent
	ActionKeep     Action = "keep"     // existing shape matches
	ActionRecreate Action = "recreate" // shape differs, drop requested
	ActionReject   Action = "reject"   // shape differs, drop not requested
)

// Plan is the set of statements a request resolves to.
type Plan struct {
	Action     Action
	Existing   []schema.Field
	ColumnsDef string
	DropSQL    string // set only for ActionRecreate
	CreateSQL  string
	InsertSQL  string
}

// Options tune a Provisioner.
type Options struct {
	Schema           string
	Seed             int64 // 0 seeds every request randomly
	MaxAttempts      int
	MaxRows          int // 0 uses engine.DefaultMaxRows, negative disables the limit
	RequestTimeout   time.Duration
	StatementTimeout time.Duration
}

// Provisioner reconciles a table with the requested fields and fills it
// with generated rows.
type Provisioner struct {
	db      *sql.DB
	dialect dialect.Dialect
	opts    Options
	locks   *TableLocks
	metrics *metrics.Store
	logger  *zap.Logger

	newProvider func() engine.Provider
}

// New builds a Provisioner. logger and m may be nil.
func New(db *sql.DB, d dialect.Dialect, opts Options, logger *zap.Logger, m *metrics.Store) *Provisioner {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Provisioner{
		db:      db,
		dialect: d,
		opts:    opts,
		locks:   NewTableLocks(),
		metrics: m,
		logger:  logger,
	}
	p.newProvider = func() engine.Provider { return engine.NewFakeProvider(opts.Seed) }
	return p
}

func (p *Provisioner) Dialect() dialect.Dialect { return p.dialect }

func (p *Provisioner) maxRows() int {
	switch {
	case p.opts.MaxRows == 0:
		return engine.DefaultMaxRows
	case p.opts.MaxRows < 0:
		return 0
	default:
		return p.opts.MaxRows
	}
}

// Plan validates req and reports what Provision would do, without
// changing anything.
func (p *Provisioner) Plan(ctx context.Context, req Request) (*Plan, error) {
	if err := req.ValidateLimit(p.maxRows()); err != nil {
		return nil, err
	}
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()
	return p.plan(ctx, conn, req)
}

func (p *Provisioner) plan(ctx context.Context, q schema.Querier, req Request) (*Plan, error) {
	existing, err := schema.ExistingColumns(ctx, q, p.dialect, p.opts.Schema, req.TableName)
	if err != nil {
		return nil, &engine.DBError{Op: "inspect", Table: req.TableName, Err: err}
	}

	colsDef, err := schema.BuildColumnsDefinitionFor(p.dialect, req.Fields)
	if err != nil {
		return nil, err
	}
	insertSQL, err := engine.BuildInsert(p.dialect, req.Fields, req.TableName)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Existing:   existing,
		ColumnsDef: colsDef,
		CreateSQL:  schema.BuildCreateTable(p.dialect, req.TableName, colsDef),
		InsertSQL:  insertSQL,
	}
	switch {
	case len(existing) == 0:
		plan.Action = ActionCreate
	case schema.ColumnsMatch(existing, schema.StoredShape(p.dialect, req.Fields)):
		plan.Action = ActionKeep
	case req.ForceRecreateTable:
		plan.Action = ActionRecreate
		plan.DropSQL = schema.BuildDropTable(p.dialect, req.TableName)
	default:
		plan.Action = ActionReject
	}
	return plan, nil
}

// Provision runs a request end to end and returns the number of rows it
// committed and the table's row count afterwards.
func (p *Provisioner) Provision(ctx context.Context, req Request) (Result, error) {
	return p.ProvisionWithProgress(ctx, req, nil)
}

// ProvisionWithProgress is Provision with a callback invoked after each
// inserted row.
func (p *Provisioner) ProvisionWithProgress(ctx context.Context, req Request, onProgress func()) (res Result, err error) {
	start := time.Now()
	defer func() { p.observe(start, res, err) }()

	if err := req.ValidateLimit(p.maxRows()); err != nil {
		return Result{}, err
	}

	if p.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.RequestTimeout)
		defer cancel()
	}

	log := p.logger.With(zap.String("table", req.TableName))

	unlock, err := p.locks.Lock(ctx, p.dialect.NormalizeIdentifier(req.TableName))
	if err != nil {
		return Result{}, fmt.Errorf("waiting for table %s: %w", req.TableName, err)
	}
	defer unlock()

	conn, err := p.db.Conn(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if setup, ok := p.dialect.(dialect.SessionSetup); ok {
		for _, stmt := range setup.SessionStatements() {
			if err := p.exec(ctx, conn, "session", req.TableName, stmt); err != nil {
				return Result{}, err
			}
		}
	}

	plan, err := p.plan(ctx, conn, req)
	if err != nil {
		return Result{}, err
	}
	log.Info("Reconciled table schema", zap.String("action", string(plan.Action)), zap.Int("existing_columns", len(plan.Existing)))

	switch plan.Action {
	case ActionReject:
		log.Warn("Table exists with a different schema")
		return Result{}, &SchemaConflictError{Table: req.TableName}
	case ActionRecreate:
		log.Info("Dropping table to recreate it", zap.String("sql", plan.DropSQL))
		if err := p.exec(ctx, conn, "drop", req.TableName, plan.DropSQL); err != nil {
			return Result{}, err
		}
		if p.metrics != nil {
			p.metrics.TablesRecreatedTotal.Inc()
		}
	}

	log.Debug("Ensuring table exists", zap.String("sql", plan.CreateSQL))
	if err := p.exec(ctx, conn, "create", req.TableName, plan.CreateSQL); err != nil {
		return Result{}, err
	}

	gen := engine.NewGenerator(p.newProvider())
	if p.opts.MaxAttempts != 0 {
		gen.MaxAttempts = p.opts.MaxAttempts
	}
	gen.MaxRows = p.maxRows()
	pumper := engine.NewPumper(gen, p.logger)
	pumper.StatementTimeout = p.opts.StatementTimeout

	rows, err := pumper.InsertRows(ctx, conn, req.TableName, req.RowNumber, req.Fields, plan.InsertSQL, onProgress)
	if err != nil {
		return Result{}, err
	}

	total, err := engine.RowCount(ctx, conn, p.dialect, req.TableName)
	if err != nil {
		return Result{}, err
	}

	log.Info("Provisioned table", zap.Int("inserted", len(rows)), zap.Int("total_in_table", total))
	return Result{Inserted: len(rows), TotalInTable: total}, nil
}

func (p *Provisioner) exec(ctx context.Context, conn *sql.Conn, op, table, query string) error {
	if p.opts.StatementTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.StatementTimeout)
		defer cancel()
	}
	if _, err := conn.ExecContext(ctx, query); err != nil {
		p.logger.Error("Statement failed", zap.String("op", op), zap.String("table", table), zap.String("sql", query), zap.Error(err))
		return &engine.DBError{Op: op, Table: table, Err: err}
	}
	return nil
}

func (p *Provisioner) observe(start time.Time, res Result, err error) {
	if p.metrics == nil {
		return
	}
	p.metrics.ProvisionDuration.Observe(time.Since(start).Seconds())
	p.metrics.ProvisionRequestsTotal.WithLabelValues(Outcome(err)).Inc()
	if err == nil && res.Inserted > 0 {
		p.metrics.RowsInsertedTotal.Add(float64(res.Inserted))
	}
}

// Outcome classifies err into a metrics outcome label.
func Outcome(err error) string {
	var conflict *SchemaConflictError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &conflict):
		return metrics.OutcomeConflict
	case IsInvalid(err):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}

// IsInvalid reports whether err was caused by the request itself rather
// than the database.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, engine.ErrTooManyRows) ||
		errors.Is(err, engine.ErrConstraintUnsatisfiable) ||
		errors.Is(err, schema.ErrEmptyFields) ||
		errors.Is(err, schema.ErrUnknownFieldType) ||
		errors.Is(err, schema.ErrUnknownConstraint)
}
