package engine

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"db-fill/internal/dialect"
	"db-fill/internal/schema"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBuildInsert(t *testing.T) {
	d := &dialect.PostgresDialect{}

	q, err := BuildInsert(d, []schema.Field{{Name: "id", Type: schema.TypeInteger}}, "test_table")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO test_table (id) VALUES ($1)", q)

	fields := []schema.Field{
		{Name: "id", Type: schema.TypeInteger},
		{Name: "email", Type: schema.TypeEmail},
		{Name: "created_at", Type: schema.TypeDate},
		{Name: "score", Type: schema.TypeFloat},
		{Name: "description", Type: schema.TypeMultiString},
		{Name: "username", Type: schema.TypeText},
	}
	q, err = BuildInsert(d, fields, "test_table")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO test_table (id, email, created_at, score, description, username) VALUES ($1, $2, $3, $4, $5, $6)", q)
}

func TestBuildInsert_EmptyFields(t *testing.T) {
	_, err := BuildInsert(&dialect.PostgresDialect{}, nil, "test_table")
	assert.ErrorIs(t, err, schema.ErrEmptyFields)
}

func TestInsertRows(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	d := &dialect.SQLiteDialect{}
	_, err := db.Exec("CREATE TABLE test_table (id INTEGER NOT NULL, email TEXT , PRIMARY KEY (id))")
	require.NoError(t, err)

	fields := []schema.Field{
		{Name: "id", Type: schema.TypeInteger, Constraints: []schema.ConstraintType{schema.ConstraintPrimary}},
		{Name: "email", Type: schema.TypeEmail},
	}
	insertSQL, err := BuildInsert(d, fields, "test_table")
	require.NoError(t, err)

	progress := 0
	p := NewPumper(NewGenerator(NewFakeProvider(7)), nil)
	p.StatementTimeout = time.Second
	rows, err := p.InsertRows(ctx, db, "test_table", 5, fields, insertSQL, func() { progress++ })
	require.NoError(t, err)
	require.Len(t, rows, 5)
	for _, row := range rows {
		assert.Len(t, row, len(fields))
		assert.Contains(t, row[1], "@")
	}
	assert.Equal(t, 5, progress)

	count, err := RowCount(ctx, db, d, "test_table")
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestInsertRows_FailureRollsBackBatch(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	d := &dialect.SQLiteDialect{}
	_, err := db.Exec("CREATE TABLE test_table (code TEXT UNIQUE)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO test_table (code) VALUES ('c')")
	require.NoError(t, err)

	fields := []schema.Field{{Name: "code", Type: schema.TypeText, Constraints: []schema.ConstraintType{schema.ConstraintUnique}}}
	insertSQL, err := BuildInsert(d, fields, "test_table")
	require.NoError(t, err)

	provider := &seqProvider{FakeProvider: NewFakeProvider(1), words: []string{"a", "b", "c", "d"}}
	_, err = NewPumper(NewGenerator(provider), nil).InsertRows(ctx, db, "test_table", 4, fields, insertSQL, nil)
	require.Error(t, err)

	var dbErr *DBError
	require.True(t, errors.As(err, &dbErr))
	assert.Equal(t, "insert", dbErr.Op)
	assert.Equal(t, "test_table", dbErr.Table)

	count, err := RowCount(ctx, db, d, "test_table")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInsertRows_MissingTable(t *testing.T) {
	db := openSQLite(t)
	fields := []schema.Field{{Name: "id", Type: schema.TypeInteger}}

	_, err := NewPumper(NewGenerator(NewFakeProvider(1)), nil).
		InsertRows(context.Background(), db, "nope", 3, fields, "INSERT INTO nope (id) VALUES (?)", nil)
	assert.ErrorContains(t, err, "insert on nope")
}

func TestRowCount_Error(t *testing.T) {
	_, err := RowCount(context.Background(), openSQLite(t), &dialect.SQLiteDialect{}, "missing")
	var dbErr *DBError
	require.True(t, errors.As(err, &dbErr))
	assert.Equal(t, "count", dbErr.Op)
}
