package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"db-fill/internal/dialect"
	"db-fill/internal/engine"
	"db-fill/internal/metrics"
	"db-fill/internal/provision"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestRouter(t *testing.T) (*gin.Engine, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	m := metrics.NewMetricsStore()
	p := provision.New(db, &dialect.SQLiteDialect{}, provision.Options{}, nil, m)
	return NewRouter(p, db, m.Registry, nil), db
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const usersBody = `{
  "table_name": "users",
  "row_number": 4,
  "fields": [
    {"name": "id", "type": "integer", "constraints": ["primary"]},
    {"name": "email", "type": "email", "constraints": ["unique"]},
    {"name": "bio", "type": "multistring"}
  ]
}`

func TestGenerate_Success(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/generate", usersBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res provision.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, provision.Result{Inserted: 4, TotalInTable: 4}, res)

	w = do(r, http.MethodPost, "/generate", usersBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 8, res.TotalInTable)
}

func TestGenerate_DefaultRowNumber(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/generate", `{"table_name":"t","fields":[{"name":"a","type":"string"}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"inserted":10,"total_in_table":10}`, w.Body.String())
}

func TestGenerate_SchemaConflict(t *testing.T) {
	r, db := newTestRouter(t)
	_, err := db.Exec("CREATE TABLE users (other TEXT)")
	require.NoError(t, err)

	w := do(r, http.MethodPost, "/generate", usersBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "force_recreate_table=true")

	forced := strings.Replace(usersBody, `"row_number": 4,`, `"row_number": 4, "force_recreate_table": true,`, 1)
	w = do(r, http.MethodPost, "/generate", forced)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"inserted":4,"total_in_table":4}`, w.Body.String())
}

func TestGenerate_InvalidInput(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := map[string]string{
		"malformed json": `{"table_name":`,
		"unknown type":   `{"table_name":"t","fields":[{"name":"a","type":"blob"}]}`,
		"no fields":      `{"table_name":"t","fields":[]}`,
		"bad identifier": `{"table_name":"t t","fields":[{"name":"a","type":"text"}]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/generate", body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
		})
	}
}

func TestHealthAndReady(t *testing.T) {
	r, db := newTestRouter(t)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/readyz", "").Code)

	require.NoError(t, db.Close())
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/readyz", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/generate", usersBody).Code)

	w := do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `dbfill_provision_requests_total{outcome="success"} 1`)
	assert.Contains(t, w.Body.String(), "dbfill_rows_inserted_total 4")
}

type failingProvisioner struct{ err error }

func (f failingProvisioner) Provision(context.Context, provision.Request) (provision.Result, error) {
	return provision.Result{}, f.err
}

func TestGenerate_ErrorMapping(t *testing.T) {
	body := `{"table_name":"t","fields":[{"name":"a","type":"text"}]}`
	tests := []struct {
		err  error
		want int
	}{
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("connection refused"), http.StatusInternalServerError},
		{&provision.SchemaConflictError{Table: "t"}, http.StatusInternalServerError},
		{provision.ErrInvalidRequest, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: field code", engine.ErrConstraintUnsatisfiable), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		r := NewRouter(failingProvisioner{tt.err}, nil, nil, nil)
		assert.Equal(t, tt.want, do(r, http.MethodPost, "/generate", body).Code, tt.err.Error())
	}
}

func TestGenerate_RowLimit(t *testing.T) {
	r, _ := newTestRouter(t)

	body := `{"table_name":"t","row_number":1000000000,"fields":[{"name":"a","type":"text"}]}`
	w := do(r, http.MethodPost, "/generate", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "exceeds the limit")
}
