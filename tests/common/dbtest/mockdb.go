//go:build unit || e2e

package dbtest

import (
	"context"
	"reflect"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockDB implements db.DBTX. Expectations receive the SQL text and the
// argument slice.
type MockDB struct {
	mock.Mock
}

func (m *MockDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	mockArgs := m.Called(ctx, sql, args)
	return mockArgs.Get(0).(pgconn.CommandTag), mockArgs.Error(1)
}

func (m *MockDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	mockArgs := m.Called(ctx, sql, args)
	rows, _ := mockArgs.Get(0).(pgx.Rows)
	return rows, mockArgs.Error(1)
}

func (m *MockDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	mockArgs := m.Called(ctx, sql, args)
	return mockArgs.Get(0).(pgx.Row)
}

// Row is a pgx.Row that copies Values into the scan targets in order.
type Row struct {
	Values []any
	Err    error
}

func (r Row) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	return assign(r.Values, dest)
}

// Rows is a minimal pgx.Rows over an in-memory result set.
type Rows struct {
	Data [][]any
	Fail error
	pos  int
}

func (r *Rows) Close()                                       {}
func (r *Rows) Err() error                                   { return r.Fail }
func (r *Rows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *Rows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *Rows) RawValues() [][]byte                          { return nil }
func (r *Rows) Conn() *pgx.Conn                              { return nil }

func (r *Rows) Next() bool {
	if r.pos >= len(r.Data) {
		return false
	}
	r.pos++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	return assign(r.Data[r.pos-1], dest)
}

func (r *Rows) Values() ([]any, error) {
	return r.Data[r.pos-1], nil
}

// CommandTag builds an Exec result reporting n affected rows.
func CommandTag(verb string, n int) pgconn.CommandTag {
	return pgconn.NewCommandTag(verb + " " + strconv.Itoa(n))
}

func assign(values, dest []any) error {
	if len(values) != len(dest) {
		return pgx.ErrTooManyRows
	}
	for i, v := range values {
		target := reflect.ValueOf(dest[i]).Elem()
		if v == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(v))
	}
	return nil
}
