package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

// call records one statement sent through the fake executor.
type call struct {
	query string
	args  []any
}

// fakeDB implements infra.SQLExecutor and records every statement.
type fakeDB struct {
	calls []call

	execTag pgconn.CommandTag
	execErr error

	rowFn  func(query string, args []any) pgx.Row
	rowsFn func(query string, args []any) (pgx.Rows, error)
}

func (f *fakeDB) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, call{query: query, args: args})
	return f.execTag, f.execErr
}

func (f *fakeDB) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	f.calls = append(f.calls, call{query: query, args: args})
	if f.rowFn == nil {
		return simpleRow{}
	}
	return f.rowFn(query, args)
}

func (f *fakeDB) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	f.calls = append(f.calls, call{query: query, args: args})
	if f.rowsFn == nil {
		return &sliceRows{}, nil
	}
	return f.rowsFn(query, args)
}

func (f *fakeDB) lastCall() call {
	if len(f.calls) == 0 {
		return call{}
	}
	return f.calls[len(f.calls)-1]
}

// sliceRows iterates scan funcs, one per row.
type sliceRows struct {
	scans []func(dest ...any) error
	idx   int
}

func (r *sliceRows) Next() bool {
	if r.idx >= len(r.scans) {
		return false
	}
	r.idx++
	return true
}

func (r *sliceRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.scans) {
		return pgx.ErrNoRows
	}
	return r.scans[r.idx-1](dest...)
}

func (r *sliceRows) Err() error { return nil }

func (r *sliceRows) Close() {}

func (r *sliceRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (r *sliceRows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (r *sliceRows) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (r *sliceRows) RawValues() [][]byte { return nil }

func (r *sliceRows) Conn() *pgx.Conn { return nil }

func setDest[T any](dest any, value T) {
	if p, ok := dest.(*T); ok {
		*p = value
	}
}
