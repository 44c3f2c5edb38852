// Package engine abstracts the SQL engine under test. The fuzzer only needs
// a small capability set: execute SQL, register a generated table, and drop
// everything. Any engine satisfying it is substitutable.
package engine

import (
	"context"
	"database/sql"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/pkg/errors"

	"hibari/internal/schema"
)

// Rows is a fully collected query result.
type Rows struct {
	Columns []string
	// TypeNames holds the driver-reported SQL type name per column.
	TypeNames []string
	Values    [][]any
}

// RowCount returns the number of result rows.
func (r *Rows) RowCount() int {
	if r == nil {
		return 0
	}
	return len(r.Values)
}

// Executor runs a single SQL statement and collects the result.
type Executor interface {
	Execute(ctx context.Context, query string) (*Rows, error)
}

// Session is an executor bound to a dedicated engine session, typically with
// non-default settings applied.
type Session interface {
	Executor
	Close() error
}

// Engine is the full capability set the runner needs from an engine under
// test.
type Engine interface {
	Executor
	// RegisterTable materializes a generated table and its Arrow record
	// batch into the engine.
	RegisterTable(ctx context.Context, tbl schema.Table, rec arrow.Record) error
	// OpenSession returns a dedicated session with the given SET statements
	// applied.
	OpenSession(ctx context.Context, settings []string) (Session, error)
	// DropAllTables removes every table and view.
	DropAllTables(ctx context.Context) error
	// Reset drops all state and starts a fresh engine session.
	Reset(ctx context.Context) error
	Close() error
}

// queryRows runs a prepared statement lifecycle against db and collects all
// rows. Preparation failures are tagged as planning errors, everything after
// as execution errors.
func queryRows(ctx context.Context, db *sql.DB, query string) (*Rows, error) {
	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query planning failed")
	}
	defer func() { _ = stmt.Close() }()
	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "query execution failed")
	}
	return collectRows(rows)
}

func queryRowsConn(ctx context.Context, conn *sql.Conn, query string) (*Rows, error) {
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query execution failed")
	}
	return collectRows(rows)
}

func collectRows(rows *sql.Rows) (*Rows, error) {
	defer func() { _ = rows.Close() }()
	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "query execution failed")
	}
	out := &Rows{Columns: cols}
	if cts, err := rows.ColumnTypes(); err == nil {
		out.TypeNames = make([]string, len(cts))
		for i, ct := range cts {
			out.TypeNames[i] = ct.DatabaseTypeName()
		}
	}
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "query execution failed")
		}
		for i, c := range cells {
			if b, ok := c.([]byte); ok {
				cells[i] = string(b)
			}
		}
		out.Values = append(out.Values, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "query execution failed")
	}
	return out, nil
}
