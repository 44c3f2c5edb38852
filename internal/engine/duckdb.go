package engine

import (
	"context"
	"database/sql"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	_ "github.com/duckdb/duckdb-go/v2" // Register the duckdb driver.
	"github.com/pkg/errors"

	"hibari/internal/schema"
	"hibari/internal/util"
)

// DuckDB runs an in-process duckdb instance. Reset discards the instance and
// opens a fresh one, which drops all tables and session state at once.
type DuckDB struct {
	mu          sync.RWMutex
	db          *sql.DB
	insertBatch int
}

// OpenDuckDB opens a fresh in-memory duckdb instance. insertBatch bounds
// rows per INSERT statement.
func OpenDuckDB(insertBatch int) (*DuckDB, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(err, "open duckdb")
	}
	return &DuckDB{db: db, insertBatch: insertBatch}, nil
}

func (d *DuckDB) handle() *sql.DB {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db
}

// Execute runs a query and collects the result.
func (d *DuckDB) Execute(ctx context.Context, query string) (*Rows, error) {
	return queryRows(ctx, d.handle(), query)
}

// RegisterTable creates the table and inserts the record batch.
func (d *DuckDB) RegisterTable(ctx context.Context, tbl schema.Table, rec arrow.Record) error {
	db := d.handle()
	if _, err := db.ExecContext(ctx, CreateTableSQL(tbl)); err != nil {
		return errors.Wrapf(err, "create table %s", tbl.Name)
	}
	stmts, err := InsertSQL(tbl, rec, d.insertBatch)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "insert into %s", tbl.Name)
		}
	}
	return nil
}

// OpenSession returns a dedicated connection with the settings applied.
func (d *DuckDB) OpenSession(ctx context.Context, settings []string) (Session, error) {
	conn, err := d.handle().Conn(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "open session")
	}
	for _, stmt := range settings {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			util.CloseWithErr(conn, "duckdb session")
			return nil, errors.Wrapf(err, "apply session setting %q", stmt)
		}
	}
	return &connSession{conn: conn}, nil
}

// DropAllTables drops every view and table in the main catalog.
func (d *DuckDB) DropAllTables(ctx context.Context) error {
	db := d.handle()
	res, err := queryRows(ctx, db,
		"SELECT table_name, table_type FROM information_schema.tables WHERE table_schema = 'main'")
	if err != nil {
		return err
	}
	// Views first so that dependent views never block a table drop.
	for _, pass := range []string{"VIEW", "BASE TABLE"} {
		for _, row := range res.Values {
			name, _ := row[0].(string)
			kind, _ := row[1].(string)
			if kind != pass || name == "" {
				continue
			}
			drop := "DROP TABLE IF EXISTS " + name + " CASCADE"
			if kind == "VIEW" {
				drop = "DROP VIEW IF EXISTS " + name + " CASCADE"
			}
			if _, err := db.ExecContext(ctx, drop); err != nil {
				return errors.Wrapf(err, "drop %s", name)
			}
		}
	}
	return nil
}

// Reset swaps in a fresh in-memory instance.
func (d *DuckDB) Reset(_ context.Context) error {
	fresh, err := sql.Open("duckdb", "")
	if err != nil {
		return errors.Wrap(err, "reopen duckdb")
	}
	d.mu.Lock()
	old := d.db
	d.db = fresh
	d.mu.Unlock()
	util.CloseWithErr(old, "duckdb")
	return nil
}

// Close releases the instance.
func (d *DuckDB) Close() error {
	return d.handle().Close()
}

// connSession is a Session over a dedicated *sql.Conn.
type connSession struct {
	conn *sql.Conn
}

func (s *connSession) Execute(ctx context.Context, query string) (*Rows, error) {
	return queryRowsConn(ctx, s.conn, query)
}

func (s *connSession) Close() error {
	return s.conn.Close()
}
