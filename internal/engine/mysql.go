package engine

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"hibari/internal/config"
	"hibari/internal/schema"
	"hibari/internal/util"
)

// MySQL targets a MySQL-protocol engine over a DSN. Each run works inside a
// dedicated database that Reset recreates from scratch.
type MySQL struct {
	db          *sql.DB
	database    string
	insertBatch int
}

// OpenMySQL connects to the engine and recreates the working database.
// insertBatch bounds rows per INSERT statement.
func OpenMySQL(ctx context.Context, dsn, database string, insertBatch int) (*MySQL, error) {
	if database == "" {
		return nil, errors.New("mysql engine requires a database name")
	}
	admin, err := sql.Open("mysql", config.AdminDSN(dsn))
	if err != nil {
		return nil, errors.Wrap(err, "open admin connection")
	}
	defer util.CloseWithErr(admin, "mysql admin")
	if _, err := admin.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database)); err != nil {
		return nil, errors.Wrapf(err, "create database %s", database)
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}
	m := &MySQL{db: db, database: database, insertBatch: insertBatch}
	if err := m.Reset(ctx); err != nil {
		util.CloseWithErr(db, "mysql")
		return nil, err
	}
	return m, nil
}

// Execute runs a query and collects the result.
func (m *MySQL) Execute(ctx context.Context, query string) (*Rows, error) {
	return queryRows(ctx, m.db, query)
}

// RegisterTable creates the table and inserts the record batch.
func (m *MySQL) RegisterTable(ctx context.Context, tbl schema.Table, rec arrow.Record) error {
	if _, err := m.db.ExecContext(ctx, CreateTableSQL(tbl)); err != nil {
		return errors.Wrapf(err, "create table %s", tbl.Name)
	}
	stmts, err := InsertSQL(tbl, rec, m.insertBatch)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "insert into %s", tbl.Name)
		}
	}
	return nil
}

// OpenSession returns a dedicated connection with the settings applied.
func (m *MySQL) OpenSession(ctx context.Context, settings []string) (Session, error) {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "open session")
	}
	for _, stmt := range settings {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			util.CloseWithErr(conn, "mysql session")
			return nil, errors.Wrapf(err, "apply session setting %q", stmt)
		}
	}
	return &connSession{conn: conn}, nil
}

// DropAllTables drops every view and table in the working database.
func (m *MySQL) DropAllTables(ctx context.Context) error {
	res, err := queryRows(ctx, m.db, fmt.Sprintf(
		"SELECT table_name, table_type FROM information_schema.tables WHERE table_schema = '%s'", m.database))
	if err != nil {
		return err
	}
	for _, pass := range []string{"VIEW", "BASE TABLE"} {
		for _, row := range res.Values {
			name, _ := row[0].(string)
			kind, _ := row[1].(string)
			if kind != pass || name == "" {
				continue
			}
			drop := "DROP TABLE IF EXISTS " + name
			if kind == "VIEW" {
				drop = "DROP VIEW IF EXISTS " + name
			}
			if _, err := m.db.ExecContext(ctx, drop); err != nil {
				return errors.Wrapf(err, "drop %s", name)
			}
		}
	}
	return nil
}

// Reset drops every object in the working database. The database itself
// survives so the connection pool stays valid.
func (m *MySQL) Reset(ctx context.Context) error {
	if err := m.DropAllTables(ctx); err != nil {
		return errors.Wrap(err, "reset database")
	}
	return nil
}

// Close releases the connection pool.
func (m *MySQL) Close() error {
	return m.db.Close()
}

// DriverErrorCode extracts the server error code from a mysql driver error.
func DriverErrorCode(err error) (uint16, bool) {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number, true
	}
	return 0, false
}
