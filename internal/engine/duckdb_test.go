package engine

import (
	"context"
	"testing"
)

func openTestDuckDB(t *testing.T) *DuckDB {
	t.Helper()
	d, err := OpenDuckDB(25)
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func mainObjects(t *testing.T, d *DuckDB) *Rows {
	t.Helper()
	rows, err := d.Execute(context.Background(),
		"SELECT table_name FROM information_schema.tables WHERE table_schema = 'main'")
	if err != nil {
		t.Fatalf("list objects: %v", err)
	}
	return rows
}

func TestDuckDBDropAllTables(t *testing.T) {
	d := openTestDuckDB(t)
	ctx := context.Background()
	for _, stmt := range []string{
		"CREATE TABLE t1 (a INTEGER)",
		"INSERT INTO t1 VALUES (1), (2)",
		"CREATE TABLE t2 (b VARCHAR)",
		"CREATE VIEW v1 AS SELECT a FROM t1",
	} {
		if _, err := d.Execute(ctx, stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}
	if got := mainObjects(t, d).RowCount(); got != 3 {
		t.Fatalf("got %d objects before drop, want 3", got)
	}
	if err := d.DropAllTables(ctx); err != nil {
		t.Fatalf("drop all: %v", err)
	}
	if rows := mainObjects(t, d); rows.RowCount() != 0 {
		t.Fatalf("leftover objects after drop: %v", rows.Values)
	}
}

func TestDuckDBReset(t *testing.T) {
	d := openTestDuckDB(t)
	ctx := context.Background()
	if _, err := d.Execute(ctx, "CREATE TABLE t1 (a INTEGER)"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := d.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if rows := mainObjects(t, d); rows.RowCount() != 0 {
		t.Fatalf("reset kept objects: %v", rows.Values)
	}
}
