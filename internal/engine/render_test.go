package engine

import (
	"math/big"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"hibari/internal/ftypes"
	"hibari/internal/schema"
	"hibari/internal/value"
)

func bigInt(v int64) *big.Int { return big.NewInt(v) }

func sampleTable(t *testing.T) (schema.Table, *array.RecordBuilder) {
	t.Helper()
	tbl := schema.Table{
		Name: "t0",
		Columns: []schema.Column{
			{Name: "col_t0_1_int32", Type: ftypes.Type{Kind: ftypes.Int32}, Nullable: true},
			{Name: "col_t0_2_boolean", Type: ftypes.Type{Kind: ftypes.Boolean}, Nullable: true},
			{Name: "col_t0_3_decimal", Type: ftypes.NewDecimal(12, 2), Nullable: true},
		},
	}
	return tbl, array.NewRecordBuilder(memory.DefaultAllocator, tbl.ArrowSchema())
}

func TestCreateTableSQL(t *testing.T) {
	tbl, b := sampleTable(t)
	defer b.Release()
	got := CreateTableSQL(tbl)
	want := "CREATE TABLE t0 (col_t0_1_int32 INTEGER, col_t0_2_boolean BOOLEAN, col_t0_3_decimal DECIMAL(12,2))"
	if got != want {
		t.Fatalf("ddl = %q, want %q", got, want)
	}
}

func TestInsertSQL(t *testing.T) {
	tbl, b := sampleTable(t)
	defer b.Release()

	rows := [][]value.Value{
		{
			{Type: tbl.Columns[0].Type, Int: 7},
			{Type: tbl.Columns[1].Type, Bool: true},
			{Type: tbl.Columns[2].Type, Null: true},
		},
		{
			{Type: tbl.Columns[0].Type, Null: true},
			{Type: tbl.Columns[1].Type, Bool: false},
			{Type: tbl.Columns[2].Type, Dec: bigInt(-12345)},
		},
	}
	for _, row := range rows {
		for i, v := range row {
			if err := value.Append(b.Field(i), v); err != nil {
				t.Fatalf("append: %v", err)
			}
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	stmts, err := InsertSQL(tbl, rec, 1)
	if err != nil {
		t.Fatalf("insert sql: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("stmts = %d, want 2", len(stmts))
	}
	if stmts[0] != "INSERT INTO t0 (col_t0_1_int32, col_t0_2_boolean, col_t0_3_decimal) VALUES (7, TRUE, NULL)" {
		t.Fatalf("stmt[0] = %q", stmts[0])
	}
	if !strings.HasSuffix(stmts[1], "VALUES (NULL, FALSE, -123.45)") {
		t.Fatalf("stmt[1] = %q", stmts[1])
	}

	batched, err := InsertSQL(tbl, rec, 25)
	if err != nil {
		t.Fatalf("insert sql: %v", err)
	}
	if len(batched) != 1 || !strings.Contains(batched[0], "), (") {
		t.Fatalf("batched = %v", batched)
	}
}

func TestInsertSQLEmptyRecord(t *testing.T) {
	tbl, b := sampleTable(t)
	defer b.Release()
	rec := b.NewRecord()
	defer rec.Release()
	stmts, err := InsertSQL(tbl, rec, 25)
	if err != nil {
		t.Fatalf("insert sql: %v", err)
	}
	if len(stmts) != 0 {
		t.Fatalf("expected no statements for empty record, got %v", stmts)
	}
}
