// Package schema defines logical tables and the shared table registry.
package schema

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"hibari/internal/ftypes"
)

// Column describes a table column.
type Column struct {
	Name     string
	Type     ftypes.Type
	Nullable bool
}

// Table describes a generated table or view.
type Table struct {
	Name    string
	Columns []Column
	IsView  bool
}

// ColumnName derives a deterministic column name from the table name, the
// ordinal position, and the type display name.
func ColumnName(table string, ordinal int, typ ftypes.Type) string {
	return fmt.Sprintf("col_%s_%d_%s", table, ordinal+1, typ.DisplayName())
}

// ColumnByName returns a column by name if present.
func (t Table) ColumnByName(name string) (Column, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// ArrowSchema returns the Arrow schema for this table.
func (t Table) ArrowSchema() *arrow.Schema {
	fields := make([]arrow.Field, 0, len(t.Columns))
	for _, col := range t.Columns {
		fields = append(fields, arrow.Field{
			Name:     col.Name,
			Type:     col.Type.Arrow(),
			Nullable: col.Nullable,
		})
	}
	return arrow.NewSchema(fields, nil)
}

// QualifiedRef builds a table-qualified column reference.
func QualifiedRef(table, column string) string {
	return fmt.Sprintf("%s.%s", table, column)
}
