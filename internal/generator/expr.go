package generator

import (
	"hibari/internal/ftypes"
	"hibari/internal/schema"
	"hibari/internal/value"
)

// Expr renders a SQL scalar expression and reports its output type.
type Expr interface {
	Build(b *SQLBuilder)
	Type() ftypes.Type
	Columns() []ColumnRef
}

// ColumnRef identifies a table-qualified column used in expressions.
type ColumnRef struct {
	Table string
	Name  string
	Type  ftypes.Type
}

// ColumnExpr renders a qualified column reference.
type ColumnExpr struct {
	Ref ColumnRef
}

// Build emits the qualified column reference.
func (e ColumnExpr) Build(b *SQLBuilder) {
	if e.Ref.Table == "" {
		b.Write(e.Ref.Name)
		return
	}
	b.Write(schema.QualifiedRef(e.Ref.Table, e.Ref.Name))
}

// Type reports the column's logical type.
func (e ColumnExpr) Type() ftypes.Type { return e.Ref.Type }

// Columns reports the column references used.
func (e ColumnExpr) Columns() []ColumnRef { return []ColumnRef{e.Ref} }

// LiteralExpr renders a generated value as a SQL literal.
type LiteralExpr struct {
	Val value.Value
}

// Build emits the literal as SQL text.
func (e LiteralExpr) Build(b *SQLBuilder) {
	b.Write(value.ToSQLString(e.Val))
}

// Type reports the literal's logical type.
func (e LiteralExpr) Type() ftypes.Type { return e.Val.Type }

// Columns reports the column references used.
func (e LiteralExpr) Columns() []ColumnRef { return nil }

// BinaryExpr renders a parenthesized binary operator node.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Out   ftypes.Type
}

// Build emits the parenthesized binary expression.
func (e BinaryExpr) Build(b *SQLBuilder) {
	b.Write("(")
	e.Left.Build(b)
	b.Write(" ")
	b.Write(e.Op)
	b.Write(" ")
	e.Right.Build(b)
	b.Write(")")
}

// Type reports the expression's output type.
func (e BinaryExpr) Type() ftypes.Type { return e.Out }

// Columns reports the column references used by both children.
func (e BinaryExpr) Columns() []ColumnRef {
	return append(e.Left.Columns(), e.Right.Columns()...)
}

// ExprSQL renders an expression to SQL text.
func ExprSQL(e Expr) string {
	var b SQLBuilder
	e.Build(&b)
	return b.String()
}
