package generator

import (
	"math/rand"

	"hibari/internal/config"
	"hibari/internal/ftypes"
	"hibari/internal/rng"
	"hibari/internal/schema"
	"hibari/internal/value"
)

// Generator creates SQL expressions and statements from schema state.
// Every random choice flows through Rand, so two generators built from
// the same seed and the same registry contents produce identical SQL.
type Generator struct {
	Rand      *rand.Rand
	Cfg       config.Config
	Registry  *schema.Registry
	Values    *value.Generator
	Operators []Operator
	Seed      int64

	maxLevel int
}

// New builds a generator seeded with seed.
func New(seed int64, cfg config.Config, reg *schema.Registry) *Generator {
	r := rng.New(seed)
	maxLevel := cfg.Generation.MaxExprLevel
	if maxLevel < 1 {
		maxLevel = 1
	}
	return &Generator{
		Rand:      r,
		Cfg:       cfg,
		Registry:  reg,
		Values:    value.NewGenerator(r, cfg.Values),
		Operators: DefaultOperators,
		Seed:      seed,
		maxLevel:  maxLevel,
	}
}

// GenerateExpr builds an expression of the target type, drawing column
// references from pool. level counts down toward the leaves.
func (g *Generator) GenerateExpr(pool []ColumnRef, target ftypes.Type, level int) Expr {
	if level >= g.maxLevel || g.Rand.Intn(2) == 0 {
		return g.leafExpr(pool, target)
	}
	ops := operatorsFor(g.Operators, target.Kind)
	if len(ops) == 0 {
		return g.leafExpr(pool, target)
	}
	op := ops[g.Rand.Intn(len(ops))]
	sig := op.Signatures[g.Rand.Intn(len(op.Signatures))]
	operands := make([]Expr, 0, len(sig.Operands))
	for _, slot := range sig.Operands {
		operands = append(operands, g.GenerateExpr(pool, slot.Resolve(target, g.Rand), level+1))
	}
	if len(operands) != 2 {
		return g.leafExpr(pool, target)
	}
	return BinaryExpr{Op: op.Symbol, Left: operands[0], Right: operands[1], Out: target}
}

// leafExpr produces a column reference of the target kind when the pool
// has one and the coin lands that way, otherwise a literal.
func (g *Generator) leafExpr(pool []ColumnRef, target ftypes.Type) Expr {
	matching := columnsOfKind(pool, target.Kind)
	if len(matching) > 0 && g.Rand.Intn(2) == 0 {
		return ColumnExpr{Ref: matching[g.Rand.Intn(len(matching))]}
	}
	return LiteralExpr{Val: g.Values.Generate(target)}
}

func columnsOfKind(pool []ColumnRef, k ftypes.Kind) []ColumnRef {
	var out []ColumnRef
	for _, ref := range pool {
		if ref.Type.Kind == k {
			out = append(out, ref)
		}
	}
	return out
}

// columnPool flattens the columns of the given tables into refs.
func columnPool(tables []schema.Table) []ColumnRef {
	var pool []ColumnRef
	for _, t := range tables {
		for _, c := range t.Columns {
			pool = append(pool, ColumnRef{Table: t.Name, Name: c.Name, Type: c.Type})
		}
	}
	return pool
}
