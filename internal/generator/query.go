package generator

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"

	"hibari/internal/ftypes"
	"hibari/internal/schema"
	"hibari/internal/util"
)

// SelectQuery is a generated SELECT over one or more tables.
type SelectQuery struct {
	Items   []Expr
	Aliases []string
	From    []string
	Where   Expr
}

// Build renders the query into b.
func (q *SelectQuery) Build(b *SQLBuilder) {
	b.Write("SELECT ")
	for i, item := range q.Items {
		if i > 0 {
			b.Write(", ")
		}
		item.Build(b)
		if i < len(q.Aliases) && q.Aliases[i] != "" {
			b.Write(" AS ")
			b.Write(q.Aliases[i])
		}
	}
	b.Write(" FROM ")
	for i, t := range q.From {
		if i > 0 {
			b.Write(", ")
		}
		b.Write(t)
	}
	if q.Where != nil {
		b.Write(" WHERE ")
		q.Where.Build(b)
	}
}

// SQLString renders the query to SQL text.
func (q *SelectQuery) SQLString() string {
	var b SQLBuilder
	q.Build(&b)
	return b.String()
}

// GenerateSelect builds a random SELECT over the given tables. When
// tables is nil, the generator draws from its registry.
func (g *Generator) GenerateSelect(tables []schema.Table) (*SelectQuery, error) {
	if tables == nil {
		tables = g.Registry.Tables()
	}
	if len(tables) == 0 {
		return nil, errors.New("no tables available for query generation")
	}

	maxTables := g.Cfg.Generation.MaxQueryTables
	if maxTables < 1 {
		maxTables = 1
	}
	if maxTables > len(tables) {
		maxTables = len(tables)
	}
	count := 1 + g.Rand.Intn(maxTables)
	picked := pickTables(g.Rand, tables, count)

	pool := columnPool(picked)
	from := make([]string, 0, len(picked))
	for _, t := range picked {
		from = append(from, t.Name)
	}

	itemCount := SelectItemsMin + g.Rand.Intn(g.maxLevel)
	items := make([]Expr, 0, itemCount)
	for i := 0; i < itemCount; i++ {
		target := ftypes.Random(g.Rand)
		items = append(items, g.GenerateExpr(pool, target, 0))
	}

	q := &SelectQuery{Items: items, From: from}
	if util.Chance(g.Rand, g.Cfg.Generation.WherePercent) {
		q.Where = g.GenerateExpr(pool, ftypes.Type{Kind: ftypes.Boolean}, 0)
	}
	return q, nil
}

// GenerateView builds a CREATE VIEW statement over the base tables and
// the table metadata describing the view's columns. View columns get
// positional aliases so the result shape is stable.
func (g *Generator) GenerateView(name string) (schema.Table, string, error) {
	q, err := g.GenerateSelect(g.Registry.BaseTables())
	if err != nil {
		return schema.Table{}, "", err
	}

	cols := make([]schema.Column, 0, len(q.Items))
	q.Aliases = make([]string, len(q.Items))
	for i, item := range q.Items {
		alias := fmt.Sprintf("%s%d", ViewColumnAliasPrefix, i+1)
		q.Aliases[i] = alias
		cols = append(cols, schema.Column{Name: alias, Type: item.Type(), Nullable: true})
	}

	stmt := fmt.Sprintf("CREATE VIEW %s AS %s", name, q.SQLString())
	return schema.Table{Name: name, Columns: cols, IsView: true}, stmt, nil
}

// pickTables samples count tables without replacement.
func pickTables(r *rand.Rand, tables []schema.Table, count int) []schema.Table {
	idx := r.Perm(len(tables))
	picked := make([]schema.Table, 0, count)
	for _, i := range idx[:count] {
		picked = append(picked, tables[i])
	}
	return picked
}
