package oracle

import (
	"fmt"
	"strings"
)

// NestedQueries wraps a random query in a derived table and selects its
// aliased columns from the outside. The rewrite must not change whether
// the query executes, so any failure of the wrapped form that the plain
// form would survive points at the engine's subquery handling.
type NestedQueries struct{}

// Name identifies the oracle in logs and reports.
func (o NestedQueries) Name() string { return "nested_queries" }

// GenerateQueries produces one derived-table query built from a random
// inner SELECT with positional column aliases.
func (o NestedQueries) GenerateQueries(env *Env) ([]QueryContext, error) {
	inner, err := env.Gen.GenerateSelect(nil)
	if err != nil {
		return nil, err
	}
	aliases := make([]string, len(inner.Items))
	outer := make([]string, len(inner.Items))
	for i := range inner.Items {
		aliases[i] = fmt.Sprintf("c%d", i+1)
		outer[i] = "sq." + aliases[i]
	}
	inner.Aliases = aliases

	sql := fmt.Sprintf("SELECT %s FROM (%s) AS sq",
		strings.Join(outer, ", "), inner.SQLString())
	return []QueryContext{{
		SQL:         sql,
		Description: "random query wrapped in a derived table",
	}}, nil
}

// ValidateConsistency never fails. Plain execution errors are judged by
// the runner's whitelist.
func (o NestedQueries) ValidateConsistency(results []ExecResult) error { return nil }

// ErrorReport renders a failure report for the executed queries.
func (o NestedQueries) ErrorReport(results []ExecResult) string {
	var sb strings.Builder
	sb.WriteString("Nested Queries Oracle Test Failed\n")
	for _, res := range results {
		fmt.Fprintf(&sb, "Query (%s):\n%s;\n", res.Query.Description, res.Query.SQL)
		if res.Err != nil {
			fmt.Fprintf(&sb, "Error: %v\n", res.Err)
		}
	}
	sb.WriteString("Expected: the derived-table form executes like the plain query would\n")
	sb.WriteString("Actual: query produced a non-whitelisted error\n")
	sb.WriteString("Check the engine's derived-table and subquery handling; whitelisted errors are acceptable.\n")
	return sb.String()
}
