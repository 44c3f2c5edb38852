package oracle

import (
	"fmt"
	"strings"
)

// NoCrash submits a single random query and expects the engine to
// answer it without an internal failure. It queries base tables only so
// that view definitions cannot mask engine errors.
type NoCrash struct{}

// Name identifies the oracle in logs and reports.
func (o NoCrash) Name() string { return "no_crash" }

// GenerateQueries produces one random SELECT over the base tables.
func (o NoCrash) GenerateQueries(env *Env) ([]QueryContext, error) {
	q, err := env.Gen.GenerateSelect(env.Registry.BaseTables())
	if err != nil {
		return nil, err
	}
	return []QueryContext{{
		SQL:         q.SQLString(),
		Description: "random query over base tables",
	}}, nil
}

// ValidateConsistency never fails. Plain execution errors are judged by
// the runner's whitelist.
func (o NoCrash) ValidateConsistency(results []ExecResult) error { return nil }

// ErrorReport renders a failure report for the executed queries.
func (o NoCrash) ErrorReport(results []ExecResult) string {
	var sb strings.Builder
	sb.WriteString("No-Crash Oracle Test Failed\n")
	for _, res := range results {
		fmt.Fprintf(&sb, "Query (%s):\n%s;\n", res.Query.Description, res.Query.SQL)
		if res.Err != nil {
			fmt.Fprintf(&sb, "Error: %v\n", res.Err)
		}
	}
	sb.WriteString("Expected: query executes without crashing or erroring\n")
	sb.WriteString("Actual: query crashed or returned a non-whitelisted error\n")
	sb.WriteString("The engine should return either valid results or a graceful, whitelisted error message.\n")
	return sb.String()
}
