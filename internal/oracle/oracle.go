// Package oracle defines the test oracles the fuzz runner drives.
//
// An oracle turns generator output into one or more queries, and then
// judges the execution results. The runner owns execution so that all
// oracles share the same timeout, whitelist, and reporting path.
package oracle

import (
	"time"

	"hibari/internal/engine"
	"hibari/internal/generator"
	"hibari/internal/schema"
)

// Env carries the shared state oracles draw queries from.
type Env struct {
	Engine   engine.Engine
	Registry *schema.Registry
	Gen      *generator.Generator
	// Sessions holds one open session per configured setting group.
	// Only populated when the cross-configuration oracle is enabled.
	Sessions []engine.Session
}

// QueryContext is one query an oracle wants executed.
type QueryContext struct {
	SQL string
	// Exec overrides the executor for this query. Nil means the
	// runner's default engine connection.
	Exec        engine.Executor
	Description string
}

// ExecResult is the outcome of executing one QueryContext.
type ExecResult struct {
	Query    QueryContext
	Rows     *engine.Rows
	Err      error
	Duration time.Duration
	TimedOut bool
}

// Oracle generates queries and validates their results.
type Oracle interface {
	Name() string
	// GenerateQueries produces the queries for one oracle invocation.
	GenerateQueries(env *Env) ([]QueryContext, error)
	// ValidateConsistency inspects the full result set after execution.
	// A non-nil error means the oracle found a bug beyond plain query
	// failures, which the runner classifies separately.
	ValidateConsistency(results []ExecResult) error
	// ErrorReport renders the human-readable report body for a failure.
	ErrorReport(results []ExecResult) string
}
