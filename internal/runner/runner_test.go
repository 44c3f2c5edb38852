package runner

import (
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/pkg/errors"

	"hibari/internal/config"
	"hibari/internal/engine"
	"hibari/internal/ftypes"
	"hibari/internal/oracle"
	"hibari/internal/schema"
)

// recordingEngine satisfies engine.Engine and records executed SQL.
type recordingEngine struct {
	queries []string
}

func (e *recordingEngine) Execute(_ context.Context, q string) (*engine.Rows, error) {
	e.queries = append(e.queries, q)
	return &engine.Rows{}, nil
}

func (e *recordingEngine) RegisterTable(context.Context, schema.Table, arrow.Record) error {
	return nil
}

func (e *recordingEngine) OpenSession(context.Context, []string) (engine.Session, error) {
	return nil, nil
}

func (e *recordingEngine) DropAllTables(context.Context) error { return nil }
func (e *recordingEngine) Reset(context.Context) error         { return nil }
func (e *recordingEngine) Close() error                        { return nil }

func testRunner() *Runner {
	cfg := config.Default()
	config.Normalize(&cfg)
	return &Runner{
		cfg:       cfg,
		whitelist: oracle.NewWhitelist(cfg.Whitelist),
		stats:     NewStats(),
	}
}

func TestClassify(t *testing.T) {
	r := testRunner()
	cases := []struct {
		name string
		res  oracle.ExecResult
		want outcome
	}{
		{"success", oracle.ExecResult{}, outcomeOK},
		{"timeout", oracle.ExecResult{Err: errors.New("context deadline exceeded"), TimedOut: true}, outcomeTimeout},
		{"whitelisted", oracle.ExecResult{Err: errors.New("Arrow error: Divide by zero error")}, outcomeWhitelisted},
		{"bug", oracle.ExecResult{Err: errors.New("INTERNAL Error: unexpected state")}, outcomeBug},
	}
	for _, c := range cases {
		if got := r.classify(c.res); got != c.want {
			t.Fatalf("%s: classify = %v, want %v", c.name, got, c.want)
		}
	}
	// A whitelisted message that timed out still counts as a timeout.
	res := oracle.ExecResult{Err: errors.New("Arrow error: Divide by zero error"), TimedOut: true}
	if got := r.classify(res); got != outcomeTimeout {
		t.Fatalf("timed-out whitelisted error classified as %v", got)
	}
	snap := r.stats.Snapshot()
	if snap.Timeouts != 2 || snap.Whitelisted != 1 || snap.Bugs != 1 {
		t.Fatalf("classification counters: %+v", snap)
	}
}

func TestErrorKind(t *testing.T) {
	planning := oracle.ExecResult{Err: errors.New("query planning failed: Binder Error")}
	execution := oracle.ExecResult{Err: errors.New("query execution failed: boom")}
	ok := oracle.ExecResult{}

	if got := errorKind([]oracle.ExecResult{ok, planning}); got != "planning" {
		t.Fatalf("errorKind = %q, want planning", got)
	}
	if got := errorKind([]oracle.ExecResult{execution}); got != "execution" {
		t.Fatalf("errorKind = %q, want execution", got)
	}
	if got := errorKind([]oracle.ExecResult{ok, ok}); got != "consistency" {
		t.Fatalf("errorKind = %q, want consistency", got)
	}
}

func TestOracleSelectionFollowsWeights(t *testing.T) {
	cfg := config.Default()
	cfg.Oracles = config.OracleWeights{NoCrash: 1, NestedQueries: 0, ConfigConsistency: 0}
	config.Normalize(&cfg)
	r := New(cfg, nil)
	if len(r.oracles) != 1 || r.oracles[0].Name() != "no_crash" {
		t.Fatalf("zero-weight oracles not excluded: %d oracles", len(r.oracles))
	}
}

func TestExecuteQueryDefaultsToEnvEngine(t *testing.T) {
	cfg := config.Default()
	config.Normalize(&cfg)
	r := New(cfg, nil)
	eng := &recordingEngine{}
	env := &oracle.Env{Engine: eng}

	res := r.executeQuery(context.Background(), env, oracle.QueryContext{SQL: "SELECT 1"})
	if res.Err != nil {
		t.Fatalf("execute: %v", res.Err)
	}
	if len(eng.queries) != 1 || eng.queries[0] != "SELECT 1" {
		t.Fatalf("env engine not used: %v", eng.queries)
	}

	// A pinned executor still wins over the environment default.
	pinned := &recordingEngine{}
	r.executeQuery(context.Background(), env, oracle.QueryContext{SQL: "SELECT 2", Exec: pinned})
	if len(pinned.queries) != 1 || len(eng.queries) != 1 {
		t.Fatalf("pinned executor bypassed: env=%v pinned=%v", eng.queries, pinned.queries)
	}
}

func TestApplyIntrospectedTypes(t *testing.T) {
	tbl := schema.Table{
		Name: "v0",
		Columns: []schema.Column{
			{Name: "c1", Type: ftypes.Type{Kind: ftypes.Int32}},
			{Name: "c2", Type: ftypes.NewDecimal(12, 4)},
			{Name: "c3", Type: ftypes.Type{Kind: ftypes.Int64}},
			{Name: "c4", Type: ftypes.Type{Kind: ftypes.Boolean}},
		},
	}
	probe := &engine.Rows{
		Columns:   []string{"c1", "c2", "c3", "c4"},
		TypeNames: []string{"DOUBLE", "DECIMAL(18,4)", "DECIMAL(20,0)", "SOME_EXOTIC_TYPE"},
	}
	applyIntrospectedTypes(&tbl, probe)

	if tbl.Columns[0].Type.Kind != ftypes.Float64 {
		t.Fatalf("widened column kept kind %v", tbl.Columns[0].Type.Kind)
	}
	// Matching kind keeps its declared parameters.
	if tbl.Columns[1].Type != ftypes.NewDecimal(12, 4) {
		t.Fatalf("matching decimal rewritten to %v", tbl.Columns[1].Type)
	}
	if tbl.Columns[2].Type != ftypes.NewDecimal(20, 0) {
		t.Fatalf("decimal widening not applied: %v", tbl.Columns[2].Type)
	}
	// Unknown names keep the declared type.
	if tbl.Columns[3].Type.Kind != ftypes.Boolean {
		t.Fatalf("unknown type name rewrote kind to %v", tbl.Columns[3].Type.Kind)
	}
}

func TestDedupe(t *testing.T) {
	in := []string{"SELECT 1", "SELECT 2", "SELECT 1"}
	out := dedupe(in)
	if len(out) != 2 || out[0] != "SELECT 1" || out[1] != "SELECT 2" {
		t.Fatalf("dedupe = %v", out)
	}
}
