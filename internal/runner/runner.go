// Package runner orchestrates fuzzing rounds against the engine.
package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hibari/internal/config"
	"hibari/internal/engine"
	"hibari/internal/ftypes"
	"hibari/internal/generator"
	"hibari/internal/oracle"
	"hibari/internal/report"
	"hibari/internal/rng"
	"hibari/internal/schema"
	"hibari/internal/uploader"
	"hibari/internal/util"
	"hibari/internal/validator"
)

// Runner drives generation, execution, and reporting for one fuzz run.
type Runner struct {
	cfg       config.Config
	eng       engine.Engine
	registry  *schema.Registry
	whitelist *oracle.Whitelist
	validator *validator.Validator
	reporter  *report.Reporter
	uploader  uploader.Uploader
	oracles   []oracle.Oracle
	weights   []int
	stats     *Stats
}

// New constructs a Runner for the given config and engine.
func New(cfg config.Config, eng engine.Engine) *Runner {
	oracles := []oracle.Oracle{}
	weights := []int{}
	add := func(o oracle.Oracle, weight int) {
		if weight > 0 {
			oracles = append(oracles, o)
			weights = append(weights, weight)
		}
	}
	add(oracle.NoCrash{}, cfg.Oracles.NoCrash)
	add(oracle.NestedQueries{}, cfg.Oracles.NestedQueries)
	add(oracle.ConfigConsistency{}, cfg.Oracles.ConfigConsistency)

	return &Runner{
		cfg:       cfg,
		eng:       eng,
		registry:  schema.NewRegistry(),
		whitelist: oracle.NewWhitelist(cfg.Whitelist),
		validator: validator.New(),
		reporter:  report.New(cfg.Reports.OutputDir),
		uploader:  uploader.New(cfg.Storage),
		oracles:   oracles,
		weights:   weights,
		stats:     NewStats(),
	}
}

// Run executes the configured number of rounds.
func (r *Runner) Run(ctx context.Context) error {
	stop := r.startStatsLogger()
	defer stop()

	util.Infof("runner start engine=%s seed=%d rounds=%d queries_per_round=%d",
		r.cfg.Engine, r.cfg.Seed, r.cfg.Rounds, r.cfg.QueriesPerRound)
	for round := 0; round < r.cfg.Rounds; round++ {
		if err := r.runRound(ctx, round); err != nil {
			return err
		}
		if round < r.cfg.Rounds-1 {
			if err := r.eng.Reset(ctx); err != nil {
				return err
			}
			r.registry.Reset()
		}
	}
	r.logSummary()
	return nil
}

// BuildRound materializes the datasets and views of one round without
// running any oracle queries. Replay tooling uses it to rebuild the
// exact schema a recorded case ran against.
func (r *Runner) BuildRound(ctx context.Context, round int) error {
	datasetSeed := rng.DatasetSeed(r.cfg.Seed, round)
	util.Infof("round %d start dataset_seed=%d", round, datasetSeed)
	if err := r.buildDatasets(ctx, round, datasetSeed); err != nil {
		return err
	}
	r.buildViews(ctx, round)
	return nil
}

func (r *Runner) runRound(ctx context.Context, round int) error {
	if err := r.BuildRound(ctx, round); err != nil {
		return err
	}

	sessions, err := r.openSessions(ctx)
	if err != nil {
		return err
	}
	defer func() {
		for _, s := range sessions {
			util.CloseWithErr(s, "oracle session")
		}
	}()

	for i := 0; i < r.cfg.QueriesPerRound; i++ {
		querySeed := rng.QuerySeed(r.cfg.Seed, round, i)
		gen := generator.New(querySeed, r.cfg, r.registry)
		env := &oracle.Env{
			Engine:   r.eng,
			Registry: r.registry,
			Gen:      gen,
			Sessions: sessions,
		}
		idx := util.PickWeighted(gen.Rand, r.weights)
		r.runOracle(ctx, r.oracles[idx], env, round, i)
	}
	util.Infof("round %d done tables=%d views=%d", round, len(r.registry.BaseTables()), len(r.registry.Views()))
	return nil
}

// buildDatasets generates base tables and materializes them. A table
// the engine rejects is skipped; the round continues with the rest.
func (r *Runner) buildDatasets(ctx context.Context, round int, datasetSeed int64) error {
	roundRand := rng.New(datasetSeed)
	tableCount := util.RandIntRange(roundRand, r.cfg.Generation.MinTableCount, r.cfg.Generation.MaxTableCount)
	for i := 0; i < tableCount; i++ {
		name := r.registry.NextTableName()
		tbl, rec, err := generator.GenerateTable(rng.TableSeed(datasetSeed, i), r.cfg, name)
		if err != nil {
			util.Warnf("table generation failed table=%s err=%v", name, err)
			continue
		}
		err = r.eng.RegisterTable(ctx, tbl, rec)
		rec.Release()
		if err != nil {
			util.Warnf("table materialization failed table=%s err=%v", name, err)
			continue
		}
		r.registry.Register(tbl)
	}
	if len(r.registry.BaseTables()) == 0 {
		return fmt.Errorf("round %d produced no usable tables", round)
	}
	return nil
}

// buildViews creates up to MaxViewCount views over the base tables.
// Each view is probed with a zero-row scan so that a view the engine
// accepts but cannot execute never enters the registry.
func (r *Runner) buildViews(ctx context.Context, round int) {
	if r.cfg.Generation.MaxViewCount <= 0 {
		return
	}
	gen := generator.New(rng.ViewSeed(r.cfg.Seed, round), r.cfg, r.registry)
	viewCount := 1 + gen.Rand.Intn(r.cfg.Generation.MaxViewCount)
	for i := 0; i < viewCount; i++ {
		name := r.registry.NextViewName()
		tbl, stmt, err := gen.GenerateView(name)
		if err != nil {
			util.Warnf("view generation failed view=%s err=%v", name, err)
			continue
		}
		if _, err := r.eng.Execute(ctx, stmt); err != nil {
			util.Detailf("view rejected view=%s err=%v", name, err)
			continue
		}
		probe, err := r.eng.Execute(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 0", name))
		if err != nil {
			util.Detailf("view probe failed view=%s err=%v", name, err)
			_, _ = r.eng.Execute(ctx, fmt.Sprintf("DROP VIEW %s", name))
			continue
		}
		applyIntrospectedTypes(&tbl, probe)
		r.registry.Register(tbl)
	}
}

// applyIntrospectedTypes overrides declared view column kinds with the
// engine-reported ones. Engines widen some expression results (integer
// division comes back as DOUBLE), and later expression generation must see
// the type the engine will actually return. A kind that already matches
// keeps its declared parameters.
func applyIntrospectedTypes(tbl *schema.Table, probe *engine.Rows) {
	for i := range tbl.Columns {
		if i >= len(probe.TypeNames) {
			return
		}
		kind, ok := ftypes.KindFromSQLName(probe.TypeNames[i])
		if !ok || kind == tbl.Columns[i].Type.Kind {
			continue
		}
		if kind == ftypes.Decimal {
			var p, s int32
			if n, _ := fmt.Sscanf(strings.ToUpper(probe.TypeNames[i]), "DECIMAL(%d,%d)", &p, &s); n == 2 {
				tbl.Columns[i].Type = ftypes.NewDecimal(p, s)
			}
			continue
		}
		tbl.Columns[i].Type = ftypes.Type{Kind: kind}
	}
}

// openSessions opens one engine session per configured setting group.
// Sessions are only needed when the cross-configuration oracle can run.
func (r *Runner) openSessions(ctx context.Context) ([]engine.Session, error) {
	if r.cfg.Oracles.ConfigConsistency <= 0 || len(r.cfg.Sessions.SettingGroups) < 2 {
		return nil, nil
	}
	sessions := make([]engine.Session, 0, len(r.cfg.Sessions.SettingGroups))
	for _, settings := range r.cfg.Sessions.SettingGroups {
		s, err := r.eng.OpenSession(ctx, settings)
		if err != nil {
			for _, open := range sessions {
				util.CloseWithErr(open, "oracle session")
			}
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (r *Runner) runOracle(ctx context.Context, o oracle.Oracle, env *oracle.Env, round, queryIndex int) {
	queries, err := o.GenerateQueries(env)
	if err != nil || len(queries) == 0 {
		util.Detailf("oracle %s produced no queries round=%d query=%d err=%v", o.Name(), round, queryIndex, err)
		r.stats.ObserveSkip(o.Name())
		return
	}

	results := make([]oracle.ExecResult, 0, len(queries))
	for _, q := range queries {
		results = append(results, r.executeQuery(ctx, env, q))
	}

	bug := false
	for _, res := range results {
		switch r.classify(res) {
		case outcomeTimeout:
			util.Warnf("query timeout oracle=%s round=%d query=%d sql=%s", o.Name(), round, queryIndex, res.Query.SQL)
		case outcomeWhitelisted:
			util.Detailf("whitelisted error oracle=%s err=%v", o.Name(), res.Err)
		case outcomeBug:
			if code, ok := engine.DriverErrorCode(res.Err); ok {
				util.Bugf("server error %d oracle=%s round=%d query=%d: %v", code, o.Name(), round, queryIndex, res.Err)
			}
			bug = true
		}
	}
	if err := o.ValidateConsistency(results); err != nil {
		util.Bugf("consistency failure oracle=%s round=%d query=%d: %v", o.Name(), round, queryIndex, err)
		bug = true
	}
	r.stats.ObserveOracle(o.Name(), bug)
	if bug {
		r.reportBug(ctx, o, results, round, queryIndex)
	}
}

func (r *Runner) executeQuery(ctx context.Context, env *oracle.Env, q oracle.QueryContext) oracle.ExecResult {
	exec := q.Exec
	if exec == nil {
		exec = env.Engine
	}
	qctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	start := time.Now()
	rows, err := exec.Execute(qctx, q.SQL)
	duration := time.Since(start)

	res := oracle.ExecResult{Query: q, Rows: rows, Err: err, Duration: duration}
	if err != nil && qctx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
	}
	r.stats.ObserveQuery(duration, r.validator.Validate(q.SQL) == nil)
	if duration > time.Duration(r.cfg.Logging.SlowQueryMs)*time.Millisecond {
		r.stats.ObserveSlow()
		util.Detailf("slow query %.0fms: %s", duration.Seconds()*1000, q.SQL)
	}
	return res
}

type outcome int

const (
	outcomeOK outcome = iota
	outcomeTimeout
	outcomeWhitelisted
	outcomeBug
)

// classify buckets a single execution result. Timeouts are counted on
// their own and never consult the whitelist.
func (r *Runner) classify(res oracle.ExecResult) outcome {
	if res.Err == nil {
		return outcomeOK
	}
	if res.TimedOut {
		r.stats.ObserveTimeout()
		return outcomeTimeout
	}
	if r.whitelist.IsWhitelisted(res.Err.Error()) {
		r.stats.ObserveWhitelisted()
		return outcomeWhitelisted
	}
	r.stats.ObserveBug()
	return outcomeBug
}
