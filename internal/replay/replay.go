// Package replay rebuilds a recorded bug case and re-runs its queries.
//
// Cases carry the seed and round they were found in, so the schema and
// data are regenerated deterministically instead of being dumped and
// restored. Only the failing statements themselves come from disk.
package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"hibari/internal/config"
	"hibari/internal/engine"
	"hibari/internal/report"
	"hibari/internal/runner"
	"hibari/internal/util"
)

// Options configures a replay run.
type Options struct {
	CaseDir string
	Config  config.Config
}

// Run rebuilds the case's round and executes its recorded statements.
func (o Options) Run(ctx context.Context) error {
	if o.CaseDir == "" {
		return errors.New("case directory is required")
	}
	summary, err := loadSummary(o.CaseDir)
	if err != nil {
		return err
	}
	cfg := o.Config
	cfg.Seed = summary.Seed
	if summary.Engine != "" {
		cfg.Engine = summary.Engine
	}
	util.Infof("replaying case=%s engine=%s seed=%d round=%d", summary.CaseID, cfg.Engine, cfg.Seed, summary.Round)

	eng, err := engine.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer util.CloseWithErr(eng, "replay engine")

	if err := runner.New(cfg, eng).BuildRound(ctx, summary.Round); err != nil {
		return err
	}

	statements, err := caseStatements(o.CaseDir, summary)
	if err != nil {
		return err
	}
	failures := 0
	for i, stmt := range statements {
		rows, err := eng.Execute(ctx, stmt)
		if err != nil {
			failures++
			util.Errorf("statement %d failed: %v\nsql: %s", i+1, err, stmt)
			continue
		}
		util.Infof("statement %d ok rows=%d", i+1, rows.RowCount())
	}
	if failures > 0 {
		return errors.Errorf("%d of %d statements failed", failures, len(statements))
	}
	util.Highlightf("case %s no longer reproduces", summary.CaseID)
	return nil
}

func loadSummary(caseDir string) (report.Summary, error) {
	data, err := os.ReadFile(filepath.Join(caseDir, "summary.json"))
	if err != nil {
		return report.Summary{}, err
	}
	var summary report.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return report.Summary{}, errors.Wrap(err, "parse summary.json")
	}
	return summary, nil
}

// caseStatements prefers case.sql on disk so a hand-minimized file is
// picked up, and falls back to the statements recorded in the summary.
func caseStatements(caseDir string, summary report.Summary) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(caseDir, "case.sql"))
	if err != nil {
		if os.IsNotExist(err) && len(summary.SQL) > 0 {
			return summary.SQL, nil
		}
		return nil, err
	}
	statements := SplitSQL(string(data))
	if len(statements) == 0 {
		return nil, fmt.Errorf("case.sql in %s contains no statements", caseDir)
	}
	return statements, nil
}

// SplitSQL splits a script into statements on semicolons, respecting
// single-quoted literals such as TIMESTAMP '...' values.
func SplitSQL(input string) []string {
	var out []string
	var buf strings.Builder
	inQuote := false
	for i := 0; i < len(input); i++ {
		ch := input[i]
		switch {
		case ch == '\'':
			inQuote = !inQuote
			buf.WriteByte(ch)
		case ch == ';' && !inQuote:
			if stmt := strings.TrimSpace(buf.String()); stmt != "" {
				out = append(out, stmt)
			}
			buf.Reset()
		default:
			buf.WriteByte(ch)
		}
	}
	if stmt := strings.TrimSpace(buf.String()); stmt != "" {
		out = append(out, stmt)
	}
	return out
}
