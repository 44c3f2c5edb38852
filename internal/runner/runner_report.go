package runner

import (
	"context"
	"strings"
	"time"

	"hibari/internal/oracle"
	"hibari/internal/report"
	"hibari/internal/util"
)

// reportBug persists a failing case to disk and optionally uploads it.
// Reporting failures are logged but never abort the run; the bug is
// already in the log stream at this point.
func (r *Runner) reportBug(ctx context.Context, o oracle.Oracle, results []oracle.ExecResult, round, queryIndex int) {
	body := o.ErrorReport(results)
	util.Bugf("%s", body)

	c, err := r.reporter.NewCase()
	if err != nil {
		util.Errorf("case dir allocation failed: %v", err)
		return
	}
	statements := make([]string, 0, len(results))
	var firstErr string
	for _, res := range results {
		statements = append(statements, res.Query.SQL)
		if firstErr == "" && res.Err != nil {
			firstErr = res.Err.Error()
		}
	}
	if err := r.reporter.WriteSQL(c, "case.sql", dedupe(statements)); err != nil {
		util.Errorf("case SQL write failed case=%s err=%v", c.ID, err)
	}
	if err := r.reporter.WriteText(c, "report.txt", body); err != nil {
		util.Errorf("case report write failed case=%s err=%v", c.ID, err)
	}

	summary := report.Summary{
		Oracle:     o.Name(),
		SQL:        dedupe(statements),
		Error:      firstErr,
		ErrorKind:  errorKind(results),
		Seed:       r.cfg.Seed,
		Round:      round,
		QueryIndex: queryIndex,
		Engine:     r.cfg.Engine,
		CaseID:     c.ID,
		CaseDir:    c.Dir,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
	if info := r.cfg.RunInfo; info != nil {
		summary.CI = info.CI
		summary.Repository = info.Repository
		summary.CommitSHA = info.Commit
		summary.RunID = info.RunID
	}
	if name, codec, err := r.reporter.WriteCaseArchive(c); err != nil {
		util.Errorf("case archive failed case=%s err=%v", c.ID, err)
	} else {
		summary.ArchiveName = name
		summary.ArchiveCodec = codec
	}
	if r.uploader.Enabled() {
		if location, err := r.uploader.UploadDir(ctx, c.Dir); err != nil {
			util.Errorf("case upload failed case=%s err=%v", c.ID, err)
		} else {
			summary.UploadLocation = location
			util.Highlightf("case uploaded case=%s location=%s", c.ID, location)
		}
	}
	if err := r.reporter.WriteSummary(c, summary); err != nil {
		util.Errorf("case summary write failed case=%s err=%v", c.ID, err)
	}
	util.Highlightf("bug case recorded case=%s dir=%s oracle=%s", c.ID, c.Dir, o.Name())
}

// errorKind labels the dominant failure of a result set.
func errorKind(results []oracle.ExecResult) string {
	kind := "consistency"
	for _, res := range results {
		if res.Err == nil {
			continue
		}
		if strings.Contains(res.Err.Error(), "query planning failed") {
			return "planning"
		}
		kind = "execution"
	}
	return kind
}

func dedupe(statements []string) []string {
	seen := make(map[string]struct{}, len(statements))
	out := make([]string, 0, len(statements))
	for _, s := range statements {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
