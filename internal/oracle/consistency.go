package oracle

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ConfigConsistency runs the same query once per session setting group
// and expects every session to agree. A query may fail, but it must
// fail in every session; when it succeeds, the row counts must match.
type ConfigConsistency struct{}

// Name identifies the oracle in logs and reports.
func (o ConfigConsistency) Name() string { return "config_consistency" }

// GenerateQueries produces the same random SELECT once per session.
func (o ConfigConsistency) GenerateQueries(env *Env) ([]QueryContext, error) {
	if len(env.Sessions) < 2 {
		return nil, errors.New("config consistency oracle needs at least two sessions")
	}
	q, err := env.Gen.GenerateSelect(nil)
	if err != nil {
		return nil, err
	}
	sql := q.SQLString()
	out := make([]QueryContext, 0, len(env.Sessions))
	for i, sess := range env.Sessions {
		out = append(out, QueryContext{
			SQL:         sql,
			Exec:        sess,
			Description: fmt.Sprintf("setting group %d", i),
		})
	}
	return out, nil
}

// ValidateConsistency checks that all sessions agree on the outcome.
func (o ConfigConsistency) ValidateConsistency(results []ExecResult) error {
	if len(results) < 2 {
		return nil
	}
	base := results[0]
	for _, res := range results[1:] {
		if (base.Err == nil) != (res.Err == nil) {
			return errors.Errorf("error disagreement between %s and %s",
				base.Query.Description, res.Query.Description)
		}
		if base.Err != nil {
			continue
		}
		if base.Rows.RowCount() != res.Rows.RowCount() {
			return errors.Errorf("row count disagreement: %s returned %d rows, %s returned %d rows",
				base.Query.Description, base.Rows.RowCount(),
				res.Query.Description, res.Rows.RowCount())
		}
	}
	return nil
}

// ErrorReport renders a failure report with the per-session outcomes.
func (o ConfigConsistency) ErrorReport(results []ExecResult) string {
	var sb strings.Builder
	sb.WriteString("Config Consistency Oracle Test Failed\n")
	if len(results) > 0 {
		fmt.Fprintf(&sb, "Query:\n%s;\n", results[0].Query.SQL)
	}
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(&sb, "%s: error: %v\n", res.Query.Description, res.Err)
			continue
		}
		fmt.Fprintf(&sb, "%s: %d rows\n", res.Query.Description, res.Rows.RowCount())
	}
	sb.WriteString("Expected: the same query returns the same result under every session setting group\n")
	sb.WriteString("Actual: the setting groups disagreed on error status or row count\n")
	sb.WriteString("Check the session settings above; results must not depend on them.\n")
	return sb.String()
}
