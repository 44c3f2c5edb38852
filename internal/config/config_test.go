package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine != "duckdb" {
		t.Fatalf("engine %q, want duckdb", cfg.Engine)
	}
	if cfg.Seed != 42 || cfg.Rounds != 3 || cfg.QueriesPerRound != 10 {
		t.Fatalf("unexpected defaults: seed=%d rounds=%d queries=%d", cfg.Seed, cfg.Rounds, cfg.QueriesPerRound)
	}
	if cfg.Generation.MinTableCount != 3 || cfg.Generation.MaxTableCount != 10 {
		t.Fatalf("unexpected table bounds: %+v", cfg.Generation)
	}
	if !cfg.Values.Nullable || cfg.Values.NullProbability != 0.1 {
		t.Fatalf("unexpected value defaults: %+v", cfg.Values)
	}
}

func TestLoadPopulatesRunInfo(t *testing.T) {
	t.Setenv("HIBARI_CI", "true")
	t.Setenv("HIBARI_CI_COMMIT", "abc123")
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RunInfo == nil {
		t.Fatal("run info not populated")
	}
	if cfg.RunInfo.Commit != "abc123" {
		t.Fatalf("commit %q, want abc123", cfg.RunInfo.Commit)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
engine: mysql
dsn: "root:secret@tcp(10.0.0.1:4000)/"
database: fuzzdb
seed: 7
rounds: 5
generation:
  max_expr_level: 4
  where_percent: 50
values:
  null_probability: 0.25
whitelist:
  contains:
    - "division by zero"
  regex:
    - "cannot cast .* to"
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine != "mysql" || cfg.Seed != 7 || cfg.Rounds != 5 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Generation.MaxExprLevel != 4 || cfg.Generation.WherePercent != 50 {
		t.Fatalf("generation overrides not applied: %+v", cfg.Generation)
	}
	if cfg.Values.NullProbability != 0.25 {
		t.Fatalf("null probability %v, want 0.25", cfg.Values.NullProbability)
	}
	if len(cfg.Whitelist.Contains) != 1 || len(cfg.Whitelist.Regex) != 1 {
		t.Fatalf("whitelist not loaded: %+v", cfg.Whitelist)
	}
	if cfg.DSN != "root:secret@tcp(10.0.0.1:4000)/fuzzdb" {
		t.Fatalf("database not injected into DSN: %q", cfg.DSN)
	}
}

func TestNormalizeClamps(t *testing.T) {
	cfg := Config{}
	cfg.Generation.WherePercent = 150
	cfg.Generation.MinTableCount = 20
	cfg.Generation.MaxTableCount = 5
	cfg.Values.NullProbability = 2
	Normalize(&cfg)
	if cfg.Generation.WherePercent != 100 {
		t.Fatalf("where percent %d, want 100", cfg.Generation.WherePercent)
	}
	if cfg.Generation.MinTableCount != 5 {
		t.Fatalf("min table count %d, want clamped to max 5", cfg.Generation.MinTableCount)
	}
	if cfg.Values.NullProbability != 1 {
		t.Fatalf("null probability %v, want 1", cfg.Values.NullProbability)
	}
	if cfg.Rounds != 1 || cfg.Workers != 1 {
		t.Fatalf("zero counts not defaulted: rounds=%d workers=%d", cfg.Rounds, cfg.Workers)
	}
}

func TestNormalizeDisablesConsistencyWithoutGroups(t *testing.T) {
	cfg := Default()
	cfg.Sessions.SettingGroups = [][]string{{}}
	Normalize(&cfg)
	if cfg.Oracles.ConfigConsistency != 0 {
		t.Fatalf("consistency weight %d, want 0 with a single setting group", cfg.Oracles.ConfigConsistency)
	}
}

func TestAdminDSN(t *testing.T) {
	cases := []struct{ in, want string }{
		{"root:@tcp(127.0.0.1:4000)/fuzzdb", "root:@tcp(127.0.0.1:4000)/"},
		{"root:@tcp(127.0.0.1:4000)/fuzzdb?parseTime=true", "root:@tcp(127.0.0.1:4000)/?parseTime=true"},
		{"root:@tcp(127.0.0.1:4000)/", "root:@tcp(127.0.0.1:4000)/"},
		{"", ""},
	}
	for _, c := range cases {
		if got := AdminDSN(c.in); got != c.want {
			t.Fatalf("AdminDSN(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
