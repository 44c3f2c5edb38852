// Package config loads and normalizes runner configuration.
package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"hibari/internal/runinfo"
	"hibari/internal/value"
)

// Config captures all runtime options for the fuzz runner.
type Config struct {
	// Engine selects the engine adapter: "duckdb" (in-process, default) or
	// "mysql" (remote, DSN-based).
	Engine   string `yaml:"engine"`
	DSN      string `yaml:"dsn"`
	Database string `yaml:"database"`

	Seed            int64 `yaml:"seed"`
	Rounds          int   `yaml:"rounds"`
	QueriesPerRound int   `yaml:"queries_per_round"`
	Workers         int   `yaml:"workers"`
	TimeoutSeconds  int   `yaml:"timeout_seconds"`

	Generation Generation    `yaml:"generation"`
	Values     value.Config  `yaml:"values"`
	Oracles    OracleWeights `yaml:"oracles"`
	Whitelist  Whitelist     `yaml:"whitelist"`
	Sessions   Sessions      `yaml:"sessions"`
	Logging    Logging       `yaml:"logging"`
	Reports    Reports       `yaml:"reports"`
	Storage    StorageConfig `yaml:"storage"`

	RunInfo *runinfo.BasicInfo `yaml:"-"`
}

// Generation bounds schema, data, and expression generation.
type Generation struct {
	MaxTableCount     int `yaml:"max_table_count"`
	MinTableCount     int `yaml:"min_table_count"`
	MaxViewCount      int `yaml:"max_view_count"`
	MaxColumnCount    int `yaml:"max_column_count"`
	MaxRowCount       int `yaml:"max_row_count"`
	MaxExprLevel      int `yaml:"max_expr_level"`
	MaxInsertPerTable int `yaml:"max_insert_per_table"`
	MaxQueryTables    int `yaml:"max_query_tables"`
	WherePercent      int `yaml:"where_percent"`
}

// OracleWeights sets probabilities for oracle selection.
type OracleWeights struct {
	NoCrash           int `yaml:"no_crash"`
	NestedQueries     int `yaml:"nested_queries"`
	ConfigConsistency int `yaml:"config_consistency"`
}

// Whitelist extends the built-in error whitelist.
type Whitelist struct {
	Contains []string `yaml:"contains"`
	Regex    []string `yaml:"regex"`
}

// Sessions configures the session setting groups compared by the
// cross-configuration oracle. Each entry is a group of SET statements applied
// to a dedicated engine session.
type Sessions struct {
	SettingGroups [][]string `yaml:"setting_groups"`
}

// Logging controls stdout logging behavior.
type Logging struct {
	Verbose               bool   `yaml:"verbose"`
	File                  string `yaml:"file"`
	ReportIntervalSeconds int    `yaml:"report_interval_seconds"`
	SlowQueryMs           int    `yaml:"slow_query_ms"`
}

// Reports controls bug report artifacts.
type Reports struct {
	OutputDir string `yaml:"output_dir"`
}

// StorageConfig holds external storage settings for report uploads.
type StorageConfig struct {
	S3  S3Config  `yaml:"s3"`
	GCS GCSConfig `yaml:"gcs"`
}

// CloudEnabled reports whether any cloud storage backend is enabled.
func (s StorageConfig) CloudEnabled() bool {
	return s.GCS.Enabled || s.S3.Enabled
}

// S3Config configures S3 uploads (and S3-compatible endpoints).
type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// GCSConfig configures GCS uploads.
type GCSConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

// Load reads configuration from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	Normalize(&cfg)
	cfg.RunInfo = runinfo.FromEnv()
	return cfg, nil
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Engine:          "duckdb",
		DSN:             "root:@tcp(127.0.0.1:4000)/",
		Database:        "hibari_fuzz",
		Seed:            42,
		Rounds:          3,
		QueriesPerRound: 10,
		Workers:         1,
		TimeoutSeconds:  2,
		Generation: Generation{
			MaxTableCount:     10,
			MinTableCount:     3,
			MaxViewCount:      3,
			MaxColumnCount:    5,
			MaxRowCount:       100,
			MaxExprLevel:      3,
			MaxInsertPerTable: 20,
			MaxQueryTables:    3,
			WherePercent:      90,
		},
		Values: value.DefaultConfig(),
		Oracles: OracleWeights{
			NoCrash:           6,
			NestedQueries:     3,
			ConfigConsistency: 1,
		},
		Sessions: Sessions{
			SettingGroups: [][]string{
				{},
				{"SET threads = 1"},
			},
		},
		Logging: Logging{
			ReportIntervalSeconds: 5,
			SlowQueryMs:           500,
		},
		Reports: Reports{OutputDir: "reports"},
	}
}

// Normalize clamps and defaults configuration values in place.
func Normalize(cfg *Config) {
	if cfg.Engine == "" {
		cfg.Engine = "duckdb"
	}
	if cfg.Rounds <= 0 {
		cfg.Rounds = 1
	}
	if cfg.QueriesPerRound <= 0 {
		cfg.QueriesPerRound = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 2
	}
	gen := &cfg.Generation
	if gen.MaxColumnCount <= 0 {
		gen.MaxColumnCount = 5
	}
	if gen.MaxRowCount < 0 {
		gen.MaxRowCount = 0
	}
	if gen.MaxTableCount <= 0 {
		gen.MaxTableCount = 10
	}
	if gen.MinTableCount <= 0 {
		gen.MinTableCount = 1
	}
	if gen.MinTableCount > gen.MaxTableCount {
		gen.MinTableCount = gen.MaxTableCount
	}
	if gen.MaxViewCount < 0 {
		gen.MaxViewCount = 0
	}
	if gen.MaxExprLevel <= 0 {
		gen.MaxExprLevel = 3
	}
	if gen.MaxInsertPerTable <= 0 {
		gen.MaxInsertPerTable = 20
	}
	if gen.MaxQueryTables <= 0 {
		gen.MaxQueryTables = 3
	}
	if gen.WherePercent < 0 {
		gen.WherePercent = 0
	}
	if gen.WherePercent > 100 {
		gen.WherePercent = 100
	}
	if cfg.Values.NullProbability < 0 {
		cfg.Values.NullProbability = 0
	}
	if cfg.Values.NullProbability > 1 {
		cfg.Values.NullProbability = 1
	}
	if cfg.Oracles.NoCrash <= 0 && cfg.Oracles.NestedQueries <= 0 && cfg.Oracles.ConfigConsistency <= 0 {
		cfg.Oracles.NoCrash = 1
	}
	if len(cfg.Sessions.SettingGroups) < 2 {
		cfg.Oracles.ConfigConsistency = 0
	}
	if cfg.Logging.SlowQueryMs <= 0 {
		cfg.Logging.SlowQueryMs = 500
	}
	if cfg.Reports.OutputDir == "" {
		cfg.Reports.OutputDir = "reports"
	}
	if cfg.Database != "" {
		cfg.DSN = ensureDatabaseInDSN(cfg.DSN, cfg.Database)
	}
}

func ensureDatabaseInDSN(dsn string, dbName string) string {
	if dsn == "" || dbName == "" {
		return dsn
	}
	slash := strings.Index(dsn, "/")
	if slash < 0 {
		return dsn
	}
	query := strings.Index(dsn[slash+1:], "?")
	if query >= 0 {
		query = slash + 1 + query
	}
	afterSlash := dsn[slash+1:]
	if query >= 0 {
		afterSlash = dsn[slash+1 : query]
	}
	if strings.TrimSpace(afterSlash) != "" {
		return dsn
	}
	if query >= 0 {
		return dsn[:slash+1] + dbName + dsn[query:]
	}
	return dsn + dbName
}

// AdminDSN strips the database name from a DSN while preserving query parameters.
func AdminDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	slash := strings.Index(dsn, "/")
	if slash < 0 {
		return dsn
	}
	query := strings.Index(dsn[slash+1:], "?")
	if query >= 0 {
		query = slash + 1 + query
		return dsn[:slash+1] + dsn[query:]
	}
	return dsn[:slash+1]
}
