package config

import (
	"os"
	"runtime"
	"strconv"

	"radbound/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Paths     PathConfig
	Table     TableConfig
	Search    SearchConfig
	Ledger    LedgerConfig
	Profiling ProfilingConfig
}

// PathConfig holds file system paths
type PathConfig struct {
	CasesDir  string
	TablePath string
	ReportDir string // empty disables report files
}

// TableConfig holds the shape and refinement effort of the tail table
type TableConfig struct {
	CoefGran       int
	ThreshGran     int
	MaxBoundSigmas int
	Iterations     int
}

// MaxBound is the number of threshold bins on each side of zero.
func (t TableConfig) MaxBound() int {
	return t.MaxBoundSigmas * t.ThreshGran
}

// SearchConfig holds prover settings
type SearchConfig struct {
	Workers int
}

// LedgerConfig holds the run ledger connection. An empty DSN disables it.
type LedgerConfig struct {
	Driver string
	DSN    string
}

// Enabled reports whether runs should be recorded.
func (l LedgerConfig) Enabled() bool { return l.DSN != "" }

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Paths:     *loadPathConfig(),
		Table:     *loadTableConfig(),
		Search:    *loadSearchConfig(),
		Ledger:    *loadLedgerConfig(),
		Profiling: *loadProfilingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadPathConfig() *PathConfig {
	return &PathConfig{
		CasesDir:  getEnvOrDefault("CASES_DIR", "cases"),
		TablePath: getEnvOrDefault("TABLE_PATH", "bounder.csv"),
		ReportDir: getEnvOrDefault("REPORT_DIR", ""),
	}
}

func loadTableConfig() *TableConfig {
	return &TableConfig{
		CoefGran:       getEnvIntOrDefault("COEF_GRAN", 2000),
		ThreshGran:     getEnvIntOrDefault("THRESH_GRAN", 2000),
		MaxBoundSigmas: getEnvIntOrDefault("MAX_BOUND_SIGMAS", 3),
		Iterations:     getEnvIntOrDefault("D_ITERATIONS", 1000),
	}
}

func loadSearchConfig() *SearchConfig {
	return &SearchConfig{
		Workers: getEnvIntOrDefault("WORKERS", runtime.GOMAXPROCS(0)),
	}
}

func loadLedgerConfig() *LedgerConfig {
	return &LedgerConfig{
		Driver: getEnvOrDefault("LEDGER_DRIVER", "sqlite"),
		DSN:    getEnvOrDefault("LEDGER_DSN", ""),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if config.Paths.CasesDir == "" {
		return errors.ConfigInvalid("cases directory is required")
	}
	if config.Paths.TablePath == "" {
		return errors.ConfigInvalid("table path is required")
	}
	t := config.Table
	if t.CoefGran < 1 || t.ThreshGran < 1 || t.MaxBoundSigmas < 1 {
		return errors.ConfigInvalid("table granularities must be positive")
	}
	if t.Iterations < 0 {
		return errors.ConfigInvalid("D_ITERATIONS cannot be negative")
	}
	if config.Search.Workers < 1 {
		return errors.ConfigInvalid("WORKERS must be positive")
	}
	switch config.Ledger.Driver {
	case "sqlite", "postgres":
	default:
		return errors.ConfigInvalid("LEDGER_DRIVER must be sqlite or postgres")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
