package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Report formats understood by the map command.
const (
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatMarkdown = "md"
	FormatXLSX     = "xlsx"
)

var knownFormats = map[string]bool{
	FormatCSV:      true,
	FormatJSON:     true,
	FormatMarkdown: true,
	FormatXLSX:     true,
}

// Run is the configuration of a mapping run and the review server.
type Run struct {
	Stores   Stores   `toml:"stores"`
	Output   Output   `toml:"output"`
	Matching Matching `toml:"matching"`
	Cache    Cache    `toml:"cache"`
	Server   Server   `toml:"server"`
	Log      Log      `toml:"log"`
}

// Stores locates the used-course and reference stores. Values are SQLite
// paths or Postgres DSNs.
type Stores struct {
	Used      string `toml:"used"`
	Reference string `toml:"reference"`
}

// Output selects where reports go and which are written.
type Output struct {
	Dir     string   `toml:"dir"`
	Formats []string `toml:"formats"`
}

// Matching tunes the batch, not the scoring.
type Matching struct {
	Workers        int  `toml:"workers"`
	Limit          int  `toml:"limit"` // 0 means all
	NewOnly        bool `toml:"new_only"`
	ParseAddresses bool `toml:"parse_addresses"`
}

// Cache points at an optional msgpack snapshot of the reference pool.
type Cache struct {
	Pool string `toml:"pool"`
}

// Server configures the review server.
type Server struct {
	Host   string `toml:"host"`
	Port   int    `toml:"port"`
	Report string `toml:"report"` // JSON mapping report to serve
}

// Log configures the global logger.
type Log struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

// DefaultRun returns the defaults used when nothing else is configured.
func DefaultRun() Run {
	return Run{
		Stores: Stores{
			Used:      "backend/app/garmin.db",
			Reference: "dbs/golf_mapper_sqlite.db",
		},
		Output: Output{
			Dir:     "dbs",
			Formats: []string{FormatCSV, FormatJSON, FormatMarkdown},
		},
		Matching: Matching{Workers: 1},
		Server: Server{
			Host:   "localhost",
			Port:   8080,
			Report: "dbs/garmin_to_golf_courses_mapping.json",
		},
		Log: Log{Level: "info"},
	}
}

// LoadRun builds a run configuration from defaults, then the TOML file at
// path (skipped when path is empty), then COURSEMAP_* environment variables.
// Command-line flags are applied on top by the caller.
func LoadRun(path string) (Run, error) {
	run := DefaultRun()

	if path != "" {
		md, err := toml.DecodeFile(path, &run)
		if err != nil {
			return Run{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Run{}, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	}

	run.ApplyEnv()
	return run, run.Validate()
}

// ApplyEnv overrides fields from COURSEMAP_* variables.
func (r *Run) ApplyEnv() {
	r.Stores.Used = GetEnv(EnvPrefix+"USED_STORE", r.Stores.Used)
	r.Stores.Reference = GetEnv(EnvPrefix+"REFERENCE_STORE", r.Stores.Reference)
	r.Output.Dir = GetEnv(EnvPrefix+"OUTPUT_DIR", r.Output.Dir)
	r.Output.Formats = GetEnvList(EnvPrefix+"FORMATS", r.Output.Formats)
	r.Matching.Workers = GetEnvInt(EnvPrefix+"WORKERS", r.Matching.Workers)
	r.Matching.Limit = GetEnvInt(EnvPrefix+"LIMIT", r.Matching.Limit)
	r.Matching.NewOnly = GetEnvBool(EnvPrefix+"NEW_ONLY", r.Matching.NewOnly)
	r.Matching.ParseAddresses = GetEnvBool(EnvPrefix+"PARSE_ADDRESSES", r.Matching.ParseAddresses)
	r.Cache.Pool = GetEnv(EnvPrefix+"POOL_CACHE", r.Cache.Pool)
	r.Server.Host = GetEnv(EnvPrefix+"HOST", r.Server.Host)
	r.Server.Port = GetEnvInt(EnvPrefix+"PORT", r.Server.Port)
	r.Server.Report = GetEnv(EnvPrefix+"REPORT", r.Server.Report)
	r.Log.Level = GetEnv("LOG_LEVEL", r.Log.Level)
	r.Log.JSON = GetEnvBool("LOG_JSON", r.Log.JSON)
}

// Validate rejects settings no run can use.
func (r Run) Validate() error {
	var errs []error
	if r.Matching.Workers < 1 {
		errs = append(errs, fmt.Errorf("matching.workers must be at least 1, got %d", r.Matching.Workers))
	}
	if r.Matching.Limit < 0 {
		errs = append(errs, fmt.Errorf("matching.limit must not be negative, got %d", r.Matching.Limit))
	}
	if r.Server.Port < 1 || r.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", r.Server.Port))
	}
	if len(r.Output.Formats) == 0 {
		errs = append(errs, errors.New("output.formats must name at least one format"))
	}
	for _, f := range r.Output.Formats {
		if !knownFormats[f] {
			errs = append(errs, fmt.Errorf("unknown output format %q", f))
		}
	}
	return errors.Join(errs...)
}

// WantsFormat reports whether the run writes the given report format.
func (r Run) WantsFormat(format string) bool {
	for _, f := range r.Output.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Exists reports whether a config file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
