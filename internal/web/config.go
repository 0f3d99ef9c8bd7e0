package web

import (
	"github.com/golfmapper/coursemap/internal/config"
)

// Config represents the review server configuration
type Config struct {
	Server ServerConfig
	// ReportPath is the JSON mapping report served under /api/mappings.
	ReportPath string
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port int
	Host string
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	run := config.DefaultRun()
	return FromRun(&run)
}

// FromRun takes the server section of a run configuration.
func FromRun(run *config.Run) *Config {
	return &Config{
		Server: ServerConfig{
			Port: run.Server.Port,
			Host: run.Server.Host,
		},
		ReportPath: run.Server.Report,
	}
}
