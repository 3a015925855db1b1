package server

import "os"

// Config contains the server configuration.
type Config struct {
	// Name and Version are reported to the client during initialize.
	Name    string
	Version string

	// HTTPPort selects the HTTP transport when positive; zero means the
	// stdio transport.
	HTTPPort int

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string
}

// DefaultConfig returns the configuration used when no flags are given.
// BUSINESSMATH_LOG_LEVEL overrides the log level.
func DefaultConfig() Config {
	cfg := Config{
		Name:     "businessmath-mcp",
		Version:  "1.0.0",
		LogLevel: "info",
	}
	if lvl := os.Getenv("BUSINESSMATH_LOG_LEVEL"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg
}
