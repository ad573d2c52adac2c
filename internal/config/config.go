package config

import (
	"fmt"
	"os"
	"strings"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Output formats.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// Input encodings.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin1"
)

// Config holds all tool settings, populated from environment variables.
type Config struct {
	LogLevel  string
	LogFormat string

	OutputSuffix  string
	OutputFormat  string
	InputEncoding string

	// MetricsFile, when set, receives a Prometheus textfile after each run.
	MetricsFile string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:      strings.ToLower(sharedcfg.EnvOrDefault("LOG_LEVEL", "info")),
		LogFormat:     strings.ToLower(sharedcfg.EnvOrDefault("LOG_FORMAT", "text")),
		OutputSuffix:  sharedcfg.EnvOrDefault("OUTPUT_SUFFIX", "_viento_limpio"),
		OutputFormat:  strings.ToLower(sharedcfg.EnvOrDefault("OUTPUT_FORMAT", FormatCSV)),
		InputEncoding: normalizeEncoding(sharedcfg.EnvOrDefault("INPUT_ENCODING", EncodingUTF8)),
		MetricsFile:   os.Getenv("METRICS_FILE"),
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}
	if cfg.OutputFormat != FormatCSV && cfg.OutputFormat != FormatParquet {
		return nil, fmt.Errorf("invalid OUTPUT_FORMAT %q", cfg.OutputFormat)
	}
	if cfg.InputEncoding != EncodingUTF8 && cfg.InputEncoding != EncodingLatin1 {
		return nil, fmt.Errorf("invalid INPUT_ENCODING %q", cfg.InputEncoding)
	}
	if strings.ContainsAny(cfg.OutputSuffix, `/\`) {
		return nil, fmt.Errorf("invalid OUTPUT_SUFFIX %q", cfg.OutputSuffix)
	}

	return cfg, nil
}

func normalizeEncoding(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "utf8", "utf-8":
		return EncodingUTF8
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return EncodingLatin1
	default:
		return s
	}
}
