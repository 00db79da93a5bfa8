package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/runnerr0/histrank/internal/config"
)

// loadConfig resolves and loads the configuration. An explicit --config or
// $HISTRANK_CONFIG must exist; the default location is created on first use.
func loadConfig(globals *GlobalFlags) (*config.Config, string, error) {
	explicit := ""
	if globals != nil {
		explicit = globals.Config
	}

	path, err := config.ResolvePath(explicit)
	if err != nil {
		return nil, "", err
	}

	var cfg *config.Config
	if explicit != "" || os.Getenv(config.EnvConfigPath) != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrCreateAt(path)
	}
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// newLogger builds the stderr logger. --verbose forces debug level.
func newLogger(w io.Writer, cfg *config.Config, verbose bool) *log.Logger {
	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "histrank",
	})
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}

	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if i > 0 {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
