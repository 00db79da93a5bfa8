package config

import "github.com/runnerr0/histrank/internal/history"

// DefaultMinVisits is the visit_count threshold: only rows with more visits are read.
const DefaultMinVisits = 10

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		MinVisits: DefaultMinVisits,
		Database: DatabaseConfig{
			Driver:   DriverCgo,
			Snapshot: true,
		},
		Sources: DefaultSources(),
		Logging: LoggingConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Textfile: "",
		},
	}
}

// DefaultSources returns the conventional Chrome and Firefox locations:
// history files dropped into put-browser-history-files-here/ and reports
// written under out/.
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		{
			Name:     "chrome",
			Kind:     string(history.Chrome),
			Database: "put-browser-history-files-here/History",
			Output:   "out/chrome_output.json",
		},
		{
			Name:     "firefox",
			Kind:     string(history.Firefox),
			Database: "put-browser-history-files-here/places.sqlite",
			Output:   "out/firefox_output.json",
		},
	}
}
