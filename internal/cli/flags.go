package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file (default $HISTRANK_CONFIG or ~/.config/histrank/config.yaml)" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable debug logging"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ExportCommand runs the history pipeline for each selected source.
type ExportCommand struct {
	Source      []string `long:"source" short:"s" description:"Export only this source (repeatable; positional names also work)"`
	MetricsFile string   `long:"metrics-file" description:"Write run metrics to this file in Prometheus text format"`

	globals *GlobalFlags
	version string
}

// TopCommand prints the highest ranked entries of a written report.
type TopCommand struct {
	Source  string `long:"source" short:"s" description:"Source whose report to read (default: first configured)"`
	Limit   int    `long:"limit" short:"n" description:"Maximum entries to show" default:"10"`
	Domains bool   `long:"domains" description:"Only show scheme://host domain rollups"`

	globals *GlobalFlags
	version string
}

// StatusCommand shows configuration and per-source database/report state.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}
