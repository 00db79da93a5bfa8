package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/runnerr0/histrank/internal/config"
	"github.com/runnerr0/histrank/internal/pipeline"
)

// exportJSON is the JSON output structure for the export command.
type exportJSON struct {
	Results []*pipeline.Result `json:"results"`
	Failed  []exportFailure    `json:"failed"`
}

type exportFailure struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	cfg, _, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg, c.globals != nil && c.globals.Verbose)

	return c.executeWithConfig(context.Background(), cfg, logger, os.Stdout, args)
}

// executeWithConfig runs the export against a provided config (for testing).
// Sources run one after another; a failure is logged and the rest still run.
func (c *ExportCommand) executeWithConfig(ctx context.Context, cfg *config.Config, logger *log.Logger, out io.Writer, args []string) error {
	sources, err := c.selectSources(cfg, args)
	if err != nil {
		return err
	}

	asJSON := c.globals != nil && c.globals.JSON

	metricsFile := c.MetricsFile
	if metricsFile == "" {
		metricsFile = cfg.Metrics.Textfile
	}
	var metrics *pipeline.Metrics
	if metricsFile != "" {
		metrics = pipeline.NewMetrics()
	}

	opts := pipeline.OptionsFromConfig(cfg)
	opts.Logger = logger
	opts.Metrics = metrics
	if !asJSON {
		opts.Out = out
	}

	summary := exportJSON{Results: []*pipeline.Result{}, Failed: []exportFailure{}}
	var errs []error
	for _, src := range sources {
		res, err := pipeline.Run(ctx, src, opts)
		if err != nil {
			logger.Error("Export failed", "source", src.Name, "err", err)
			summary.Failed = append(summary.Failed, exportFailure{Source: src.Name, Error: err.Error()})
			errs = append(errs, err)
			continue
		}
		summary.Results = append(summary.Results, res)
	}

	if metrics != nil {
		path, err := config.ExpandPath(metricsFile)
		if err == nil {
			err = metrics.WriteTextfile(path)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		} else {
			logger.Debug("Metrics written", "path", path)
		}
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return err
		}
	}

	if len(summary.Failed) > 0 {
		return fmt.Errorf("%d of %d exports failed: %w", len(summary.Failed), len(sources), errors.Join(errs...))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// selectSources resolves --source flags and positional names against cfg.
// With no names, every configured source is selected.
func (c *ExportCommand) selectSources(cfg *config.Config, args []string) ([]config.SourceConfig, error) {
	names := append(append([]string{}, c.Source...), args...)
	if len(names) == 0 {
		return cfg.Sources, nil
	}

	seen := make(map[string]bool, len(names))
	var selected []config.SourceConfig
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		src, ok := cfg.Source(name)
		if !ok {
			return nil, fmt.Errorf("unknown source %q (configured: %v)", name, cfg.SourceNames())
		}
		selected = append(selected, src)
	}
	return selected, nil
}
