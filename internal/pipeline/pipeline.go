// Package pipeline runs one history export: read, aggregate, rank, write.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/runnerr0/histrank/internal/aggregate"
	"github.com/runnerr0/histrank/internal/config"
	"github.com/runnerr0/histrank/internal/history"
	"github.com/runnerr0/histrank/internal/report"
)

// Options carries the settings shared by every source in one invocation.
type Options struct {
	Driver    string
	Snapshot  bool
	MinVisits int
	Logger    *log.Logger
	Metrics   *Metrics  // optional
	Out       io.Writer // receives the "Data saved" line; nil discards it
}

// OptionsFromConfig fills the database and threshold settings from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Driver:    cfg.Database.Driver,
		Snapshot:  cfg.Database.Snapshot,
		MinVisits: cfg.MinVisits,
	}
}

// Result summarizes a successful run.
type Result struct {
	Source      string        `json:"source"`
	Output      string        `json:"output"`
	RowsRead    int           `json:"rows_read"`
	InvalidURLs int           `json:"invalid_urls"`
	Entries     int           `json:"entries"`
	Duration    time.Duration `json:"duration_ns"`
}

// Run exports one source. It keeps no state between calls; on any error no
// report is written for src.
func Run(ctx context.Context, src config.SourceConfig, opts Options) (*Result, error) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.With("source", src.Name)

	res, err := run(ctx, src, opts, logger)
	elapsed := time.Since(start)

	if m := opts.Metrics; m != nil {
		m.RunDuration.WithLabelValues(src.Name).Set(elapsed.Seconds())
		if err != nil {
			m.FailuresTotal.WithLabelValues(src.Name).Inc()
		} else {
			m.RowsRead.WithLabelValues(src.Name).Add(float64(res.RowsRead))
			m.InvalidURLs.WithLabelValues(src.Name).Add(float64(res.InvalidURLs))
			m.Entries.WithLabelValues(src.Name).Set(float64(res.Entries))
			m.LastSuccess.WithLabelValues(src.Name).SetToCurrentTime()
		}
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}
	res.Duration = elapsed
	return res, nil
}

func run(ctx context.Context, src config.SourceConfig, opts Options, logger *log.Logger) (*Result, error) {
	kind, err := history.ParseKind(src.Kind)
	if err != nil {
		return nil, err
	}

	dbPath, err := config.ExpandPath(src.Database)
	if err != nil {
		return nil, err
	}
	outPath, err := config.ExpandPath(src.Output)
	if err != nil {
		return nil, err
	}

	logger.Debug("Reading history", "database", dbPath, "kind", kind, "min_visits", opts.MinVisits)
	visits, err := history.ReadVisits(ctx, kind, dbPath, history.ReadOptions{
		Driver:    opts.Driver,
		Snapshot:  opts.Snapshot,
		MinVisits: opts.MinVisits,
	})
	if err != nil {
		return nil, err
	}

	agg, skipped := aggregate.Build(visits, logger)
	entries := agg.Entries()
	report.Sort(entries)

	if err := report.Write(outPath, entries); err != nil {
		return nil, err
	}

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Data saved to %s\n", outPath)
	}
	logger.Info("Report written", "rows", len(visits), "invalid", skipped, "entries", len(entries), "output", outPath)

	return &Result{
		Source:      src.Name,
		Output:      outPath,
		RowsRead:    len(visits),
		InvalidURLs: skipped,
		Entries:     len(entries),
	}, nil
}
