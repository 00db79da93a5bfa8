package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/runnerr0/histrank/internal/config"
	"github.com/runnerr0/histrank/internal/history"
	"github.com/runnerr0/histrank/internal/report"
)

// Execute implements the go-flags Commander interface for TopCommand.
func (c *TopCommand) Execute(args []string) error {
	cfg, _, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	return c.executeWithConfig(cfg, os.Stdout)
}

// executeWithConfig prints the top entries of the selected source's report (for testing).
func (c *TopCommand) executeWithConfig(cfg *config.Config, out io.Writer) error {
	if c.Limit <= 0 {
		return fmt.Errorf("--limit must be positive")
	}

	name := c.Source
	if name == "" && len(cfg.Sources) > 0 {
		name = cfg.Sources[0].Name
	}
	src, ok := cfg.Source(name)
	if !ok {
		return fmt.Errorf("unknown source %q (configured: %v)", name, cfg.SourceNames())
	}

	path, err := config.ExpandPath(src.Output)
	if err != nil {
		return err
	}
	entries, err := report.Read(path)
	if err != nil {
		return fmt.Errorf("%w (run `histrank export %s` first)", err, src.Name)
	}

	total := len(entries)
	if c.Domains {
		entries = report.Domains(entries)
	}
	if len(entries) > c.Limit {
		entries = entries[:c.Limit]
	}

	if c.globals != nil && c.globals.JSON {
		data, err := report.Encode(entries)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	return c.printHuman(out, src.Name, total, entries)
}

func (c *TopCommand) printHuman(out io.Writer, source string, total int, entries []history.Visit) error {
	if len(entries) == 0 {
		fmt.Fprintf(out, "No entries in the %s report.\n", source)
		return nil
	}

	kind := "entries"
	if c.Domains {
		kind = "domains"
	}
	fmt.Fprintf(out, "Top %d %s for %s (%s entries in report)\n\n", len(entries), kind, source, formatNumber(int64(total)))

	for i, e := range entries {
		fmt.Fprintf(out, "%3d. %-60s %10s\n", i+1, e.URL, formatNumber(e.TotalVisits))
		if e.Title != nil && *e.Title != "" && !c.Domains {
			fmt.Fprintf(out, "     %s\n", *e.Title)
		}
	}
	return nil
}
