package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/runnerr0/histrank/internal/config"
	"github.com/runnerr0/histrank/internal/report"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version    string         `json:"version"`
	ConfigPath string         `json:"config_path"`
	Driver     string         `json:"driver"`
	Snapshot   bool           `json:"snapshot"`
	MinVisits  int            `json:"min_visits"`
	Sources    []sourceStatus `json:"sources"`
}

type sourceStatus struct {
	Name              string `json:"name"`
	Kind              string `json:"kind"`
	Database          string `json:"database"`
	DatabaseExists    bool   `json:"database_exists"`
	DatabaseSizeBytes int64  `json:"database_size_bytes"`
	Report            string `json:"report"`
	ReportExists      bool   `json:"report_exists"`
	ReportEntries     int    `json:"report_entries"`
	ReportUpdated     string `json:"report_updated,omitempty"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	cfg, path, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	return c.executeWithConfig(cfg, path, os.Stdout)
}

// executeWithConfig reports on a provided config (for testing).
func (c *StatusCommand) executeWithConfig(cfg *config.Config, cfgPath string, out io.Writer) error {
	st := statusJSON{
		Version:    c.version,
		ConfigPath: cfgPath,
		Driver:     cfg.Database.Driver,
		Snapshot:   cfg.Database.Snapshot,
		MinVisits:  cfg.MinVisits,
		Sources:    make([]sourceStatus, 0, len(cfg.Sources)),
	}
	for _, src := range cfg.Sources {
		st.Sources = append(st.Sources, inspectSource(src))
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}
	return printStatusHuman(out, st)
}

// inspectSource stats a source's database and report. Problems are
// reported as missing rather than returned; status never fails on them.
func inspectSource(src config.SourceConfig) sourceStatus {
	s := sourceStatus{Name: src.Name, Kind: src.Kind, Database: src.Database, Report: src.Output}

	if dbPath, err := config.ExpandPath(src.Database); err == nil {
		if info, err := os.Stat(dbPath); err == nil && !info.IsDir() {
			s.DatabaseExists = true
			s.DatabaseSizeBytes = info.Size()
		}
	}

	if outPath, err := config.ExpandPath(src.Output); err == nil {
		if info, err := os.Stat(outPath); err == nil {
			s.ReportExists = true
			s.ReportUpdated = info.ModTime().UTC().Format("2006-01-02T15:04:05Z")
			if entries, err := report.Read(outPath); err == nil {
				s.ReportEntries = len(entries)
			}
		}
	}

	return s
}

func printStatusHuman(out io.Writer, st statusJSON) error {
	fmt.Fprintln(out, "histrank Status")
	fmt.Fprintln(out, "===============")
	fmt.Fprintf(out, "Version:       %s\n", st.Version)
	fmt.Fprintf(out, "Config:        %s\n", st.ConfigPath)
	snapshot := "direct read-only"
	if st.Snapshot {
		snapshot = "snapshot copy"
	}
	fmt.Fprintf(out, "Driver:        %s (%s)\n", st.Driver, snapshot)
	fmt.Fprintf(out, "Min visits:    > %d\n", st.MinVisits)

	for _, s := range st.Sources {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%s (%s)\n", s.Name, s.Kind)
		if s.DatabaseExists {
			fmt.Fprintf(out, "  Database:    %s (%s)\n", s.Database, formatBytes(s.DatabaseSizeBytes))
		} else {
			fmt.Fprintf(out, "  Database:    %s (missing)\n", s.Database)
		}
		if s.ReportExists {
			fmt.Fprintf(out, "  Report:      %s (%s entries, %s)\n", s.Report, formatNumber(int64(s.ReportEntries)), s.ReportUpdated)
		} else {
			fmt.Fprintf(out, "  Report:      %s (not written)\n", s.Report)
		}
	}
	return nil
}
