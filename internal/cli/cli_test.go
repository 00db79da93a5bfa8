package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/histrank/internal/report"
)

func TestVersionFlag(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := RunWithArgs("0.1.0-test", []string{"--version"})

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	assert.NoError(t, err)
	assert.Contains(t, output, "histrank 0.1.0-test")
}

func TestVersionOutputFormat(t *testing.T) {
	output := captureOutput(t, func() {
		_ = RunWithArgs("1.2.3", []string{"--version"})
	})
	assert.Equal(t, "histrank 1.2.3", strings.TrimSpace(output))
}

func TestExportSubcommandRecognized(t *testing.T) {
	parser, _, _ := buildParser("test")
	parser.CommandHandler = noExecute
	_, err := parser.ParseArgs([]string{"export"})
	assert.NoError(t, err)
}

func TestTopSubcommandRecognized(t *testing.T) {
	parser, _, _ := buildParser("test")
	parser.CommandHandler = noExecute
	_, err := parser.ParseArgs([]string{"top"})
	assert.NoError(t, err)
}

func TestStatusSubcommandRecognized(t *testing.T) {
	parser, _, _ := buildParser("test")
	parser.CommandHandler = noExecute
	_, err := parser.ParseArgs([]string{"status"})
	assert.NoError(t, err)
}

func TestAllSubcommandsExist(t *testing.T) {
	expected := []string{"export", "top", "status"}
	parser, _, _ := buildParser("test")

	for _, name := range expected {
		cmd := parser.Find(name)
		assert.NotNil(t, cmd, "subcommand %q should exist", name)
	}
}

func TestUnknownSubcommandFails(t *testing.T) {
	parser, _, _ := buildParser("test")
	_, err := parser.ParseArgs([]string{"nonexistent"})
	require.Error(t, err)
}

func TestHelpFlagDoesNotError(t *testing.T) {
	err := RunWithArgs("test", []string{"--help"})
	assert.NoError(t, err)
}

func TestGlobalFlags(t *testing.T) {
	parser, globals, _ := buildParser("test")
	parser.CommandHandler = noExecute
	_, err := parser.ParseArgs([]string{"--json", "--verbose", "--config", "/tmp/test.yaml", "status"})
	require.NoError(t, err)
	assert.True(t, globals.JSON)
	assert.True(t, globals.Verbose)
	assert.Equal(t, "/tmp/test.yaml", globals.Config)
}

func TestExportFlags(t *testing.T) {
	p, _, c := buildParser("test")
	p.CommandHandler = noExecute
	_, err := p.ParseArgs([]string{"export", "--source", "chrome", "-s", "firefox", "--metrics-file", "/tmp/h.prom"})
	require.NoError(t, err)
	assert.Equal(t, []string{"chrome", "firefox"}, c.Export.Source)
	assert.Equal(t, "/tmp/h.prom", c.Export.MetricsFile)
}

func TestTopFlagsDefaults(t *testing.T) {
	p, _, c := buildParser("test")
	p.CommandHandler = noExecute
	_, err := p.ParseArgs([]string{"top"})
	require.NoError(t, err)
	assert.Equal(t, 10, c.Top.Limit)
	assert.Empty(t, c.Top.Source)
	assert.False(t, c.Top.Domains)

	p, _, c = buildParser("test")
	p.CommandHandler = noExecute
	_, err = p.ParseArgs([]string{"top", "-s", "firefox", "-n", "3", "--domains"})
	require.NoError(t, err)
	assert.Equal(t, "firefox", c.Top.Source)
	assert.Equal(t, 3, c.Top.Limit)
	assert.True(t, c.Top.Domains)
}

func TestRunWithArgs_ExportEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	cfgPath := writeConfigFile(t, cfg)

	output := captureOutput(t, func() {
		err := RunWithArgs("test", []string{"--config", cfgPath, "export"})
		require.NoError(t, err)
	})

	assert.Contains(t, output, "Data saved to "+cfg.Sources[0].Output)
	assert.Contains(t, output, "Data saved to "+cfg.Sources[1].Output)

	entries, err := report.Read(cfg.Sources[0].Output)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(entries), 2)
	assert.Equal(t, "https://github.com/golang/go", entries[0].URL)
	assert.Equal(t, int64(52), entries[0].TotalVisits)
	assert.Equal(t, "https://github.com", entries[1].URL)
	assert.Equal(t, int64(52), entries[1].TotalVisits)
}

func TestRunWithArgs_MissingConfigFails(t *testing.T) {
	err := RunWithArgs("test", []string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "status"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,000", formatNumber(1000))
	assert.Equal(t, "12,345", formatNumber(12345))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
	assert.Equal(t, "-4,200", formatNumber(-4200))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "2.0 KB", formatBytes(2048))
	assert.Equal(t, "1.5 MB", formatBytes(3<<19))
	assert.Equal(t, "1.0 GB", formatBytes(1<<30))
}
