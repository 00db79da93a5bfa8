package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	goflags "github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/runnerr0/histrank/internal/config"
	"github.com/runnerr0/histrank/internal/history/historytest"
)

var lastVisit = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// noExecute lets parser tests check flag parsing without running commands.
func noExecute(goflags.Commander, []string) error { return nil }

// testLogger returns a logger writing into a buffer the test can inspect.
func testLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf), &buf
}

// testConfig seeds Chrome and Firefox databases in a temp dir and returns a
// config pointing at them, with reports under <dir>/out.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	chrome := historytest.WriteChrome(t, []historytest.Row{
		{URL: "https://github.com/golang/go", Title: historytest.Title("golang/go"), VisitCount: 40, LastVisit: lastVisit},
		{URL: "https://github.com/golang/go/", Title: historytest.Title("golang/go slash"), VisitCount: 12, LastVisit: lastVisit},
		{URL: "https://pkg.go.dev/fmt", Title: historytest.Title("fmt package"), VisitCount: 25, LastVisit: lastVisit},
		{URL: "javascript alert", Title: historytest.Title("broken"), VisitCount: 30, LastVisit: lastVisit},
		{URL: "https://rare.example/", Title: historytest.Title("Rare"), VisitCount: 3, LastVisit: lastVisit},
	})
	firefox := historytest.WriteFirefox(t, []historytest.Row{
		{URL: "https://developer.mozilla.org/en-US/", Title: historytest.Title("MDN"), VisitCount: 60, LastVisit: lastVisit, Frecency: 8000},
	})

	cfg := config.DefaultConfig()
	cfg.Sources = []config.SourceConfig{
		{Name: "chrome", Kind: "chrome", Database: chrome, Output: filepath.Join(dir, "out", "chrome_output.json")},
		{Name: "firefox", Kind: "firefox", Database: firefox, Output: filepath.Join(dir, "out", "firefox_output.json")},
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

// writeConfigFile persists cfg as YAML and returns its path.
func writeConfigFile(t *testing.T, cfg *config.Config) string {
	t.Helper()
	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}
