// Package report ranks aggregate entries and persists them as a JSON array.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	"github.com/runnerr0/histrank/internal/history"
)

// Sort orders entries by total visits, highest first. Ties keep their
// existing relative order.
func Sort(entries []history.Visit) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalVisits > entries[j].TotalVisits
	})
}

// Encode renders entries as a two-space indented JSON array. An empty or
// nil slice encodes as [].
func Encode(entries []history.Visit) ([]byte, error) {
	if entries == nil {
		entries = []history.Visit{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return buf.Bytes(), nil
}

// Write stores entries at path, creating parent directories as needed.
// The data goes to a temp file in the same directory which is then renamed
// over path, so readers never observe a half-written report.
func Write(path string, entries []history.Visit) error {
	data, err := Encode(entries)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("chmod report: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace report: %w", err)
	}
	committed = true

	return nil
}

// Read parses a report written by Write.
func Read(path string) ([]history.Visit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	var entries []history.Visit
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return entries, nil
}

// IsDomain reports whether u is a bare scheme://host rollup key rather than
// a page URL.
func IsDomain(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil || parsed.Scheme == "" {
		return false
	}
	return parsed.Path == "" && parsed.RawQuery == "" && parsed.Fragment == "" &&
		parsed.Opaque == "" && parsed.Port() == "" && parsed.User == nil
}

// Domains filters entries down to domain rollups, preserving order.
func Domains(entries []history.Visit) []history.Visit {
	out := []history.Visit{}
	for _, e := range entries {
		if IsDomain(e.URL) {
			out = append(out, e)
		}
	}
	return out
}
