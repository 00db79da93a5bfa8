// Package aggregate folds history rows into per-URL and per-domain visit totals.
//
// Every row is counted twice: once under its URL with a single trailing
// slash removed, and once under its scheme://host domain. Domain entries
// start at zero and only ever accumulate.
package aggregate

import (
	"errors"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/runnerr0/histrank/internal/history"
)

// ErrInvalidURL is returned by Add for rows whose URL is not absolute.
var ErrInvalidURL = errors.New("invalid URL")

// Aggregate maps normalized URLs and domains to their running totals,
// remembering the order in which keys were first seen.
type Aggregate struct {
	index   map[string]int
	entries []history.Visit
}

// New returns an empty Aggregate.
func New() *Aggregate {
	return &Aggregate{index: make(map[string]int)}
}

// Add folds one row into a. A row with an unparseable URL leaves a
// unchanged and yields an error wrapping ErrInvalidURL.
func (a *Aggregate) Add(v history.Visit) error {
	base, err := BasePath(v.URL)
	if err != nil {
		return err
	}
	normalized := NormalizeURL(v.URL)

	if i, ok := a.index[normalized]; ok {
		a.entries[i].TotalVisits += v.TotalVisits
	} else {
		entry := v
		entry.URL = normalized
		a.insert(entry)
	}

	if _, ok := a.index[base]; !ok {
		entry := v
		entry.URL = base
		entry.TotalVisits = 0
		a.insert(entry)
	}
	a.entries[a.index[base]].TotalVisits += v.TotalVisits

	return nil
}

func (a *Aggregate) insert(v history.Visit) {
	a.index[v.URL] = len(a.entries)
	a.entries = append(a.entries, v)
}

// Len reports the number of distinct keys.
func (a *Aggregate) Len() int { return len(a.entries) }

// Get returns the entry stored under key.
func (a *Aggregate) Get(key string) (history.Visit, bool) {
	i, ok := a.index[key]
	if !ok {
		return history.Visit{}, false
	}
	return a.entries[i], true
}

// Entries returns a copy of all entries in first-seen order.
func (a *Aggregate) Entries() []history.Visit {
	out := make([]history.Visit, len(a.entries))
	copy(out, a.entries)
	return out
}

// Build folds visits in order into a fresh Aggregate. Rows with invalid URLs
// are logged as warnings and skipped; the number skipped is returned.
func Build(visits []history.Visit, logger *log.Logger) (*Aggregate, int) {
	a := New()
	skipped := 0
	for _, v := range visits {
		if err := a.Add(v); err != nil {
			skipped++
			if logger != nil {
				logger.Warn("Invalid URL", "url", v.URL)
			}
		}
	}
	return a, skipped
}

// NormalizeURL strips one trailing slash. "http://a.com//" becomes
// "http://a.com/", not "http://a.com".
func NormalizeURL(raw string) string {
	return strings.TrimSuffix(raw, "/")
}
