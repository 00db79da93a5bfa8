package history

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Visit is one row of a browser history query, and also the shape of a
// report entry. Optional columns are pointers so NULL survives the trip to
// JSON.
type Visit struct {
	URL           string
	Title         *string
	LastVisitDate *string
	Frecency      *int64
	TotalVisits   int64
	// Scored marks rows from sources that rank pages (Firefox). Their
	// entries always carry a frecency key, null when the column was NULL.
	Scored        bool
}

// scoredVisit and unscoredVisit are Visit with its two JSON shapes.
type scoredVisit struct {
	URL           string  `json:"url"`
	Title         *string `json:"title"`
	LastVisitDate *string `json:"last_visit_date"`
	Frecency      *int64  `json:"frecency"`
	TotalVisits   int64   `json:"total_visits"`
	Scored        bool    `json:"-"`
}

type unscoredVisit struct {
	URL           string  `json:"url"`
	Title         *string `json:"title"`
	LastVisitDate *string `json:"last_visit_date"`
	Frecency      *int64  `json:"frecency,omitempty"`
	TotalVisits   int64   `json:"total_visits"`
	Scored        bool    `json:"-"`
}

// MarshalJSON writes the frecency key only for scored visits, or when a
// value is present. HTML characters in URLs and titles are left unescaped.
func (v Visit) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	var err error
	if v.Scored {
		err = enc.Encode(scoredVisit(v))
	} else {
		err = enc.Encode(unscoredVisit(v))
	}
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON restores Scored from the presence of a frecency key.
func (v *Visit) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	var sv scoredVisit
	if err := json.Unmarshal(data, &sv); err != nil {
		return err
	}
	_, sv.Scored = keys["frecency"]
	*v = Visit(sv)
	return nil
}

// row is the scan target for both queries. url is nullable in both
// schemas; a NULL one becomes an empty URL, which the aggregator rejects.
type row struct {
	URL           sql.NullString `db:"url"`
	Title         *string        `db:"title"`
	LastVisitDate *string        `db:"last_visit_date"`
	Frecency      *int64         `db:"frecency"`
	TotalVisits   int64          `db:"total_visits"`
}

func (r row) visit(kind Kind) Visit {
	return Visit{
		URL:           r.URL.String,
		Title:         r.Title,
		LastVisitDate: r.LastVisitDate,
		Frecency:      r.Frecency,
		TotalVisits:   r.TotalVisits,
		Scored:        kind == Firefox,
	}
}

// Kind selects the history schema to query.
type Kind string

const (
	// Chrome reads the Chromium `urls` table; timestamps are microseconds
	// since 1601-01-01.
	Chrome Kind = "chrome"
	// Firefox reads `moz_places`; timestamps are microseconds since the
	// Unix epoch and rows carry a frecency score.
	Firefox Kind = "firefox"
)

// ParseKind validates a kind name from configuration.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Chrome, Firefox:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown history kind %q", s)
	}
}

// WebkitEpochOffset is the number of seconds between 1601-01-01 and the Unix epoch.
const WebkitEpochOffset = 11644473600

var chromeQuery = fmt.Sprintf(`
	SELECT
		url,
		title,
		datetime(last_visit_time/1000000 - %d, 'unixepoch') AS last_visit_date,
		visit_count AS total_visits
	FROM urls
	WHERE visit_count > ?
	ORDER BY visit_count DESC, id ASC
`, WebkitEpochOffset)

const firefoxQuery = `
	SELECT
		p.url,
		p.title,
		datetime(p.last_visit_date/1000000, 'unixepoch') AS last_visit_date,
		p.frecency,
		p.visit_count AS total_visits
	FROM moz_places p
	WHERE p.visit_count > ?
	ORDER BY p.visit_count DESC, p.id ASC
`

// Query returns the fixed SQL for k. Its single parameter is the
// visit_count threshold.
func (k Kind) Query() (string, error) {
	switch k {
	case Chrome:
		return chromeQuery, nil
	case Firefox:
		return firefoxQuery, nil
	default:
		return "", fmt.Errorf("unknown history kind %q", string(k))
	}
}
