package app

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/riskibarqy/fantasy-hockey/internal/config"
)

const (
	maxTracedQueryLength = 512
	textResultsParam     = "disable_prepared_binary_result"
)

var queryWhitespace = regexp.MustCompile(`\s+`)

// traceQuery collapses whitespace and caps the statement so the multi-line
// scoring queries fit in a span attribute.
func traceQuery(query string) string {
	flat := queryWhitespace.ReplaceAllString(strings.TrimSpace(query), " ")
	if len(flat) > maxTracedQueryLength {
		return flat[:maxTracedQueryLength] + "..."
	}
	return flat
}

// dsn is DB_URL in either URL form (postgres://...) or lib/pq keyword form
// (host=... dbname=...).
type dsn string

func (d dsn) url() (*url.URL, bool) {
	parsed, err := url.Parse(strings.TrimSpace(string(d)))
	if err != nil || parsed.Scheme == "" {
		return nil, false
	}
	return parsed, true
}

// keywords parses keyword form; quoted values lose their quotes.
func (d dsn) keywords() map[string]string {
	out := map[string]string{}
	for _, token := range strings.Fields(string(d)) {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		out[key] = strings.Trim(value, `"'`)
	}
	return out
}

// withTextResults asks lib/pq for text results, needed behind a pgbouncer
// that cannot relay binary prepared results. An explicit setting wins.
func (d dsn) withTextResults() string {
	raw := strings.TrimSpace(string(d))
	if parsed, ok := d.url(); ok {
		query := parsed.Query()
		if query.Get(textResultsParam) != "" {
			return raw
		}
		query.Set(textResultsParam, "yes")
		parsed.RawQuery = query.Encode()
		return parsed.String()
	}
	if raw == "" {
		return raw
	}
	if _, ok := d.keywords()[textResultsParam]; ok {
		return raw
	}
	return raw + " " + textResultsParam + "=yes"
}

func (d dsn) database() string {
	if parsed, ok := d.url(); ok {
		return strings.TrimPrefix(parsed.Path, "/")
	}
	return d.keywords()["dbname"]
}

func connString(cfg config.Config) string {
	d := dsn(strings.TrimSpace(cfg.DBURL))
	if cfg.DBDisablePreparedBinary {
		return d.withTextResults()
	}
	return string(d)
}

// MigrationURL is the DSN handed to golang-migrate.
func MigrationURL(cfg config.Config) string {
	return connString(cfg)
}
