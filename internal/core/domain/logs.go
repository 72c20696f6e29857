package domain

import (
	"maps"
	"regexp"
	"slices"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// LogCategory is the closed set of log kinds.
type LogCategory string

const (
	// LogBlockcheck holds strategy scan transcripts.
	LogBlockcheck LogCategory = "blockcheck"
	// LogService holds service actions (start, stop, install, removal).
	LogService LogCategory = "service"
	// LogConfig holds configuration snapshots and changes.
	LogConfig LogCategory = "config"
)

// LogCategories lists every category in listing order.
var LogCategories = []LogCategory{LogBlockcheck, LogService, LogConfig}

const (
	// LogURIScheme is the scheme of log resource locators.
	LogURIScheme = "zapret2"

	// LogURIPrefix precedes "<category>/<timestamp>" in every locator.
	LogURIPrefix = LogURIScheme + "://logs/"

	// LogURITemplate is the MCP resource template for log reads.
	LogURITemplate = LogURIPrefix + "{type}/{timestamp}"

	// LogTimestampLayout formats log identifiers with one-second resolution.
	LogTimestampLayout = "2006-01-02T15-04-05"

	// LogFileExt is the suffix of every log file.
	LogFileExt = ".log"
)

var logTimestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}$`)

// ParseLogCategory validates a category name.
func ParseLogCategory(s string) (LogCategory, error) {
	for _, c := range LogCategories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", zerr.With(zerr.Wrap(ErrInvalidLogCategory, InvalidCategoryMessage(s)), "category", s)
}

// InvalidCategoryMessage is the operator-facing text for an unknown category.
func InvalidCategoryMessage(s string) string {
	names := make([]string, len(LogCategories))
	for i, c := range LogCategories {
		names[i] = string(c)
	}
	return "Invalid log type: " + s + ". Must be one of: " + strings.Join(names, ", ")
}

// FormatLogTimestamp renders t in UTC as a log identifier.
func FormatLogTimestamp(t time.Time) string {
	return t.UTC().Format(LogTimestampLayout)
}

// IsLogTimestamp reports whether s has the identifier shape produced by FormatLogTimestamp.
func IsLogTimestamp(s string) bool {
	return logTimestampPattern.MatchString(s)
}

// LogEntry describes one persisted transcript.
type LogEntry struct {
	Category  LogCategory       `json:"type"`
	Timestamp string            `json:"timestamp"`
	URI       string            `json:"uri"`
	Size      int64             `json:"size"`
	Meta      map[string]string `json:"meta"`
}

// Name is the short "<category>/<timestamp>" form.
func (e LogEntry) Name() string {
	return string(e.Category) + "/" + e.Timestamp
}

// MetaString renders the metadata as "k=v, k=v" in key order.
func (e LogEntry) MetaString() string {
	parts := make([]string, 0, len(e.Meta))
	for _, k := range slices.Sorted(maps.Keys(e.Meta)) {
		parts = append(parts, k+"="+e.Meta[k])
	}
	return strings.Join(parts, ", ")
}

// LogURI builds the resource locator for a category and timestamp.
func LogURI(category LogCategory, timestamp string) string {
	return LogURIPrefix + string(category) + "/" + timestamp
}

// ParseLogURI splits a locator into category and timestamp.
func ParseLogURI(uri string) (LogCategory, string, error) {
	rest, ok := strings.CutPrefix(uri, LogURIPrefix)
	if !ok {
		return "", "", zerr.With(zerr.Wrap(ErrInvalidLogURI, "unexpected scheme or host"), "uri", uri)
	}
	name, ts, ok := strings.Cut(rest, "/")
	if !ok || ts == "" || strings.Contains(ts, "/") {
		return "", "", zerr.With(zerr.Wrap(ErrInvalidLogURI, "expected <category>/<timestamp>"), "uri", uri)
	}
	category, err := ParseLogCategory(name)
	if err != nil {
		return "", "", err
	}
	return category, ts, nil
}
