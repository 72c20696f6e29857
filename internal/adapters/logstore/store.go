// Package logstore persists operation transcripts as one file per run.
package logstore

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zapret/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.LogStore = (*Store)(nil)

// headerSeparator ends the JSON metadata line.
const headerSeparator = "\n\n"

// Store implements ports.LogStore under <dir>/<category>/<timestamp>.log.
//
// Each file starts with the metadata serialised as a single JSON line,
// followed by a blank line and the content.
type Store struct {
	dir   string
	clock clockwork.Clock

	mu     sync.Mutex
	onSave func()
}

// New creates a store rooted at dir using the wall clock.
func New(dir string) *Store {
	return NewWithClock(dir, clockwork.NewRealClock())
}

// NewWithClock creates a store with an injected clock.
func NewWithClock(dir string, clock clockwork.Clock) *Store {
	return &Store{dir: dir, clock: clock}
}

// Dir returns the base directory.
func (s *Store) Dir() string {
	return s.dir
}

// OnSave implements ports.LogStore.
func (s *Store) OnSave(callback func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSave = callback
}

// Save implements ports.LogStore. Two saves in the same category within one
// second share a timestamp and the later one replaces the earlier file.
func (s *Store) Save(category domain.LogCategory, content string, meta map[string]string) (string, error) {
	if _, err := domain.ParseLogCategory(string(category)); err != nil {
		return "", err
	}

	if meta == nil {
		meta = map[string]string{}
	}
	header, err := json.Marshal(meta)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrLogStoreMarshalFailed.Error())
	}

	dir := filepath.Join(s.dir, string(category))
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrLogStoreCreateFailed.Error()), "path", dir)
	}

	ts := domain.FormatLogTimestamp(s.clock.Now())
	path := filepath.Join(dir, ts+domain.LogFileExt)

	var buf bytes.Buffer
	buf.Grow(len(header) + len(headerSeparator) + len(content))
	buf.Write(header)
	buf.WriteString(headerSeparator)
	buf.WriteString(content)

	//nolint:gosec // path is built from a validated category and a generated timestamp
	if err := os.WriteFile(path, buf.Bytes(), domain.FilePerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrLogStoreWriteFailed.Error()), "path", path)
	}

	s.mu.Lock()
	callback := s.onSave
	s.mu.Unlock()
	if callback != nil {
		callback()
	}

	return ts, nil
}

// List implements ports.LogStore.
func (s *Store) List(category domain.LogCategory) ([]domain.LogEntry, error) {
	categories := domain.LogCategories
	if category != "" {
		if _, err := domain.ParseLogCategory(string(category)); err != nil {
			return nil, err
		}
		categories = []domain.LogCategory{category}
	}

	entries := []domain.LogEntry{}
	for _, c := range categories {
		found, err := s.listCategory(c)
		if err != nil {
			return nil, err
		}
		entries = append(entries, found...)
	}
	return entries, nil
}

func (s *Store) listCategory(category domain.LogCategory) ([]domain.LogEntry, error) {
	dir := filepath.Join(s.dir, string(category))
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrLogStoreReadFailed.Error()), "path", dir)
	}

	names := make([]string, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.Type().IsRegular() && strings.HasSuffix(de.Name(), domain.LogFileExt) {
			names = append(names, de.Name())
		}
	}
	sort.Strings(names)

	entries := make([]domain.LogEntry, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			// Removed between ReadDir and Stat.
			continue
		}

		ts := strings.TrimSuffix(name, domain.LogFileExt)
		entries = append(entries, domain.LogEntry{
			Category:  category,
			Timestamp: ts,
			URI:       domain.LogURI(category, ts),
			Size:      info.Size(),
			Meta:      readMeta(path),
		})
	}
	return entries, nil
}

// readMeta parses the first line of a log file. Unreadable or malformed
// headers yield an empty map; non-string values are dropped. The body is
// never read.
func readMeta(path string) map[string]string {
	meta := map[string]string{}

	f, err := os.Open(path) //nolint:gosec // path comes from a directory listing under the store
	if err != nil {
		return meta
	}
	defer func() { _ = f.Close() }()

	line, err := bufio.NewReader(f).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return meta
	}

	var raw map[string]any
	if err := json.Unmarshal(bytes.TrimSuffix(line, []byte("\n")), &raw); err != nil {
		return meta
	}
	for k, v := range raw {
		if str, ok := v.(string); ok {
			meta[k] = str
		}
	}
	return meta
}

// Read implements ports.LogStore.
func (s *Store) Read(category domain.LogCategory, timestamp string) (string, bool, error) {
	if _, err := domain.ParseLogCategory(string(category)); err != nil {
		return "", false, err
	}
	if timestamp == "" || strings.ContainsAny(timestamp, `/\`) || strings.Contains(timestamp, "..") {
		return "", false, nil
	}

	path := filepath.Join(s.dir, string(category), timestamp+domain.LogFileExt)
	data, err := os.ReadFile(path) //nolint:gosec // timestamp is checked for separators above
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, zerr.With(zerr.Wrap(err, domain.ErrLogStoreReadFailed.Error()), "path", path)
	}

	raw := string(data)
	if _, body, ok := strings.Cut(raw, headerSeparator); ok {
		return body, true, nil
	}
	return raw, true, nil
}
