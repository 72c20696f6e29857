// Package watcher reports log files written to the log directory, including by other processes.
package watcher

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zapret/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 64

// Watcher implements ports.Watcher on fsnotify. It watches the base directory
// and one level of category directories below it.
type Watcher struct {
	fs     *fsnotify.Watcher
	events chan ports.WatchEvent
	errs   func(error)
}

// New creates a watcher. onError receives fsnotify errors; nil discards them.
func New(onError func(error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWatcherStartFailed.Error())
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &Watcher{
		fs:     fsw,
		events: make(chan ports.WatchEvent, eventChannelBuffer),
		errs:   onError,
	}, nil
}

// Start implements ports.Watcher. The root directory is created when missing.
func (w *Watcher) Start(ctx context.Context, root string) error {
	if err := os.MkdirAll(root, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "path", root)
	}
	if err := w.fs.Add(root); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "path", root)
	}

	for _, c := range domain.LogCategories {
		dir := filepath.Join(root, string(c))
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			if err := w.fs.Add(dir); err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "path", dir)
			}
		}
	}

	go w.process(ctx, root)
	return nil
}

// Stop implements ports.Watcher.
func (w *Watcher) Stop() error {
	return w.fs.Close()
}

// Events implements ports.Watcher. The sequence ends when the context passed
// to Start is cancelled or the watcher is stopped.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for ev := range w.events {
			if !yield(ev) {
				return
			}
		}
	}
}

func (w *Watcher) process(ctx context.Context, root string) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.errs(err)
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}

			// A category directory created after startup.
			if event.Has(fsnotify.Create) && filepath.Dir(event.Name) == filepath.Clean(root) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.fs.Add(event.Name)
				}
			}

			ev, ok := convertEvent(event)
			if !ok {
				continue
			}
			select {
			case w.events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

// convertEvent keeps only changes to log files.
func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	if !strings.HasSuffix(event.Name, domain.LogFileExt) {
		return ports.WatchEvent{}, false
	}

	ev := ports.WatchEvent{Path: event.Name}
	switch {
	case event.Has(fsnotify.Create):
		ev.Operation = ports.OpCreate
	case event.Has(fsnotify.Write):
		ev.Operation = ports.OpWrite
	case event.Has(fsnotify.Remove):
		ev.Operation = ports.OpRemove
	case event.Has(fsnotify.Rename):
		ev.Operation = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ev, true
}
