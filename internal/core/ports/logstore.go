package ports

import "go.trai.ch/zapret/internal/core/domain"

// LogStore persists operation transcripts.
//
//go:generate mockgen -source=logstore.go -destination=mocks/mock_logstore.go -package=mocks
type LogStore interface {
	// Save writes content under category and returns the generated timestamp.
	// The OnSave callback runs after the write, before Save returns.
	Save(category domain.LogCategory, content string, meta map[string]string) (string, error)

	// List returns entries in ascending timestamp order.
	// An empty category lists every category in domain.LogCategories order.
	List(category domain.LogCategory) ([]domain.LogEntry, error)

	// Read returns the content without its metadata header.
	// The boolean is false when no such entry exists.
	Read(category domain.LogCategory, timestamp string) (string, bool, error)

	// OnSave replaces the change callback. Nil clears it.
	OnSave(callback func())
}
