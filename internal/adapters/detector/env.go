// Package detector picks the log format from the environment.
package detector

import (
	"os"

	"go.trai.ch/zapret/internal/core/domain"
	"golang.org/x/term"
)

// Interactive reports whether f is a terminal outside CI.
func Interactive(f *os.File) bool {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return false
	}
	ci := os.Getenv("CI")
	return ci != "true" && ci != "1"
}

// UseJSON resolves a configured format. Auto selects JSON unless interactive.
func UseJSON(format domain.LogFormat, interactive bool) bool {
	switch format {
	case domain.LogFormatJSON:
		return true
	case domain.LogFormatPretty:
		return false
	default:
		return !interactive
	}
}
