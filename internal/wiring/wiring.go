// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/zapret/internal/adapters/config"
	_ "go.trai.ch/zapret/internal/adapters/executor"
	_ "go.trai.ch/zapret/internal/adapters/logger"
	_ "go.trai.ch/zapret/internal/adapters/logstore"
	_ "go.trai.ch/zapret/internal/adapters/telemetry"
	_ "go.trai.ch/zapret/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/zapret/internal/app"
)
