package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.trai.ch/zapret/internal/adapters/detector"  //nolint:depguard // Wired in app layer
	"go.trai.ch/zapret/internal/adapters/mcpserver" //nolint:depguard // Wired in app layer
	"go.trai.ch/zapret/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/zapret/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zapret/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const telemetryShutdownTimeout = 5 * time.Second

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App       *App
	Server    *mcpserver.Server
	Logger    ports.Logger
	Config    *domain.Config
	Telemetry *telemetry.Provider
	Watcher   ports.Watcher
}

// Serve speaks MCP over in and out until ctx is cancelled or in is closed.
// The startup banner goes to status.
func (c *Components) Serve(ctx context.Context, in io.Reader, out, status io.Writer) error {
	defer c.shutdownTelemetry(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := c.Server.RefreshResources(); err != nil {
		c.Logger.Error(zerr.Wrap(err, "failed to list stored logs"))
	}

	g, gctx := errgroup.WithContext(ctx)

	// Logs written by another process (a second server or the CLI) only
	// reach this server through the watcher. Serving continues without it.
	if err := c.Watcher.Start(gctx, c.Config.LogDir); err != nil {
		c.Logger.Warn("log directory watcher disabled", "error", err.Error())
	} else {
		defer func() { _ = c.Watcher.Stop() }()
		g.Go(func() error {
			c.watchLogs()
			return nil
		})
	}

	_, _ = fmt.Fprintf(status, "%s server started (executor: %s)\n", domain.AppName, c.App.ExecutorLabel())

	g.Go(func() error {
		// End of input stops the watcher loop too.
		defer cancel()
		return c.Server.Serve(gctx, in, out)
	})

	return g.Wait()
}

func (c *Components) watchLogs() {
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func([]string) {
		c.Server.OnLogsChanged()
	})
	for ev := range c.Watcher.Events() {
		debouncer.Add(ev.Path)
	}
}

func (c *Components) shutdownTelemetry(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryShutdownTimeout)
	defer cancel()
	if err := c.Telemetry.Shutdown(ctx); err != nil {
		c.Logger.Error(zerr.Wrap(err, "failed to flush traces"))
	}
}

// SetLogFormat overrides the log format chosen from configuration.
func (c *Components) SetLogFormat(format domain.LogFormat) {
	c.Logger.SetJSON(detector.UseJSON(format, detector.Interactive(os.Stderr)))
}

// Exec runs a raw command on the current executor.
func (c *Components) Exec(ctx context.Context, command string, timeout time.Duration) (domain.ExecResult, error) {
	return c.App.Exec(ctx, command, timeout)
}

// ListLogs lists stored logs, optionally filtered by category.
func (c *Components) ListLogs(category domain.LogCategory) ([]domain.LogEntry, error) {
	return c.App.ListLogs(category)
}

// ReadLog returns the content of one stored log.
func (c *Components) ReadLog(category domain.LogCategory, timestamp string) (string, error) {
	return c.App.ReadLog(category, timestamp)
}
