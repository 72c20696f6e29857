package app

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/mark3labs/mcp-go/server"
	"go.trai.ch/zapret/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/zapret/internal/adapters/executor"  //nolint:depguard // Wired in app layer
	"go.trai.ch/zapret/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/zapret/internal/adapters/logstore"  //nolint:depguard // Wired in app layer
	"go.trai.ch/zapret/internal/adapters/mcpserver" //nolint:depguard // Wired in app layer
	"go.trai.ch/zapret/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/zapret/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/zapret/internal/build"
	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zapret/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			executor.NodeID,
			logstore.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			executors, err := graft.Dep[ports.ExecutorProvider](ctx)
			if err != nil {
				return nil, err
			}

			logs, err := graft.Dep[ports.LogStore](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(executors, logs, log), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.SettingsNodeID,
			telemetry.NodeID,
			logstore.NodeID,
			watcher.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	provider, err := graft.Dep[*telemetry.Provider](ctx)
	if err != nil {
		return nil, err
	}

	logs, err := graft.Dep[ports.LogStore](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	srv := mcpserver.New(app, log, mcpserver.Options{
		Version:        build.Version,
		ToolMiddleware: []server.ToolHandlerMiddleware{telemetry.ToolMiddleware(provider.Tracer())},
	})
	logs.OnSave(srv.OnLogsChanged)

	return &Components{
		App:       app,
		Server:    srv,
		Logger:    log,
		Config:    cfg,
		Telemetry: provider,
		Watcher:   w,
	}, nil
}
