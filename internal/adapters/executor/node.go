package executor

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/zapret/internal/adapters/config"
	"go.trai.ch/zapret/internal/adapters/telemetry"
	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zapret/internal/core/ports"
)

// NodeID is the unique identifier for the executor Graft node.
const NodeID graft.ID = "adapter.executor"

func init() {
	graft.Register(graft.Node[ports.ExecutorProvider]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, telemetry.NodeID},
		Run: func(ctx context.Context) (ports.ExecutorProvider, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			provider, err := graft.Dep[*telemetry.Provider](ctx)
			if err != nil {
				return nil, err
			}

			backend, err := Select(cfg.Executor)
			if err != nil {
				return nil, err
			}
			if provider.Enabled() {
				backend = telemetry.NewTracedExecutor(backend, provider.Tracer())
			}

			registry := NewRegistry()
			registry.Initialize(backend)
			return registry, nil
		},
	})
}
