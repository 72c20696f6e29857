package logstore

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/zapret/internal/adapters/config"
	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zapret/internal/core/ports"
)

// NodeID is the unique identifier for the log store Graft node.
const NodeID graft.ID = "adapter.logstore"

func init() {
	graft.Register(graft.Node[ports.LogStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.LogStore, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg.LogDir), nil
		},
	})
}
