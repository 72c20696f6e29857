package logger

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/zapret/internal/adapters/config"
	"go.trai.ch/zapret/internal/adapters/detector"
	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zapret/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.Logger, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			l := New()
			l.SetJSON(detector.UseJSON(cfg.LogFormat, detector.Interactive(os.Stderr)))
			return l, nil
		},
	})
}
