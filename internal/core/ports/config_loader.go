package ports

import "go.trai.ch/zapret/internal/core/domain"

// ConfigLoader resolves the startup configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the YAML file at path (skipped when empty or absent) and
	// applies environment overrides on top of it.
	Load(path string) (*domain.Config, error)
}
