package cargo

import (
	"context"

	"github.com/cratewatch/cratewatch/pkg/config"
	"github.com/cratewatch/cratewatch/pkg/logging"
)

// Source represents a provider of raw dependency metadata.
// Implementations encapsulate how the package list and resolution graph are
// obtained (normally by running cargo, or canned data in tests) before the
// registry turns them into records.
type Source interface {
	// Name returns the unique name of the source (e.g., "CargoMetadata").
	Name() string

	// Fetch obtains the raw metadata. It should respect the context for
	// cancellation.
	Fetch(ctx context.Context, cfg *config.Config) (*Metadata, error)
}

// MetadataSource implements Source by running `cargo metadata`
type MetadataSource struct {
	executor Executor
}

// NewMetadataSource creates a new cargo metadata source
func NewMetadataSource() Source {
	return &MetadataSource{
		executor: NewExecutor(),
	}
}

func (s *MetadataSource) Name() string {
	return "CargoMetadata"
}

func (s *MetadataSource) Fetch(ctx context.Context, cfg *config.Config) (*Metadata, error) {
	logger := logging.New("source.cargo")
	logger.Info("querying cargo metadata", "manifest", cfg.Manifest)

	var extraArgs []string
	if cfg.AllFeatures {
		extraArgs = append(extraArgs, "--all-features")
	}
	if cfg.Locked {
		extraArgs = append(extraArgs, "--locked")
	}
	if cfg.Offline {
		extraArgs = append(extraArgs, "--offline")
	}

	output, err := s.executor.RunMetadata(ctx, cfg.Manifest, extraArgs)
	if err != nil {
		return nil, err
	}

	logger.Info("cargo metadata complete", "bytes", len(output))

	md, err := ParseMetadata(output)
	if err != nil {
		return nil, err
	}

	nodes := 0
	if md.Resolve != nil {
		nodes = len(md.Resolve.Nodes)
	}
	logger.Info("metadata parsed", "packages", len(md.Packages), "nodes", nodes)
	return md, nil
}
