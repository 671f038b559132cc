package registry

import (
	"context"
	"fmt"

	"github.com/cratewatch/cratewatch/pkg/cargo"
	"github.com/cratewatch/cratewatch/pkg/config"
	"github.com/cratewatch/cratewatch/pkg/logging"
)

// Gather is the registry construction entry point: it fetches raw metadata
// from the source, builds the sorted registry, and normalizes the resolution
// graph. A metadata response without a resolution graph surfaces as
// cargo.ErrNoResolveGraph rather than a crash; the caller decides whether to
// abort or retry with different query parameters. No retries happen here.
func Gather(ctx context.Context, src cargo.Source, cfg *config.Config) (*Registry, *cargo.Resolve, error) {
	logger := logging.New("registry")

	md, err := src.Fetch(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching metadata from %s: %w", src.Name(), err)
	}
	if md.Resolve == nil {
		return nil, nil, fmt.Errorf("%s: %w", src.Name(), cargo.ErrNoResolveGraph)
	}

	reg, err := Build(md.Packages)
	if err != nil {
		return nil, nil, fmt.Errorf("building registry: %w", err)
	}
	NormalizeResolve(md.Resolve)

	logger.Info("registry built", "crates", reg.Len(), "nodes", len(md.Resolve.Nodes))
	return reg, md.Resolve, nil
}
