package registry

import (
	"fmt"
	"iter"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"

	"github.com/cratewatch/cratewatch/pkg/cargo"
	"github.com/cratewatch/cratewatch/pkg/model"
)

// Registry owns the full sorted collection of crate records plus an index
// for O(1) lookup by instance ID. Immutable after Build; concurrent readers
// need no locking.
type Registry struct {
	crates []model.Crate
	byID   map[model.CrateID]int
}

// Build derives one crate record per raw package and assembles the registry.
// Records are transformed in parallel (each package is independent, workers
// write disjoint index ranges) and then sorted into the canonical order:
// name, then version, then ID. The ID tie-break is not part of the record
// ordering contract; it only keeps iteration order independent of the order
// packages arrived from cargo.
func Build(packages []cargo.Package) (*Registry, error) {
	crates := make([]model.Crate, len(packages))

	var g errgroup.Group
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(packages) + workers - 1) / workers
	if chunk < 1 {
		chunk = 1
	}
	for start := 0; start < len(packages); start += chunk {
		end := min(start+chunk, len(packages))
		g.Go(func() error {
			for i := start; i < end; i++ {
				c, err := newCrate(packages[i])
				if err != nil {
					return err
				}
				crates[i] = c
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(crates, func(a, b model.Crate) int {
		if c := model.Compare(&a, &b); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})

	byID := make(map[model.CrateID]int, len(crates))
	for i := range crates {
		byID[crates[i].ID] = i
	}

	return &Registry{crates: crates, byID: byID}, nil
}

func newCrate(p cargo.Package) (model.Crate, error) {
	version, err := semver.NewVersion(p.Version)
	if err != nil {
		return model.Crate{}, fmt.Errorf("crate %s: invalid version %q: %w", p.Name, p.Version, err)
	}

	var root string
	if p.ManifestPath != "" {
		root = filepath.Dir(p.ManifestPath)
	}

	deps := make([]model.DepRequirement, len(p.Dependencies))
	for i, d := range p.Dependencies {
		kind := model.DepKind(d.Kind)
		if kind == "" {
			kind = model.DepKindNormal
		}
		deps[i] = model.DepRequirement{Name: d.Name, Req: d.Req, Kind: kind}
	}
	slices.SortFunc(deps, func(a, b model.DepRequirement) int {
		return strings.Compare(a.Name, b.Name)
	})

	return model.Crate{
		Name:        p.Name,
		ID:          model.CrateID(p.ID),
		Version:     version,
		Authors:     p.Authors,
		Repository:  p.Repository,
		Description: p.Description,
		Root:        root,
		License:     model.ParseLicenseField(p.License),
		LicenseFile: p.LicenseFile,
		Deps:        deps,
	}, nil
}

// Lookup returns the record for one resolved instance ID.
func (r *Registry) Lookup(id model.CrateID) (*model.Crate, bool) {
	i, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return &r.crates[i], true
}

// Len returns the number of records.
func (r *Registry) Len() int {
	return len(r.crates)
}

// Crates returns the records as a slice, in canonical order, for call sites
// that want indexed access. Callers must not mutate it.
func (r *Registry) Crates() []model.Crate {
	return r.crates
}

// All iterates the records in canonical order. The sequence is re-iterable.
func (r *Registry) All() iter.Seq[*model.Crate] {
	return func(yield func(*model.Crate) bool) {
		for i := range r.crates {
			if !yield(&r.crates[i]) {
				return
			}
		}
	}
}

// Duplicates returns the runs of records that share a name but appear with
// more than one version or instance, in canonical order. Policy consumers
// use this for multiple-version detection.
func (r *Registry) Duplicates() [][]*model.Crate {
	var dupes [][]*model.Crate
	for start := 0; start < len(r.crates); {
		end := start + 1
		for end < len(r.crates) && r.crates[end].Name == r.crates[start].Name {
			end++
		}
		if end-start > 1 {
			run := make([]*model.Crate, 0, end-start)
			for i := start; i < end; i++ {
				run = append(run, &r.crates[i])
			}
			dupes = append(dupes, run)
		}
		start = end
	}
	return dupes
}
