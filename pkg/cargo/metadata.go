package cargo

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoResolveGraph is returned when the metadata response carries no
// resolution graph. cargo omits it for --no-deps queries; analysis cannot
// proceed without it, but the caller gets to decide whether to abort or
// retry with different arguments.
var ErrNoResolveGraph = errors.New("metadata response has no resolution graph")

// Metadata mirrors the `cargo metadata --format-version 1` response, limited
// to the fields the registry consumes.
type Metadata struct {
	Packages         []Package `json:"packages"`
	WorkspaceMembers []string  `json:"workspace_members"`
	Resolve          *Resolve  `json:"resolve"`
	WorkspaceRoot    string    `json:"workspace_root"`
	Version          int       `json:"version"`
}

// Package is one entry of the raw package list.
type Package struct {
	Name         string       `json:"name"`
	ID           string       `json:"id"`
	Version      string       `json:"version"`
	Authors      []string     `json:"authors"`
	Repository   string       `json:"repository"`
	Description  string       `json:"description"`
	ManifestPath string       `json:"manifest_path"`
	License      string       `json:"license"`
	LicenseFile  string       `json:"license_file"`
	Dependencies []Dependency `json:"dependencies"`
}

// Dependency is one declared dependency requirement of a package.
type Dependency struct {
	Name     string   `json:"name"`
	Req      string   `json:"req"`
	Kind     string   `json:"kind"` // empty means normal
	Optional bool     `json:"optional"`
	Features []string `json:"features"`
}

// Resolve is the resolution graph: one node per resolved package instance.
type Resolve struct {
	Nodes []Node `json:"nodes"`
	Root  string `json:"root"`
}

// Node is one resolved package plus its outgoing dependency edges.
// Dependencies is the flat ID list; Deps carries the richer per-edge form.
type Node struct {
	ID           string    `json:"id"`
	Dependencies []string  `json:"dependencies"`
	Deps         []NodeDep `json:"deps"`
	Features     []string  `json:"features"`
}

// NodeDep is one dependency edge: the name the dependent uses for it and
// the ID of the resolved instance it links to.
type NodeDep struct {
	Name string `json:"name"`
	Pkg  string `json:"pkg"`
}

// ParseMetadata decodes a raw `cargo metadata` JSON document.
func ParseMetadata(data []byte) (*Metadata, error) {
	var md Metadata
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("decoding cargo metadata: %w", err)
	}
	return &md, nil
}
