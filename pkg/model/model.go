package model

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CrateID is the opaque identifier cargo assigns to one resolved package
// instance. Two crates with the same name and version can still carry
// different IDs (vendored or patched copies), so the ID is the only token
// that is unique per instance.
type CrateID string

// DepKind classifies a dependency requirement
type DepKind string

const (
	DepKindNormal DepKind = "normal"
	DepKindDev    DepKind = "dev"
	DepKindBuild  DepKind = "build"
)

// DepRequirement is one declared dependency of a crate: the target name,
// the version requirement as written in the manifest, and its kind.
type DepRequirement struct {
	Name string  `json:"name"`
	Req  string  `json:"req"`
	Kind DepKind `json:"kind"`
}

// Crate is one resolved package version. Built once during registry
// construction and never mutated afterwards; consumers borrow, never own.
type Crate struct {
	Name        string           `json:"name"`
	ID          CrateID          `json:"id"`
	Version     *semver.Version  `json:"version"`
	Authors     []string         `json:"authors,omitempty"`
	Repository  string           `json:"repository,omitempty"`
	Description string           `json:"description,omitempty"`
	Root        string           `json:"root,omitempty"` // directory containing the crate's Cargo.toml
	License     LicenseField     `json:"license"`
	LicenseFile string           `json:"licenseFile,omitempty"` // relative to Root
	Deps        []DepRequirement `json:"deps,omitempty"`        // sorted by Name
}

// Compare orders crates by name, then by semver precedence. This is the
// canonical registry order. The ID deliberately does not participate:
// duplicate copies of the same name+version sort adjacently so reports can
// collapse them.
func Compare(a, b *Crate) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return a.Version.Compare(b.Version)
}

// Equal reports logical equality: same name and version. Distinct instances
// (different IDs) of the same name+version are Equal on purpose.
func Equal(a, b *Crate) bool {
	return Compare(a, b) == 0
}

// SameInstance reports strict identity: the two records describe the exact
// same resolved instance. Use this, not Equal, when correlating with the
// resolution graph.
func SameInstance(a, b *Crate) bool {
	return a.ID == b.ID
}

// Key is a lightweight (name, version) lookup key so callers can search a
// crate slice without constructing a full record.
type Key struct {
	Name    string
	Version *semver.Version
}

// CompareKey orders a crate against a Key with the same ordering Compare
// uses. A Key with a nil Version orders before every version of that name.
func CompareKey(c *Crate, k Key) int {
	if cmp := strings.Compare(c.Name, k.Name); cmp != 0 {
		return cmp
	}
	if k.Version == nil {
		return 1
	}
	return c.Version.Compare(k.Version)
}
