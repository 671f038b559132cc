// Package license derives per-crate license evidence from three independent
// sources: the declared metadata expression, license files discovered in the
// crate root, and the explicitly referenced license file. Policy consumers
// weigh the kinds differently, so each piece stays tagged with its origin.
package license

import (
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/cratewatch/cratewatch/pkg/model"
)

// inferredPrefix is the literal file-name prefix the root-directory scan
// matches against.
const inferredPrefix = "LICENSE"

// Kind tags one piece of evidence with its source.
type Kind int

const (
	// KindDeclared is one atomic identifier from the manifest's declared
	// license expression.
	KindDeclared Kind = iota
	// KindInferredFile is a file found by scanning the crate root — what
	// *might* be a license.
	KindInferredFile
	// KindExplicitFile is the file the crate author explicitly declared
	// *is* the license.
	KindExplicitFile
)

func (k Kind) String() string {
	switch k {
	case KindDeclared:
		return "declared"
	case KindInferredFile:
		return "inferred-file"
	case KindExplicitFile:
		return "explicit-file"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the kind as its string tag so API consumers are not
// coupled to the enum's numeric values.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "declared":
		*k = KindDeclared
	case "inferred-file":
		*k = KindInferredFile
	case "explicit-file":
		*k = KindExplicitFile
	default:
		return fmt.Errorf("unknown evidence kind %q", s)
	}
	return nil
}

// Evidence is one discrete fact bearing on what license applies to a crate.
// License is set for KindDeclared; Path for the file kinds.
type Evidence struct {
	Kind    Kind   `json:"kind"`
	License string `json:"license,omitempty"`
	Path    string `json:"path,omitempty"`
}

// EvidenceFor returns the evidence sequence for one crate, in reporting
// order:
//
//  1. one declared item per atomic identifier, in declaration order
//  2. inferred items for LICENSE-prefixed regular files in the crate root,
//     skipping the explicitly declared file so the same path is not reported
//     under two kinds
//  3. exactly one explicit item, if the crate declares a license file and
//     has a root to resolve it against
//
// The sequence is lazy and re-iterable; every range re-derives it, including
// the directory scan. Nothing is cached.
func EvidenceFor(c *model.Crate) iter.Seq[Evidence] {
	return func(yield func(Evidence) bool) {
		var explicit string
		if c.Root != "" && c.LicenseFile != "" {
			explicit = filepath.Join(c.Root, c.LicenseFile)
		}

		for _, id := range c.License.Declared() {
			if !yield(Evidence{Kind: KindDeclared, License: id}) {
				return
			}
		}

		scan := emptyScan()
		if c.Root != "" {
			scan = scanDir(c.Root)
		}
		for _, path := range scan.licensePaths() {
			if path == explicit {
				continue
			}
			if !yield(Evidence{Kind: KindInferredFile, Path: path}) {
				return
			}
		}

		if explicit != "" {
			yield(Evidence{Kind: KindExplicitFile, Path: explicit})
		}
	}
}

// Collect materializes the evidence sequence, mainly for JSON rendering.
func Collect(c *model.Crate) []Evidence {
	var out []Evidence
	for ev := range EvidenceFor(c) {
		out = append(out, ev)
	}
	return out
}

// rootScan is a tagged value: either the empty scan or the listing of one
// directory. Inference is strictly best-effort, so a directory that cannot
// be read collapses to the empty scan instead of surfacing an error.
type rootScan struct {
	dir     string
	entries []os.DirEntry
}

func emptyScan() rootScan {
	return rootScan{}
}

func scanDir(dir string) rootScan {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return emptyScan()
	}
	return rootScan{dir: dir, entries: entries}
}

// licensePaths returns the paths of regular files whose name starts with
// the LICENSE prefix. os.ReadDir sorts entries by name, so the result order
// is deterministic.
func (s rootScan) licensePaths() []string {
	var paths []string
	for _, e := range s.entries {
		if !e.Type().IsRegular() {
			continue
		}
		if strings.HasPrefix(e.Name(), inferredPrefix) {
			paths = append(paths, filepath.Join(s.dir, e.Name()))
		}
	}
	return paths
}
