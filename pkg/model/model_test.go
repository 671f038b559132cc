package model

import (
	"testing"

	"github.com/Masterminds/semver/v3"
)

func mustVersion(t *testing.T, raw string) *semver.Version {
	t.Helper()
	v, err := semver.NewVersion(raw)
	if err != nil {
		t.Fatalf("parsing version %q: %v", raw, err)
	}
	return v
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Crate
		want int
	}{
		{
			name: "name decides before version",
			a:    Crate{Name: "aho-corasick", Version: mustVersion(t, "9.0.0")},
			b:    Crate{Name: "base64", Version: mustVersion(t, "0.1.0")},
			want: -1,
		},
		{
			name: "same name falls back to semver precedence",
			a:    Crate{Name: "serde", Version: mustVersion(t, "1.0.2")},
			b:    Crate{Name: "serde", Version: mustVersion(t, "1.0.10")},
			want: -1,
		},
		{
			name: "identical name and version are equal",
			a:    Crate{Name: "rand", Version: mustVersion(t, "0.6.5")},
			b:    Crate{Name: "rand", Version: mustVersion(t, "0.6.5")},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(&tt.a, &tt.b)
			if got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}
			if rev := Compare(&tt.b, &tt.a); rev != -tt.want {
				t.Errorf("Compare() reversed = %d, want %d", rev, -tt.want)
			}
		})
	}
}

func TestEqualIgnoresID(t *testing.T) {
	a := Crate{Name: "rand", ID: "registry+rand@0.6.5", Version: mustVersion(t, "0.6.5")}
	b := Crate{Name: "rand", ID: "path+file:///vendor/rand", Version: mustVersion(t, "0.6.5")}

	if !Equal(&a, &b) {
		t.Error("crates with same name+version but different IDs should be Equal")
	}
	if SameInstance(&a, &b) {
		t.Error("crates with different IDs must not be SameInstance")
	}
}

func TestCompareKey(t *testing.T) {
	c := Crate{Name: "serde", Version: mustVersion(t, "1.0.100")}

	if got := CompareKey(&c, Key{Name: "serde", Version: mustVersion(t, "1.0.100")}); got != 0 {
		t.Errorf("CompareKey matching key = %d, want 0", got)
	}
	if got := CompareKey(&c, Key{Name: "serde", Version: mustVersion(t, "2.0.0")}); got >= 0 {
		t.Errorf("CompareKey against larger version = %d, want negative", got)
	}
	if got := CompareKey(&c, Key{Name: "serde"}); got <= 0 {
		t.Errorf("CompareKey against nil version = %d, want positive", got)
	}
}

func TestParseLicenseField(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantIDs     []string
		unparseable bool
		absent      bool
	}{
		{name: "empty", raw: "", absent: true},
		{name: "whitespace only", raw: "   ", absent: true},
		{name: "single id", raw: "MIT", wantIDs: []string{"MIT"}},
		{name: "or expression", raw: "MIT OR Apache-2.0", wantIDs: []string{"MIT", "Apache-2.0"}},
		{name: "legacy slash form", raw: "MIT/Apache-2.0", wantIDs: []string{"MIT", "Apache-2.0"}},
		{name: "parenthesized", raw: "(MIT OR Apache-2.0) AND Unicode-DFS-2016",
			wantIDs: []string{"MIT", "Apache-2.0", "Unicode-DFS-2016"}},
		{name: "exception clause stays opaque", raw: "GPL-2.0 WITH Classpath-exception-2.0",
			unparseable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ParseLicenseField(tt.raw)

			if f.IsAbsent() != tt.absent {
				t.Errorf("IsAbsent() = %v, want %v", f.IsAbsent(), tt.absent)
			}
			if f.IsUnparseable() != tt.unparseable {
				t.Errorf("IsUnparseable() = %v, want %v", f.IsUnparseable(), tt.unparseable)
			}

			if tt.unparseable {
				declared := f.Declared()
				if len(declared) != 1 || declared[0] != tt.raw {
					t.Errorf("Declared() = %v, want the opaque raw string %q", declared, tt.raw)
				}
				return
			}

			ids := f.Declared()
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("Declared() = %v, want %v", ids, tt.wantIDs)
			}
			for i := range ids {
				if ids[i] != tt.wantIDs[i] {
					t.Errorf("Declared()[%d] = %q, want %q", i, ids[i], tt.wantIDs[i])
				}
			}
		})
	}
}
