package cargo

import (
	"testing"
)

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name         string
		jsonOutput   string
		wantPackages int
		wantResolve  bool
		wantErr      bool
	}{
		{
			name: "valid output",
			jsonOutput: `{
				"packages": [
					{
						"name": "serde",
						"id": "serde 1.0.100 (registry+https://github.com/rust-lang/crates.io-index)",
						"version": "1.0.100",
						"authors": ["Erick Tryzelaar <erick.tryzelaar@gmail.com>"],
						"license": "MIT OR Apache-2.0",
						"manifest_path": "/home/u/.cargo/registry/src/serde-1.0.100/Cargo.toml",
						"dependencies": [
							{"name": "serde_derive", "req": "= 1.0.100", "kind": null, "optional": true}
						]
					}
				],
				"resolve": {
					"nodes": [
						{
							"id": "serde 1.0.100 (registry+https://github.com/rust-lang/crates.io-index)",
							"dependencies": [],
							"deps": [],
							"features": ["default", "std"]
						}
					],
					"root": null
				},
				"workspace_root": "/work/app",
				"version": 1
			}`,
			wantPackages: 1,
			wantResolve:  true,
		},
		{
			name: "no resolve section",
			jsonOutput: `{
				"packages": [],
				"resolve": null,
				"version": 1
			}`,
			wantPackages: 0,
			wantResolve:  false,
		},
		{
			name:       "empty output",
			jsonOutput: ``,
			wantErr:    true,
		},
		{
			name:       "malformed json",
			jsonOutput: `{"packages": [`,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md, err := ParseMetadata([]byte(tt.jsonOutput))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMetadata() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(md.Packages) != tt.wantPackages {
				t.Errorf("got %d packages, want %d", len(md.Packages), tt.wantPackages)
			}
			if (md.Resolve != nil) != tt.wantResolve {
				t.Errorf("resolve presence = %v, want %v", md.Resolve != nil, tt.wantResolve)
			}
		})
	}
}

func TestParseMetadataFields(t *testing.T) {
	jsonOutput := `{
		"packages": [{
			"name": "winapi",
			"id": "winapi 0.3.8",
			"version": "0.3.8",
			"license": "MIT/Apache-2.0",
			"license_file": "LICENSE-MIT",
			"manifest_path": "/src/winapi/Cargo.toml",
			"repository": "https://github.com/retep998/winapi-rs",
			"description": "Raw FFI bindings for Windows API",
			"dependencies": [{"name": "winapi-build", "req": "^0.1.1", "kind": "build", "optional": false}]
		}],
		"resolve": {"nodes": [], "root": null},
		"version": 1
	}`

	md, err := ParseMetadata([]byte(jsonOutput))
	if err != nil {
		t.Fatalf("ParseMetadata() error = %v", err)
	}

	p := md.Packages[0]
	if p.License != "MIT/Apache-2.0" || p.LicenseFile != "LICENSE-MIT" {
		t.Errorf("license fields = %q, %q", p.License, p.LicenseFile)
	}
	if p.Repository == "" || p.Description == "" {
		t.Error("repository and description should be populated")
	}
	if len(p.Dependencies) != 1 || p.Dependencies[0].Kind != "build" {
		t.Errorf("dependencies = %+v", p.Dependencies)
	}
}
