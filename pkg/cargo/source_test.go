package cargo

import (
	"context"
	"errors"
	"testing"

	"github.com/cratewatch/cratewatch/pkg/config"
)

func TestMetadataSource_Fetch(t *testing.T) {
	jsonOutput := `{
		"packages": [
			{"name": "app", "id": "app 0.1.0", "version": "0.1.0", "manifest_path": "/work/app/Cargo.toml"}
		],
		"resolve": {"nodes": [{"id": "app 0.1.0", "dependencies": [], "deps": []}], "root": "app 0.1.0"},
		"workspace_root": "/work/app",
		"version": 1
	}`

	mockExecutor := &MockExecutor{
		MockOutput: []byte(jsonOutput),
	}

	source := &MetadataSource{
		executor: mockExecutor,
	}

	cfg := &config.Config{
		Manifest: "/work/app/Cargo.toml",
	}

	md, err := source.Fetch(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Fetch() unexpected error: %v", err)
	}

	if len(md.Packages) != 1 || md.Packages[0].Name != "app" {
		t.Errorf("packages = %+v", md.Packages)
	}
	if md.Resolve == nil || md.Resolve.Root != "app 0.1.0" {
		t.Errorf("resolve = %+v", md.Resolve)
	}
}

func TestMetadataSource_FetchExecutorFailure(t *testing.T) {
	wantErr := errors.New("cargo metadata failed: exit status 101")
	source := &MetadataSource{
		executor: &MockExecutor{MockError: wantErr},
	}

	_, err := source.Fetch(context.Background(), &config.Config{Manifest: "Cargo.toml"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Fetch() error = %v, want the executor failure", err)
	}
}

func TestMetadataSource_FetchBadJSON(t *testing.T) {
	source := &MetadataSource{
		executor: &MockExecutor{MockOutput: []byte("error: could not find Cargo.toml")},
	}

	if _, err := source.Fetch(context.Background(), &config.Config{Manifest: "Cargo.toml"}); err == nil {
		t.Fatal("Fetch() should fail on non-JSON output")
	}
}
