package cargo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

// Executor handles the execution of cargo commands
type Executor interface {
	RunMetadata(ctx context.Context, manifestPath string, extraArgs []string) ([]byte, error)
}

// DefaultExecutor is the default implementation of Executor that runs actual commands
type DefaultExecutor struct{}

// NewExecutor creates a new default cargo executor
func NewExecutor() Executor {
	return &DefaultExecutor{}
}

// RunMetadata executes `cargo metadata` and returns the raw JSON output.
// It respects the provided context for cancellation. stdout and stderr are
// kept separate: cargo prints progress and warnings on stderr while the
// JSON document goes to stdout.
func (e *DefaultExecutor) RunMetadata(ctx context.Context, manifestPath string, extraArgs []string) ([]byte, error) {
	args := []string{"metadata", "--format-version", "1", "--manifest-path", manifestPath}
	args = append(args, extraArgs...)

	cmd := exec.CommandContext(ctx, "cargo", args...)
	cmd.Dir = filepath.Dir(manifestPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("cargo metadata failed: %w\nOutput: %s", err, stderr.String())
	}

	return stdout.Bytes(), nil
}
