package cargo

import (
	"context"
)

// MockExecutor is a mock implementation of Executor for testing
type MockExecutor struct {
	MockOutput []byte
	MockError  error
}

func (m *MockExecutor) RunMetadata(ctx context.Context, manifestPath string, extraArgs []string) ([]byte, error) {
	return m.MockOutput, m.MockError
}
