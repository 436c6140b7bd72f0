package sequence

import (
	"context"
)

// MockGenerator is a test implementation of Generator.
// Use in unit tests to avoid database dependencies.
type MockGenerator struct {
	GenerateFunc          func(ctx context.Context, code string) (string, error)
	PreviewNextNumberFunc func(ctx context.Context, code string) (string, error)
}

// Generate implements Generator.
func (m *MockGenerator) Generate(ctx context.Context, code string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, code)
	}
	// Default: return predictable mock number
	return "MOCK0001", nil
}

// PreviewNextNumber implements Generator.
func (m *MockGenerator) PreviewNextNumber(ctx context.Context, code string) (string, error) {
	if m.PreviewNextNumberFunc != nil {
		return m.PreviewNextNumberFunc(ctx, code)
	}
	return "MOCK0001", nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)
