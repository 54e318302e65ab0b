package llm

import (
	"context"
	"strings"
	"time"
)

type mockClient struct{}

func NewMockClient() Client { return &mockClient{} }

func (m *mockClient) Complete(ctx context.Context, prompt string, persona Persona) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(20 * time.Millisecond):
	}
	return "[mock reply to " + strings.TrimSpace(prompt) + "]", nil
}
