package conversation

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Sink used for memory retention mode and tests.
type Memory struct {
	mu     sync.Mutex
	turns  []Turn
	nextID int64
	clock  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{nextID: 1, clock: time.Now}
}

func (m *Memory) Append(_ context.Context, turn Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	turn.ID = m.nextID
	m.nextID++
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = m.clock().UTC()
	}
	m.turns = append(m.turns, turn)
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = nil
	return nil
}

func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.turns), nil
}

func (m *Memory) Recent(_ context.Context, limit int) ([]Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.turns) {
		limit = len(m.turns)
	}
	out := make([]Turn, limit)
	copy(out, m.turns[len(m.turns)-limit:])
	return out, nil
}

func (m *Memory) Close() error { return nil }
