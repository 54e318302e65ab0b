// Package conversation persists the assistant chat history. Turns are
// append-only; ordering is arrival order and no turn is mutated after
// creation.
package conversation

import (
	"context"
	"time"
)

// Turn is one message in the conversation, user- or assistant-authored.
type Turn struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	FromUser  bool      `json:"from_user"`
	CreatedAt time.Time `json:"created_at"`
}

// Sink receives conversation turns for persistence and display.
type Sink interface {
	Append(ctx context.Context, turn Turn) error
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	// Recent returns up to limit turns ordered oldest first. A limit <= 0
	// returns everything retained.
	Recent(ctx context.Context, limit int) ([]Turn, error)
	Close() error
}
