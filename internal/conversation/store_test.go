package conversation

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/arialabs/aria-core/internal/config"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func openTestStore(t *testing.T, maxTurns int) Sink {
	t.Helper()
	cfg := config.ConversationConfig{
		Mode:     "persistent",
		Path:     filepath.Join(t.TempDir(), "turns.db"),
		MaxTurns: maxTurns,
	}
	sink, err := Open(context.Background(), cfg, newLogger())
	if err != nil {
		t.Fatalf("open conversation store: %v", err)
	}
	t.Cleanup(func() { _ = sink.Close() })
	return sink
}

func TestAppendCountRecent(t *testing.T) {
	ctx := context.Background()
	sink := openTestStore(t, 0)

	if err := sink.Append(ctx, Turn{Content: "hello", FromUser: true}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := sink.Append(ctx, Turn{Content: "hi there", FromUser: false}); err != nil {
		t.Fatalf("append: %v", err)
	}

	n, err := sink.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 turns, got %d", n)
	}

	turns, err := sink.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Content != "hello" || !turns[0].FromUser {
		t.Fatalf("unexpected first turn: %+v", turns[0])
	}
	if turns[1].Content != "hi there" || turns[1].FromUser {
		t.Fatalf("unexpected second turn: %+v", turns[1])
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	sink := openTestStore(t, 0)

	if err := sink.Append(ctx, Turn{Content: "hello", FromUser: true}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := sink.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	n, err := sink.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected empty history, got %d turns", n)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	ctx := context.Background()
	sink := openTestStore(t, 3)

	for _, content := range []string{"one", "two", "three", "four", "five"} {
		if err := sink.Append(ctx, Turn{Content: content}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	n, err := sink.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 turns after prune, got %d", n)
	}
	turns, err := sink.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if turns[0].Content != "three" || turns[2].Content != "five" {
		t.Fatalf("expected newest turns kept, got %+v", turns)
	}
}

func TestRecentZeroLimitReturnsEverything(t *testing.T) {
	ctx := context.Background()
	sinks := map[string]Sink{
		"persistent": openTestStore(t, 0),
		"memory":     NewMemory(),
	}
	for name, sink := range sinks {
		t.Run(name, func(t *testing.T) {
			for _, content := range []string{"one", "two", "three"} {
				if err := sink.Append(ctx, Turn{Content: content}); err != nil {
					t.Fatalf("append: %v", err)
				}
			}
			turns, err := sink.Recent(ctx, 0)
			if err != nil {
				t.Fatalf("recent: %v", err)
			}
			if len(turns) != 3 {
				t.Fatalf("Recent(0) returned %d turns, want all 3", len(turns))
			}
			if turns[0].Content != "one" || turns[2].Content != "three" {
				t.Fatalf("unexpected order: %+v", turns)
			}
		})
	}
}

func TestMemorySink(t *testing.T) {
	ctx := context.Background()
	sink := NewMemory()

	if err := sink.Append(ctx, Turn{Content: "a", FromUser: true}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := sink.Append(ctx, Turn{Content: "b"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	n, _ := sink.Count(ctx)
	if n != 2 {
		t.Fatalf("expected 2 turns, got %d", n)
	}
	turns, _ := sink.Recent(ctx, 1)
	if len(turns) != 1 || turns[0].Content != "b" {
		t.Fatalf("unexpected recent turns: %+v", turns)
	}
	if err := sink.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	n, _ = sink.Count(ctx)
	if n != 0 {
		t.Fatalf("expected cleared history, got %d", n)
	}
}
