package conversation

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/arialabs/aria-core/internal/config"
	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed Sink.
type Store struct {
	db    *sql.DB
	cfg   config.ConversationConfig
	log   *slog.Logger
	clock func() time.Time
}

// Open initializes the conversation store according to config. Memory mode
// returns an in-process store instead.
func Open(ctx context.Context, cfg config.ConversationConfig, log *slog.Logger) (Sink, error) {
	if cfg.Mode == "memory" {
		return NewMemory(), nil
	}

	dir := filepath.Dir(cfg.Path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &Store{db: db, cfg: cfg, log: log, clock: time.Now}

	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if cfg.VacuumOnStart {
		if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
			log.Warn("conversation store vacuum failed", slog.String("error", err.Error()))
		}
	}

	if err := s.prune(ctx); err != nil {
		log.Warn("conversation store prune on start failed", slog.String("error", err.Error()))
	}

	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS turns (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    content TEXT NOT NULL,
    from_user INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_turns_created ON turns(created_at);
`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

// Close releases underlying resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Append writes one turn into the history.
func (s *Store) Append(ctx context.Context, turn Turn) error {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = s.clock().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns(content, from_user, created_at) VALUES(?, ?, ?)`,
		turn.Content, boolToInt(turn.FromUser), turn.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return err
	}
	return s.prune(ctx)
}

// Clear removes the whole history.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM turns`)
	return err
}

// Count returns the number of stored turns.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM turns`).Scan(&n)
	return n, err
}

// Recent returns up to limit turns ordered oldest first; limit <= 0 returns
// everything retained.
func (s *Store) Recent(ctx context.Context, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = -1 // sqlite: LIMIT -1 means no limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, from_user, created_at FROM (
			SELECT id, content, from_user, created_at FROM turns ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		var fromUser int
		var created string
		if err := rows.Scan(&t.ID, &t.Content, &fromUser, &created); err != nil {
			return nil, err
		}
		t.FromUser = fromUser != 0
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			t.CreatedAt = ts
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// prune keeps only the newest max_turns rows.
func (s *Store) prune(ctx context.Context) error {
	if s.cfg.MaxTurns <= 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM turns WHERE id IN (
		SELECT id FROM turns ORDER BY id DESC LIMIT -1 OFFSET ?
	)`, s.cfg.MaxTurns)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
