// Package capability tracks which runtime capability tokens the host has
// granted. The store is the single source of truth the permission gate and
// the device executor consult.
package capability

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type Store struct {
	log   *slog.Logger
	meter metric.Meter

	mu      sync.RWMutex
	granted map[string]struct{}
}

// NewStore seeds the granted set from config. Later grants arrive through
// Grant, typically driven by the host's permission surface.
func NewStore(granted []string, log *slog.Logger) *Store {
	s := &Store{
		log:     log.With(slog.String("component", "capability-store")),
		meter:   otel.Meter("github.com/arialabs/aria-core/capability"),
		granted: make(map[string]struct{}, len(granted)),
	}
	for _, token := range granted {
		if token != "" {
			s.granted[token] = struct{}{}
		}
	}
	if err := s.initMetrics(); err != nil {
		s.log.Warn("failed to initialize metrics", slog.String("error", err.Error()))
	}
	return s
}

// IsGranted reports whether a capability token is currently granted.
func (s *Store) IsGranted(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.granted[token]
	return ok
}

// Grant records a capability as granted. It returns true when the token was
// not previously granted.
func (s *Store) Grant(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.granted[token]; ok {
		return false
	}
	s.granted[token] = struct{}{}
	s.log.Info("capability granted", slog.String("token", token))
	return true
}

// Revoke removes a capability from the granted set.
func (s *Store) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.granted, token)
}

// Snapshot returns the granted tokens in stable order.
func (s *Store) Snapshot() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tokens := make([]string, 0, len(s.granted))
	for token := range s.granted {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

func (s *Store) initMetrics() error {
	gauge, err := s.meter.Int64ObservableGauge("aria.capabilities.granted",
		metric.WithDescription("Number of granted capability tokens"))
	if err != nil {
		return err
	}
	_, err = s.meter.RegisterCallback(func(_ context.Context, obs metric.Observer) error {
		s.mu.RLock()
		n := int64(len(s.granted))
		s.mu.RUnlock()
		obs.ObserveInt64(gauge, n)
		return nil
	}, gauge)
	return err
}
