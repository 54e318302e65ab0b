package capability

import (
	"io"
	"log/slog"
	"testing"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSeededGrants(t *testing.T) {
	s := NewStore([]string{"phone-call", ""}, newLogger())
	if !s.IsGranted("phone-call") {
		t.Fatal("expected seeded capability to be granted")
	}
	if s.IsGranted("send-sms") {
		t.Fatal("expected unseeded capability to be denied")
	}
	if s.IsGranted("") {
		t.Fatal("empty token must never be granted")
	}
}

func TestGrantAndRevoke(t *testing.T) {
	s := NewStore(nil, newLogger())
	if !s.Grant("send-sms") {
		t.Fatal("expected first grant to report newly granted")
	}
	if s.Grant("send-sms") {
		t.Fatal("expected repeat grant to report already granted")
	}
	if !s.IsGranted("send-sms") {
		t.Fatal("expected granted capability")
	}
	s.Revoke("send-sms")
	if s.IsGranted("send-sms") {
		t.Fatal("expected revoked capability to be denied")
	}
}

func TestSnapshotStableOrder(t *testing.T) {
	s := NewStore([]string{"send-sms", "phone-call"}, newLogger())
	got := s.Snapshot()
	if len(got) != 2 || got[0] != "phone-call" || got[1] != "send-sms" {
		t.Fatalf("unexpected snapshot: %v", got)
	}
}
