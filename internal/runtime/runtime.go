// Package runtime assembles the daemon: telemetry, the message bus, the
// conversation store, and the assistant pipeline, plus the HTTP surface for
// health and conversation inspection.
package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arialabs/aria-core/internal/assistant"
	"github.com/arialabs/aria-core/internal/bus"
	"github.com/arialabs/aria-core/internal/capability"
	"github.com/arialabs/aria-core/internal/config"
	"github.com/arialabs/aria-core/internal/conversation"
	"github.com/arialabs/aria-core/internal/device"
	"github.com/arialabs/aria-core/internal/llm"
	"github.com/arialabs/aria-core/internal/natsserver"
	"github.com/arialabs/aria-core/internal/speech"
)

type Runtime struct {
	cfg         config.Config
	logger      *slog.Logger
	httpServer  *http.Server
	tracerClose func(context.Context) error

	busClient *bus.Client
	embedded  *natsserver.EmbeddedServer
	sink      conversation.Sink
	engine    *assistant.Engine
	service   *assistant.Service

	ready atomic.Bool
	wg    sync.WaitGroup
}

func New(cfg config.Config, logger *slog.Logger) *Runtime {
	return &Runtime{
		cfg:    cfg,
		logger: logger,
	}
}

// Start brings the runtime up and blocks until ctx is cancelled, then tears
// everything down in reverse order.
func (r *Runtime) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shutdownTelemetry, err := setupTelemetry(r.cfg, r.logger)
	if err != nil {
		return fmt.Errorf("failed to setup telemetry: %w", err)
	}
	r.tracerClose = shutdownTelemetry

	embedded, err := natsserver.Start(r.cfg.Bus, r.logger)
	if err != nil {
		return fmt.Errorf("failed to start embedded bus: %w", err)
	}
	r.embedded = embedded

	busClient, err := bus.Connect(ctx, r.cfg.Bus, r.logger)
	if err != nil {
		r.embedded.Shutdown()
		return fmt.Errorf("failed to connect to bus: %w", err)
	}
	r.busClient = busClient

	sink, err := conversation.Open(ctx, r.cfg.Conversation, r.logger)
	if err != nil {
		r.teardown()
		return fmt.Errorf("failed to open conversation store: %w", err)
	}
	r.sink = sink

	caps := capability.NewStore(r.cfg.Capabilities.Granted, r.logger)

	launcher, err := device.NewLauncherFromConfig(r.cfg.Actions, busClient)
	if err != nil {
		r.teardown()
		return fmt.Errorf("failed to build action launcher: %w", err)
	}
	executor := device.NewLocalExecutor(launcher, caps, r.logger)

	client, err := llm.NewFromConfig(r.cfg.LLM)
	if err != nil {
		r.teardown()
		return fmt.Errorf("failed to build language model client: %w", err)
	}

	speaker, err := speech.NewFromConfig(r.cfg.Speech, busClient, r.cfg.Persona.Voice)
	if err != nil {
		r.teardown()
		return fmt.Errorf("failed to build speech output: %w", err)
	}

	persona := llm.Persona{Name: r.cfg.Persona.Name, Voice: r.cfg.Persona.Voice}
	r.engine = assistant.New(ctx, persona, r.cfg.Assistant,
		caps, executor, client, sink, speaker, r.logger)
	r.engine.EnsureGreeting(ctx)

	r.service = assistant.NewService(ctx, busClient, r.engine, caps, r.logger)
	if err := r.service.Start(); err != nil {
		r.teardown()
		return fmt.Errorf("failed to start assistant service: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", r.handleHealth)
	mux.HandleFunc("/readyz", r.handleReady)
	mux.HandleFunc("/v1/conversation", r.handleConversation)

	addr := fmt.Sprintf("%s:%d", r.cfg.HTTP.Bind, r.cfg.HTTP.Port)
	r.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.logger.Error("http server failed", slog.String("error", err.Error()))
		}
	}()

	r.ready.Store(true)
	r.logger.Info("runtime started",
		slog.String("addr", addr),
		slog.String("persona", r.cfg.Persona.Name))

	<-ctx.Done()
	r.logger.Info("runtime stopping")
	r.ready.Store(false)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := r.httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Error("http shutdown error", slog.String("error", err.Error()))
	}
	r.wg.Wait()
	r.teardown()

	if r.tracerClose != nil {
		if err := r.tracerClose(shutdownCtx); err != nil {
			r.logger.Error("telemetry shutdown error", slog.String("error", err.Error()))
		}
	}

	return nil
}

// teardown releases components in reverse dependency order. Safe to call with
// partially-initialized state.
func (r *Runtime) teardown() {
	if r.service != nil {
		r.service.Close()
		r.service = nil
	}
	if r.engine != nil {
		r.engine.Close()
		r.engine = nil
	}
	if r.sink != nil {
		if err := r.sink.Close(); err != nil {
			r.logger.Error("conversation store close error", slog.String("error", err.Error()))
		}
		r.sink = nil
	}
	if r.busClient != nil {
		r.busClient.Close()
		r.busClient = nil
	}
	if r.embedded != nil {
		r.embedded.Shutdown()
		r.embedded = nil
	}
}

func (r *Runtime) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (r *Runtime) handleReady(w http.ResponseWriter, _ *http.Request) {
	if r.ready.Load() && r.busClient.Healthy() && r.service.Healthy() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("not ready"))
}

// handleConversation returns the most recent turns, oldest first. The limit
// query parameter caps the window; 0 or absent returns everything retained.
func (r *Runtime) handleConversation(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	limit := 0
	if raw := req.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	turns, err := r.sink.Recent(req.Context(), limit)
	if err != nil {
		r.logger.Error("conversation read failed", slog.String("error", err.Error()))
		http.Error(w, "conversation unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"turns": turns}); err != nil {
		r.logger.Error("conversation encode failed", slog.String("error", err.Error()))
	}
}
