// Package assistant orchestrates the command pipeline: classify, gate on
// capabilities, attempt local execution, then ask the language model. At most
// one run is active; new input cancels and replaces the previous run.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/arialabs/aria-core/internal/command"
	"github.com/arialabs/aria-core/internal/config"
	"github.com/arialabs/aria-core/internal/conversation"
	"github.com/arialabs/aria-core/internal/device"
	"github.com/arialabs/aria-core/internal/llm"
	"github.com/arialabs/aria-core/internal/permission"
	"github.com/arialabs/aria-core/internal/speech"
)

// PendingCommand holds input deferred on a missing capability. At most one is
// retained; new input discards it.
type PendingCommand struct {
	Token string
	Input string
}

type run struct {
	id       string
	ctx      context.Context
	cancel   context.CancelFunc
	input    string
	echoUser bool
}

// Engine drives orchestration runs. All cross-run state (active run, pending
// slot, greeting flag) sits behind one mutex; emissions re-check run
// ownership under that mutex so a superseded run can never write a turn.
type Engine struct {
	persona  llm.Persona
	greeting string
	fallback string

	gate     permission.Gate
	executor device.Executor
	client   llm.Client
	sink     conversation.Sink
	speaker  speech.Speaker
	log      *slog.Logger

	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	active  *run
	pending *PendingCommand
	greeted bool

	processing atomic.Bool

	runsStarted    metric.Int64Counter
	runsSuperseded metric.Int64Counter
	runsDeferred   metric.Int64Counter
	llmFallbacks   metric.Int64Counter
}

func New(
	parent context.Context,
	persona llm.Persona,
	cfg config.AssistantConfig,
	gate permission.Gate,
	executor device.Executor,
	client llm.Client,
	sink conversation.Sink,
	speaker speech.Speaker,
	logger *slog.Logger,
) *Engine {
	ctx, cancel := context.WithCancel(parent)
	e := &Engine{
		persona:  persona,
		greeting: cfg.GreetingTemplate,
		fallback: cfg.LLMFailureReply,
		gate:     gate,
		executor: executor,
		client:   client,
		sink:     sink,
		speaker:  speaker,
		log:      logger.With(slog.String("component", "assistant")),
		base:     ctx,
		cancel:   cancel,
	}
	e.initMetrics()
	return e
}

func (e *Engine) initMetrics() {
	meter := otel.Meter("github.com/arialabs/aria-core/assistant")
	var err error
	if e.runsStarted, err = meter.Int64Counter("aria.assistant.runs_started"); err != nil {
		e.log.Warn("failed to create runs_started counter", slogError(err))
	}
	if e.runsSuperseded, err = meter.Int64Counter("aria.assistant.runs_superseded"); err != nil {
		e.log.Warn("failed to create runs_superseded counter", slogError(err))
	}
	if e.runsDeferred, err = meter.Int64Counter("aria.assistant.runs_deferred"); err != nil {
		e.log.Warn("failed to create runs_deferred counter", slogError(err))
	}
	if e.llmFallbacks, err = meter.Int64Counter("aria.assistant.llm_fallbacks"); err != nil {
		e.log.Warn("failed to create llm_fallbacks counter", slogError(err))
	}
}

// Submit starts a run for raw input, cancelling any run in flight and
// discarding any pending command. When addUserMessage is true the input is
// echoed into the conversation before any assistant turn.
func (e *Engine) Submit(text string, addUserMessage bool) {
	e.EnsureGreeting(e.base)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = nil
	e.startRunLocked(text, addUserMessage)
}

// NotifyCapabilityGranted resumes the pending command when its capability
// token matches. The slot is cleared before the resumed run starts, so a
// second call cannot resume twice.
func (e *Engine) NotifyCapabilityGranted(token string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil || e.pending.Token != token {
		return
	}
	input := e.pending.Input
	e.pending = nil
	e.log.Info("resuming deferred command", slog.String("capability", token))
	e.startRunLocked(input, false)
}

// ClearConversation drops all stored turns and re-arms the greeting.
func (e *Engine) ClearConversation(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.sink.Clear(ctx); err != nil {
		return fmt.Errorf("clear conversation: %w", err)
	}
	e.greeted = false
	return nil
}

// EnsureGreeting emits the persona greeting once per process lifetime, and
// only when the conversation is empty. ClearConversation re-arms it.
func (e *Engine) EnsureGreeting(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.greeted {
		return
	}
	count, err := e.sink.Count(ctx)
	if err != nil {
		e.log.Warn("failed to count conversation turns", slogError(err))
		return
	}
	e.greeted = true
	if count > 0 {
		return
	}
	e.record(fmt.Sprintf(e.greeting, e.persona.Name), false)
}

// Processing reports whether a run is currently in its executing or replying
// phase. Gated and superseded runs never show as processing.
func (e *Engine) Processing() bool {
	return e.processing.Load()
}

// Pending returns a copy of the deferred command, if any.
func (e *Engine) Pending() *PendingCommand {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return nil
	}
	p := *e.pending
	return &p
}

// Close cancels the active run and waits for all run goroutines to exit.
func (e *Engine) Close() {
	e.cancel()
	e.wg.Wait()
}

// startRunLocked cancels-and-replaces the active run. Callers hold e.mu.
func (e *Engine) startRunLocked(text string, echoUser bool) {
	if e.active != nil {
		e.active.cancel()
		e.count(e.runsSuperseded)
	}
	ctx, cancel := context.WithCancel(e.base)
	r := &run{
		id:       uuid.NewString(),
		ctx:      ctx,
		cancel:   cancel,
		input:    text,
		echoUser: echoUser,
	}
	e.active = r
	e.processing.Store(false)
	e.count(e.runsStarted)
	e.wg.Add(1)
	go e.execute(r)
}

func (e *Engine) execute(r *run) {
	defer e.wg.Done()
	defer e.finish(r)

	cmd := command.Classify(r.input)
	e.log.Debug("classified input",
		slog.String("run_id", r.id),
		slog.String("kind", cmd.Kind.String()))

	if r.echoUser {
		if !e.emit(r, r.input, true) {
			return
		}
	}

	if token, required := permission.RequiredCapability(cmd); required && !e.gate.IsGranted(token) {
		e.deferRun(r, token)
		return
	}

	// Executing: the flag is only raised once the run has survived the gate
	// and is still the active run.
	e.mu.Lock()
	if e.active != r {
		e.mu.Unlock()
		return
	}
	e.processing.Store(true)
	e.mu.Unlock()

	outcome := e.executor.Execute(r.ctx, cmd)
	if r.ctx.Err() != nil {
		return
	}
	// Only a handled outcome speaks its message; an unhandled one keeps its
	// explanation at the executor boundary and the model replies instead.
	if outcome.Handled && outcome.Message != "" {
		if !e.emit(r, outcome.Message, false) {
			return
		}
	}

	// Replying: the language model always runs, whether or not the command
	// was handled locally. Its failure becomes an apology turn, never an
	// error.
	reply, err := e.client.Complete(r.ctx, r.input, e.persona)
	if r.ctx.Err() != nil {
		return
	}
	if err != nil {
		e.log.Warn("language model failed",
			slog.String("run_id", r.id),
			slogError(err))
		e.count(e.llmFallbacks)
		reply = e.fallback
	}
	e.emit(r, reply, false)
}

// deferRun parks the input behind its missing capability and emits the
// rationale. Neither the executor nor the language model is touched.
func (e *Engine) deferRun(r *run, token string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != r {
		return
	}
	e.pending = &PendingCommand{Token: token, Input: r.input}
	e.count(e.runsDeferred)
	e.log.Info("command deferred on capability",
		slog.String("run_id", r.id),
		slog.String("capability", token))
	e.record(permission.Rationale(token), false)
}

func (e *Engine) finish(r *run) {
	e.mu.Lock()
	if e.active == r {
		e.active = nil
		e.processing.Store(false)
	}
	e.mu.Unlock()
	r.cancel()
}

// emit appends a turn on behalf of a run. It returns false without side
// effects when the run has been superseded.
func (e *Engine) emit(r *run, content string, fromUser bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != r {
		return false
	}
	e.record(content, fromUser)
	return true
}

// record appends and speaks a turn. Callers hold e.mu.
func (e *Engine) record(content string, fromUser bool) {
	turn := conversation.Turn{Content: content, FromUser: fromUser}
	if err := e.sink.Append(e.base, turn); err != nil {
		e.log.Warn("failed to append conversation turn", slogError(err))
	}
	if fromUser {
		return
	}
	if err := e.speaker.Speak(e.base, content); err != nil {
		e.log.Warn("failed to request speech", slogError(err))
	}
}

func (e *Engine) count(counter metric.Int64Counter) {
	if counter != nil {
		counter.Add(e.base, 1)
	}
}

func slogError(err error) slog.Attr {
	return slog.String("error", err.Error())
}
