// Package device attempts local execution of classified commands. The
// executor never fails: every condition, including "no app can handle that",
// is encoded in the Outcome so the assistant pipeline always continues to
// the language model.
package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/arialabs/aria-core/internal/command"
	"github.com/arialabs/aria-core/internal/permission"
)

// Outcome reports whether a command was handled locally. Handled=false means
// no local rule fired or the action could not be performed; it never stops
// the pipeline.
type Outcome struct {
	Handled bool
	Message string
}

// Executor performs the local-action attempt for a command.
type Executor interface {
	Execute(ctx context.Context, cmd command.Command) Outcome
}

const msgAppNotFound = "I couldn't find an app for that on this device."

// LocalExecutor answers time and date queries in-process and delegates
// OS-level effects to a Launcher.
type LocalExecutor struct {
	launcher Launcher
	gate     permission.Gate
	log      *slog.Logger
	clock    func() time.Time
}

func NewLocalExecutor(launcher Launcher, gate permission.Gate, log *slog.Logger) *LocalExecutor {
	return &LocalExecutor{
		launcher: launcher,
		gate:     gate,
		log:      log.With(slog.String("component", "device-executor")),
		clock:    time.Now,
	}
}

func (e *LocalExecutor) Execute(ctx context.Context, cmd command.Command) Outcome {
	switch cmd.Kind {
	case command.KindOpenApp:
		return e.openApp(ctx, cmd.Target)
	case command.KindSearch:
		return e.search(ctx, cmd.Query)
	case command.KindDial:
		return e.dial(ctx, cmd.Number)
	case command.KindSendText:
		return e.sendText(ctx, cmd.Recipient, cmd.Body)
	case command.KindAddCalendarEvent:
		return e.addCalendarEvent(ctx, cmd.Title)
	case command.KindOpenCamera:
		return e.launch(ctx, e.launcher.OpenCamera, "Opening camera.")
	case command.KindPlayMusic:
		return e.launch(ctx, e.launcher.PlayMusic, "Starting your default music app.")
	case command.KindSetAlarm:
		return e.setAlarm(ctx, cmd.Hour, cmd.Minute)
	case command.KindTellTime:
		return Outcome{Handled: true, Message: "It is " + e.clock().Format("3:04 PM")}
	case command.KindTellDate:
		return Outcome{Handled: true, Message: "Today is " + e.clock().Format("Monday, January 2")}
	default:
		return Outcome{}
	}
}

func (e *LocalExecutor) openApp(ctx context.Context, target string) Outcome {
	if err := e.launcher.OpenApp(ctx, target); err != nil {
		return e.failure("open app", err)
	}
	// Matches the source behavior: launching an app produces no spoken
	// confirmation, only the AI reply follows.
	return Outcome{Handled: true}
}

func (e *LocalExecutor) search(ctx context.Context, query string) Outcome {
	searchURL := "https://www.google.com/search?q=" + url.QueryEscape(query)
	if err := e.launcher.OpenURL(ctx, searchURL); err != nil {
		return e.failure("search", err)
	}
	return Outcome{Handled: true, Message: "Searching Google for " + query}
}

func (e *LocalExecutor) dial(ctx context.Context, number string) Outcome {
	if number == "" {
		return Outcome{Message: "Please say the phone number you want to call."}
	}
	direct := e.gate.IsGranted(permission.CapabilityPhoneCall)
	if err := e.launcher.Dial(ctx, number, direct); err != nil {
		return e.failure("dial", err)
	}
	if direct {
		return Outcome{Handled: true, Message: "Calling " + number}
	}
	return Outcome{Handled: true, Message: "Opening dialer for " + number}
}

func (e *LocalExecutor) sendText(ctx context.Context, recipient, body string) Outcome {
	if recipient == "" {
		return Outcome{Message: "Please specify who to send the message to."}
	}
	if body == "" {
		return Outcome{Message: "Please include the message content."}
	}
	err := e.launcher.ComposeText(ctx, recipient, body)
	if err == nil {
		return Outcome{Handled: true, Message: fmt.Sprintf("Drafting SMS to %s.", recipient)}
	}
	// No messaging app available: fall back to a direct send when the
	// capability allows it.
	if errors.Is(err, ErrNotFound) && e.gate.IsGranted(permission.CapabilitySendSMS) {
		if sendErr := e.launcher.SendText(ctx, recipient, body); sendErr == nil {
			return Outcome{Handled: true, Message: fmt.Sprintf("SMS sent to %s.", recipient)}
		}
	}
	return e.failure("send text", err)
}

func (e *LocalExecutor) addCalendarEvent(ctx context.Context, title string) Outcome {
	if err := e.launcher.AddCalendarEvent(ctx, title); err != nil {
		return e.failure("calendar event", err)
	}
	return Outcome{Handled: true, Message: "Opening calendar to add your event."}
}

func (e *LocalExecutor) setAlarm(ctx context.Context, hour, minute int) Outcome {
	if err := e.launcher.SetAlarm(ctx, hour, minute); err != nil {
		return e.failure("set alarm", err)
	}
	return Outcome{Handled: true, Message: fmt.Sprintf("Setting alarm for %d:%02d", hour, minute)}
}

func (e *LocalExecutor) launch(ctx context.Context, fn func(context.Context) error, message string) Outcome {
	if err := fn(ctx); err != nil {
		return e.failure("launch", err)
	}
	return Outcome{Handled: true, Message: message}
}

func (e *LocalExecutor) failure(action string, err error) Outcome {
	e.log.Warn("device action failed",
		slog.String("action", action),
		slog.String("error", err.Error()))
	if errors.Is(err, ErrNotFound) {
		return Outcome{Message: msgAppNotFound}
	}
	return Outcome{}
}
