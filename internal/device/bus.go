package device

import (
	"context"
	"encoding/json"
	"time"

	"github.com/arialabs/aria-core/internal/bus"
	"github.com/arialabs/aria-core/internal/protocol"
	"github.com/google/uuid"
)

// BusLauncher publishes action requests for a device-side agent to perform.
// Publishing is fire-and-forget: a request that no agent picks up is
// indistinguishable from success here, the agent owns its own retries.
type BusLauncher struct {
	bus *bus.Client
}

func NewBusLauncher(busClient *bus.Client) *BusLauncher {
	return &BusLauncher{bus: busClient}
}

func (l *BusLauncher) publish(req protocol.ActionRequest) error {
	req.ID = uuid.NewString()
	req.Timestamp = time.Now().UTC()
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return l.bus.Conn().Publish(protocol.SubjectActionRequest, data)
}

func (l *BusLauncher) OpenApp(_ context.Context, target string) error {
	return l.publish(protocol.ActionRequest{Kind: "open_app", Target: target})
}

func (l *BusLauncher) OpenURL(_ context.Context, url string) error {
	return l.publish(protocol.ActionRequest{Kind: "open_url", URL: url})
}

func (l *BusLauncher) OpenCamera(_ context.Context) error {
	return l.publish(protocol.ActionRequest{Kind: "open_camera"})
}

func (l *BusLauncher) PlayMusic(_ context.Context) error {
	return l.publish(protocol.ActionRequest{Kind: "play_music"})
}

func (l *BusLauncher) Dial(_ context.Context, number string, direct bool) error {
	return l.publish(protocol.ActionRequest{Kind: "dial", Number: number, Direct: direct})
}

func (l *BusLauncher) ComposeText(_ context.Context, recipient, body string) error {
	return l.publish(protocol.ActionRequest{Kind: "compose_text", Recipient: recipient, Body: body})
}

func (l *BusLauncher) SendText(_ context.Context, recipient, body string) error {
	return l.publish(protocol.ActionRequest{Kind: "send_text", Recipient: recipient, Body: body})
}

func (l *BusLauncher) AddCalendarEvent(_ context.Context, title string) error {
	return l.publish(protocol.ActionRequest{Kind: "add_calendar_event", Title: title})
}

func (l *BusLauncher) SetAlarm(_ context.Context, hour, minute int) error {
	return l.publish(protocol.ActionRequest{Kind: "set_alarm", Hour: hour, Minute: minute})
}
