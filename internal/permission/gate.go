// Package permission decides whether a command needs a runtime capability
// before it may execute. Capability acquisition (prompting the user) belongs
// to the host; this package only maps command kinds to capability tokens.
package permission

import "github.com/arialabs/aria-core/internal/command"

// Capability tokens the host environment may grant.
const (
	CapabilityPhoneCall = "phone-call"
	CapabilitySendSMS   = "send-sms"
)

// Gate answers whether a capability token is currently granted.
type Gate interface {
	IsGranted(token string) bool
}

// RequiredCapability returns the capability a command kind needs, if any.
// Most kinds need none. Absence of a granted capability is never an error at
// the executor level; the gate only decides whether a run defers.
func RequiredCapability(cmd command.Command) (string, bool) {
	switch cmd.Kind {
	case command.KindDial:
		return CapabilityPhoneCall, true
	case command.KindSendText:
		return CapabilitySendSMS, true
	default:
		return "", false
	}
}

// Rationale returns the spoken explanation for a deferred command.
func Rationale(token string) string {
	switch token {
	case CapabilityPhoneCall:
		return "I need permission to make phone calls. Please grant it and try again."
	case CapabilitySendSMS:
		return "I need permission to send text messages. Please grant it and try again."
	default:
		return "I need an additional permission before I can do that. Please grant it and try again."
	}
}
