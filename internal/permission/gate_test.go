package permission

import (
	"testing"

	"github.com/arialabs/aria-core/internal/command"
)

func TestRequiredCapability(t *testing.T) {
	cases := []struct {
		kind  command.Kind
		token string
		need  bool
	}{
		{command.KindDial, CapabilityPhoneCall, true},
		{command.KindSendText, CapabilitySendSMS, true},
		{command.KindOpenApp, "", false},
		{command.KindSearch, "", false},
		{command.KindSetAlarm, "", false},
		{command.KindTellTime, "", false},
		{command.KindUnrecognized, "", false},
	}
	for _, tc := range cases {
		token, need := RequiredCapability(command.Command{Kind: tc.kind})
		if token != tc.token || need != tc.need {
			t.Fatalf("RequiredCapability(%s) = (%q, %v), want (%q, %v)",
				tc.kind, token, need, tc.token, tc.need)
		}
	}
}

func TestRationaleIsNeverEmpty(t *testing.T) {
	for _, token := range []string{CapabilityPhoneCall, CapabilitySendSMS, "unknown-token"} {
		if Rationale(token) == "" {
			t.Fatalf("expected rationale for %q", token)
		}
	}
}
