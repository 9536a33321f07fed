package courses

import (
	"testing"

	"github.com/prepmock/backend/internal/models"
)

func TestDefaultSourcingMode(t *testing.T) {
	cases := []struct {
		subject string
		want    models.SourcingMode
	}{
		{"Current Affairs", models.SourcingGenerative},
		{"current affairs (weekly)", models.SourcingGenerative},
		{"News & Events", models.SourcingGenerative},
		{"Indian Polity", models.SourcingBank},
		{"Geography", models.SourcingBank},
		{"", models.SourcingBank},
	}

	for _, c := range cases {
		if got := DefaultSourcingMode(c.subject); got != c.want {
			t.Errorf("DefaultSourcingMode(%q) = %q, want %q", c.subject, got, c.want)
		}
	}
}

func TestValidSourcingModes(t *testing.T) {
	if !models.ValidSourcingModes[models.SourcingBank] || !models.ValidSourcingModes[models.SourcingGenerative] {
		t.Error("both sourcing modes must be valid")
	}
	if models.ValidSourcingModes["hybrid"] {
		t.Error("unknown modes must be rejected")
	}
}
