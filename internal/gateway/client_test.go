package gateway

import (
	"net/url"
	"strings"
	"testing"
)

func TestConfigured(t *testing.T) {
	tests := []struct {
		name     string
		storeID  string
		password string
		want     bool
	}{
		{"both set", "MC1234", "s3cret", true},
		{"missing password", "MC1234", "", false},
		{"missing store id", "", "s3cret", false},
		{"neither", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.storeID, tt.password, "https://example.com")
			if got := c.Configured(); got != tt.want {
				t.Errorf("Configured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRedirectURL(t *testing.T) {
	c := New("MC1234", "s3cret", "https://shop.example.com/")

	raw := c.RedirectURL(DefaultAmount, "665f1c2ab1e2c3d4e5f60718")

	if !strings.HasPrefix(raw, SandboxURL+"?") {
		t.Fatalf("expected sandbox endpoint prefix, got %s", raw)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("redirect URL does not parse: %v", err)
	}
	q := parsed.Query()

	if got := q.Get("amount"); got != "1200" {
		t.Errorf("amount = %s, want 1200", got)
	}
	if got := q.Get("bill_reference"); got != "665f1c2ab1e2c3d4e5f60718" {
		t.Errorf("bill_reference = %s", got)
	}
	if got := q.Get("return_url"); got != "https://shop.example.com/success" {
		t.Errorf("return_url = %s", got)
	}
	if got := q.Get("credentials"); got != "MC1234:s3cret" {
		t.Errorf("credentials = %s", got)
	}
}
