package notify_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/aquaguardian/aquaguardian/internal/notify"
)

func TestEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  notify.Config
		want bool
	}{
		{
			name: "host and recipients",
			cfg: notify.Config{
				Host:       "smtp.example.com",
				Recipients: []string{"authority@example.com"},
			},
			want: true,
		},
		{
			name: "missing host",
			cfg:  notify.Config{Recipients: []string{"authority@example.com"}},
			want: false,
		},
		{
			name: "missing recipients",
			cfg:  notify.Config{Host: "smtp.example.com"},
			want: false,
		},
		{
			name: "empty",
			cfg:  notify.Config{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddr(t *testing.T) {
	cfg := notify.Config{Host: "smtp.example.com", Port: 2525}
	if got := cfg.Addr(); got != "smtp.example.com:2525" {
		t.Errorf("Addr() = %s, want smtp.example.com:2525", got)
	}
}

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := notify.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Port != 587 {
		t.Errorf("port default: got %d, want 587", cfg.Port)
	}
}

func TestConfigFinalizeEnvRecipients(t *testing.T) {
	t.Setenv("TEST_NOTIFY_HOST", "smtp.override.com")
	t.Setenv("TEST_NOTIFY_RECIPIENTS", "a@example.com, ,b@example.com")

	env := &notify.Env{
		Host:       "TEST_NOTIFY_HOST",
		Recipients: "TEST_NOTIFY_RECIPIENTS",
	}

	cfg := notify.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Host != "smtp.override.com" {
		t.Errorf("host: got %s", cfg.Host)
	}
	if len(cfg.Recipients) != 2 {
		t.Fatalf("recipients: got %v, want 2 entries", cfg.Recipients)
	}
	if cfg.Recipients[0] != "a@example.com" || cfg.Recipients[1] != "b@example.com" {
		t.Errorf("recipients: got %v", cfg.Recipients)
	}
}

func TestConfigMerge(t *testing.T) {
	base := notify.Config{
		Host:       "smtp.base.com",
		Port:       587,
		From:       "base@example.com",
		Recipients: []string{"base@example.com"},
	}

	overlay := notify.Config{
		Host:       "smtp.overlay.com",
		Recipients: []string{"x@example.com", "y@example.com"},
	}

	base.Merge(&overlay)

	if base.Host != "smtp.overlay.com" {
		t.Errorf("host: got %s", base.Host)
	}
	if base.Port != 587 {
		t.Errorf("port: got %d, want 587 (from base)", base.Port)
	}
	if base.From != "base@example.com" {
		t.Errorf("from: got %s, want base@example.com (from base)", base.From)
	}
	if len(base.Recipients) != 2 {
		t.Errorf("recipients: got %v", base.Recipients)
	}
}

func TestSendDisabledIsNoOp(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sys := notify.New(notify.Config{}, logger)

	if err := sys.Send(context.Background(), "subject", "body"); err != nil {
		t.Errorf("disabled send should be a no-op, got %v", err)
	}
}
