package ledger_test

import (
	"encoding/hex"
	"testing"

	"github.com/aquaguardian/aquaguardian/internal/ledger"
)

func TestReportHash(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := ledger.ReportHash("report-1", "oil slick near pier", "oil_spill")
		b := ledger.ReportHash("report-1", "oil slick near pier", "oil_spill")
		if a != b {
			t.Errorf("same inputs produced %q and %q", a, b)
		}
	})

	t.Run("any field changes the digest", func(t *testing.T) {
		base := ledger.ReportHash("report-1", "oil slick near pier", "oil_spill")

		variants := []string{
			ledger.ReportHash("report-2", "oil slick near pier", "oil_spill"),
			ledger.ReportHash("report-1", "plastic debris", "oil_spill"),
			ledger.ReportHash("report-1", "oil slick near pier", "plastic"),
		}
		for i, v := range variants {
			if v == base {
				t.Errorf("variant %d collided with base digest", i)
			}
		}
	})

	t.Run("valid hex sha-256", func(t *testing.T) {
		h := ledger.ReportHash("report-1", "desc", "plastic")
		raw, err := hex.DecodeString(h)
		if err != nil {
			t.Fatalf("not hex: %v", err)
		}
		if len(raw) != 32 {
			t.Errorf("digest length = %d bytes, want 32", len(raw))
		}
	})
}

func TestLocationHash(t *testing.T) {
	t.Run("rounding absorbs float noise", func(t *testing.T) {
		a := ledger.LocationHash(19.07600001, 72.87770004)
		b := ledger.LocationHash(19.0760, 72.8777)
		if a != b {
			t.Errorf("sub-meter noise changed digest: %q vs %q", a, b)
		}
	})

	t.Run("fourth decimal is significant", func(t *testing.T) {
		a := ledger.LocationHash(19.0760, 72.8777)
		b := ledger.LocationHash(19.0761, 72.8777)
		if a == b {
			t.Error("distinct coordinates produced the same digest")
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		if ledger.LocationHash(0, 0) != ledger.LocationHash(0, 0) {
			t.Error("same coordinates produced different digests")
		}
	})
}

func TestConfigFinalize(t *testing.T) {
	t.Run("default timeout applied", func(t *testing.T) {
		var cfg ledger.Config
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		if cfg.TimeoutDuration() <= 0 {
			t.Errorf("timeout = %v, want positive", cfg.TimeoutDuration())
		}
	})

	t.Run("malformed timeout rejected", func(t *testing.T) {
		cfg := ledger.Config{Timeout: "15 sec"}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("Finalize() accepted a malformed timeout")
		}
	})
}
