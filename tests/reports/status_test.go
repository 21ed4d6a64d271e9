package reports_test

import (
	"errors"
	"testing"

	"github.com/aquaguardian/aquaguardian/internal/classifier"
	"github.com/aquaguardian/aquaguardian/internal/identity"
	"github.com/aquaguardian/aquaguardian/internal/reports"
)

func TestInitialStatus(t *testing.T) {
	tests := []struct {
		name       string
		label      string
		confidence float64
		want       reports.Status
	}{
		{"invalid image rejected", classifier.LabelInvalidImage, 0.99, reports.StatusRejectedByAI},
		{"clean water detected", classifier.LabelClean, 0.95, reports.StatusCleanWater},
		{"high confidence verified", classifier.LabelPlastic, 0.92, reports.StatusVerifiedByAI},
		{"threshold boundary verifies", classifier.LabelOilSpill, 0.75, reports.StatusVerifiedByAI},
		{"below threshold submitted", classifier.LabelSewage, 0.74, reports.StatusSubmitted},
		{"zero confidence submitted", classifier.LabelChemicalWaste, 0, reports.StatusSubmitted},
		{"invalid image wins over confidence", classifier.LabelInvalidImage, 0.5, reports.StatusRejectedByAI},
		{"clean wins over low confidence", classifier.LabelClean, 0.1, reports.StatusCleanWater},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reports.InitialStatus(tt.label, tt.confidence)
			if got != tt.want {
				t.Errorf("InitialStatus(%q, %v) = %q, want %q", tt.label, tt.confidence, got, tt.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	t.Run("known status", func(t *testing.T) {
		s, err := reports.ParseStatus("Verified by AI")
		if err != nil {
			t.Fatalf("ParseStatus() error = %v", err)
		}
		if s != reports.StatusVerifiedByAI {
			t.Errorf("ParseStatus() = %q, want %q", s, reports.StatusVerifiedByAI)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := reports.ParseStatus("Imaginary")
		if !errors.Is(err, reports.ErrUnknownStatus) {
			t.Errorf("ParseStatus() error = %v, want ErrUnknownStatus", err)
		}
	})

	t.Run("case sensitive", func(t *testing.T) {
		_, err := reports.ParseStatus("resolved")
		if !errors.Is(err, reports.ErrUnknownStatus) {
			t.Errorf("ParseStatus() error = %v, want ErrUnknownStatus", err)
		}
	})
}

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		tr      reports.Transition
		wantErr error
	}{
		{
			"non-closure target passes without proof",
			reports.Transition{Target: reports.StatusInProgress, Role: identity.RoleGovernment},
			nil,
		},
		{
			"action completed needs proof",
			reports.Transition{Target: reports.StatusActionCompleted, Role: identity.RoleNGO},
			reports.ErrProofRequired,
		},
		{
			"awaiting verification needs proof",
			reports.Transition{Target: reports.StatusAwaitingVerification, Role: identity.RoleGovernment},
			reports.ErrProofRequired,
		},
		{
			"in-request proof satisfies gate",
			reports.Transition{Target: reports.StatusActionCompleted, Role: identity.RoleGovernment, HasProofImage: true},
			nil,
		},
		{
			"second photo on record satisfies gate",
			reports.Transition{Target: reports.StatusActionCompleted, Role: identity.RoleGovernment, PhotoCount: 2},
			nil,
		},
		{
			"single photo is only original evidence",
			reports.Transition{Target: reports.StatusActionCompleted, Role: identity.RoleGovernment, PhotoCount: 1},
			reports.ErrProofRequired,
		},
		{
			"resolved by ngo with proof passes",
			reports.Transition{Target: reports.StatusResolved, Role: identity.RoleNGO, HasProofImage: true},
			nil,
		},
		{
			"resolved by government rejected",
			reports.Transition{Target: reports.StatusResolved, Role: identity.RoleGovernment, HasProofImage: true},
			reports.ErrNGOOnly,
		},
		{
			"resolved by citizen rejected",
			reports.Transition{Target: reports.StatusResolved, Role: identity.RoleCitizen, HasProofImage: true},
			reports.ErrNGOOnly,
		},
		{
			"proof gate reported before ngo gate",
			reports.Transition{Target: reports.StatusResolved, Role: identity.RoleCitizen},
			reports.ErrProofRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reports.ValidateTransition(tt.tr)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTransition() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTransition() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
