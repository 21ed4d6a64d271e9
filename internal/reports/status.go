package reports

import (
	"fmt"

	"github.com/aquaguardian/aquaguardian/internal/classifier"
	"github.com/aquaguardian/aquaguardian/internal/identity"
)

// Status is a report's lifecycle state. The first four states are reachable
// only at creation; the rest only through the transition operation.
type Status string

const (
	StatusSubmitted            Status = "Submitted"
	StatusVerifiedByAI         Status = "Verified by AI"
	StatusCleanWater           Status = "Clean Water Detected"
	StatusRejectedByAI         Status = "Rejected by AI"
	StatusVerified             Status = "Verified"
	StatusInProgress           Status = "Resolution in Progress"
	StatusAwaitingVerification Status = "Awaiting Verification"
	StatusActionCompleted      Status = "Action completed"
	StatusResolved             Status = "Resolved"
)

var knownStatuses = map[Status]bool{
	StatusSubmitted:            true,
	StatusVerifiedByAI:         true,
	StatusCleanWater:           true,
	StatusRejectedByAI:         true,
	StatusVerified:             true,
	StatusInProgress:           true,
	StatusAwaitingVerification: true,
	StatusActionCompleted:      true,
	StatusResolved:             true,
}

// ParseStatus validates a raw status string against the known state set.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !knownStatuses[s] {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

// VerifyThreshold is the confidence floor for auto-verifying a report at
// creation.
const VerifyThreshold = 0.75

// InitialStatus derives a new report's status from its classification,
// evaluated exactly once at creation.
func InitialStatus(label string, confidence float64) Status {
	switch {
	case label == classifier.LabelInvalidImage:
		return StatusRejectedByAI
	case label == classifier.LabelClean:
		return StatusCleanWater
	case confidence >= VerifyThreshold:
		return StatusVerifiedByAI
	default:
		return StatusSubmitted
	}
}

// Transition describes a requested status change for guard evaluation.
type Transition struct {
	Target        Status
	Role          identity.Role
	HasProofImage bool
	PhotoCount    int
}

// closureStates are the targets behind the proof gate.
var closureStates = map[Status]bool{
	StatusActionCompleted:      true,
	StatusResolved:             true,
	StatusAwaitingVerification: true,
}

// guard rejects a transition or passes it along. Guards run in declaration
// order and the first rejection wins.
type guard struct {
	name  string
	check func(t Transition) error
}

var transitionGuards = []guard{
	{
		name: "proof",
		check: func(t Transition) error {
			if !closureStates[t.Target] {
				return nil
			}
			// A second photo on record counts as proof: the first is
			// always the original evidence.
			if t.HasProofImage || t.PhotoCount > 1 {
				return nil
			}
			return ErrProofRequired
		},
	},
	{
		name: "ngo",
		check: func(t Transition) error {
			if t.Target == StatusResolved && t.Role != identity.RoleNGO {
				return ErrNGOOnly
			}
			return nil
		},
	},
}

// ValidateTransition runs the transition guards in order. There is no
// terminal-state lock: a Resolved report may still transition.
func ValidateTransition(t Transition) error {
	for _, g := range transitionGuards {
		if err := g.check(t); err != nil {
			return fmt.Errorf("%s gate: %w", g.name, err)
		}
	}
	return nil
}
