package cleanups

import (
	"context"

	"github.com/google/uuid"

	"github.com/aquaguardian/aquaguardian/internal/identity"
)

// System defines the public contract for cleanup domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Start creates or restarts the single cleanup action for a report,
	// behind the severity gate, and moves the report to Resolution in
	// Progress.
	Start(ctx context.Context, actor *identity.Actor, cmd StartCommand) (*Action, error)

	// Join records the actor as a participant of the cleanup.
	Join(ctx context.Context, actor *identity.Actor, cleanupID uuid.UUID, role string) (*Participant, error)

	// Progress advances the action. Reaching 100 cascades: action
	// completed, report Action completed, contribution proof minted when
	// the actor has a payout address on file.
	Progress(ctx context.Context, actor *identity.Actor, cleanupID uuid.UUID, cmd ProgressCommand) (*Action, error)

	// Campaign creates a cleanup drive from scratch, anchored to a
	// pre-verified placeholder report.
	Campaign(ctx context.Context, actor *identity.Actor, cmd CampaignCommand) (*Action, error)

	Active(ctx context.Context) ([]Action, error)
	Find(ctx context.Context, id uuid.UUID) (*Action, error)
}
