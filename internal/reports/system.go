package reports

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/aquaguardian/aquaguardian/internal/identity"
	"github.com/aquaguardian/aquaguardian/pkg/pagination"
)

// System defines the public contract for report domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Create runs the submission pipeline: citizen gate, classification,
	// initial status, jurisdiction routing, persisted report + evidence
	// photo, then background blob upload, ledger log, and authority
	// notification.
	Create(ctx context.Context, actor *identity.Actor, cmd CreateCommand) (*Report, error)

	// UpdateStatus applies the guarded transition and appends the
	// STATUS_UPDATE audit entry in the same transaction.
	UpdateStatus(ctx context.Context, actor *identity.Actor, id uuid.UUID, cmd UpdateStatusCommand) (*Report, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Report], error)

	Find(ctx context.Context, id uuid.UUID) (*Report, error)

	// Evidence streams the stored blob for a report's evidence file. The
	// caller must close the reader.
	Evidence(ctx context.Context, id uuid.UUID, filename string) (io.ReadCloser, error)

	Verified(ctx context.Context) ([]Report, error)
	ByUser(ctx context.Context, userID uuid.UUID) ([]Report, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	MapData(ctx context.Context) ([]MapPoint, error)
	ForJurisdiction(ctx context.Context, jurisdictionID uuid.UUID) ([]Report, error)

	// Severity returns just the severity of a report, for the cleanup
	// safety gate.
	Severity(ctx context.Context, id uuid.UUID) (int, error)

	// SetStatus applies a status without transition guards. Reserved for
	// workflow cascades, which carry their own proof.
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error

	// CreateCampaignBase inserts the pre-verified placeholder report that
	// anchors a cleanup campaign.
	CreateCampaignBase(ctx context.Context, userID uuid.UUID, description, photoURL string) (*Report, error)
}
