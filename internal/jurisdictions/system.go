package jurisdictions

import (
	"context"

	"github.com/google/uuid"

	"github.com/aquaguardian/aquaguardian/internal/identity"
)

// System defines the public contract for jurisdiction domain operations.
type System interface {
	Handler() *Handler

	// Resolve returns the id of the first jurisdiction whose circle
	// contains the point, in registration order. A nil id means the
	// point is unassigned; that is not an error.
	Resolve(ctx context.Context, lat, lng float64) (*uuid.UUID, error)

	List(ctx context.Context) ([]Jurisdiction, error)
	Find(ctx context.Context, id uuid.UUID) (*Jurisdiction, error)
	ForGovernment(ctx context.Context, governmentUserID uuid.UUID) (*Jurisdiction, error)
	Create(ctx context.Context, actor *identity.Actor, cmd CreateCommand) (*Jurisdiction, error)
}
