package discussions

import (
	"context"

	"github.com/google/uuid"

	"github.com/aquaguardian/aquaguardian/internal/identity"
)

// System defines the public contract for discussion domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	Post(ctx context.Context, actor *identity.Actor, cmd PostCommand) (*Discussion, error)
	ListForReport(ctx context.Context, reportID uuid.UUID) ([]Discussion, error)
}
