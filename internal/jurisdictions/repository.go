package jurisdictions

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aquaguardian/aquaguardian/internal/identity"
	"github.com/aquaguardian/aquaguardian/pkg/query"
	"github.com/aquaguardian/aquaguardian/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a jurisdiction repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "jurisdictions"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Resolve(ctx context.Context, lat, lng float64) (*uuid.UUID, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load jurisdictions: %w", err)
	}
	return FirstMatch(all, lat, lng), nil
}

func (r *repo) List(ctx context.Context) ([]Jurisdiction, error) {
	q, args := query.NewBuilder(projection, resolutionOrder...).Build()
	return repository.QueryMany(ctx, r.db, q, args, scanJurisdiction)
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Jurisdiction, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	j, err := repository.QueryOne(ctx, r.db, q, args, scanJurisdiction)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &j, nil
}

func (r *repo) ForGovernment(ctx context.Context, governmentUserID uuid.UUID) (*Jurisdiction, error) {
	q, args := query.
		NewBuilder(projection, resolutionOrder...).
		WhereEquals("GovernmentUserID", governmentUserID).
		BuildSingleOrNull()

	j, err := repository.QueryOne(ctx, r.db, q, args, scanJurisdiction)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &j, nil
}

func (r *repo) Create(ctx context.Context, actor *identity.Actor, cmd CreateCommand) (*Jurisdiction, error) {
	if actor.Role != identity.RoleGovernment {
		return nil, ErrGovernmentOnly
	}

	if cmd.GovernmentUserID == uuid.Nil {
		cmd.GovernmentUserID = actor.ID
	}

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO jurisdictions(id, government_user_id, name, code, center_lat, center_lng, radius_km)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, government_user_id, name, code, center_lat, center_lng, radius_km, created_at`

	insertArgs := []any{
		uuid.New(),
		cmd.GovernmentUserID,
		cmd.Name,
		cmd.Code,
		cmd.CenterLat,
		cmd.CenterLng,
		cmd.RadiusKm,
	}

	j, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Jurisdiction, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanJurisdiction)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("jurisdiction created", "id", j.ID, "code", j.Code)
	return &j, nil
}
