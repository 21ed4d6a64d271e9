package cleanups

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/aquaguardian/aquaguardian/internal/escalation"
	"github.com/aquaguardian/aquaguardian/internal/identity"
	"github.com/aquaguardian/aquaguardian/internal/ledger"
	"github.com/aquaguardian/aquaguardian/internal/reports"
	"github.com/aquaguardian/aquaguardian/pkg/query"
	"github.com/aquaguardian/aquaguardian/pkg/repository"
	"github.com/aquaguardian/aquaguardian/pkg/storage"
)

// metadataBase prefixes the metadata URI minted into contribution proofs.
const metadataBase = "https://api.aquaguardian.org/metadata/cleanup/"

type repo struct {
	db         *sql.DB
	storage    storage.System
	reports    reports.System
	identity   identity.System
	ledger     ledger.System
	dispatcher *escalation.Dispatcher
	logger     *slog.Logger
}

// New creates a cleanup repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	reportSys reports.System,
	identitySys identity.System,
	ledgerSys ledger.System,
	dispatcher *escalation.Dispatcher,
	logger *slog.Logger,
) System {
	return &repo{
		db:         db,
		storage:    store,
		reports:    reportSys,
		identity:   identitySys,
		ledger:     ledgerSys,
		dispatcher: dispatcher,
		logger:     logger.With("system", "cleanups"),
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, maxUploadSize)
}

func (r *repo) Start(ctx context.Context, actor *identity.Actor, cmd StartCommand) (*Action, error) {
	severity, err := r.reports.Severity(ctx, cmd.ReportID)
	switch {
	case err == nil:
		if err := CheckSeverityGate(severity, actor.Role); err != nil {
			return nil, err
		}
	case errors.Is(err, reports.ErrNotFound):
		return nil, ErrNotFound
	default:
		// Fail open: an unreadable severity must not block the actor.
		r.logger.Warn("severity gate skipped",
			"report_id", cmd.ReportID,
			"error", err,
		)
	}

	organization := cmd.Organization
	if organization == "" {
		organization = DefaultOrganization
	}

	// Upsert-by-report-id keeps the at-most-one-action invariant at the
	// store level, not in this code.
	upsert := `
		INSERT INTO cleanup_actions(id, report_id, actor_id, organization, status, progress)
		VALUES ($1, $2, $3, $4, $5, 0)
		ON CONFLICT (report_id) DO UPDATE
		SET actor_id = EXCLUDED.actor_id,
		    organization = EXCLUDED.organization,
		    status = EXCLUDED.status,
		    progress = 0,
		    updated_at = now()
		RETURNING id`

	var id uuid.UUID
	if err := r.db.QueryRowContext(
		ctx, upsert,
		uuid.New(), cmd.ReportID, actor.ID, organization, StatusInProgress,
	).Scan(&id); err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.reports.SetStatus(ctx, cmd.ReportID, reports.StatusInProgress); err != nil {
		r.logger.Warn("report status cascade failed",
			"report_id", cmd.ReportID,
			"error", err,
		)
	}

	r.logger.Info("cleanup started",
		"id", id,
		"report_id", cmd.ReportID,
		"actor", actor.ID,
	)

	return r.Find(ctx, id)
}

func (r *repo) Join(ctx context.Context, actor *identity.Actor, cleanupID uuid.UUID, role string) (*Participant, error) {
	if role == "" {
		role = "Citizen"
	}

	q := `
		INSERT INTO cleanup_participants(cleanup_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING cleanup_id, user_id, role, joined_at`

	p, err := repository.QueryOne(ctx, r.db, q, []any{cleanupID, actor.ID, role},
		func(s repository.Scanner) (Participant, error) {
			var p Participant
			err := s.Scan(&p.CleanupID, &p.UserID, &p.Role, &p.JoinedAt)
			return p, err
		})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyJoined)
	}

	r.logger.Info("cleanup joined", "cleanup_id", cleanupID, "user", actor.ID)
	return &p, nil
}

func (r *repo) Progress(ctx context.Context, actor *identity.Actor, cleanupID uuid.UUID, cmd ProgressCommand) (*Action, error) {
	if cmd.Progress < 0 || cmd.Progress > 100 {
		return nil, ErrInvalidProgress
	}

	action, err := r.Find(ctx, cleanupID)
	if err != nil {
		return nil, err
	}

	photoURLs := r.stagePhotos(cleanupID, cmd.Photos)

	status := StatusInProgress
	if cmd.Progress == 100 {
		status = StatusCompleted
	}

	update := `
		UPDATE cleanup_actions
		SET progress = $1,
		    status = $2,
		    completion_remark = COALESCE($3, completion_remark),
		    completion_photos = completion_photos || $4,
		    updated_at = now()
		WHERE id = $5`

	appended, err := json.Marshal(photoURLs)
	if err != nil {
		return nil, fmt.Errorf("encode photo urls: %w", err)
	}

	if err := repository.ExecExpectOne(
		ctx, r.db, update,
		cmd.Progress, status, cmd.Remark, appended, cleanupID,
	); err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("cleanup progress updated",
		"id", cleanupID,
		"progress", cmd.Progress,
		"status", status,
	)

	if cmd.Progress == 100 {
		r.complete(ctx, action)
	}

	return r.Find(ctx, cleanupID)
}

// stagePhotos assigns storage keys for completion photos, schedules the
// uploads in the background, and returns the public URLs to persist.
func (r *repo) stagePhotos(cleanupID uuid.UUID, photos []ProgressPhoto) []string {
	urls := make([]string, 0, len(photos))

	for _, photo := range photos {
		key := fmt.Sprintf("cleanups/%s/%s", cleanupID, sanitizeFilename(photo.Filename))
		urls = append(urls, r.storage.PublicURL(key))

		data := photo.Data
		contentType := photo.ContentType
		r.dispatcher.Dispatch("completion-photo-upload", func(ctx context.Context) error {
			return r.storage.Upload(ctx, key, bytes.NewReader(data), contentType)
		})
	}

	return urls
}

// complete runs the 100% cascade: close the originating report and mint the
// contribution proof. Both are best-effort; the progress update stands
// regardless.
func (r *repo) complete(ctx context.Context, action *Action) {
	if err := r.reports.SetStatus(ctx, action.ReportID, reports.StatusActionCompleted); err != nil {
		r.logger.Warn("report completion cascade failed",
			"report_id", action.ReportID,
			"error", err,
		)
	}

	profile, err := r.identity.Profile(ctx, action.ActorID)
	if err != nil {
		r.logger.Warn("proof mint skipped, no actor profile",
			"actor", action.ActorID,
			"error", err,
		)
		return
	}

	if !escalation.ShouldMint(100, profile.WalletAddress) {
		r.logger.Info("proof mint skipped, no payout address", "actor", action.ActorID)
		return
	}

	wallet := *profile.WalletAddress
	cleanupID := action.ID

	r.dispatcher.Dispatch("proof-mint", func(ctx context.Context) error {
		mint := r.ledger.MintProof(ctx, wallet, metadataBase+cleanupID.String())

		return repository.ExecExpectOne(
			ctx, r.db,
			"UPDATE cleanup_actions SET token_id = $1, ledger_tx = $2 WHERE id = $3",
			mint.TokenID, mint.TxRef, cleanupID,
		)
	})
}

func (r *repo) Campaign(ctx context.Context, actor *identity.Actor, cmd CampaignCommand) (*Action, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	description := fmt.Sprintf("CAMPAIGN: %s @ %s. %s", cmd.Title, cmd.Location, cmd.Description)

	base, err := r.reports.CreateCampaignBase(ctx, actor.ID, description, "")
	if err != nil {
		return nil, fmt.Errorf("create campaign base report: %w", err)
	}

	insert := `
		INSERT INTO cleanup_actions(id, report_id, actor_id, organization, status, progress)
		VALUES ($1, $2, $3, $4, $5, 0)
		RETURNING id`

	var id uuid.UUID
	if err := r.db.QueryRowContext(
		ctx, insert,
		uuid.New(), base.ID, actor.ID, cmd.Organization, StatusInProgress,
	).Scan(&id); err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("campaign created", "id", id, "report_id", base.ID, "title", cmd.Title)
	return r.Find(ctx, id)
}

func (r *repo) Active(ctx context.Context) ([]Action, error) {
	q, args := query.
		NewBuilder(projection, boardSort).
		Build()

	return repository.QueryMany(ctx, r.db, q, args, scanAction)
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Action, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAction)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "photo"
	}
	return url.PathEscape(name)
}
