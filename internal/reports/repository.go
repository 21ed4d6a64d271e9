package reports

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/aquaguardian/aquaguardian/internal/classifier"
	"github.com/aquaguardian/aquaguardian/internal/discussions"
	"github.com/aquaguardian/aquaguardian/internal/escalation"
	"github.com/aquaguardian/aquaguardian/internal/identity"
	"github.com/aquaguardian/aquaguardian/internal/jurisdictions"
	"github.com/aquaguardian/aquaguardian/internal/ledger"
	"github.com/aquaguardian/aquaguardian/internal/notify"
	"github.com/aquaguardian/aquaguardian/pkg/pagination"
	"github.com/aquaguardian/aquaguardian/pkg/query"
	"github.com/aquaguardian/aquaguardian/pkg/repository"
	"github.com/aquaguardian/aquaguardian/pkg/storage"
)

const proofLabel = "cleanup proof"

type repo struct {
	db         *sql.DB
	storage    storage.System
	classify   classifier.System
	resolver   jurisdictions.System
	ledger     ledger.System
	notify     notify.System
	dispatcher *escalation.Dispatcher
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a report repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	classify classifier.System,
	resolver jurisdictions.System,
	ledgerSys ledger.System,
	notifySys notify.System,
	dispatcher *escalation.Dispatcher,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		classify:   classify,
		resolver:   resolver,
		ledger:     ledgerSys,
		notify:     notifySys,
		dispatcher: dispatcher,
		logger:     logger.With("system", "reports"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.resolver, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) Create(ctx context.Context, actor *identity.Actor, cmd CreateCommand) (*Report, error) {
	if actor.Role != identity.RoleCitizen {
		return nil, ErrCitizenOnly
	}

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result := r.classify.Classify(ctx, cmd.Image, cmd.Description)
	status := InitialStatus(result.Label, result.Confidence)

	jurisdictionID, err := r.resolver.Resolve(ctx, cmd.Latitude, cmd.Longitude)
	if err != nil {
		// Routing failure leaves the report unassigned rather than
		// blocking submission.
		r.logger.Warn("jurisdiction resolution failed", "error", err)
		jurisdictionID = nil
	}

	id := uuid.New()
	key := buildStorageKey(id, sanitizeFilename(cmd.Filename))
	photoURL := r.storage.PublicURL(key)

	var assignedAt *time.Time
	if jurisdictionID != nil {
		now := time.Now().UTC()
		assignedAt = &now
	}

	insertReport := `
		INSERT INTO reports(id, user_id, latitude, longitude, description, severity, status, ai_class, ai_confidence, jurisdiction_id, assigned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	insertPhoto := `
		INSERT INTO photos(id, report_id, url)
		VALUES ($1, $2, $3)`

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx, insertReport,
			id, actor.ID, cmd.Latitude, cmd.Longitude, cmd.Description,
			cmd.Severity, status, result.Label, result.Confidence,
			jurisdictionID, assignedAt,
		); err != nil {
			return struct{}{}, err
		}

		return struct{}{}, repository.ExecExpectOne(
			ctx, tx, insertPhoto,
			uuid.New(), id, photoURL,
		)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("report created",
		"id", id,
		"status", status,
		"ai_class", result.Label,
		"confidence", result.Confidence,
		"jurisdiction_id", jurisdictionID,
	)

	r.finalize(id, key, cmd, result, status)

	return r.Find(ctx, id)
}

// finalize schedules the submission side effects: evidence blob upload,
// ledger log with write-back of the transaction reference, and the authority
// notification when the classification clears the paging threshold.
func (r *repo) finalize(id uuid.UUID, key string, cmd CreateCommand, result classifier.Result, status Status) {
	image := cmd.Image

	r.dispatcher.Dispatch("evidence-upload", func(ctx context.Context) error {
		return r.storage.Upload(ctx, key, bytes.NewReader(image), cmd.ContentType)
	})

	r.dispatcher.Dispatch("ledger-log", func(ctx context.Context) error {
		receipt := r.ledger.LogReport(ctx, ledger.ReportEntry{
			Hash:             ledger.ReportHash(id.String(), cmd.Description, result.Label),
			ReportID:         id.String(),
			AIDecision:       result.Label,
			ReviewerDecision: string(status),
			LocationHash:     ledger.LocationHash(cmd.Latitude, cmd.Longitude),
		})

		return repository.ExecExpectOne(
			ctx, r.db,
			"UPDATE reports SET ledger_tx = $1 WHERE id = $2",
			receipt.TxRef, id,
		)
	})

	if escalation.ShouldNotify(result.Label, result.Confidence) {
		alert := escalation.ReportAlert{
			ReportID:    id,
			Label:       result.Label,
			Confidence:  result.Confidence,
			Latitude:    cmd.Latitude,
			Longitude:   cmd.Longitude,
			Description: cmd.Description,
			Severity:    cmd.Severity,
			Status:      string(status),
		}

		r.dispatcher.Dispatch("authority-notification", func(ctx context.Context) error {
			return r.notify.Send(ctx, alert.Subject(), alert.Body())
		})
	}
}

func (r *repo) UpdateStatus(ctx context.Context, actor *identity.Actor, id uuid.UUID, cmd UpdateStatusCommand) (*Report, error) {
	if _, err := r.Find(ctx, id); err != nil {
		return nil, err
	}

	var photoCount int
	if err := r.db.QueryRowContext(
		ctx, "SELECT COUNT(*) FROM photos WHERE report_id = $1", id,
	).Scan(&photoCount); err != nil {
		return nil, fmt.Errorf("count photos: %w", err)
	}

	hasProofImage := len(cmd.ProofImage) > 0
	if err := ValidateTransition(Transition{
		Target:        cmd.Target,
		Role:          actor.Role,
		HasProofImage: hasProofImage,
		PhotoCount:    photoCount,
	}); err != nil {
		return nil, err
	}

	var proofKey string
	var proofURL *string
	if hasProofImage {
		proofKey = buildStorageKey(id, "proof_"+sanitizeFilename(cmd.Filename))
		u := r.storage.PublicURL(proofKey)
		proofURL = &u
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if proofURL != nil {
			if err := repository.ExecExpectOne(
				ctx, tx,
				"INSERT INTO photos(id, report_id, url, label) VALUES ($1, $2, $3, $4)",
				uuid.New(), id, *proofURL, proofLabel,
			); err != nil {
				return struct{}{}, err
			}
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE reports SET status = $1, action_note = COALESCE($2, action_note), updated_at = now() WHERE id = $3",
			cmd.Target, cmd.ActionNote, id,
		); err != nil {
			return struct{}{}, err
		}

		return struct{}{}, discussions.InsertEntry(
			ctx, tx, id, actor.ID,
			discussions.TypeStatusUpdate,
			auditContent(cmd.Target, hasProofImage, cmd.ActionNote),
			nil,
		)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if hasProofImage {
		image := cmd.ProofImage
		contentType := cmd.ContentType
		r.dispatcher.Dispatch("proof-upload", func(ctx context.Context) error {
			return r.storage.Upload(ctx, proofKey, bytes.NewReader(image), contentType)
		})
	}

	r.logger.Info("report status updated",
		"id", id,
		"status", cmd.Target,
		"actor", actor.ID,
		"proof", hasProofImage,
	)

	return r.Find(ctx, id)
}

func auditContent(target Status, photoAttached bool, note *string) string {
	photo := "None"
	if photoAttached {
		photo = "Uploaded"
	}

	n := "N/A"
	if note != nil && *note != "" {
		n = *note
	}

	return fmt.Sprintf("STATUS CHANGED TO: %s. Photo: %s. Note: %s", target, photo, n)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Report], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Description", "AIClass")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanReport)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Report, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	rep, err := repository.QueryOne(ctx, r.db, q, args, scanReport)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rep, nil
}

func (r *repo) Evidence(ctx context.Context, id uuid.UUID, filename string) (io.ReadCloser, error) {
	key := buildStorageKey(id, sanitizeFilename(filename))

	rc, err := r.storage.Download(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download evidence %s: %w", key, err)
	}
	return rc, nil
}

func (r *repo) Verified(ctx context.Context) ([]Report, error) {
	q, args := query.
		NewBuilder(projection).
		WhereIn("Status", []any{StatusVerifiedByAI, StatusVerified}).
		OrderByFields(triageSort).
		Build()

	return repository.QueryMany(ctx, r.db, q, args, scanReport)
}

func (r *repo) ByUser(ctx context.Context, userID uuid.UUID) ([]Report, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("UserID", userID).
		Build()

	return repository.QueryMany(ctx, r.db, q, args, scanReport)
}

func (r *repo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("UserID", userID).
		BuildCount()

	var count int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count user reports: %w", err)
	}
	return count, nil
}

func (r *repo) MapData(ctx context.Context) ([]MapPoint, error) {
	q, args := query.
		NewBuilder(mapProjection).
		WhereIn("Status", []any{StatusVerifiedByAI, StatusSubmitted, StatusActionCompleted}).
		Build()

	return repository.QueryMany(ctx, r.db, q, args, scanMapPoint)
}

func (r *repo) ForJurisdiction(ctx context.Context, jurisdictionID uuid.UUID) ([]Report, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("JurisdictionID", jurisdictionID).
		Build()

	return repository.QueryMany(ctx, r.db, q, args, scanReport)
}

func (r *repo) Severity(ctx context.Context, id uuid.UUID) (int, error) {
	var severity int
	err := r.db.QueryRowContext(
		ctx, "SELECT severity FROM reports WHERE id = $1", id,
	).Scan(&severity)
	if err != nil {
		return 0, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return severity, nil
}

func (r *repo) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE reports SET status = $1, updated_at = now() WHERE id = $2",
		status, id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("report status set", "id", id, "status", status)
	return nil
}

// campaignPhotoURL is the stock image attached to campaign base reports.
const campaignPhotoURL = "https://images.unsplash.com/photo-1550989460-0adf9ea622e2?q=80&w=600&auto=format&fit=crop"

func (r *repo) CreateCampaignBase(ctx context.Context, userID uuid.UUID, description, photoURL string) (*Report, error) {
	if photoURL == "" {
		photoURL = campaignPhotoURL
	}

	id := uuid.New()
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			`INSERT INTO reports(id, user_id, latitude, longitude, description, severity, status, ai_class, ai_confidence)
			 VALUES ($1, $2, 0.0, 0.0, $3, 1, $4, 'Cleanup Drive', 1.0)`,
			id, userID, description, StatusVerified,
		); err != nil {
			return struct{}{}, err
		}

		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"INSERT INTO photos(id, report_id, url) VALUES ($1, $2, $3)",
			uuid.New(), id, photoURL,
		)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("campaign base report created", "id", id)
	return r.Find(ctx, id)
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("reports/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "evidence"
	}
	return url.PathEscape(name)
}
