package discussions

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/aquaguardian/aquaguardian/internal/escalation"
	"github.com/aquaguardian/aquaguardian/internal/identity"
	"github.com/aquaguardian/aquaguardian/pkg/query"
	"github.com/aquaguardian/aquaguardian/pkg/repository"
	"github.com/aquaguardian/aquaguardian/pkg/storage"
)

const insertEntry = `
	INSERT INTO report_discussions(id, report_id, user_id, message_type, content, photo_url)
	VALUES ($1, $2, $3, $4, $5, $6)`

// InsertEntry appends a discussion entry using the given executor. Callers
// that mutate report state in a transaction pass their tx here so the audit
// entry commits or rolls back with the mutation. The role gate is the
// caller's responsibility.
func InsertEntry(
	ctx context.Context,
	e repository.Executor,
	reportID, userID uuid.UUID,
	messageType, content string,
	photoURL *string,
) error {
	return repository.ExecExpectOne(
		ctx, e, insertEntry,
		uuid.New(), reportID, userID, messageType, content, photoURL,
	)
}

type repo struct {
	db         *sql.DB
	storage    storage.System
	dispatcher *escalation.Dispatcher
	logger     *slog.Logger
}

// New creates a discussion repository implementing the System interface.
func New(db *sql.DB, store storage.System, dispatcher *escalation.Dispatcher, logger *slog.Logger) System {
	return &repo{
		db:         db,
		storage:    store,
		dispatcher: dispatcher,
		logger:     logger.With("system", "discussions"),
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, maxUploadSize)
}

func (r *repo) Post(ctx context.Context, actor *identity.Actor, cmd PostCommand) (*Discussion, error) {
	if cmd.Content == "" {
		return nil, ErrInvalidMessage
	}

	hasAttachment := len(cmd.Photo) > 0
	if err := ValidateMessage(actor.Role, cmd.MessageType, hasAttachment); err != nil {
		return nil, err
	}

	id := uuid.New()

	var key string
	var photoURL *string
	if hasAttachment {
		key = attachmentKey(cmd.ReportID, id, cmd.Filename)
		u := r.storage.PublicURL(key)
		photoURL = &u
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx, insertEntry,
			id, cmd.ReportID, actor.ID, cmd.MessageType, cmd.Content, photoURL,
		)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if hasAttachment {
		photo := cmd.Photo
		contentType := cmd.ContentType
		r.dispatcher.Dispatch("discussion-attachment-upload", func(ctx context.Context) error {
			return r.storage.Upload(ctx, key, bytes.NewReader(photo), contentType)
		})
	}

	r.logger.Info("discussion entry posted",
		"id", id,
		"report_id", cmd.ReportID,
		"type", cmd.MessageType,
		"attachment", hasAttachment,
	)

	return r.find(ctx, id)
}

func attachmentKey(reportID, entryID uuid.UUID, filename string) string {
	name := filepath.Base(filename)
	if name == "." || name == "" {
		name = "attachment"
	}
	return fmt.Sprintf("reports/%s/discussion_%s_%s", reportID, entryID, url.PathEscape(name))
}

func (r *repo) ListForReport(ctx context.Context, reportID uuid.UUID) ([]Discussion, error) {
	q, args := query.
		NewBuilder(projection, threadOrder).
		WhereEquals("ReportID", reportID).
		Build()

	return repository.QueryMany(ctx, r.db, q, args, scanDiscussion)
}

func (r *repo) find(ctx context.Context, id uuid.UUID) (*Discussion, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDiscussion)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}
