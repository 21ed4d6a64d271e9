package discussions

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/aquaguardian/aquaguardian/internal/identity"
	"github.com/aquaguardian/aquaguardian/pkg/handlers"
	"github.com/aquaguardian/aquaguardian/pkg/routes"
)

// Handler provides HTTP endpoints for discussion operations. Its routes are
// mounted as a child of the reports group since threads hang off reports.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload
// size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "discussions"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group for discussion endpoints. Threads hang off
// reports, so the group shares the reports prefix.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/reports",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}/discussions", Handler: h.List},
			{Method: "POST", Pattern: "/{id}/discussions", Handler: h.Post},
		},
	}
}

// List returns a report's discussion thread in chronological order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidMessage)
		return
	}

	result, err := h.sys.ListForReport(r.Context(), reportID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Post appends an entry to a report's discussion thread: message type,
// content, and an optional photo attachment.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthenticated)
		return
	}

	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidMessage)
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrInvalidMessage)
		return
	}

	cmd := PostCommand{
		ReportID:    reportID,
		MessageType: r.FormValue("message_type"),
		Content:     r.FormValue("content"),
	}

	if file, header, err := r.FormFile("photo"); err == nil {
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidMessage)
			return
		}

		cmd.Photo = data
		cmd.Filename = header.Filename
		cmd.ContentType = header.Header.Get("Content-Type")
	}

	entry, err := h.sys.Post(r.Context(), actor, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, entry)
}
