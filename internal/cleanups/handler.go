package cleanups

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/aquaguardian/aquaguardian/internal/identity"
	"github.com/aquaguardian/aquaguardian/pkg/handlers"
	"github.com/aquaguardian/aquaguardian/pkg/routes"
)

// Handler provides HTTP endpoints for cleanup operations.
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
		logger:        logger.With("handler", "cleanups"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for cleanup endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/cleanups",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{reportID}/start", Handler: h.Start},
			{Method: "POST", Pattern: "/{id}/join", Handler: h.Join},
			{Method: "POST", Pattern: "/{id}/progress", Handler: h.Progress},
			{Method: "POST", Pattern: "/campaigns", Handler: h.Campaign},
			{Method: "GET", Pattern: "/active", Handler: h.Active},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
		},
	}
}

// Start begins cleanup work on a report.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthenticated)
		return
	}

	reportID, err := uuid.Parse(r.PathValue("reportID"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidCleanup)
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidCleanup)
		return
	}

	cmd := StartCommand{
		ReportID:     reportID,
		Organization: r.FormValue("organization"),
	}

	action, err := h.sys.Start(r.Context(), actor, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, action)
}

// Join adds the authenticated user to a cleanup.
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthenticated)
		return
	}

	cleanupID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidCleanup)
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidCleanup)
		return
	}

	participant, err := h.sys.Join(r.Context(), actor, cleanupID, r.FormValue("role"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, participant)
}

// Progress advances cleanup work, optionally with completion photos.
func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthenticated)
		return
	}

	cleanupID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidCleanup)
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrInvalidCleanup)
		return
	}

	progress, err := strconv.Atoi(r.FormValue("progress"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidProgress)
		return
	}

	cmd := ProgressCommand{Progress: progress}

	if remark := r.FormValue("remark"); remark != "" {
		cmd.Remark = &remark
	}

	if r.MultipartForm != nil {
		photos, err := readPhotos(r.MultipartForm.File["files"])
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidCleanup)
			return
		}
		cmd.Photos = photos
	}

	action, err := h.sys.Progress(r.Context(), actor, cleanupID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, action)
}

// Campaign creates a cleanup drive from scratch.
func (h *Handler) Campaign(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthenticated)
		return
	}

	var cmd CampaignCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidCleanup)
		return
	}

	action, err := h.sys.Campaign(r.Context(), actor, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, action)
}

// Active returns the public board of cleanup activities.
func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.Active(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single cleanup action by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidCleanup)
		return
	}

	action, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, action)
}

func readPhotos(headers []*multipart.FileHeader) ([]ProgressPhoto, error) {
	photos := make([]ProgressPhoto, 0, len(headers))

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}

		photos = append(photos, ProgressPhoto{
			Data:        data,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
		})
	}

	return photos, nil
}
