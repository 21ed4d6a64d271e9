package reports

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/aquaguardian/aquaguardian/internal/identity"
	"github.com/aquaguardian/aquaguardian/internal/jurisdictions"
	"github.com/aquaguardian/aquaguardian/pkg/handlers"
	"github.com/aquaguardian/aquaguardian/pkg/pagination"
	"github.com/aquaguardian/aquaguardian/pkg/routes"
)

// Handler provides HTTP endpoints for report operations.
type Handler struct {
	sys           System
	resolver      jurisdictions.System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, jurisdiction resolver,
// logger, pagination config, and upload size limit.
func NewHandler(
	sys System,
	resolver jurisdictions.System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		resolver:      resolver,
		logger:        logger.With("handler", "reports"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for report endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/reports",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/verified", Handler: h.Verified},
			{Method: "GET", Pattern: "/map-data", Handler: h.MapData},
			{Method: "GET", Pattern: "/jurisdiction", Handler: h.Jurisdiction},
			{Method: "GET", Pattern: "/user/{id}", Handler: h.ByUser},
			{Method: "GET", Pattern: "/count/{id}", Handler: h.CountByUser},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/evidence/{filename}", Handler: h.Evidence},
			{Method: "PUT", Pattern: "/{id}/status", Handler: h.UpdateStatus},
		},
	}
}

// Create processes a multipart citizen submission: coordinates, description,
// severity, and the evidence image.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthenticated)
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrInvalidReport)
		return
	}

	latitude, err := strconv.ParseFloat(r.FormValue("latitude"), 64)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidReport)
		return
	}

	longitude, err := strconv.ParseFloat(r.FormValue("longitude"), 64)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidReport)
		return
	}

	severity, err := strconv.Atoi(r.FormValue("severity"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidReport)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidReport)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidReport)
		return
	}

	cmd := CreateCommand{
		Latitude:    latitude,
		Longitude:   longitude,
		Description: r.FormValue("description"),
		Severity:    severity,
		Image:       data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}

	report, err := h.sys.Create(r.Context(), actor, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, report)
}

// UpdateStatus applies a guarded status transition, optionally accompanied
// by a proof image.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthenticated)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidReport)
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrInvalidReport)
		return
	}

	target, err := ParseStatus(r.FormValue("status"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	cmd := UpdateStatusCommand{Target: target}

	if note := r.FormValue("action_note"); note != "" {
		cmd.ActionNote = &note
	}

	if file, header, err := r.FormFile("verification_image"); err == nil {
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidReport)
			return
		}

		cmd.ProofImage = data
		cmd.Filename = header.Filename
		cmd.ContentType = header.Header.Get("Content-Type")
	}

	report, err := h.sys.UpdateStatus(r.Context(), actor, id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}

// List returns a paginated list of reports with optional query parameter
// filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single report by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidReport)
		return
	}

	report, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}

// Evidence streams a report's stored evidence blob back to the caller.
func (h *Handler) Evidence(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidReport)
		return
	}

	rc, err := h.sys.Evidence(r.Context(), id, r.PathValue("filename"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Error("stream evidence", "report_id", id, "error", err)
	}
}

// Verified returns verified reports ordered worst-first for triage boards.
func (h *Handler) Verified(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.Verified(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// ByUser returns all reports submitted by the given user.
func (h *Handler) ByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidReport)
		return
	}

	result, err := h.sys.ByUser(r.Context(), userID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// CountByUser returns the number of reports submitted by the given user.
func (h *Handler) CountByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidReport)
		return
	}

	count, err := h.sys.CountByUser(r.Context(), userID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]int{"count": count})
}

// MapData returns lightweight coordinate and severity points for the heatmap.
func (h *Handler) MapData(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.MapData(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Jurisdiction returns reports routed to the authenticated government
// actor's jurisdiction.
func (h *Handler) Jurisdiction(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthenticated)
		return
	}

	if actor.Role != identity.RoleGovernment {
		handlers.RespondError(w, h.logger, http.StatusForbidden, jurisdictions.ErrGovernmentOnly)
		return
	}

	j, err := h.resolver.ForGovernment(r.Context(), actor.ID)
	if err != nil {
		// A government actor with no jurisdiction sees an empty list,
		// not an error.
		h.logger.Warn("no jurisdiction for government actor", "actor", actor.ID, "error", err)
		handlers.RespondJSON(w, http.StatusOK, []Report{})
		return
	}

	result, err := h.sys.ForJurisdiction(r.Context(), j.ID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
