package reports_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aquaguardian/aquaguardian/internal/identity"
	"github.com/aquaguardian/aquaguardian/internal/jurisdictions"
	"github.com/aquaguardian/aquaguardian/internal/reports"
	"github.com/aquaguardian/aquaguardian/pkg/pagination"
)

func ptr[T any](v T) *T { return &v }

type mockSystem struct {
	createFn          func(ctx context.Context, actor *identity.Actor, cmd reports.CreateCommand) (*reports.Report, error)
	updateStatusFn    func(ctx context.Context, actor *identity.Actor, id uuid.UUID, cmd reports.UpdateStatusCommand) (*reports.Report, error)
	listFn            func(ctx context.Context, page pagination.PageRequest, filters reports.Filters) (*pagination.PageResult[reports.Report], error)
	findFn            func(ctx context.Context, id uuid.UUID) (*reports.Report, error)
	evidenceFn        func(ctx context.Context, id uuid.UUID, filename string) (io.ReadCloser, error)
	verifiedFn        func(ctx context.Context) ([]reports.Report, error)
	byUserFn          func(ctx context.Context, userID uuid.UUID) ([]reports.Report, error)
	countByUserFn     func(ctx context.Context, userID uuid.UUID) (int, error)
	mapDataFn         func(ctx context.Context) ([]reports.MapPoint, error)
	forJurisdictionFn func(ctx context.Context, jurisdictionID uuid.UUID) ([]reports.Report, error)
}

func (m *mockSystem) Handler(maxUploadSize int64) *reports.Handler { return nil }

func (m *mockSystem) Create(ctx context.Context, actor *identity.Actor, cmd reports.CreateCommand) (*reports.Report, error) {
	return m.createFn(ctx, actor, cmd)
}

func (m *mockSystem) UpdateStatus(ctx context.Context, actor *identity.Actor, id uuid.UUID, cmd reports.UpdateStatusCommand) (*reports.Report, error) {
	return m.updateStatusFn(ctx, actor, id, cmd)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters reports.Filters) (*pagination.PageResult[reports.Report], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*reports.Report, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Evidence(ctx context.Context, id uuid.UUID, filename string) (io.ReadCloser, error) {
	return m.evidenceFn(ctx, id, filename)
}

func (m *mockSystem) Verified(ctx context.Context) ([]reports.Report, error) {
	return m.verifiedFn(ctx)
}

func (m *mockSystem) ByUser(ctx context.Context, userID uuid.UUID) ([]reports.Report, error) {
	return m.byUserFn(ctx, userID)
}

func (m *mockSystem) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return m.countByUserFn(ctx, userID)
}

func (m *mockSystem) MapData(ctx context.Context) ([]reports.MapPoint, error) {
	return m.mapDataFn(ctx)
}

func (m *mockSystem) ForJurisdiction(ctx context.Context, jurisdictionID uuid.UUID) ([]reports.Report, error) {
	return m.forJurisdictionFn(ctx, jurisdictionID)
}

func (m *mockSystem) Severity(ctx context.Context, id uuid.UUID) (int, error) { return 0, nil }

func (m *mockSystem) SetStatus(ctx context.Context, id uuid.UUID, status reports.Status) error {
	return nil
}

func (m *mockSystem) CreateCampaignBase(ctx context.Context, userID uuid.UUID, description, photoURL string) (*reports.Report, error) {
	return nil, nil
}

type mockResolver struct {
	forGovernmentFn func(ctx context.Context, governmentUserID uuid.UUID) (*jurisdictions.Jurisdiction, error)
}

func (m *mockResolver) Handler() *jurisdictions.Handler { return nil }

func (m *mockResolver) Resolve(ctx context.Context, lat, lng float64) (*uuid.UUID, error) {
	return nil, nil
}

func (m *mockResolver) List(ctx context.Context) ([]jurisdictions.Jurisdiction, error) {
	return nil, nil
}

func (m *mockResolver) Find(ctx context.Context, id uuid.UUID) (*jurisdictions.Jurisdiction, error) {
	return nil, nil
}

func (m *mockResolver) ForGovernment(ctx context.Context, governmentUserID uuid.UUID) (*jurisdictions.Jurisdiction, error) {
	return m.forGovernmentFn(ctx, governmentUserID)
}

func (m *mockResolver) Create(ctx context.Context, actor *identity.Actor, cmd jurisdictions.CreateCommand) (*jurisdictions.Jurisdiction, error) {
	return nil, nil
}

func newTestHandler(sys *mockSystem, resolver *mockResolver) *reports.Handler {
	if resolver == nil {
		resolver = &mockResolver{}
	}
	return reports.NewHandler(
		sys,
		resolver,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
		25*1024*1024,
	)
}

func setupMux(h *reports.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func sampleReport() reports.Report {
	return reports.Report{
		ID:           uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		UserID:       uuid.MustParse("650e8400-e29b-41d4-a716-446655440000"),
		Latitude:     19.0760,
		Longitude:    72.8777,
		Description:  "plastic waste along the shoreline",
		Severity:     6,
		Status:       reports.StatusVerifiedByAI,
		AIClass:      "plastic",
		AIConfidence: 0.92,
		CreatedAt:    time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		PhotoURL:     ptr("https://storage.example.com/reports/evidence.jpg"),
	}
}

func asActor(role identity.Role) *identity.Actor {
	return &identity.Actor{
		ID:    uuid.New(),
		Email: "user@example.com",
		Role:  role,
	}
}

func authenticated(req *http.Request, actor *identity.Actor) *http.Request {
	return req.WithContext(identity.WithActor(req.Context(), actor))
}

func multipartSubmission(t *testing.T, fields map[string]string, fileField string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}

	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, "evidence.jpg")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte("fake-image-bytes")); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return body, writer.FormDataContentType()
}

func TestHandlerCreate(t *testing.T) {
	report := sampleReport()
	fields := map[string]string{
		"latitude":    "19.0760",
		"longitude":   "72.8777",
		"description": "plastic waste along the shoreline",
		"severity":    "6",
	}

	t.Run("citizen submission created", func(t *testing.T) {
		var captured reports.CreateCommand
		sys := &mockSystem{
			createFn: func(_ context.Context, _ *identity.Actor, cmd reports.CreateCommand) (*reports.Report, error) {
				captured = cmd
				return &report, nil
			},
		}
		mux := setupMux(newTestHandler(sys, nil))

		body, contentType := multipartSubmission(t, fields, "file")
		req := httptest.NewRequest("POST", "/reports", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, authenticated(req, asActor(identity.RoleCitizen)))

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
		if captured.Severity != 6 {
			t.Errorf("severity = %d, want 6", captured.Severity)
		}
		if len(captured.Image) == 0 {
			t.Error("image bytes not forwarded")
		}
		if captured.Filename != "evidence.jpg" {
			t.Errorf("filename = %q, want evidence.jpg", captured.Filename)
		}
	})

	t.Run("unauthenticated returns 401", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys, nil))

		body, contentType := multipartSubmission(t, fields, "file")
		req := httptest.NewRequest("POST", "/reports", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("non-citizen rejected with 403", func(t *testing.T) {
		sys := &mockSystem{
			createFn: func(_ context.Context, _ *identity.Actor, _ reports.CreateCommand) (*reports.Report, error) {
				return nil, reports.ErrCitizenOnly
			},
		}
		mux := setupMux(newTestHandler(sys, nil))

		body, contentType := multipartSubmission(t, fields, "file")
		req := httptest.NewRequest("POST", "/reports", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, authenticated(req, asActor(identity.RoleGovernment)))

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("missing file returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys, nil))

		body, contentType := multipartSubmission(t, fields, "")
		req := httptest.NewRequest("POST", "/reports", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, authenticated(req, asActor(identity.RoleCitizen)))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("bad latitude returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys, nil))

		bad := map[string]string{
			"latitude":    "north",
			"longitude":   "72.8777",
			"description": "x",
			"severity":    "6",
		}
		body, contentType := multipartSubmission(t, bad, "file")
		req := httptest.NewRequest("POST", "/reports", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, authenticated(req, asActor(identity.RoleCitizen)))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerUpdateStatus(t *testing.T) {
	report := sampleReport()

	t.Run("valid transition applied", func(t *testing.T) {
		var captured reports.UpdateStatusCommand
		sys := &mockSystem{
			updateStatusFn: func(_ context.Context, _ *identity.Actor, _ uuid.UUID, cmd reports.UpdateStatusCommand) (*reports.Report, error) {
				captured = cmd
				updated := report
				updated.Status = cmd.Target
				return &updated, nil
			},
		}
		mux := setupMux(newTestHandler(sys, nil))

		fields := map[string]string{
			"status":      "Resolved",
			"action_note": "verified on site",
		}
		body, contentType := multipartSubmission(t, fields, "verification_image")
		req := httptest.NewRequest("PUT", "/reports/"+report.ID.String()+"/status", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, authenticated(req, asActor(identity.RoleNGO)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		if captured.Target != reports.StatusResolved {
			t.Errorf("target = %q, want Resolved", captured.Target)
		}
		if captured.ActionNote == nil || *captured.ActionNote != "verified on site" {
			t.Errorf("action note = %v, want verified on site", captured.ActionNote)
		}
		if len(captured.ProofImage) == 0 {
			t.Error("proof image not forwarded")
		}
	})

	t.Run("unknown status returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys, nil))

		body, contentType := multipartSubmission(t, map[string]string{"status": "Painted"}, "")
		req := httptest.NewRequest("PUT", "/reports/"+report.ID.String()+"/status", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, authenticated(req, asActor(identity.RoleNGO)))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("guard rejection returns 403", func(t *testing.T) {
		sys := &mockSystem{
			updateStatusFn: func(_ context.Context, _ *identity.Actor, _ uuid.UUID, _ reports.UpdateStatusCommand) (*reports.Report, error) {
				return nil, reports.ErrProofRequired
			},
		}
		mux := setupMux(newTestHandler(sys, nil))

		body, contentType := multipartSubmission(t, map[string]string{"status": "Resolved"}, "")
		req := httptest.NewRequest("PUT", "/reports/"+report.ID.String()+"/status", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, authenticated(req, asActor(identity.RoleNGO)))

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})
}

func TestHandlerList(t *testing.T) {
	report := sampleReport()
	sys := &mockSystem{
		listFn: func(_ context.Context, _ pagination.PageRequest, _ reports.Filters) (*pagination.PageResult[reports.Report], error) {
			result := pagination.NewPageResult([]reports.Report{report}, 1, 1, 20)
			return &result, nil
		},
	}
	mux := setupMux(newTestHandler(sys, nil))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result pagination.PageResult[reports.Report]
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("total = %d, want 1", result.Total)
	}
	if len(result.Data) != 1 || result.Data[0].ID != report.ID {
		t.Errorf("data = %+v, want one report %s", result.Data, report.ID)
	}
}

func TestHandlerCountByUser(t *testing.T) {
	userID := uuid.New()
	sys := &mockSystem{
		countByUserFn: func(_ context.Context, id uuid.UUID) (int, error) {
			if id != userID {
				t.Errorf("user id = %v, want %v", id, userID)
			}
			return 7, nil
		},
	}
	mux := setupMux(newTestHandler(sys, nil))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports/count/"+userID.String(), nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["count"] != 7 {
		t.Errorf("count = %d, want 7", got["count"])
	}
}

func TestHandlerEvidence(t *testing.T) {
	reportID := uuid.New()

	t.Run("streams stored blob", func(t *testing.T) {
		sys := &mockSystem{
			evidenceFn: func(_ context.Context, id uuid.UUID, filename string) (io.ReadCloser, error) {
				if id != reportID {
					t.Errorf("report id = %v, want %v", id, reportID)
				}
				if filename != "evidence.jpg" {
					t.Errorf("filename = %q, want evidence.jpg", filename)
				}
				return io.NopCloser(bytes.NewReader([]byte("fake-image-bytes"))), nil
			},
		}
		mux := setupMux(newTestHandler(sys, nil))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/reports/"+reportID.String()+"/evidence/evidence.jpg", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if rec.Body.String() != "fake-image-bytes" {
			t.Errorf("body = %q, want blob contents", rec.Body.String())
		}
	})

	t.Run("missing blob returns 404", func(t *testing.T) {
		sys := &mockSystem{
			evidenceFn: func(_ context.Context, _ uuid.UUID, _ string) (io.ReadCloser, error) {
				return nil, reports.ErrNotFound
			},
		}
		mux := setupMux(newTestHandler(sys, nil))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/reports/"+reportID.String()+"/evidence/missing.jpg", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("invalid id returns 400", func(t *testing.T) {
		mux := setupMux(newTestHandler(&mockSystem{}, nil))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/reports/not-a-uuid/evidence/evidence.jpg", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerJurisdiction(t *testing.T) {
	report := sampleReport()
	jurisdictionID := uuid.New()

	t.Run("government sees routed reports", func(t *testing.T) {
		sys := &mockSystem{
			forJurisdictionFn: func(_ context.Context, id uuid.UUID) ([]reports.Report, error) {
				if id != jurisdictionID {
					t.Errorf("jurisdiction id = %v, want %v", id, jurisdictionID)
				}
				return []reports.Report{report}, nil
			},
		}
		resolver := &mockResolver{
			forGovernmentFn: func(_ context.Context, _ uuid.UUID) (*jurisdictions.Jurisdiction, error) {
				return &jurisdictions.Jurisdiction{ID: jurisdictionID}, nil
			},
		}
		mux := setupMux(newTestHandler(sys, resolver))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/reports/jurisdiction", nil)
		mux.ServeHTTP(rec, authenticated(req, asActor(identity.RoleGovernment)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got []reports.Report
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("length = %d, want 1", len(got))
		}
	})

	t.Run("non-government rejected", func(t *testing.T) {
		mux := setupMux(newTestHandler(&mockSystem{}, nil))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/reports/jurisdiction", nil)
		mux.ServeHTTP(rec, authenticated(req, asActor(identity.RoleCitizen)))

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("no jurisdiction yields empty list", func(t *testing.T) {
		resolver := &mockResolver{
			forGovernmentFn: func(_ context.Context, _ uuid.UUID) (*jurisdictions.Jurisdiction, error) {
				return nil, jurisdictions.ErrNotFound
			},
		}
		mux := setupMux(newTestHandler(&mockSystem{}, resolver))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/reports/jurisdiction", nil)
		mux.ServeHTTP(rec, authenticated(req, asActor(identity.RoleGovernment)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got []reports.Report
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("length = %d, want 0", len(got))
		}
	})
}
