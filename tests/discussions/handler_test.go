package discussions_test

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

	"github.com/aquaguardian/aquaguardian/internal/discussions"
	"github.com/aquaguardian/aquaguardian/internal/identity"
)

type mockSystem struct {
	postFn func(ctx context.Context, actor *identity.Actor, cmd discussions.PostCommand) (*discussions.Discussion, error)
	listFn func(ctx context.Context, reportID uuid.UUID) ([]discussions.Discussion, error)
}

func (m *mockSystem) Handler(maxUploadSize int64) *discussions.Handler { return nil }

func (m *mockSystem) Post(ctx context.Context, actor *identity.Actor, cmd discussions.PostCommand) (*discussions.Discussion, error) {
	return m.postFn(ctx, actor, cmd)
}

func (m *mockSystem) ListForReport(ctx context.Context, reportID uuid.UUID) ([]discussions.Discussion, error) {
	return m.listFn(ctx, reportID)
}

func newTestHandler(sys discussions.System) *discussions.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return discussions.NewHandler(sys, logger, 25*1024*1024)
}

func setupMux(h *discussions.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
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

func multipartEntry(t *testing.T, fields map[string]string, withPhoto bool) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}

	if withPhoto {
		part, err := writer.CreateFormFile("photo", "proof.jpg")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte("fake-photo-bytes")); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return body, writer.FormDataContentType()
}

func sampleEntry(reportID uuid.UUID) *discussions.Discussion {
	url := "https://storage.example.com/reports/discussion_proof.jpg"
	return &discussions.Discussion{
		ID:          uuid.New(),
		ReportID:    reportID,
		UserID:      uuid.New(),
		MessageType: discussions.TypeProofUpload,
		Content:     "cleanup evidence attached",
		PhotoURL:    &url,
		CreatedAt:   time.Date(2026, 4, 2, 11, 0, 0, 0, time.UTC),
		AuthorName:  "Asha Patel",
		AuthorRole:  "citizen",
	}
}

func TestHandlerPostWithAttachment(t *testing.T) {
	reportID := uuid.New()

	var captured discussions.PostCommand
	sys := &mockSystem{
		postFn: func(ctx context.Context, actor *identity.Actor, cmd discussions.PostCommand) (*discussions.Discussion, error) {
			captured = cmd
			return sampleEntry(reportID), nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	body, contentType := multipartEntry(t, map[string]string{
		"message_type": discussions.TypeProofUpload,
		"content":      "cleanup evidence attached",
	}, true)

	req := httptest.NewRequest("POST", "/reports/"+reportID.String()+"/discussions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authenticated(req, asActor(identity.RoleCitizen)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201", rec.Code)
	}
	if captured.ReportID != reportID {
		t.Errorf("report id: got %v, want %v", captured.ReportID, reportID)
	}
	if captured.MessageType != discussions.TypeProofUpload {
		t.Errorf("message type: got %s", captured.MessageType)
	}
	if string(captured.Photo) != "fake-photo-bytes" {
		t.Errorf("photo bytes not forwarded: got %q", captured.Photo)
	}
	if captured.Filename != "proof.jpg" {
		t.Errorf("filename: got %s, want proof.jpg", captured.Filename)
	}

	var entry discussions.Discussion
	if err := json.NewDecoder(rec.Body).Decode(&entry); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if entry.PhotoURL == nil || *entry.PhotoURL == "" {
		t.Error("response should carry the derived photo url")
	}
}

func TestHandlerPostWithoutAttachment(t *testing.T) {
	reportID := uuid.New()

	var captured discussions.PostCommand
	sys := &mockSystem{
		postFn: func(ctx context.Context, actor *identity.Actor, cmd discussions.PostCommand) (*discussions.Discussion, error) {
			captured = cmd
			return sampleEntry(reportID), nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	body, contentType := multipartEntry(t, map[string]string{
		"message_type": discussions.TypeClarification,
		"content":      "which side of the bridge?",
	}, false)

	req := httptest.NewRequest("POST", "/reports/"+reportID.String()+"/discussions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authenticated(req, asActor(identity.RoleCitizen)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201", rec.Code)
	}
	if len(captured.Photo) != 0 {
		t.Errorf("photo should be empty, got %d bytes", len(captured.Photo))
	}
}

func TestHandlerPostUnauthenticated(t *testing.T) {
	sys := &mockSystem{}
	mux := setupMux(newTestHandler(sys))

	body, contentType := multipartEntry(t, map[string]string{
		"message_type": discussions.TypeClarification,
		"content":      "hello",
	}, false)

	req := httptest.NewRequest("POST", "/reports/"+uuid.NewString()+"/discussions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestHandlerPostGuardRejection(t *testing.T) {
	sys := &mockSystem{
		postFn: func(ctx context.Context, actor *identity.Actor, cmd discussions.PostCommand) (*discussions.Discussion, error) {
			return nil, discussions.ErrTypeNotAllowed
		},
	}
	mux := setupMux(newTestHandler(sys))

	body, contentType := multipartEntry(t, map[string]string{
		"message_type": discussions.TypeClosureNote,
		"content":      "closing this out",
	}, false)

	req := httptest.NewRequest("POST", "/reports/"+uuid.NewString()+"/discussions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authenticated(req, asActor(identity.RoleCitizen)))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}
}
