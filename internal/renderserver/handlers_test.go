package renderserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tradedocs/pdfgen/internal/api"
	"github.com/tradedocs/pdfgen/internal/domain/docmodel"
	"github.com/tradedocs/pdfgen/internal/renderserver/store"
)

const testToken = "render-test-token"

// fresh router per test so one test's rate-limit bucket cannot leak into
// another (httptest requests all share the same RemoteAddr)
func newTestRouter(t *testing.T) (*chi.Mux, *store.InMemoryStore) {
	t.Helper()
	mem := store.NewInMemoryStore()
	svc := NewService(mem, mem)
	return NewRouter(NewHandlers(svc), NewMiddleware(testToken)), mem
}

func doRequest(router *chi.Mux, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func startBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(api.StartRequest{
		DocType:  "invoice",
		FormData: docmodel.FormData{"Invoice No": "INV-1"},
		Language: "en",
	})
	if err != nil {
		t.Fatalf("marshal start request: %v", err)
	}
	return body
}

func TestStartHandler(t *testing.T) {
	t.Run("accepts a valid request", func(t *testing.T) {
		router, mem := newTestRouter(t)
		rec := doRequest(router, http.MethodPost, "/pdf/start", testToken, startBody(t))

		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp api.StartResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.JobID == "" {
			t.Fatal("expected a job id in the response")
		}
		if resp.StatusURL != "/pdf/status/"+resp.JobID {
			t.Errorf("unexpected status url %s", resp.StatusURL)
		}

		saved, found := mem.GetJob(context.Background(), resp.JobID)
		if !found {
			t.Fatal("accepted job was not persisted")
		}
		if saved.Status != docmodel.JobStatusPending {
			t.Errorf("new job should be pending, got %s", saved.Status)
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		router, _ := newTestRouter(t)
		rec := doRequest(router, http.MethodPost, "/pdf/start", testToken, []byte("{not json"))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects a request missing required fields", func(t *testing.T) {
		router, _ := newTestRouter(t)
		rec := doRequest(router, http.MethodPost, "/pdf/start", testToken, []byte(`{"language":"en"}`))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects an unsupported language", func(t *testing.T) {
		router, _ := newTestRouter(t)
		body := []byte(`{"docType":"invoice","formData":{"a":"b"},"language":"de"}`)
		rec := doRequest(router, http.MethodPost, "/pdf/start", testToken, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAuthorization(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("missing token", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/pdf/start", "", startBody(t))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("wrong token", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/pdf/start", "wrong", startBody(t))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("health needs no token", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/health", "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})
}

func TestStatusHandler(t *testing.T) {
	router, mem := newTestRouter(t)

	t.Run("unknown job", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/pdf/status/ghost", testToken, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("failed job carries diagnostics", func(t *testing.T) {
		_ = mem.SaveJob(context.Background(), store.Record{
			ID:      "failed-1",
			Status:  docmodel.JobStatusFailed,
			Error:   "render failed",
			Details: "record failed-1 has no form data",
		})

		rec := doRequest(router, http.MethodGet, "/pdf/status/failed-1", testToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp api.StatusResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Status != "failed" || resp.Error != "render failed" || resp.Details == "" {
			t.Errorf("diagnostics not surfaced: %+v", resp)
		}
	})
}

func TestDownloadHandler(t *testing.T) {
	router, mem := newTestRouter(t)
	artifact := []byte("%PDF-1.4 artifact bytes")

	_ = mem.SaveJob(context.Background(), store.Record{ID: "busy-1", Status: docmodel.JobStatusProcessing})
	_ = mem.SaveJob(context.Background(), store.Record{ID: "done-1", Status: docmodel.JobStatusCompleted, EndTime: time.Now()})
	_ = mem.PutArtifact(context.Background(), "done-1", artifact)

	t.Run("before completion", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/pdf/download/busy-1", testToken, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404 while processing, got %d", rec.Code)
		}
	})

	t.Run("completed job", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/pdf/download/done-1", testToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("expected application/pdf, got %s", ct)
		}
		if !bytes.Equal(rec.Body.Bytes(), artifact) {
			t.Error("artifact bytes do not match")
		}
	})

	t.Run("unknown job", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/pdf/download/ghost", testToken, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestRateLimiting(t *testing.T) {
	router, _ := newTestRouter(t)

	limited := false
	for i := 0; i < 10; i++ {
		rec := doRequest(router, http.MethodGet, "/pdf/status/ghost", testToken, nil)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("burst of requests from one IP was never rate limited")
	}
}
