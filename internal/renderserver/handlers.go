package renderserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tradedocs/pdfgen/internal/api"
	"github.com/tradedocs/pdfgen/internal/config"
	"github.com/tradedocs/pdfgen/internal/domain/docmodel"
	"github.com/tradedocs/pdfgen/internal/metrics"
	"github.com/tradedocs/pdfgen/internal/renderserver/store"
	"github.com/tradedocs/pdfgen/pkg/logger_i"
)

type Handlers struct {
	svc      *Service
	validate *validator.Validate
	logger   *logger_i.Logger
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{
		svc:      svc,
		validate: validator.New(),
		logger:   logger_i.NewLogger("Handlers"),
	}
}

func (h *Handlers) StartHandler(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With("traceId", r.Context().Value(config.TRACE_ID_KEY))

	var req api.StartRequest
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Error("Couldn't close request body", "err", err)
		}
	}()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Bad start request", "err", err)
		writeError(w, http.StatusBadRequest, "Bad Request", "request body is not valid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Warn("Invalid start request", "err", err)
		writeError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	rec := store.Record{
		ID:          uuid.New().String(),
		TraceID:     fmt.Sprintf("%v", r.Context().Value(config.TRACE_ID_KEY)),
		DocType:     docmodel.DocType(req.DocType),
		Language:    docmodel.Language(req.Language),
		FormData:    req.FormData,
		Status:      docmodel.JobStatusPending,
		CreatedTime: time.Now(),
	}
	if err := h.svc.Jobs.SaveJob(r.Context(), rec); err != nil {
		log.Error("Failed to save job", "err", err)
		writeError(w, http.StatusInternalServerError, "Storage Error", "")
		return
	}

	metrics.IncrementJobsInQueue()
	h.svc.JobQueue <- rec // blocking send bounds intake at the buffer size

	if atomic.AddInt64(&h.svc.RequestCount, 1)%config.RequestsPerNewWorkerCount == 0 {
		h.svc.DispatcherChannel <- true
	}

	log.Info("Queued render job", "jobId", rec.ID, "docType", rec.DocType)
	writeJSON(w, http.StatusAccepted, api.StartResponse{
		JobID:     rec.ID,
		StatusURL: "/pdf/status/" + rec.ID,
	})
}

func (h *Handlers) StatusHandler(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	rec, found := h.svc.Jobs.GetJob(r.Context(), jobID)
	if !found {
		writeError(w, http.StatusNotFound, "Job not found", "")
		return
	}
	writeJSON(w, http.StatusOK, api.StatusResponse{
		Status:  string(rec.Status),
		Error:   rec.Error,
		Details: rec.Details,
	})
}

func (h *Handlers) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	rec, found := h.svc.Jobs.GetJob(r.Context(), jobID)
	if !found {
		writeError(w, http.StatusNotFound, "Job not found", "")
		return
	}
	if rec.Status != docmodel.JobStatusCompleted {
		writeError(w, http.StatusNotFound, "Artifact not ready", fmt.Sprintf("job status is %s", rec.Status))
		return
	}
	artifact, found := h.svc.Artifacts.GetArtifact(r.Context(), jobID)
	if !found {
		writeError(w, http.StatusNotFound, "Artifact not found", "")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact); err != nil {
		h.logger.Error("Failed to write artifact", "jobId", jobID, "err", err)
	}
}

func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger_i.NewLogger("Handlers").Error("Error encoding response", "err", err)
	}
}

func writeError(w http.ResponseWriter, statusCode int, message, details string) {
	writeJSON(w, statusCode, api.ErrorResponse{
		Error:   message,
		Details: details,
	})
}
