package adapter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tradedocs/pdfgen/internal/api"
	"github.com/tradedocs/pdfgen/internal/domain/docmodel"
)

// Diagnostics joins the non-empty parts into a single string. Every
// diagnostic field the server supplies is kept; nothing is swallowed.
func Diagnostics(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " - ")
}

// ToJob is the single normalization point between the raw status payload
// and the canonical Job consumed by all higher layers. Unrecognized status
// strings are preserved so the polling loop can treat them as in-flight.
func ToJob(jobID string, raw api.StatusResponse) docmodel.Job {
	return docmodel.Job{
		ID:      jobID,
		Status:  docmodel.JobStatus(raw.Status),
		Error:   Diagnostics(raw.Error, raw.Message),
		Details: raw.Details,
	}
}

// FailureReason composes the user-relevant failure text of a normalized
// job. Server stack traces never travel through here; the job client logs
// them separately for operator visibility.
func FailureReason(job docmodel.Job) string {
	reason := Diagnostics(job.Error, job.Details)
	if reason == "" {
		reason = "job failed without diagnostics"
	}
	return reason
}

// HTTPErrorDiagnostics extracts the best available diagnostic string from
// a non-2xx response body, falling back to the bare HTTP status.
func HTTPErrorDiagnostics(status int, body []byte) string {
	var parsed api.ErrorResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &parsed); err == nil {
			if diag := Diagnostics(parsed.Error, parsed.Message, parsed.Details); diag != "" {
				return diag
			}
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}
