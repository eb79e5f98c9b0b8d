package store

import (
	"context"
	"time"

	"github.com/tradedocs/pdfgen/internal/domain/docmodel"
)

// Record is the render service's view of a job: the submitted request plus
// lifecycle state. Clients only ever see the api.StatusResponse projection.
type Record struct {
	ID          string             `json:"id"`
	TraceID     string             `json:"trace_id"`
	DocType     docmodel.DocType   `json:"doc_type"`
	Language    docmodel.Language  `json:"language"`
	FormData    docmodel.FormData  `json:"form_data"`
	Status      docmodel.JobStatus `json:"status"`
	Error       string             `json:"error,omitempty"`
	Details     string             `json:"details,omitempty"`
	CreatedTime time.Time          `json:"created_time"`
	EndTime     time.Time          `json:"end_time,omitempty"`
}

type JobStore interface {
	SaveJob(ctx context.Context, rec Record) error
	GetJob(ctx context.Context, jobID string) (Record, bool)
	DeleteJob(ctx context.Context, jobID string)
}

type ArtifactStore interface {
	PutArtifact(ctx context.Context, jobID string, data []byte) error
	GetArtifact(ctx context.Context, jobID string) ([]byte, bool)
}
