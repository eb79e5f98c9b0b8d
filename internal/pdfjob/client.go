// Package pdfjob is the client for the asynchronous PDF rendering service:
// submit a generation job, poll its status, download the finished artifact.
package pdfjob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tradedocs/pdfgen/internal/adapter"
	"github.com/tradedocs/pdfgen/internal/api"
	"github.com/tradedocs/pdfgen/internal/config"
	"github.com/tradedocs/pdfgen/internal/domain/docmodel"
	"github.com/tradedocs/pdfgen/internal/httpclient"
	"github.com/tradedocs/pdfgen/internal/metrics"
	"github.com/tradedocs/pdfgen/pkg/logger_i"
)

type Client struct {
	baseURL  string
	http     *httpclient.Client
	validate *validator.Validate
	logger   *logger_i.Logger

	// PollInterval is fixed at one second in production; tests shorten it.
	PollInterval time.Duration
}

func New(baseURL string, hc *httpclient.Client) *Client {
	return &Client{
		baseURL:      baseURL,
		http:         hc,
		validate:     validator.New(),
		logger:       logger_i.NewLogger("PdfJobClient"),
		PollInterval: config.PollInterval,
	}
}

// Start submits a generation request and returns the server-assigned job id.
func (c *Client) Start(ctx context.Context, req docmodel.GenerationRequest) (string, error) {
	if err := c.validate.Struct(req); err != nil {
		return "", fmt.Errorf("invalid generation request: %w", err)
	}

	payload, err := json.Marshal(api.StartRequest{
		DocType:  string(req.DocType),
		FormData: req.FormData,
		Language: string(req.Language),
	})
	if err != nil {
		return "", fmt.Errorf("encoding generation request: %w", err)
	}

	resp, err := c.http.Do(ctx, http.MethodPost, c.baseURL+"/pdf/start", "application/json", payload)
	if err != nil {
		var serverErr *httpclient.ServerError
		if errors.As(err, &serverErr) {
			return "", &SubmissionError{
				Status: serverErr.Status,
				Diag:   adapter.HTTPErrorDiagnostics(serverErr.Status, serverErr.Body),
			}
		}
		return "", err
	}

	var started api.StartResponse
	if err := json.Unmarshal(resp.Body, &started); err != nil {
		return "", fmt.Errorf("decoding start response: %w", err)
	}
	if started.JobID == "" {
		return "", fmt.Errorf("server accepted the job but returned no job id")
	}

	c.logger.Info("Started pdf job", "jobId", started.JobID, "docType", req.DocType)
	return started.JobID, nil
}

// Status fetches and normalizes the current state of a job.
func (c *Client) Status(ctx context.Context, jobID string) (docmodel.Job, error) {
	resp, err := c.http.Do(ctx, http.MethodGet, c.baseURL+"/pdf/status/"+jobID, "", nil)
	if err != nil {
		var serverErr *httpclient.ServerError
		if errors.As(err, &serverErr) {
			return docmodel.Job{}, &StatusError{
				JobID:  jobID,
				Status: serverErr.Status,
				Diag:   adapter.HTTPErrorDiagnostics(serverErr.Status, serverErr.Body),
			}
		}
		return docmodel.Job{}, err
	}

	var raw api.StatusResponse
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return docmodel.Job{}, fmt.Errorf("decoding status response for job %s: %w", jobID, err)
	}
	if raw.Stack != "" {
		// server-sourced traces are for operators, never for end users
		c.logger.Error("Server reported a stack trace", "jobId", jobID, "stack", raw.Stack)
	}

	metrics.CountStatusPoll(raw.Status)
	return adapter.ToJob(jobID, raw), nil
}

// Download streams the finished artifact into w. A zero-length body on a
// 2xx response is a server-side rendering fault and is reported as such.
func (c *Client) Download(ctx context.Context, jobID string, w io.Writer) error {
	resp, err := c.http.Do(ctx, http.MethodGet, c.baseURL+"/pdf/download/"+jobID, "", nil)
	if err != nil {
		var serverErr *httpclient.ServerError
		if errors.As(err, &serverErr) {
			return &DownloadError{
				JobID:  jobID,
				Status: serverErr.Status,
				Diag:   adapter.HTTPErrorDiagnostics(serverErr.Status, serverErr.Body),
			}
		}
		return err
	}
	if len(resp.Body) == 0 {
		return &EmptyArtifactError{JobID: jobID}
	}
	if _, err := w.Write(resp.Body); err != nil {
		return fmt.Errorf("writing artifact for job %s: %w", jobID, err)
	}
	return nil
}

// Health probes the service before any submission is attempted. The probe
// carries its own short deadline, independent of the job timeout.
func (c *Client) Health(ctx context.Context) error {
	hctx, cancel := context.WithTimeout(ctx, config.HealthCheckTimeout)
	defer cancel()
	_, err := c.http.Plain(hctx, c.baseURL+"/health")
	return err
}

// WaitForCompletion polls at a fixed interval until the job reaches a
// terminal state, the timeout elapses, or ctx is cancelled. Polls are
// strictly sequential; at most one status request is in flight. onProgress,
// if non-nil, sees every observed state.
func (c *Client) WaitForCompletion(ctx context.Context, jobID string, onProgress func(docmodel.Job), timeout time.Duration) (docmodel.Job, error) {
	if timeout <= 0 {
		timeout = config.DefaultJobTimeout
	}
	start := time.Now()

	for {
		job, err := c.Status(ctx, jobID)
		if err != nil {
			return docmodel.Job{}, err
		}
		if onProgress != nil {
			onProgress(job)
		}

		switch job.Status {
		case docmodel.JobStatusCompleted:
			return job, nil
		case docmodel.JobStatusFailed:
			return job, &JobFailedError{JobID: jobID, Reason: adapter.FailureReason(job)}
		default:
			// pending, processing and anything unrecognized keep polling
		}

		if elapsed := time.Since(start); elapsed >= timeout {
			c.logger.Warn("Gave up waiting for pdf job", "jobId", jobID, "elapsed", elapsed)
			return job, &TimeoutError{JobID: jobID, Elapsed: elapsed}
		}

		select {
		case <-ctx.Done():
			return job, fmt.Errorf("waiting for job %s: %w", jobID, ctx.Err())
		case <-time.After(c.PollInterval):
		}
	}
}
