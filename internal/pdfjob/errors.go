package pdfjob

import (
	"fmt"
	"time"
)

type SubmissionError struct {
	Status int
	Diag   string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("pdf job submission failed: %s", e.Diag)
}

type StatusError struct {
	JobID  string
	Status int
	Diag   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status fetch failed for job %s: %s", e.JobID, e.Diag)
}

type DownloadError struct {
	JobID  string
	Status int
	Diag   string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("artifact download failed for job %s: %s", e.JobID, e.Diag)
}

// EmptyArtifactError is a server-side rendering fault: the service said
// completed but produced zero bytes. Kept distinct from network failures.
type EmptyArtifactError struct {
	JobID string
}

func (e *EmptyArtifactError) Error() string {
	return fmt.Sprintf("downloaded artifact for job %s is empty", e.JobID)
}

type JobFailedError struct {
	JobID  string
	Reason string
}

func (e *JobFailedError) Error() string {
	return fmt.Sprintf("pdf job %s failed: %s", e.JobID, e.Reason)
}

// TimeoutError means the client gave up waiting. No cancellation signal is
// sent; the job may still complete server-side.
type TimeoutError struct {
	JobID   string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("pdf job %s still not finished after %.0f seconds, giving up", e.JobID, e.Elapsed.Seconds())
}
