// Package orchestrator composes submit, poll and download into one
// user-facing generate action with pre-flight and error translation.
package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/tradedocs/pdfgen/internal/config"
	"github.com/tradedocs/pdfgen/internal/domain/docmodel"
	"github.com/tradedocs/pdfgen/internal/filename"
	"github.com/tradedocs/pdfgen/internal/metrics"
	"github.com/tradedocs/pdfgen/internal/pdfjob"
	"github.com/tradedocs/pdfgen/pkg/logger_i"
)

type ProgressFunc func(message string)

type Generator struct {
	jobs      *pdfjob.Client
	outputDir string
	logger    *logger_i.Logger

	// Timeout bounds the polling phase. Defaults to the standard job
	// timeout; tests shorten it.
	Timeout time.Duration
}

func New(jobs *pdfjob.Client, outputDir string) *Generator {
	return &Generator{
		jobs:      jobs,
		outputDir: outputDir,
		logger:    logger_i.NewLogger("Orchestrator"),
		Timeout:   config.DefaultJobTimeout,
	}
}

var (
	progressChecking = userMessage{tr: "Servis durumu kontrol ediliyor...", en: "Checking service availability..."}
	progressQueued   = userMessage{tr: "Belge talebi sıraya alındı...", en: "Document request queued..."}
	progressWorking  = userMessage{tr: "Belge hazırlanıyor...", en: "Preparing the document..."}
	progressSaving   = userMessage{tr: "Belge indiriliyor...", en: "Downloading the document..."}
)

// Generate runs the full cycle: health pre-flight, submission, polling with
// progress reporting, filename derivation, artifact download. The returned
// error, if any, is a UserFacingError whose chain preserves the original
// diagnostics.
func (g *Generator) Generate(ctx context.Context, req docmodel.GenerationRequest, onProgress ProgressFunc) error {
	start := time.Now()
	outcome := "success"
	defer func() {
		metrics.CaptureGenerationMetrics(outcome, time.Since(start))
	}()

	report := func(m userMessage) {
		if onProgress != nil {
			onProgress(m.in(req.Language))
		}
	}

	report(progressChecking)
	if err := g.jobs.Health(ctx); err != nil {
		outcome = "unavailable"
		g.logger.Error("Health check failed, not submitting", "err", err)
		return Translate(&ServiceUnavailableError{Cause: err}, req.Language)
	}

	jobID, err := g.jobs.Start(ctx, req)
	if err != nil {
		outcome = "failed"
		g.logger.Error("Job submission failed", "err", err)
		return Translate(err, req.Language)
	}
	report(progressQueued)

	_, err = g.jobs.WaitForCompletion(ctx, jobID, func(job docmodel.Job) {
		report(statusMessage(job.Status))
	}, g.Timeout)
	if err != nil {
		outcome = "failed"
		g.logger.Error("Job did not complete", "jobId", jobID, "err", err)
		return Translate(err, req.Language)
	}

	name := filename.Build(req.DocType, req.FormData, req.Language)
	report(progressSaving)
	if err := g.save(ctx, jobID, name); err != nil {
		outcome = "failed"
		g.logger.Error("Artifact download failed", "jobId", jobID, "file", name, "err", err)
		return Translate(err, req.Language)
	}

	g.logger.Info("Document generated", "jobId", jobID, "file", name, "elapsed", time.Since(start))
	return nil
}

func (g *Generator) save(ctx context.Context, jobID, name string) error {
	if err := os.MkdirAll(g.outputDir, 0750); err != nil {
		return err
	}
	path := filepath.Join(g.outputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := g.jobs.Download(ctx, jobID, f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

func statusMessage(status docmodel.JobStatus) userMessage {
	switch status {
	case docmodel.JobStatusPending:
		return progressQueued
	default:
		return progressWorking
	}
}
