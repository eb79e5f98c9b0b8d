package renderserver

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tradedocs/pdfgen/internal/config"
	"github.com/tradedocs/pdfgen/internal/domain/docmodel"
	"github.com/tradedocs/pdfgen/internal/metrics"
	"github.com/tradedocs/pdfgen/internal/renderserver/store"
	"github.com/tradedocs/pdfgen/pkg/logger_i"
)

// Pool renders queued jobs. A dispatcher grows the pool on demand up to
// MaxWorkerCount; idle workers retire after IdleWorkerTimeout so the pool
// shrinks back to one worker at rest.
type Pool struct {
	svc         *Service
	stop        chan bool
	wg          *sync.WaitGroup
	workerCount int64
	idleTimeout time.Duration
	logger      *logger_i.Logger
}

func NewPool(svc *Service, stop chan bool, wg *sync.WaitGroup) *Pool {
	return &Pool{
		svc:         svc,
		stop:        stop,
		wg:          wg,
		idleTimeout: config.IdleWorkerTimeout,
		logger:      logger_i.NewLogger("RenderPool"),
	}
}

func (p *Pool) Start() {
	p.logger.Info("Starting render worker pool")
	go p.dispatcher()
}

func (p *Pool) dispatcher() {
	p.createWorker()
	for range p.svc.DispatcherChannel {
		if atomic.LoadInt64(&p.workerCount) < config.MaxWorkerCount {
			p.logger.Info("Creating new worker", "workerCount", atomic.LoadInt64(&p.workerCount))
			p.createWorker()
		}
	}
}

func (p *Pool) createWorker() {
	p.wg.Add(1)
	atomic.AddInt64(&p.workerCount, 1)
	metrics.IncrementActiveWorkerCount()
	go p.worker()
}

func (p *Pool) worker() {
	for {
		select {
		case rec := <-p.svc.JobQueue:
			p.executeJob(rec)
			metrics.DecrementJobsInQueue()

		case <-p.stop:
			p.removeWorker("stop signal received")
			return

		case <-time.After(p.idleTimeout):
			if atomic.LoadInt64(&p.workerCount) > config.MinWorkerCount {
				p.removeWorker("idle timeout")
				return
			}
		}
	}
}

func (p *Pool) removeWorker(reason string) {
	p.wg.Done()
	atomic.AddInt64(&p.workerCount, -1)
	metrics.DecrementActiveWorkerCount()
	p.logger.Info("Removed worker", "reason", reason, "workerCount", atomic.LoadInt64(&p.workerCount))
}

func (p *Pool) executeJob(rec store.Record) {
	start := time.Now()
	defer func() {
		metrics.CaptureRenderMetrics(string(rec.Status), time.Since(start))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), config.RenderJobTimeout)
	defer cancel()
	log := p.logger.With("traceId", rec.TraceID, "jobId", rec.ID)
	log.Debug("Rendering job")

	rec.Status = docmodel.JobStatusProcessing
	p.saveState(ctx, rec)

	artifact, err := BuildPDF(rec)
	if err != nil {
		rec.Status = docmodel.JobStatusFailed
		rec.Error = "render failed"
		rec.Details = err.Error()
		rec.EndTime = time.Now()
		p.saveState(ctx, rec)
		log.Error("Render failed", "err", err)
		return
	}

	if err := p.svc.Artifacts.PutArtifact(ctx, rec.ID, artifact); err != nil {
		rec.Status = docmodel.JobStatusFailed
		rec.Error = "artifact storage failed"
		rec.Details = err.Error()
		rec.EndTime = time.Now()
		p.saveState(ctx, rec)
		log.Error("Failed to store artifact", "err", err)
		return
	}

	rec.Status = docmodel.JobStatusCompleted
	rec.EndTime = time.Now()
	p.saveState(ctx, rec)
	log.Info("Job rendered", "bytes", len(artifact), "elapsed", time.Since(start))
}

func (p *Pool) saveState(ctx context.Context, rec store.Record) {
	if err := p.svc.Jobs.SaveJob(ctx, rec); err != nil {
		p.logger.Error("Failed to update job state", "jobId", rec.ID, "err", err)
	}
}
