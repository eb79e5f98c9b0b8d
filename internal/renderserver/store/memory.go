package store

import (
	"context"
	"sync"

	"github.com/tradedocs/pdfgen/pkg/logger_i"
)

// InMemoryStore backs both the job and artifact stores when Redis is
// offline. Good enough for development and tests; nothing survives a
// restart.
type InMemoryStore struct {
	mu        sync.RWMutex
	jobs      map[string]Record
	artifacts map[string][]byte
	logger    *logger_i.Logger
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		jobs:      make(map[string]Record),
		artifacts: make(map[string][]byte),
		logger:    logger_i.NewLogger("InMemStore"),
	}
}

func (s *InMemoryStore) SaveJob(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[rec.ID] = rec
	s.logger.Debug("Saved job", "jobId", rec.ID, "status", rec.Status)
	return nil
}

func (s *InMemoryStore) GetJob(ctx context.Context, jobID string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, found := s.jobs[jobID]
	return rec, found
}

func (s *InMemoryStore) DeleteJob(ctx context.Context, jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, jobID)
	delete(s.artifacts, jobID)
}

func (s *InMemoryStore) PutArtifact(ctx context.Context, jobID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[jobID] = data
	return nil
}

func (s *InMemoryStore) GetArtifact(ctx context.Context, jobID string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, found := s.artifacts[jobID]
	return data, found
}
