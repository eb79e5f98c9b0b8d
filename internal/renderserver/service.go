// Package renderserver is a self-contained implementation of the rendering
// service wire protocol, used for development and end-to-end testing of the
// client stack.
package renderserver

import (
	"github.com/tradedocs/pdfgen/internal/config"
	"github.com/tradedocs/pdfgen/internal/renderserver/store"
)

// Service bundles the queues and stores shared by handlers and workers.
type Service struct {
	Jobs              store.JobStore
	Artifacts         store.ArtifactStore
	JobQueue          chan store.Record
	DispatcherChannel chan bool
	RequestCount      int64
}

func NewService(jobs store.JobStore, artifacts store.ArtifactStore) *Service {
	return &Service{
		Jobs:              jobs,
		Artifacts:         artifacts,
		JobQueue:          make(chan store.Record, config.BufferLimit),
		DispatcherChannel: make(chan bool, 1),
	}
}
