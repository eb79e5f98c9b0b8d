// Package facade exposes generation state to UI consumers: a busy flag, the
// last progress message and the last failure.
package facade

import (
	"context"
	"sync"
	"time"

	"github.com/tradedocs/pdfgen/internal/domain/docmodel"
	"github.com/tradedocs/pdfgen/internal/orchestrator"
)

// how long the final progress message lingers after a successful run
const defaultClearDelay = 3 * time.Second

type State struct {
	IsGenerating bool
	Progress     string
	Error        string
}

// Runner is the slice of the orchestrator the facade needs.
type Runner interface {
	Generate(ctx context.Context, req docmodel.GenerationRequest, onProgress orchestrator.ProgressFunc) error
}

// Facade tracks one generation at a time. It does not queue or reject
// concurrent calls; callers are expected to disable their trigger while
// IsGenerating is true. State access itself is safe for concurrent reads.
type Facade struct {
	mu         sync.Mutex
	state      State
	generation int
	gen        Runner
	clearDelay time.Duration
}

func New(gen Runner) *Facade {
	return &Facade{
		gen:        gen,
		clearDelay: defaultClearDelay,
	}
}

func (f *Facade) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Generate runs one full generation, mirroring its lifecycle into the
// observable state. On success the progress message is auto-cleared after a
// few seconds unless a newer generation has started.
func (f *Facade) Generate(ctx context.Context, req docmodel.GenerationRequest) error {
	f.mu.Lock()
	f.generation++
	current := f.generation
	f.state = State{IsGenerating: true}
	f.mu.Unlock()

	err := f.gen.Generate(ctx, req, func(message string) {
		f.mu.Lock()
		if f.generation == current {
			f.state.Progress = message
		}
		f.mu.Unlock()
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.generation != current {
		return err
	}
	f.state.IsGenerating = false
	if err != nil {
		f.state.Error = err.Error()
		f.state.Progress = ""
		return err
	}

	time.AfterFunc(f.clearDelay, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.generation == current {
			f.state.Progress = ""
		}
	})
	return nil
}
