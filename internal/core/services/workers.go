package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/memvault-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memvault-cli/internal/logger"
)

// defaultQueueSize bounds the pending job queue.
const defaultQueueSize = 256

// WorkerPool executes ingestion jobs. Each worker pulls one item id at a
// time and runs it to completion synchronously - there is no intra-job
// parallelism, but many jobs run concurrently across workers. No ordering is
// guaranteed between jobs for different items.
type WorkerPool struct {
	runner  driving.Ingestor
	workers int
	queue   chan string

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewWorkerPool creates a pool of the given size over the ingestor.
func NewWorkerPool(workers int, runner driving.Ingestor) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	return &WorkerPool{
		runner:  runner,
		workers: workers,
		queue:   make(chan string, defaultQueueSize),
	}
}

// Start launches the workers. Idempotent.
func (p *WorkerPool) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.mu.Unlock()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work(ctx)
	}
	logger.Info("Worker pool started (%d workers)", p.workers)
}

// Stop drains no further jobs and waits for in-flight runs to finish.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopCh)
	p.mu.Unlock()

	p.wg.Wait()
}

// Submit enqueues an item id. Never blocks: when the queue is full the job
// is dropped with a warning and must be re-enqueued by the caller.
func (p *WorkerPool) Submit(itemID string) {
	select {
	case p.queue <- itemID:
	default:
		logger.Warn("Ingestion queue full, dropping %s", itemID)
	}
}

// QueueDepth returns the number of jobs waiting.
func (p *WorkerPool) QueueDepth() int {
	return len(p.queue)
}

func (p *WorkerPool) work(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case itemID := <-p.queue:
			result, err := p.runner.Run(ctx, itemID)
			switch {
			case err != nil:
				logger.Warn("Run %s: %v", itemID, err)
			case result != nil && result.Outcome == driving.OutcomeFailed:
				logger.Warn("Run %s failed: %s", itemID, result.Reason)
			default:
				logger.Debug("Run %s: %s", itemID, result.Outcome)
			}
		}
	}
}
