package executor

import (
	"context"
	"sync"
	"time"

	jobPort "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/port"
	"gitlab.apk-group.net/siem/backend/project-analyzer/pkg/logger"
)

// WorkerRunner owns the pool of scan workers. Each worker loops on the
// task queue and hands dequeued job IDs to the executor.
type WorkerRunner struct {
	queue    jobPort.TaskQueue
	executor *TaskExecutor
	workers  int
	running  bool
	stopChan chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWorkerRunner creates a new worker runner
func NewWorkerRunner(queue jobPort.TaskQueue, executor *TaskExecutor, workers int) *WorkerRunner {
	if workers <= 0 {
		workers = 1
	}

	return &WorkerRunner{
		queue:    queue,
		executor: executor,
		workers:  workers,
		running:  false,
		stopChan: make(chan struct{}),
	}
}

// Start launches the worker goroutines
func (r *WorkerRunner) Start() {
	if r.running {
		logger.Warn("Worker Runner: Already running")
		return
	}

	r.running = true
	// Stop closes the channel, a restarted pool needs a fresh one.
	r.stopChan = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	logger.Info("Worker Runner: Starting %d workers", r.workers)

	for i := 1; i <= r.workers; i++ {
		r.wg.Add(1)
		go r.workerLoop(ctx, i)
	}
}

// Stop halts the workers and waits for in-flight scans to finish
func (r *WorkerRunner) Stop() {
	if !r.running {
		return
	}

	logger.Info("Worker Runner: Stopping")
	close(r.stopChan)
	r.cancel()
	r.wg.Wait()
	r.running = false
}

func (r *WorkerRunner) workerLoop(ctx context.Context, workerID int) {
	defer r.wg.Done()

	for {
		select {
		case <-r.stopChan:
			logger.Info("Worker Runner: Worker %d stopping", workerID)
			return
		default:
		}

		jobID, err := r.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Worker Runner: Worker %d failed to dequeue: %v", workerID, err)
			time.Sleep(time.Second)
			continue
		}
		if jobID == nil {
			continue
		}

		logger.Info("Worker Runner: Worker %d picked up job %s", workerID, jobID.String())

		if err := r.executor.Process(ctx, *jobID); err != nil {
			logger.Error("Worker Runner: Worker %d failed processing job %s: %v", workerID, jobID.String(), err)
		}
	}
}
