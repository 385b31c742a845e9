package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	analyzerDomain "gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/domain"
	analyzerPort "gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/port"
	jobDomain "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/domain"
	jobPort "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/port"
	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/report"
	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/workspace"
	"gitlab.apk-group.net/siem/backend/project-analyzer/pkg/logger"
)

// errAlreadyClaimed aborts the running transition when another delivery
// of the same task won the race.
var errAlreadyClaimed = errors.New("job already claimed by another worker")

// TaskExecutor drives one queued job through its lifecycle: claim the
// pending record, run the scan, persist the terminal state. Redelivered
// and deleted jobs are discarded without effect.
type TaskExecutor struct {
	repo       jobPort.Repo
	aggregator analyzerPort.Aggregator
	workspace  *workspace.Workspace
}

func NewTaskExecutor(repo jobPort.Repo, aggregator analyzerPort.Aggregator, ws *workspace.Workspace) *TaskExecutor {
	return &TaskExecutor{
		repo:       repo,
		aggregator: aggregator,
		workspace:  ws,
	}
}

func (e *TaskExecutor) Process(ctx context.Context, jobID jobDomain.JobUUID) error {
	job, err := e.repo.GetByUUID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load job %s: %w", jobID.String(), err)
	}
	if job == nil {
		logger.InfoContext(ctx, "Executor: Job %s no longer exists, discarding task", jobID.String())
		return nil
	}
	if job.Status.IsTerminal() {
		logger.InfoContext(ctx, "Executor: Job %s already %s, discarding redelivery", jobID.String(), job.Status)
		return nil
	}

	err = e.repo.Update(ctx, jobID, func(j *jobDomain.Job) error {
		if j.Status != jobDomain.JobStatusPending {
			return errAlreadyClaimed
		}
		j.Status = jobDomain.JobStatusRunning
		return nil
	})
	if err != nil {
		if errors.Is(err, errAlreadyClaimed) || errors.Is(err, jobDomain.ErrJobNotFound) {
			return nil
		}
		return fmt.Errorf("failed to claim job %s: %w", jobID.String(), err)
	}

	logger.InfoContext(ctx, "Executor: Job %s is running", jobID.String())

	doc, failure := e.runScan(ctx, job)
	if failure != nil {
		return e.markFailed(ctx, jobID, failure)
	}

	return e.markCompleted(ctx, jobID, doc)
}

type scanFailure struct {
	Reason string `json:"error"`
	Trace  string `json:"trace"`
}

// runScan shields the caller from aggregator panics; a panic fails the
// job, never the worker.
func (e *TaskExecutor) runScan(ctx context.Context, job *jobDomain.Job) (doc analyzerDomain.Document, failure *scanFailure) {
	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			failure = &scanFailure{
				Reason: fmt.Sprintf("scan panicked: %v", rec),
				Trace:  string(debug.Stack()),
			}
		}
	}()

	projectPath := e.workspace.ExtractedPath(job.JobID.String())

	document, err := e.aggregator.Analyze(ctx, projectPath)
	if err != nil {
		return nil, &scanFailure{
			Reason: err.Error(),
			Trace:  string(debug.Stack()),
		}
	}

	return document, nil
}

func (e *TaskExecutor) markCompleted(ctx context.Context, jobID jobDomain.JobUUID, doc analyzerDomain.Document) error {
	resultJSON, err := json.Marshal(doc)
	if err != nil {
		return e.markFailed(ctx, jobID, &scanFailure{Reason: fmt.Sprintf("failed to encode result: %v", err)})
	}

	issues := report.TotalIssueCount(doc)

	now := time.Now()
	err = e.repo.Update(ctx, jobID, func(j *jobDomain.Job) error {
		j.Status = jobDomain.JobStatusCompleted
		j.Summary = fmt.Sprintf("Scan finished with %d issues", issues)
		j.Result = resultJSON
		j.CompletedAt = &now
		return nil
	})
	if errors.Is(err, jobDomain.ErrJobNotFound) {
		logger.InfoContext(ctx, "Executor: Job %s deleted mid-scan, discarding result", jobID.String())
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to complete job %s: %w", jobID.String(), err)
	}

	logger.InfoContext(ctx, "Executor: Job %s completed with %d issues", jobID.String(), issues)
	return nil
}

func (e *TaskExecutor) markFailed(ctx context.Context, jobID jobDomain.JobUUID, failure *scanFailure) error {
	logger.ErrorContext(ctx, "Executor: Job %s failed: %s", jobID.String(), failure.Reason)

	resultJSON, err := json.Marshal(failure)
	if err != nil {
		resultJSON = []byte(fmt.Sprintf(`{"error": %q}`, failure.Reason))
	}

	err = e.repo.Update(ctx, jobID, func(j *jobDomain.Job) error {
		j.Status = jobDomain.JobStatusFailed
		j.Result = resultJSON
		// completed_at stays unset, the job never finished a scan.
		return nil
	})
	if errors.Is(err, jobDomain.ErrJobNotFound) {
		logger.InfoContext(ctx, "Executor: Job %s deleted mid-scan, discarding failure", jobID.String())
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to mark job %s failed: %w", jobID.String(), err)
	}

	return nil
}
