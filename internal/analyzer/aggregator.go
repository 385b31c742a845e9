package analyzer

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/domain"
	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/port"
	"gitlab.apk-group.net/siem/backend/project-analyzer/pkg/logger"
)

// aggregator fans one extracted project tree out to every configured
// analyzer with bounded parallelism and pools their results. It never
// touches the job store; the document is handed back to the caller.
type aggregator struct {
	analyzers   []port.Analyzer
	maxParallel int
}

func NewAggregator(maxParallel int, analyzers ...port.Analyzer) port.Aggregator {
	return &aggregator{
		analyzers:   analyzers,
		maxParallel: maxParallel,
	}
}

// DefaultAnalyzers builds the standard battery backed by one command runner.
func DefaultAnalyzers(runner port.CommandRunner) []port.Analyzer {
	return []port.Analyzer{
		NewBanditAnalyzer(runner),
		NewSemgrepAnalyzer(runner),
		NewPipAuditAnalyzer(runner),
		NewPylintAnalyzer(runner),
	}
}

func (a *aggregator) Analyze(ctx context.Context, projectPath string) (domain.Document, error) {
	if _, err := os.Stat(projectPath); err != nil {
		return nil, fmt.Errorf("project path is not readable: %w", err)
	}

	doc := make(domain.Document, len(a.analyzers))
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	if a.maxParallel > 0 {
		group.SetLimit(a.maxParallel)
	}

	for _, an := range a.analyzers {
		an := an
		group.Go(func() error {
			result := runShielded(groupCtx, an, projectPath)
			if result.Failed() {
				logger.WarnContext(groupCtx, "Aggregator: analyzer %s failed: %s", an.Name(), result.Err)
			}

			mu.Lock()
			doc[an.Name()] = result
			mu.Unlock()
			return nil
		})
	}

	// Analyzer goroutines never return errors, failures are data.
	_ = group.Wait()

	return doc, nil
}

func runShielded(ctx context.Context, an port.Analyzer, projectPath string) (result domain.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			result = domain.Errf("%s panicked: %v", an.Name(), rec)
		}
	}()

	return an.Run(ctx, projectPath)
}
