package analyzer

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/port"
)

// execCommandRunner invokes external tools with a per-invocation timeout.
// Stdout is returned even when the command exits nonzero, because the
// analysis tools signal "findings exist" through the exit code while the
// report itself lands on stdout.
type execCommandRunner struct {
	timeout time.Duration
}

func NewExecCommandRunner(timeout time.Duration) port.CommandRunner {
	return &execCommandRunner{timeout: timeout}
}

func (r *execCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	return stdout.Bytes(), err
}
