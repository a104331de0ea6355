// Package command runs platform tools with a bounded wall-clock budget
// and folds their failure modes into a small set of sentinel errors.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

// DefaultTimeout bounds a single tool invocation.
const DefaultTimeout = 2 * time.Second

var (
	// ErrUnavailable means the tool is not installed or exited with an error.
	ErrUnavailable = errors.New("tool unavailable")
	// ErrDenied means the tool could not run for lack of permission.
	ErrDenied = errors.New("permission denied")
	// ErrTimeout means the tool did not finish within its budget.
	ErrTimeout = errors.New("tool timed out")
)

// Runner executes an external tool and returns its standard output.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner implements Runner with os/exec.
type ExecRunner struct {
	timeout time.Duration
	logger  logr.Logger
}

// NewExecRunner returns an ExecRunner whose invocations are each bounded
// by timeout. A non-positive timeout selects DefaultTimeout.
func NewExecRunner(logger logr.Logger, timeout time.Duration) *ExecRunner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecRunner{timeout: timeout, logger: logger.WithName("command")}
}

// Output runs name with args. Standard error is discarded.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = r.timeout
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	start := time.Now()
	err := cmd.Run()
	r.logger.V(2).Info("ran tool", "name", name, "args", args, "elapsed", time.Since(start), "err", err)
	if err != nil {
		return "", classify(ctx, name, err)
	}
	return stdout.String(), nil
}

func classify(ctx context.Context, name string, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", name, ErrTimeout)
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%s: %w", name, ErrUnavailable)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%s: %w", name, ErrDenied)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%s exited %d: %w", name, exitErr.ExitCode(), ErrUnavailable)
	}
	return fmt.Errorf("%s: %v: %w", name, err, ErrUnavailable)
}

// Key joins a tool name and its arguments into the lookup key used by
// FakeRunner.
func Key(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
