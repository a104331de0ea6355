package command

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Result is a canned tool outcome for FakeRunner.
type Result struct {
	Output string
	Err    error
	Delay  time.Duration
}

// FakeRunner implements Runner from a table of canned results keyed by
// Key(name, args...). Tools missing from the table behave as if they were
// not installed.
type FakeRunner struct {
	Results map[string]Result

	mu    sync.Mutex
	calls []string
}

// Output returns the canned result for the invocation.
func (f *FakeRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	key := Key(name, args...)

	f.mu.Lock()
	f.calls = append(f.calls, key)
	res, ok := f.Results[key]
	f.mu.Unlock()

	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrUnavailable)
	}
	if res.Delay > 0 {
		select {
		case <-time.After(res.Delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%s: %w", name, ErrTimeout)
		}
	}
	return res.Output, res.Err
}

// Calls returns the keys of every invocation so far, in order.
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
