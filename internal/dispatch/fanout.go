package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rana718/Seedbed/internal/database"
	"github.com/Rana718/Seedbed/internal/types"
	"golang.org/x/sync/errgroup"
)

// Status summarises the outcome across the targeted backends.
type Status string

const (
	StatusOK             Status = "ok"
	StatusFailed         Status = "failed"
	StatusBothOK         Status = "both_ok"
	StatusPartialFailure Status = "partial_failure"
	StatusBothFailed     Status = "both_failed"
)

type BackendError struct {
	Backend types.DBType
	Err     error
}

// FanOutError reports which backends failed a "both" request. Backends that
// succeeded keep their writes; nothing is compensated.
type FanOutError struct {
	Status   Status
	Failures []BackendError
}

func (e *FanOutError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s: %v", f.Backend, f.Err)
	}
	return fmt.Sprintf("%s: %s", e.Status, strings.Join(parts, "; "))
}

func (e *FanOutError) Unwrap() []error {
	out := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = f.Err
	}
	return out
}

// Failed reports whether backend is among the failures.
func (e *FanOutError) Failed(backend types.DBType) bool {
	for _, f := range e.Failures {
		if f.Backend == backend {
			return true
		}
	}
	return false
}

// fanOut runs fn once per target. A single target is called inline and its
// error is returned unchanged. Several targets run concurrently; every call
// runs to completion regardless of the others.
func fanOut(ctx context.Context, targets []database.Adapter, fn func(ctx context.Context, i int, a database.Adapter) error) (Status, error) {
	if len(targets) == 1 {
		if err := fn(ctx, 0, targets[0]); err != nil {
			return StatusFailed, err
		}
		return StatusOK, nil
	}

	results := make([]error, len(targets))
	var g errgroup.Group
	for i, a := range targets {
		i, a := i, a
		g.Go(func() error {
			results[i] = fn(ctx, i, a)
			return nil
		})
	}
	g.Wait()

	var failures []BackendError
	for i, err := range results {
		if err != nil {
			failures = append(failures, BackendError{Backend: targets[i].Backend(), Err: err})
		}
	}
	switch len(failures) {
	case 0:
		return StatusBothOK, nil
	case len(targets):
		return StatusBothFailed, &FanOutError{Status: StatusBothFailed, Failures: failures}
	default:
		return StatusPartialFailure, &FanOutError{Status: StatusPartialFailure, Failures: failures}
	}
}
