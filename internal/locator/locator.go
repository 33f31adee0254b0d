// Package locator resolves a logical UI target from an ordered list of
// candidate locators, stopping at the first candidate that matches.
package locator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/khawajarafayy/Texmage/internal/models"
)

var (
	// ErrNotFound is returned when no candidate resolved
	ErrNotFound = errors.New("target not found")
	// ErrTimeout is wrapped by finders when the bounded wait for one candidate expired
	ErrTimeout = errors.New("timed out waiting for element")
	// ErrNoCandidates is returned when Resolve is called with an empty chain
	ErrNoCandidates = errors.New("no locator candidates given")
)

// Finder waits for a single locator to match
type Finder interface {
	WaitPresent(ctx context.Context, loc models.Locator, timeout time.Duration) error
}

// Attempt records why one candidate did not resolve
type Attempt struct {
	Locator models.Locator
	Err     error
}

// NotFoundError lists every candidate that was tried
type NotFoundError struct {
	Attempts []Attempt
}

func (e *NotFoundError) Error() string {
	tried := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		tried = append(tried, a.Locator.String())
	}
	return fmt.Sprintf("%s: tried %d candidate(s): %s", ErrNotFound, len(e.Attempts), strings.Join(tried, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// TimedOut reports whether every candidate failed by timing out
func (e *NotFoundError) TimedOut() bool {
	if len(e.Attempts) == 0 {
		return false
	}
	for _, a := range e.Attempts {
		if !errors.Is(a.Err, ErrTimeout) {
			return false
		}
	}
	return true
}

// Resolve tries candidates in order, each bounded by timeout, and returns the
// first that matches. Later candidates are never tried once one matches.
// Cancellation of ctx aborts the chain with ctx's error.
func Resolve(ctx context.Context, f Finder, timeout time.Duration, candidates ...models.Locator) (models.Locator, error) {
	if len(candidates) == 0 {
		return models.Locator{}, ErrNoCandidates
	}

	nf := &NotFoundError{}
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return models.Locator{}, err
		}
		err := f.WaitPresent(ctx, c, timeout)
		if err == nil {
			return c, nil
		}
		nf.Attempts = append(nf.Attempts, Attempt{Locator: c, Err: err})
	}
	return models.Locator{}, nf
}
