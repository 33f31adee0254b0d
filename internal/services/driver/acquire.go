// Package driver obtains a working browser session by trying an ordered list
// of acquisition strategies.
package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/khawajarafayy/Texmage/internal/interfaces"
)

// ErrNoStrategy is matched by the error Acquire returns when every strategy was skipped or failed
var ErrNoStrategy = errors.New("no driver acquisition strategy succeeded")

// Attempt records a strategy whose launch failed
type Attempt struct {
	Strategy string
	Err      error
}

// Skip records a strategy whose precondition did not hold
type Skip struct {
	Strategy string
	Reason   string
}

// AcquisitionError is the setup-fatal error returned when no strategy produced a session
type AcquisitionError struct {
	Attempts []Attempt
	Skipped  []Skip
}

// Remediation lists the steps printed with every acquisition failure
var Remediation = []string{
	"Install the driver binary manually and place it on PATH or in the working directory",
	"Enable or upgrade the driver manager (driver.managed_download = true) and clear its cache directory",
	"Verify Chrome is installed and up to date",
	"Verify the driver binary version is compatible with the installed browser",
}

func (e *AcquisitionError) Error() string {
	var b strings.Builder
	b.WriteString(ErrNoStrategy.Error())
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "\n  failed  %s: %v", a.Strategy, a.Err)
	}
	for _, s := range e.Skipped {
		fmt.Fprintf(&b, "\n  skipped %s: %s", s.Strategy, s.Reason)
	}
	b.WriteString("\nTo fix:")
	for i, step := range Remediation {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, step)
	}
	return b.String()
}

func (e *AcquisitionError) Unwrap() []error {
	errs := []error{ErrNoStrategy}
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}

// Acquire tries strategies strictly in order and returns the first session
// obtained together with the name of the strategy that produced it.
// Unavailable strategies are skipped without counting as failures. Any
// session returned alongside a launch error is closed before moving on.
func Acquire(ctx context.Context, logger arbor.ILogger, strategies ...interfaces.Strategy) (interfaces.Session, string, error) {
	acqErr := &AcquisitionError{}

	for i, strategy := range strategies {
		if err := ctx.Err(); err != nil {
			return nil, "", fmt.Errorf("driver acquisition interrupted: %w", err)
		}

		name := strategy.Name()
		ok, reason := strategy.Available()
		if !ok {
			logger.Info().
				Int("strategy", i+1).
				Str("name", name).
				Str("reason", reason).
				Msg("Skipping driver strategy")
			acqErr.Skipped = append(acqErr.Skipped, Skip{Strategy: name, Reason: reason})
			continue
		}

		logger.Info().Int("strategy", i+1).Str("name", name).Msg("Trying driver strategy")
		session, err := strategy.Launch(ctx)
		if err != nil {
			if session != nil {
				if closeErr := session.Close(); closeErr != nil {
					logger.Debug().Err(closeErr).Str("name", name).Msg("Closing half-open session failed")
				}
			}
			logger.Warn().Err(err).Str("name", name).Msg("Driver strategy failed")
			acqErr.Attempts = append(acqErr.Attempts, Attempt{Strategy: name, Err: err})
			continue
		}
		if session == nil {
			acqErr.Attempts = append(acqErr.Attempts, Attempt{Strategy: name, Err: errors.New("strategy returned no session")})
			continue
		}

		logger.Info().Str("name", name).Msg("Driver acquired")
		return session, name, nil
	}

	return nil, "", acqErr
}
