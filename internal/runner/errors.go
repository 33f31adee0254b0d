package runner

import (
	"errors"
	"fmt"

	"github.com/khawajarafayy/Texmage/internal/locator"
	"github.com/khawajarafayy/Texmage/internal/models"
)

// AssertionError reports an observed condition that did not hold
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return e.Message
}

// Failf returns an AssertionError with a formatted message
func Failf(format string, args ...interface{}) error {
	return &AssertionError{Message: fmt.Sprintf(format, args...)}
}

// PanicError wraps a value recovered from a scenario
type PanicError struct {
	Value interface{}
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Classify maps a scenario's returned error onto an outcome
func Classify(err error) (models.Outcome, string) {
	if err == nil {
		return models.OutcomePass, ""
	}

	var assertErr *AssertionError
	if errors.As(err, &assertErr) {
		return models.OutcomeFail, err.Error()
	}
	if errors.Is(err, locator.ErrNotFound) {
		return models.OutcomeNotFound, err.Error()
	}
	return models.OutcomeError, err.Error()
}
