package interfaces

import (
	"context"
	"time"

	"github.com/khawajarafayy/Texmage/internal/models"
)

// Session - one live browser automation connection. Exactly one exists per run.
type Session interface {
	// Navigation
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)

	// Element lookup. WaitPresent blocks until the locator matches or timeout
	// elapses; Count returns immediately.
	WaitPresent(ctx context.Context, loc models.Locator, timeout time.Duration) error
	Count(ctx context.Context, loc models.Locator) (int, error)
	Visible(ctx context.Context, loc models.Locator) (bool, error)
	WaitInvisible(ctx context.Context, loc models.Locator, timeout time.Duration) error

	// Interaction
	Click(ctx context.Context, loc models.Locator) error
	ScriptClick(ctx context.Context, loc models.Locator) error
	Clear(ctx context.Context, loc models.Locator) error
	SendKeys(ctx context.Context, loc models.Locator, text string) error
	PressKey(ctx context.Context, key string) error
	ScrollIntoView(ctx context.Context, loc models.Locator) error
	Evaluate(ctx context.Context, expression string, res interface{}) error

	// Diagnostics
	Screenshot(ctx context.Context) ([]byte, error)

	// Close releases the browser. Safe to call more than once.
	Close() error
}

// Strategy - one method of obtaining a working driver and session
type Strategy interface {
	Name() string
	// Available reports whether the strategy's precondition holds; reason explains a false result
	Available() (ok bool, reason string)
	Launch(ctx context.Context) (Session, error)
}
