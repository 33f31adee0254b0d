package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/khawajarafayy/Texmage/internal/common"
	"github.com/khawajarafayy/Texmage/internal/interfaces"
	"github.com/khawajarafayy/Texmage/internal/locator"
	"github.com/khawajarafayy/Texmage/internal/models"
)

// Env is what a scenario sees: the shared session plus the run's wait policy.
// One Env is created per scenario.
type Env struct {
	session interfaces.Session
	cfg     *common.Config
	logger  arbor.ILogger
	sleep   func(time.Duration)
	notes   []string
}

// Config returns the run configuration
func (e *Env) Config() *common.Config {
	return e.cfg
}

// Note records an observation shown next to the scenario in the summary
func (e *Env) Note(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	e.notes = append(e.notes, msg)
	e.logger.Info().Msg(msg)
}

// Notes returns the observations recorded so far
func (e *Env) Notes() []string {
	return e.notes
}

// Goto navigates to path relative to the base URL
func (e *Env) Goto(ctx context.Context, path string) error {
	return e.session.Navigate(ctx, e.cfg.URL(path))
}

// CurrentURL returns the address of the current page
func (e *Env) CurrentURL(ctx context.Context) (string, error) {
	return e.session.CurrentURL(ctx)
}

// Find resolves the first matching candidate, waiting up to the implicit wait for each
func (e *Env) Find(ctx context.Context, candidates ...models.Locator) (models.Locator, error) {
	return locator.Resolve(ctx, e.session, e.cfg.ImplicitWait(), candidates...)
}

// Present returns the first candidate that matches right now, without waiting
func (e *Env) Present(ctx context.Context, candidates ...models.Locator) (models.Locator, bool, error) {
	for _, c := range candidates {
		n, err := e.session.Count(ctx, c)
		if err != nil {
			return models.Locator{}, false, err
		}
		if n > 0 {
			return c, true, nil
		}
	}
	return models.Locator{}, false, nil
}

// Count returns how many elements loc matches now
func (e *Env) Count(ctx context.Context, loc models.Locator) (int, error) {
	return e.session.Count(ctx, loc)
}

// Click clicks loc, falling back to a script click when the natural click is
// rejected (covered element, off-screen and similar)
func (e *Env) Click(ctx context.Context, loc models.Locator) error {
	err := e.session.Click(ctx, loc)
	if err == nil {
		return nil
	}
	e.logger.Debug().Err(err).Str("locator", loc.String()).Msg("Natural click failed, using script click")

	if scriptErr := e.session.ScriptClick(ctx, loc); scriptErr != nil {
		return fmt.Errorf("click %s: %w", loc, errors.Join(err, scriptErr))
	}
	return nil
}

// FindAndClick resolves the candidates then clicks the match
func (e *Env) FindAndClick(ctx context.Context, candidates ...models.Locator) (models.Locator, error) {
	loc, err := e.Find(ctx, candidates...)
	if err != nil {
		return models.Locator{}, err
	}
	return loc, e.Click(ctx, loc)
}

// Type replaces the value of the input at loc
func (e *Env) Type(ctx context.Context, loc models.Locator, text string) error {
	if err := e.session.Clear(ctx, loc); err != nil {
		return err
	}
	return e.session.SendKeys(ctx, loc, text)
}

// PressKey sends a key to the focused element
func (e *Env) PressKey(ctx context.Context, key string) error {
	return e.session.PressKey(ctx, key)
}

func (e *Env) ScrollIntoView(ctx context.Context, loc models.Locator) error {
	return e.session.ScrollIntoView(ctx, loc)
}

// ScrollToBottom scrolls the window to the end of the document
func (e *Env) ScrollToBottom(ctx context.Context) error {
	var ignored interface{}
	return e.session.Evaluate(ctx, "window.scrollTo(0, document.body.scrollHeight)", &ignored)
}

// Eval runs a script in the page and stores its result in res
func (e *Env) Eval(ctx context.Context, expression string, res interface{}) error {
	return e.session.Evaluate(ctx, expression, res)
}

// Visible reports whether loc is rendered now
func (e *Env) Visible(ctx context.Context, loc models.Locator) (bool, error) {
	return e.session.Visible(ctx, loc)
}

// WaitGone waits up to the explicit wait for loc to disappear
func (e *Env) WaitGone(ctx context.Context, loc models.Locator) error {
	return e.session.WaitInvisible(ctx, loc, e.cfg.ExplicitWait())
}

// Pause blocks for d unconditionally
func (e *Env) Pause(d time.Duration) {
	e.sleep(d)
}

// Transition pauses for the configured UI transition delay
func (e *Env) Transition() {
	e.sleep(e.cfg.TransitionDelay())
}

// Settle pauses for the configured page settle delay
func (e *Env) Settle() {
	e.sleep(e.cfg.SettleDelay())
}
