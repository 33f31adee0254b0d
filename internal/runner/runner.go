// Package runner owns the browser session for a run and executes scenarios
// against it in order, isolating each scenario's failure from the rest.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/khawajarafayy/Texmage/internal/common"
	"github.com/khawajarafayy/Texmage/internal/interfaces"
	"github.com/khawajarafayy/Texmage/internal/models"
)

// Scenario is one numbered end-to-end check
type Scenario struct {
	Number int
	Name   string
	Run    func(ctx context.Context, env *Env) error
}

// ErrNoScenarios is returned when a run or a name filter selects no scenario
var ErrNoScenarios = errors.New("no scenarios selected")

// AcquireFunc obtains the run's single session and names how it was obtained
type AcquireFunc func(ctx context.Context) (interfaces.Session, string, error)

// Runner executes scenarios sequentially against one session
type Runner struct {
	cfg     *common.Config
	logger  arbor.ILogger
	acquire AcquireFunc

	// Sleep implements literal delays; tests replace it with a no-op
	Sleep func(time.Duration)
	// Now stamps the run identifier
	Now func() time.Time
}

// New creates a runner that obtains its session through acquire
func New(cfg *common.Config, logger arbor.ILogger, acquire AcquireFunc) *Runner {
	return &Runner{
		cfg:     cfg,
		logger:  logger,
		acquire: acquire,
		Sleep:   time.Sleep,
		Now:     time.Now,
	}
}

// Run acquires the session, runs every scenario and closes the session
// exactly once. When acquisition fails, or scenarios is empty, no browser is
// started and the summary carries SetupError.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) *models.Summary {
	startTime := r.Now()
	summary := &models.Summary{RunID: common.NewRunID(startTime)}
	defer func() { summary.Duration = r.Now().Sub(startTime) }()

	if len(scenarios) == 0 {
		summary.SetupError = ErrNoScenarios
		r.logger.Error().Err(ErrNoScenarios).Msg("Nothing to run")
		return summary
	}

	session, strategy, err := r.acquire(ctx)
	if err != nil {
		summary.SetupError = err
		r.logger.Error().Err(err).Msg("Failed to acquire a browser session")
		return summary
	}
	defer func() {
		if err := session.Close(); err != nil {
			r.logger.Warn().Err(err).Msg("Failed to close browser session")
		}
	}()

	r.logger.Info().
		Str("run_id", summary.RunID).
		Str("strategy", strategy).
		Int("scenarios", len(scenarios)).
		Msg("Running scenarios")

	for _, sc := range scenarios {
		if ctx.Err() != nil {
			r.logger.Warn().Int("remaining", len(scenarios)-summary.Run).Msg("Run interrupted")
			break
		}
		summary.Add(r.runOne(ctx, session, sc, summary.RunID))
	}
	return summary
}

func (r *Runner) runOne(ctx context.Context, session interfaces.Session, sc Scenario, runID string) models.ScenarioResult {
	env := &Env{
		session: session,
		cfg:     r.cfg,
		logger:  r.logger,
		sleep:   r.Sleep,
	}

	r.logger.Info().Int("number", sc.Number).Str("name", sc.Name).Msg("Scenario started")
	started := r.Now()

	err := r.execute(ctx, env, sc)
	outcome, message := Classify(err)

	result := models.ScenarioResult{
		Number:   sc.Number,
		Name:     sc.Name,
		Outcome:  outcome,
		Message:  message,
		Notes:    env.Notes(),
		Duration: r.Now().Sub(started),
	}

	if panicErr, ok := err.(*PanicError); ok {
		r.logger.Error().Str("name", sc.Name).Str("stack", panicErr.Stack).Msg("Scenario panicked")
	}

	if !result.Passed() && r.cfg.Results.ScreenshotOnFailure {
		path, shotErr := r.saveScreenshot(ctx, session, runID, sc)
		if shotErr != nil {
			r.logger.Warn().Err(shotErr).Str("name", sc.Name).Msg("Failed to capture screenshot")
		} else {
			result.Screenshot = path
		}
	}

	r.logger.Info().
		Int("number", sc.Number).
		Str("name", sc.Name).
		Str("outcome", string(outcome)).
		Str("duration", result.Duration.Round(time.Millisecond).String()).
		Msg("Scenario finished")
	return result
}

// execute resets the page to the base URL, settles, and runs the scenario
// with panics converted to errors
func (r *Runner) execute(ctx context.Context, env *Env, sc Scenario) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Value: rec, Stack: common.GetStackTrace()}
		}
	}()

	if err := env.Goto(ctx, "/"); err != nil {
		return fmt.Errorf("failed to reset to base URL: %w", err)
	}
	env.Settle()

	return sc.Run(ctx, env)
}

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

func slug(name string) string {
	return strings.Trim(nonWord.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

// ScreenshotPath is where a scenario's failure screenshot is written
func ScreenshotPath(resultsDir, runID string, sc Scenario) string {
	return filepath.Join(resultsDir, runID, fmt.Sprintf("%02d_%s.png", sc.Number, slug(sc.Name)))
}

func (r *Runner) saveScreenshot(ctx context.Context, session interfaces.Session, runID string, sc Scenario) (string, error) {
	buf, err := session.Screenshot(ctx)
	if err != nil {
		return "", err
	}

	path := ScreenshotPath(r.cfg.Results.Dir, runID, sc)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	return path, nil
}

// Filter keeps scenarios whose name matches pattern. An empty pattern keeps
// all; a pattern matching nothing is an ErrNoScenarios error.
func Filter(scenarios []Scenario, pattern string) ([]Scenario, error) {
	if pattern == "" {
		return scenarios, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid scenario filter %q: %w", pattern, err)
	}
	var kept []Scenario
	for _, sc := range scenarios {
		if re.MatchString(sc.Name) {
			kept = append(kept, sc)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: no scenario name matches %q", ErrNoScenarios, pattern)
	}
	return kept, nil
}
