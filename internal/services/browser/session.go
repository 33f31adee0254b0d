// Package browser provides the chromedp-backed Session used by the harness.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/ternarybob/arbor"

	"github.com/khawajarafayy/Texmage/internal/common"
	"github.com/khawajarafayy/Texmage/internal/interfaces"
	"github.com/khawajarafayy/Texmage/internal/locator"
	"github.com/khawajarafayy/Texmage/internal/models"
)

// Named keys accepted by PressKey
const (
	KeyEscape = "Escape"
	KeyEnter  = "Enter"
	KeyTab    = "Tab"
)

var keyMap = map[string]string{
	KeyEscape: kb.Escape,
	KeyEnter:  kb.Enter,
	KeyTab:    kb.Tab,
}

// Session owns one chromedp browser. It implements interfaces.Session.
type Session struct {
	ctx           context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	execPath      string
	actionTimeout time.Duration
	logger        arbor.ILogger

	closeOnce sync.Once
	closeErr  error
}

var _ interfaces.Session = (*Session)(nil)

// Launch starts a browser with the shared launch flags and verifies it is
// responsive. On any failure every started resource is released and no
// Session is returned.
func Launch(ctx context.Context, cfg *common.Config, execPath string, logger arbor.ILogger) (*Session, error) {
	startTime := time.Now()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), AllocatorOptions(cfg, execPath)...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:           browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		execPath:      execPath,
		actionTimeout: cfg.PageLoadTimeout(),
		logger:        logger,
	}

	// Abort the launch if the caller gives up while the browser is starting
	stop := context.AfterFunc(ctx, cancelBrowser)
	err := chromedp.Run(browserCtx)
	stop()
	if err != nil {
		s.release()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	probeCtx, cancel := s.scoped(ctx, cfg.PageLoadTimeout())
	defer cancel()
	var title string
	if err := chromedp.Run(probeCtx, chromedp.Navigate("about:blank"), chromedp.Title(&title)); err != nil {
		s.release()
		return nil, fmt.Errorf("browser failed startup test: %w", err)
	}

	logger.Debug().
		Str("exec_path", displayPath(execPath)).
		Str("startup_time", time.Since(startTime).String()).
		Msg("Browser started and responsive")

	return s, nil
}

func displayPath(execPath string) string {
	if execPath == "" {
		return "(system search path)"
	}
	return execPath
}

// ExecPath returns the executable the session was launched with, "" for the system default
func (s *Session) ExecPath() string {
	return s.execPath
}

// scoped derives a context from the browser context bounded by timeout and
// cancelled when ctx is cancelled.
func (s *Session) scoped(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := s.scoped(ctx, s.actionTimeout)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

func queryOption(loc models.Locator) chromedp.QueryOption {
	if loc.IsCSS() {
		return chromedp.ByQuery
	}
	return chromedp.BySearch
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := s.run(ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("failed to read current URL: %w", err)
	}
	return url, nil
}

// WaitPresent blocks until loc matches at least one node. Expiry of the
// bounded wait is reported as locator.ErrTimeout.
func (s *Session) WaitPresent(ctx context.Context, loc models.Locator, timeout time.Duration) error {
	runCtx, cancel := s.scoped(ctx, timeout)
	defer cancel()

	err := chromedp.Run(runCtx, chromedp.WaitReady(loc.Selector(), queryOption(loc)))
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s after %s", locator.ErrTimeout, loc, timeout)
	}
	return fmt.Errorf("waiting for %s: %w", loc, err)
}

// Count returns the number of nodes matching loc without waiting
func (s *Session) Count(ctx context.Context, loc models.Locator) (int, error) {
	var nodes []*cdp.Node
	if err := s.run(ctx, chromedp.Nodes(loc.Selector(), &nodes, queryOption(loc), chromedp.AtLeast(0))); err != nil {
		return 0, fmt.Errorf("failed to query %s: %w", loc, err)
	}
	return len(nodes), nil
}

func visibleExpr(loc models.Locator) string {
	return fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) return false;
		const style = window.getComputedStyle(el);
		const rect = el.getBoundingClientRect();
		return style.display !== 'none' && style.visibility !== 'hidden' && rect.width > 0 && rect.height > 0;
	})()`, loc.JSElement())
}

// Visible reports whether the first node matching loc is rendered
func (s *Session) Visible(ctx context.Context, loc models.Locator) (bool, error) {
	var visible bool
	if err := s.run(ctx, chromedp.Evaluate(visibleExpr(loc), &visible)); err != nil {
		return false, fmt.Errorf("failed to check visibility of %s: %w", loc, err)
	}
	return visible, nil
}

// WaitInvisible polls until loc is absent or hidden
func (s *Session) WaitInvisible(ctx context.Context, loc models.Locator, timeout time.Duration) error {
	runCtx, cancel := s.scoped(ctx, timeout+time.Second)
	defer cancel()

	var hidden bool
	err := chromedp.Run(runCtx, chromedp.Poll(
		fmt.Sprintf("!%s", visibleExpr(loc)),
		&hidden,
		chromedp.WithPollingTimeout(timeout),
		chromedp.WithPollingInterval(250*time.Millisecond),
	))
	if err == nil {
		return nil
	}
	if errors.Is(err, chromedp.ErrPollingTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s still visible after %s", locator.ErrTimeout, loc, timeout)
	}
	return fmt.Errorf("waiting for %s to disappear: %w", loc, err)
}

func (s *Session) Click(ctx context.Context, loc models.Locator) error {
	if err := s.run(ctx, chromedp.Click(loc.Selector(), queryOption(loc), chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("failed to click %s: %w", loc, err)
	}
	return nil
}

// ScriptClick dispatches a click from JavaScript, bypassing hit testing
func (s *Session) ScriptClick(ctx context.Context, loc models.Locator) error {
	var clicked bool
	expr := fmt.Sprintf(`(() => { const el = %s; if (!el) return false; el.click(); return true; })()`, loc.JSElement())
	if err := s.run(ctx, chromedp.Evaluate(expr, &clicked)); err != nil {
		return fmt.Errorf("failed to script-click %s: %w", loc, err)
	}
	if !clicked {
		return fmt.Errorf("failed to script-click %s: %w", loc, locator.ErrNotFound)
	}
	return nil
}

func (s *Session) Clear(ctx context.Context, loc models.Locator) error {
	if err := s.run(ctx, chromedp.Clear(loc.Selector(), queryOption(loc))); err != nil {
		return fmt.Errorf("failed to clear %s: %w", loc, err)
	}
	return nil
}

func (s *Session) SendKeys(ctx context.Context, loc models.Locator, text string) error {
	if err := s.run(ctx, chromedp.SendKeys(loc.Selector(), text, queryOption(loc))); err != nil {
		return fmt.Errorf("failed to type into %s: %w", loc, err)
	}
	return nil
}

// PressKey sends a named key (KeyEscape, KeyEnter, KeyTab) or literal text to the focused element
func (s *Session) PressKey(ctx context.Context, key string) error {
	keys, ok := keyMap[key]
	if !ok {
		keys = key
	}
	if err := s.run(ctx, chromedp.KeyEvent(keys)); err != nil {
		return fmt.Errorf("failed to press %q: %w", key, err)
	}
	return nil
}

func (s *Session) ScrollIntoView(ctx context.Context, loc models.Locator) error {
	if err := s.run(ctx, chromedp.ScrollIntoView(loc.Selector(), queryOption(loc))); err != nil {
		return fmt.Errorf("failed to scroll to %s: %w", loc, err)
	}
	return nil
}

func (s *Session) Evaluate(ctx context.Context, expression string, res interface{}) error {
	if err := s.run(ctx, chromedp.Evaluate(expression, res)); err != nil {
		return fmt.Errorf("failed to evaluate script: %w", err)
	}
	return nil
}

func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return buf, nil
}

// Close shuts the browser down. Only the first call has an effect.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if err := chromedp.Cancel(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.closeErr = fmt.Errorf("browser cancel returned: %w", err)
		}
		s.release()
		s.logger.Debug().Str("exec_path", displayPath(s.execPath)).Msg("Browser closed")
	})
	return s.closeErr
}

func (s *Session) release() {
	s.cancelBrowser()
	s.cancelAlloc()
}
