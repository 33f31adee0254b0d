// Package testutil holds in-memory stand-ins for browser sessions and
// acquisition strategies.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/khawajarafayy/Texmage/internal/interfaces"
	"github.com/khawajarafayy/Texmage/internal/locator"
	"github.com/khawajarafayy/Texmage/internal/models"
)

// FakeSession is an interfaces.Session whose page is a set of locator strings
type FakeSession struct {
	mu sync.Mutex

	URL        string
	Present    map[string]bool  // Locator.String() -> matches
	VisibleSet map[string]bool  // Locator.String() -> rendered; defaults to Present
	ClickErr   map[string]error // Locator.String() -> natural click error
	Typed      map[string]string
	Keys       []string
	Calls      []string
	CloseCalls int
	CloseErr   error

	// OnNavigate and OnClick let tests mutate the page in response to actions
	OnNavigate func(s *FakeSession, url string)
	OnClick    func(s *FakeSession, loc models.Locator)
	OnEvaluate func(expression string, res interface{}) error
}

var _ interfaces.Session = (*FakeSession)(nil)

// NewFakeSession returns an empty page at url
func NewFakeSession(url string) *FakeSession {
	return &FakeSession{
		URL:        url,
		Present:    map[string]bool{},
		VisibleSet: map[string]bool{},
		ClickErr:   map[string]error{},
		Typed:      map[string]string{},
	}
}

// Show marks locators as present and visible
func (s *FakeSession) Show(locs ...models.Locator) {
	for _, l := range locs {
		s.Present[l.String()] = true
		s.VisibleSet[l.String()] = true
	}
}

// Hide removes locators from the page
func (s *FakeSession) Hide(locs ...models.Locator) {
	for _, l := range locs {
		delete(s.Present, l.String())
		delete(s.VisibleSet, l.String())
	}
}

func (s *FakeSession) record(format string, args ...interface{}) {
	s.Calls = append(s.Calls, fmt.Sprintf(format, args...))
}

func (s *FakeSession) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	s.record("navigate %s", url)
	s.URL = url
	hook := s.OnNavigate
	s.mu.Unlock()
	if hook != nil {
		hook(s, url)
	}
	return ctx.Err()
}

func (s *FakeSession) CurrentURL(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.URL, nil
}

func (s *FakeSession) WaitPresent(ctx context.Context, loc models.Locator, timeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("wait %s", loc)
	if s.Present[loc.String()] {
		return nil
	}
	return fmt.Errorf("%w: %s after %s", locator.ErrTimeout, loc, timeout)
}

func (s *FakeSession) Count(ctx context.Context, loc models.Locator) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Present[loc.String()] {
		return 1, nil
	}
	return 0, nil
}

func (s *FakeSession) Visible(ctx context.Context, loc models.Locator) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible(loc), nil
}

func (s *FakeSession) visible(loc models.Locator) bool {
	if v, ok := s.VisibleSet[loc.String()]; ok {
		return v
	}
	return s.Present[loc.String()]
}

func (s *FakeSession) WaitInvisible(ctx context.Context, loc models.Locator, timeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("wait-gone %s", loc)
	if s.visible(loc) {
		return fmt.Errorf("%w: %s still visible after %s", locator.ErrTimeout, loc, timeout)
	}
	return nil
}

func (s *FakeSession) click(loc models.Locator, kind string) error {
	s.mu.Lock()
	s.record("%s %s", kind, loc)
	if !s.Present[loc.String()] {
		s.mu.Unlock()
		return fmt.Errorf("%s %s: %w", kind, loc, locator.ErrNotFound)
	}
	if err := s.ClickErr[loc.String()]; err != nil && kind == "click" {
		s.mu.Unlock()
		return err
	}
	hook := s.OnClick
	s.mu.Unlock()
	if hook != nil {
		hook(s, loc)
	}
	return nil
}

func (s *FakeSession) Click(ctx context.Context, loc models.Locator) error {
	return s.click(loc, "click")
}

func (s *FakeSession) ScriptClick(ctx context.Context, loc models.Locator) error {
	return s.click(loc, "script-click")
}

func (s *FakeSession) Clear(ctx context.Context, loc models.Locator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("clear %s", loc)
	delete(s.Typed, loc.String())
	return nil
}

func (s *FakeSession) SendKeys(ctx context.Context, loc models.Locator, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("type %s", loc)
	s.Typed[loc.String()] += text
	return nil
}

func (s *FakeSession) PressKey(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("key %s", key)
	s.Keys = append(s.Keys, key)
	return nil
}

func (s *FakeSession) ScrollIntoView(ctx context.Context, loc models.Locator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("scroll %s", loc)
	if !s.Present[loc.String()] {
		return fmt.Errorf("scroll %s: %w", loc, locator.ErrNotFound)
	}
	return nil
}

func (s *FakeSession) Evaluate(ctx context.Context, expression string, res interface{}) error {
	s.mu.Lock()
	s.record("eval")
	hook := s.OnEvaluate
	s.mu.Unlock()
	if hook != nil {
		return hook(expression, res)
	}
	return nil
}

func (s *FakeSession) Screenshot(ctx context.Context) ([]byte, error) {
	return []byte("\x89PNG fake"), nil
}

func (s *FakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CloseCalls++
	return s.CloseErr
}

// ErrLaunch is the default failure of a FakeStrategy
var ErrLaunch = errors.New("fake launch failed")

// FakeStrategy is an instrumented interfaces.Strategy
type FakeStrategy struct {
	StrategyName string
	Unavailable  string // non-empty makes Available return false with this reason
	Session      interfaces.Session
	Err          error
	Launches     int
	Order        *[]string // shared log of launch order across strategies
}

var _ interfaces.Strategy = (*FakeStrategy)(nil)

func (f *FakeStrategy) Name() string { return f.StrategyName }

func (f *FakeStrategy) Available() (bool, string) {
	if f.Unavailable != "" {
		return false, f.Unavailable
	}
	return true, ""
}

func (f *FakeStrategy) Launch(ctx context.Context) (interfaces.Session, error) {
	f.Launches++
	if f.Order != nil {
		*f.Order = append(*f.Order, f.StrategyName)
	}
	return f.Session, f.Err
}
