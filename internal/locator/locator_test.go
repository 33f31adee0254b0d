package locator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khawajarafayy/Texmage/internal/models"
)

// recordingFinder matches only the selectors in hits and records every call
type recordingFinder struct {
	hits  map[string]bool
	calls []string
	err   error
}

func (f *recordingFinder) WaitPresent(ctx context.Context, loc models.Locator, timeout time.Duration) error {
	f.calls = append(f.calls, loc.Selector())
	if f.hits[loc.Selector()] {
		return nil
	}
	if f.err != nil {
		return f.err
	}
	return ErrTimeout
}

func candidates() []models.Locator {
	return []models.Locator{
		models.CSS("img[src*='cross']"),
		models.CSS("img[alt*='cross']"),
		models.XPath("//img[contains(@src, 'cross')]"),
		models.XPath("//img[@class='absolute top-5 right-5']"),
	}
}

func TestResolve_StopsAtFirstMatch(t *testing.T) {
	cands := candidates()
	for i := range cands {
		t.Run(cands[i].String(), func(t *testing.T) {
			f := &recordingFinder{hits: map[string]bool{cands[i].Selector(): true}}

			got, err := Resolve(context.Background(), f, time.Second, cands...)
			require.NoError(t, err)
			assert.Equal(t, cands[i], got)
			assert.Len(t, f.calls, i+1, "candidates after the match must not be tried")
		})
	}
}

func TestResolve_ExhaustedIsNotFound(t *testing.T) {
	f := &recordingFinder{}
	cands := candidates()

	_, err := Resolve(context.Background(), f, time.Millisecond, cands...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Len(t, f.calls, len(cands))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Len(t, nf.Attempts, len(cands))
	assert.True(t, nf.TimedOut())
	assert.Contains(t, err.Error(), "tried 4 candidate(s)")
}

func TestResolve_AbsentIsNotTimeout(t *testing.T) {
	f := &recordingFinder{err: errors.New("no such node")}

	_, err := Resolve(context.Background(), f, time.Millisecond, models.CSS("#missing"))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.False(t, nf.TimedOut())
}

func TestResolve_NoCandidates(t *testing.T) {
	_, err := Resolve(context.Background(), &recordingFinder{}, time.Second)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestResolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &recordingFinder{}

	_, err := Resolve(ctx, f, time.Second, candidates()...)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.calls)
}
