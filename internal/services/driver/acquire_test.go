package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/khawajarafayy/Texmage/internal/interfaces"
	"github.com/khawajarafayy/Texmage/internal/testutil"
)

func TestAcquire_FirstSuccessShortCircuits(t *testing.T) {
	logger := arbor.NewLogger()
	var order []string
	session := testutil.NewFakeSession("about:blank")

	first := &testutil.FakeStrategy{StrategyName: "first", Err: testutil.ErrLaunch, Order: &order}
	second := &testutil.FakeStrategy{StrategyName: "second", Session: session, Order: &order}
	third := &testutil.FakeStrategy{StrategyName: "third", Session: testutil.NewFakeSession(""), Order: &order}

	got, name, err := Acquire(context.Background(), logger, first, second, third)

	require.NoError(t, err)
	assert.Same(t, session, got)
	assert.Equal(t, "second", name)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, 0, third.Launches, "later strategies must not run after a success")
}

func TestAcquire_UnavailableIsSkippedNotFailed(t *testing.T) {
	logger := arbor.NewLogger()
	session := testutil.NewFakeSession("about:blank")

	skipped := &testutil.FakeStrategy{StrategyName: "managed", Unavailable: "disabled"}
	working := &testutil.FakeStrategy{StrategyName: "well-known", Session: session}

	got, name, err := Acquire(context.Background(), logger, skipped, working)

	require.NoError(t, err)
	assert.Same(t, session, got)
	assert.Equal(t, "well-known", name)
	assert.Equal(t, 0, skipped.Launches)
}

func TestAcquire_AllFailReturnsAcquisitionError(t *testing.T) {
	logger := arbor.NewLogger()
	strategies := []interfaces.Strategy{
		&testutil.FakeStrategy{StrategyName: "system path", Err: errors.New("executable not found")},
		&testutil.FakeStrategy{StrategyName: "managed download", Unavailable: "driver.managed_download is disabled"},
		&testutil.FakeStrategy{StrategyName: "well-known location", Unavailable: "none of 4 well-known paths exist"},
	}

	session, name, err := Acquire(context.Background(), logger, strategies...)

	assert.Nil(t, session)
	assert.Empty(t, name)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoStrategy))

	var acqErr *AcquisitionError
	require.True(t, errors.As(err, &acqErr))
	require.Len(t, acqErr.Attempts, 1)
	assert.Equal(t, "system path", acqErr.Attempts[0].Strategy)
	require.Len(t, acqErr.Skipped, 2)
	assert.Equal(t, "managed download", acqErr.Skipped[0].Strategy)

	msg := err.Error()
	assert.Contains(t, msg, "executable not found")
	for i, step := range Remediation {
		assert.Contains(t, msg, step, "remediation step %d missing", i+1)
	}
}

func TestAcquire_NoStrategies(t *testing.T) {
	session, _, err := Acquire(context.Background(), arbor.NewLogger())
	assert.Nil(t, session)
	assert.ErrorIs(t, err, ErrNoStrategy)
}

func TestAcquire_ClosesSessionReturnedWithError(t *testing.T) {
	logger := arbor.NewLogger()
	leaked := testutil.NewFakeSession("about:blank")

	failing := &testutil.FakeStrategy{StrategyName: "half-open", Session: leaked, Err: errors.New("startup probe failed")}

	session, _, err := Acquire(context.Background(), logger, failing)

	assert.Nil(t, session)
	assert.ErrorIs(t, err, ErrNoStrategy)
	assert.Equal(t, 1, leaked.CloseCalls, "half-open session must be closed")
}

func TestAcquire_AttemptErrorsAreWrapped(t *testing.T) {
	cause := errors.New("chrome exited")
	_, _, err := Acquire(context.Background(), arbor.NewLogger(),
		&testutil.FakeStrategy{StrategyName: "system path", Err: cause})

	assert.ErrorIs(t, err, cause)
}

func TestAcquire_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	strategy := &testutil.FakeStrategy{StrategyName: "system path", Session: testutil.NewFakeSession("")}
	session, _, err := Acquire(ctx, arbor.NewLogger(), strategy)

	assert.Nil(t, session)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, strategy.Launches)
}
