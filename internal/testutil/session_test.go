package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khawajarafayy/Texmage/internal/interfaces"
	"github.com/khawajarafayy/Texmage/internal/locator"
	"github.com/khawajarafayy/Texmage/internal/models"
)

func TestFakeSession_Visibility(t *testing.T) {
	ctx := context.Background()
	heading := models.Text("h1", "Log In")
	var session interfaces.Session = NewFakeSession("http://app.test/")
	fake := session.(*FakeSession)

	visible, err := session.Visible(ctx, heading)
	require.NoError(t, err)
	assert.False(t, visible)

	fake.Show(heading)
	visible, err = session.Visible(ctx, heading)
	require.NoError(t, err)
	assert.True(t, visible)

	fake.VisibleSet[heading.String()] = false
	visible, err = session.Visible(ctx, heading)
	require.NoError(t, err)
	assert.False(t, visible, "explicit visibility overrides presence")

	fake.Hide(heading)
	assert.NoError(t, session.WaitInvisible(ctx, heading, time.Millisecond))
}

func TestFakeSession_WaitPresentTimesOut(t *testing.T) {
	err := NewFakeSession("").WaitPresent(context.Background(), models.CSS("#missing"), time.Millisecond)
	assert.ErrorIs(t, err, locator.ErrTimeout)
}
