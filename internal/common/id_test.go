package common

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRunID(t *testing.T) {
	now := time.Date(2025, 3, 9, 14, 5, 7, 0, time.UTC)

	id := NewRunID(now)
	assert.Regexp(t, regexp.MustCompile(`^run-2025-03-09-14-05-07-[0-9a-f]{8}$`), id)
	assert.NotEqual(t, id, NewRunID(now))
}
