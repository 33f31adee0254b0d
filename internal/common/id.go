package common

import (
	"time"

	"github.com/google/uuid"
)

// NewRunID generates a run identifier used for result directories and log correlation.
// Format: run-<yyyy-mm-dd-hh-mm-ss>-<first 8 chars of a uuid>
func NewRunID(now time.Time) string {
	return now.Format("run-2006-01-02-15-04-05") + "-" + uuid.New().String()[:8]
}
