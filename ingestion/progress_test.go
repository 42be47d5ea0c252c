package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressTrackerReportsIntervals(t *testing.T) {
	var buf strings.Builder
	tracker := NewProgressTracker(&buf, 10, 5)

	tracker.Start()
	tracker.Increment(3)
	assert.Empty(t, buf.String())

	tracker.Increment(3)
	assert.Contains(t, buf.String(), "6/10")

	tracker.Finish()
	out := buf.String()
	assert.Contains(t, out, "10/10")
	assert.Contains(t, out, "100.0%")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestProgressTrackerCapsAtTotal(t *testing.T) {
	var buf strings.Builder
	tracker := NewProgressTracker(&buf, 3, 1)

	tracker.Start()
	tracker.Increment(5)
	assert.Contains(t, buf.String(), "3/3")
}

func TestProgressTrackerIgnoresUpdatesBeforeStart(t *testing.T) {
	var buf strings.Builder
	tracker := NewProgressTracker(&buf, 3, 1)

	tracker.Increment(1)
	tracker.Finish()
	assert.Empty(t, buf.String())
	assert.Zero(t, tracker.Elapsed())
}

func TestProgressTrackerElapsed(t *testing.T) {
	var buf strings.Builder
	tracker := NewProgressTracker(&buf, 1, 1)

	tracker.Start()
	tracker.Increment(1)
	require.NotZero(t, tracker.Elapsed())
}
