package framework

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apitest-tools/service-launch-tests/logging"
)

type recordingScenarioLogger struct {
	started  []string
	errored  []string
	finished map[string]bool
	skipped  map[string]string
	lock     sync.Mutex
}

func newRecordingScenarioLogger() *recordingScenarioLogger {
	return &recordingScenarioLogger{
		finished: make(map[string]bool),
		skipped:  make(map[string]string),
	}
}

func (l *recordingScenarioLogger) ScenarioStarted(id ScenarioID) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.started = append(l.started, id.String())
}

func (l *recordingScenarioLogger) ScenarioError(id ScenarioID, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.errored = append(l.errored, id.String())
}

func (l *recordingScenarioLogger) ScenarioFinished(id ScenarioID, failed bool, debugOutput logging.CapturedOutput) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.finished[id.String()] = failed
}

func (l *recordingScenarioLogger) ScenarioSkipped(id ScenarioID, reason string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.skipped[id.String()] = reason
}

func TestRunCollectsResults(t *testing.T) {
	logger := newRecordingScenarioLogger()

	results := Run(nil, logger, func(c *Context) {
		c.Run("passes", func(c *Context) {})
		c.Run("fails", func(c *Context) {
			c.Errorf("deliberate failure")
		})
	})

	assert.False(t, results.OK())
	// The root context contributes a result too, like the implicit top level
	// of a test run.
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "fails", results.Failures[0].ID.String())
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "deliberate failure")

	assert.Equal(t, []string{"passes", "fails"}, logger.started)
	assert.Equal(t, false, logger.finished["passes"])
	assert.Equal(t, true, logger.finished["fails"])
}

func TestFailNowStopsScenarioImmediately(t *testing.T) {
	reachedEnd := false

	results := Run(nil, nil, func(c *Context) {
		c.Run("aborts", func(c *Context) {
			c.Errorf("stop here")
			c.FailNow()
			reachedEnd = true
		})
	})

	assert.False(t, results.OK())
	assert.False(t, reachedEnd, "scenario code continued after FailNow")
}

func TestSkippedScenarioIsNotAFailure(t *testing.T) {
	logger := newRecordingScenarioLogger()

	results := Run(nil, logger, func(c *Context) {
		c.Run("skipped", func(c *Context) {
			c.SkipWithReason("not applicable here")
		})
	})

	assert.True(t, results.OK())
	assert.Equal(t, "not applicable here", logger.skipped["skipped"])
}

func TestUnexpectedPanicBecomesFailure(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("explodes", func(c *Context) {
			panic("boom")
		})
	})

	assert.False(t, results.OK())
	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "boom")
}

func TestFilterExcludesScenarios(t *testing.T) {
	logger := newRecordingScenarioLogger()
	ran := false

	filter := func(id ScenarioID) bool { return id.String() != "excluded" }
	results := Run(filter, logger, func(c *Context) {
		c.Run("included", func(c *Context) { ran = true })
		c.Run("excluded", func(c *Context) {
			c.Errorf("should never run")
		})
	})

	assert.True(t, ran)
	assert.True(t, results.OK())
	assert.Equal(t, "excluded by filter parameters", logger.skipped["excluded"])
}

func TestDebugOutputIsCapturedPerScenario(t *testing.T) {
	logger := newRecordingScenarioLogger()
	var captured logging.CapturedOutput

	Run(nil, logger, func(c *Context) {
		c.Run("logs", func(c *Context) {
			c.Debug("details: %d", 42)
			captured = c.debugLogger.Output()
		})
	})

	require.Len(t, captured, 1)
	assert.Equal(t, "details: 42", captured[0].Message)
}
