package scenarios

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/apitest-tools/service-launch-tests/framework"
	"github.com/apitest-tools/service-launch-tests/launcher"
	"github.com/apitest-tools/service-launch-tests/logging"
	"github.com/apitest-tools/service-launch-tests/service"
)

const scenarioStartupTimeout = time.Second * 5

// SuiteConfig contains suite-wide settings supplied by the command line.
type SuiteConfig struct {
	// StartupTimeout bounds how long each launch may take to become ready.
	// Zero means a default of five seconds.
	StartupTimeout time.Duration
}

type environment struct {
	config SuiteConfig
}

func (e *environment) startupTimeout() time.Duration {
	if e.config.StartupTimeout > 0 {
		return e.config.StartupTimeout
	}
	return scenarioStartupTimeout
}

// T represents a scenario or sub-scenario in the launch suite.
//
// It implements the same basic functionality as Go's testing.T, but in an
// environment that is outside of the Go test runner, with extra features such
// as debug logging that is only shown for failed scenarios. Those features
// are provided by our lower-level framework package.
type T struct {
	context  *framework.Context
	env      *environment
	cleanups []func()
}

func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		t1 := &T{context: c, env: t.env}
		defer t1.runCleanups()
		action(t1)
	})
}

// Defer schedules a cleanup to run when the current scenario ends, in
// last-in-first-out order.
func (t *T) Defer(fn func()) {
	t.cleanups = append(t.cleanups, fn)
}

func (t *T) runCleanups() {
	for i := len(t.cleanups) - 1; i >= 0; i-- {
		t.cleanups[i]()
	}
	t.cleanups = nil
}

func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

func (t *T) FailNow() {
	t.context.FailNow()
}

func (t *T) Skip() {
	t.context.Skip()
}

func (t *T) SkipWithReason(reason string) {
	t.context.SkipWithReason(reason)
}

func (t *T) Debug(message string, args ...interface{}) {
	t.context.Debug(message, args...)
}

func (t *T) DebugLogger() logging.Logger {
	return t.context.DebugLogger()
}

func (t *T) launcherOptions() launcher.Options {
	return launcher.Options{
		StartupTimeout: t.env.startupTimeout(),
		Logger:         t.DebugLogger(),
	}
}

// launchGreeter starts a greeter service at addr and registers a cleanup that
// stops it when the scenario ends. It fails the scenario if the launch fails.
func (t *T) launchGreeter(addr string) *launcher.LaunchedService {
	greeter := service.NewGreeter(service.Options{Logger: t.DebugLogger()})
	svc, err := launcher.LaunchUntilBound(addr, greeter.RunNotifyingReady, t.launcherOptions())
	if err != nil {
		t.Errorf("could not launch greeter service at %s: %s", addr, err)
		t.FailNow()
	}
	t.Defer(func() { _ = svc.Stop() })
	return svc
}

func getResponseBody(url string) (string, error) {
	resp, err := http.DefaultClient.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("unexpected response status %d", resp.StatusCode)
	}
	return string(data), nil
}
