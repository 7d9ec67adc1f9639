package scenarios

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apitest-tools/service-launch-tests/launcher"
	"github.com/apitest-tools/service-launch-tests/service"
)

const shortTimeout = time.Millisecond * 200

func DoReadinessScenarios(t *T) {
	t.Run("launch returns only after the task has started", func(t *T) {
		var started int32
		run := func(ctx context.Context, addr string) error {
			atomic.StoreInt32(&started, 1)
			<-ctx.Done()
			return ctx.Err()
		}

		svc, err := launcher.Launch("127.0.0.1:0", run, t.launcherOptions())
		require.NoError(t, err)
		_ = svc.Stop()
		assert.Equal(t, int32(1), atomic.LoadInt32(&started),
			"service task never began executing")
	})

	t.Run("launch until bound reports the real ephemeral address", func(t *T) {
		svc := t.launchGreeter("127.0.0.1:0")

		tcpAddr, ok := svc.Addr().(*net.TCPAddr)
		require.True(t, ok, "expected a TCP address, got %T", svc.Addr())
		assert.NotEqual(t, 0, tcpAddr.Port, "ephemeral port was not resolved")

		require.NoError(t, launcher.AwaitEndpointReady(svc.BaseURL(), t.env.startupTimeout(), t.DebugLogger()))
	})

	t.Run("launch fails with a timeout when the service never reports readiness", func(t *T) {
		run := func(ctx context.Context, addr string, ready func(net.Addr)) error {
			<-ctx.Done() // never calls ready
			return ctx.Err()
		}

		opts := t.launcherOptions()
		opts.StartupTimeout = shortTimeout
		startedAt := time.Now()
		_, err := launcher.LaunchUntilBound("127.0.0.1:0", run, opts)
		require.Error(t, err)
		assert.True(t, errors.Is(err, launcher.ErrLaunchTimeout), "expected a launch timeout, got: %s", err)
		assert.Less(t, time.Since(startedAt).Milliseconds(), (time.Second * 2).Milliseconds(),
			"launch did not fail promptly")
	})

	t.Run("launch fails immediately when the service exits before readiness", func(t *T) {
		run := func(ctx context.Context, addr string, ready func(net.Addr)) error {
			return errors.New("deliberate startup failure")
		}

		_, err := launcher.LaunchUntilBound("127.0.0.1:0", run, t.launcherOptions())
		require.Error(t, err)
		assert.True(t, errors.Is(err, launcher.ErrBindFailed), "expected a bind failure, got: %s", err)
	})

	t.Run("launch on an occupied port surfaces a bind failure", func(t *T) {
		taken, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		t.Defer(func() { _ = taken.Close() })

		greeter := service.NewGreeter(service.Options{Logger: t.DebugLogger()})
		_, err = launcher.LaunchUntilBound(taken.Addr().String(), greeter.RunNotifyingReady, t.launcherOptions())
		require.Error(t, err)
		assert.True(t, errors.Is(err, launcher.ErrBindFailed), "expected a bind failure, got: %s", err)
	})
}
