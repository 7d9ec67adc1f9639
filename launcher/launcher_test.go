package launcher

import (
	"context"
	"errors"
	"io/ioutil"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apitest-tools/service-launch-tests/service"
)

func blockUntilCancelled(ctx context.Context, _ string) error {
	<-ctx.Done()
	return ctx.Err()
}

func launchTestGreeter(t *testing.T) *LaunchedService {
	greeter := service.NewGreeter(service.Options{})
	svc, err := LaunchUntilBound("127.0.0.1:0", greeter.RunNotifyingReady, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Stop() })
	return svc
}

func TestLaunchReturnsAfterTaskStarts(t *testing.T) {
	var started int32
	run := func(ctx context.Context, addr string) error {
		atomic.StoreInt32(&started, 1)
		return blockUntilCancelled(ctx, addr)
	}

	svc, err := Launch("127.0.0.1:0", run, Options{})
	require.NoError(t, err)
	require.NoError(t, svc.Stop())
	assert.Equal(t, int32(1), atomic.LoadInt32(&started))
}

func TestLaunchRejectsInvalidParameters(t *testing.T) {
	_, err := Launch("", blockUntilCancelled, Options{})
	assert.True(t, errors.Is(err, ErrSpawnFailed), "expected spawn failure, got: %v", err)

	_, err = Launch("127.0.0.1:0", nil, Options{})
	assert.True(t, errors.Is(err, ErrSpawnFailed), "expected spawn failure, got: %v", err)

	_, err = Launch("missing-a-port", blockUntilCancelled, Options{})
	assert.True(t, errors.Is(err, ErrSpawnFailed), "expected spawn failure, got: %v", err)

	_, err = LaunchUntilBound("", nil, Options{})
	assert.True(t, errors.Is(err, ErrSpawnFailed), "expected spawn failure, got: %v", err)
}

func TestLaunchUntilBoundRoundTrip(t *testing.T) {
	svc := launchTestGreeter(t)

	tcpAddr, ok := svc.Addr().(*net.TCPAddr)
	require.True(t, ok)
	assert.NotEqual(t, 0, tcpAddr.Port, "ephemeral port was not resolved")

	resp, err := http.DefaultClient.Get(svc.BaseURL() + "/hello/warp")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Hello, warp!", string(body))
}

func TestLaunchUntilBoundTimesOutWhenServiceNeverSignals(t *testing.T) {
	run := func(ctx context.Context, addr string, ready func(net.Addr)) error {
		return blockUntilCancelled(ctx, addr) // never calls ready
	}

	startedAt := time.Now()
	_, err := LaunchUntilBound("127.0.0.1:0", run, Options{StartupTimeout: time.Millisecond * 100})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLaunchTimeout), "expected launch timeout, got: %v", err)
	assert.Less(t, time.Since(startedAt).Milliseconds(), int64(2000), "launch did not fail promptly")
}

func TestLaunchUntilBoundFailsFastWhenServiceExitsBeforeReady(t *testing.T) {
	t.Run("with an error", func(t *testing.T) {
		run := func(ctx context.Context, addr string, ready func(net.Addr)) error {
			return errors.New("deliberate failure")
		}
		_, err := LaunchUntilBound("127.0.0.1:0", run, Options{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrBindFailed), "expected bind failure, got: %v", err)
		assert.Contains(t, err.Error(), "deliberate failure")
	})

	t.Run("without an error", func(t *testing.T) {
		run := func(ctx context.Context, addr string, ready func(net.Addr)) error {
			return nil
		}
		_, err := LaunchUntilBound("127.0.0.1:0", run, Options{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrBindFailed), "expected bind failure, got: %v", err)
	})
}

func TestLaunchUntilBoundSurfacesOccupiedPort(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	greeter := service.NewGreeter(service.Options{})
	_, err = LaunchUntilBound(taken.Addr().String(), greeter.RunNotifyingReady, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBindFailed), "expected bind failure, got: %v", err)
}

func TestSequentialLaunchesDoNotShareState(t *testing.T) {
	first := launchTestGreeter(t)
	second := launchTestGreeter(t)

	assert.NotEqual(t, first.Addr().String(), second.Addr().String())

	require.NoError(t, first.Stop())

	// The second service must be unaffected by stopping the first.
	resp, err := http.DefaultClient.Get(second.BaseURL() + "/hello/still-here")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Hello, still-here!", string(body))
}

func TestStopWaitsForTaskToReturn(t *testing.T) {
	exited := make(chan struct{})
	run := func(ctx context.Context, addr string) error {
		defer close(exited)
		return blockUntilCancelled(ctx, addr)
	}

	svc, err := Launch("127.0.0.1:0", run, Options{})
	require.NoError(t, err)
	require.NoError(t, svc.Stop())

	select {
	case <-exited:
	default:
		t.Fatal("Stop returned before the service task exited")
	}

	select {
	case <-svc.Done():
	default:
		t.Fatal("Done was not closed after Stop")
	}
	assert.NoError(t, svc.Err(), "context cancellation should not be reported as a service error")
}

func TestStopIsIdempotent(t *testing.T) {
	svc, err := Launch("127.0.0.1:0", blockUntilCancelled, Options{})
	require.NoError(t, err)
	require.NoError(t, svc.Stop())
	require.NoError(t, svc.Stop())
}

func TestTolerateServiceReportingReadyTwice(t *testing.T) {
	run := func(ctx context.Context, addr string, ready func(net.Addr)) error {
		bound := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 4000}
		ready(bound)
		ready(bound)
		return blockUntilCancelled(ctx, addr)
	}

	svc, err := LaunchUntilBound("127.0.0.1:0", run, Options{})
	require.NoError(t, err)
	require.NoError(t, svc.Stop())
}
