package launcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/apitest-tools/service-launch-tests/logging"
)

const (
	// DefaultStartupTimeout is the bounded wait applied when Options does not
	// specify one. A launch that has not signaled readiness by then fails
	// with ErrLaunchTimeout instead of blocking the caller forever.
	DefaultStartupTimeout = time.Second * 5

	defaultStopTimeout = time.Second * 5
)

// RunFunc is a service entry point that binds a listener at addr and serves
// until ctx is cancelled. Under normal operation it does not return until
// then; a non-nil error means the service failed.
type RunFunc func(ctx context.Context, addr string) error

// BoundRunFunc is a service entry point that reports the address of its bound
// listener through the ready callback before it starts serving. The callback
// must be called at most once.
type BoundRunFunc func(ctx context.Context, addr string, ready func(net.Addr)) error

// Options configures a launch. The zero value is usable.
type Options struct {
	// StartupTimeout is how long the launcher waits for the readiness signal
	// before giving up. Zero means DefaultStartupTimeout.
	StartupTimeout time.Duration

	// StopTimeout is how long Stop waits for the service task to return after
	// cancelling its context. Zero means a default of five seconds.
	StopTimeout time.Duration

	// Logger receives debug output describing the launch. Nil means no output.
	Logger logging.Logger
}

func (o Options) withDefaults() Options {
	if o.StartupTimeout <= 0 {
		o.StartupTimeout = DefaultStartupTimeout
	}
	if o.StopTimeout <= 0 {
		o.StopTimeout = defaultStopTimeout
	}
	if o.Logger == nil {
		o.Logger = logging.NullLogger()
	}
	return o
}

// LaunchedService is a handle to a service that is running in the background.
// The service keeps running until Stop is called or its run function returns.
type LaunchedService struct {
	addr     net.Addr
	cancel   context.CancelFunc
	done     chan struct{}
	opts     Options
	err      error
	stopOnce sync.Once
	lock     sync.Mutex
}

// Addr returns the address the service was launched with. For
// LaunchUntilBound this is the actual bound address, so an ephemeral port
// request like 127.0.0.1:0 resolves to the real port.
func (s *LaunchedService) Addr() net.Addr {
	return s.addr
}

// BaseURL returns an HTTP base URL for the service address.
func (s *LaunchedService) BaseURL() string {
	return fmt.Sprintf("http://%s", s.addr)
}

// Done returns a channel that is closed once the service task has returned,
// whether due to Stop, context cancellation, or failure.
func (s *LaunchedService) Done() <-chan struct{} {
	return s.done
}

// Err returns the error the service task returned, if it has returned. It is
// only meaningful once Done is closed. Context cancellation from Stop is not
// reported as an error.
func (s *LaunchedService) Err() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.err
}

func (s *LaunchedService) setErr(err error) {
	s.lock.Lock()
	if err != nil && !errors.Is(err, context.Canceled) {
		s.err = err
	}
	s.lock.Unlock()
}

// Stop cancels the service task's context and waits for the task to return,
// so that sequential launches never leave an orphaned listener behind. It is
// safe to call more than once.
func (s *LaunchedService) Stop() error {
	s.stopOnce.Do(s.cancel)
	deadline := time.NewTimer(s.opts.StopTimeout)
	defer deadline.Stop()
	select {
	case <-s.done:
		return s.Err()
	case <-deadline.C:
		return fmt.Errorf("timed out waiting for service at %s to stop", s.addr)
	}
}

// Launch starts run on a background goroutine and blocks until the goroutine
// has begun executing, as reported by a one-shot signal sent on a channel
// created for this launch alone. The signal precedes the service's own
// listener setup, so callers that need the socket to be bound should follow
// up with AwaitEndpointReady, or use LaunchUntilBound instead.
func Launch(addr string, run RunFunc, opts Options) (*LaunchedService, error) {
	if addr == "" {
		return nil, fmt.Errorf("%w: no bind address specified", ErrSpawnFailed)
	}
	if run == nil {
		return nil, fmt.Errorf("%w: no service entry point specified", ErrSpawnFailed)
	}
	opts = opts.withDefaults()

	resolved, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid bind address %q: %v", ErrSpawnFailed, addr, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &LaunchedService{
		addr:   resolved,
		cancel: cancel,
		done:   make(chan struct{}),
		opts:   opts,
	}

	ready := make(chan struct{}, 1)
	opts.Logger.Printf("Launching service at %s", addr)
	go func() {
		ready <- struct{}{}
		s.setErr(run(ctx, addr))
		close(s.done)
	}()

	deadline := time.NewTimer(opts.StartupTimeout)
	defer deadline.Stop()
	select {
	case <-ready:
		opts.Logger.Printf("Service task at %s has started", addr)
		return s, nil
	case <-deadline.C:
		cancel()
		return nil, fmt.Errorf("%w: service at %s did not start within %s",
			ErrLaunchTimeout, addr, opts.StartupTimeout)
	}
}

// LaunchUntilBound starts run on a background goroutine and blocks until the
// service has reported its bound listener address through the ready callback.
// Unlike Launch, a successful return guarantees the listener exists, and the
// returned handle carries the real address even when addr requested an
// ephemeral port.
//
// If the service returns before reporting readiness, the launch fails with
// ErrBindFailed immediately; if it neither reports nor returns within the
// startup timeout, the launch fails with ErrLaunchTimeout.
func LaunchUntilBound(addr string, run BoundRunFunc, opts Options) (*LaunchedService, error) {
	if addr == "" {
		return nil, fmt.Errorf("%w: no bind address specified", ErrSpawnFailed)
	}
	if run == nil {
		return nil, fmt.Errorf("%w: no service entry point specified", ErrSpawnFailed)
	}
	opts = opts.withDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	s := &LaunchedService{
		cancel: cancel,
		done:   make(chan struct{}),
		opts:   opts,
	}

	ready := make(chan net.Addr, 1)
	signalReady := func(bound net.Addr) {
		select { // tolerate a service that calls ready more than once
		case ready <- bound:
		default:
		}
	}

	opts.Logger.Printf("Launching service at %s", addr)
	go func() {
		s.setErr(run(ctx, addr, signalReady))
		close(s.done)
	}()

	deadline := time.NewTimer(opts.StartupTimeout)
	defer deadline.Stop()
	select {
	case bound := <-ready:
		s.addr = bound
		opts.Logger.Printf("Service is listening at %s", bound)
		return s, nil
	case <-s.done:
		cancel()
		err := s.Err()
		if err == nil {
			err = fmt.Errorf("service task exited unexpectedly")
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrBindFailed, addr, err)
	case <-deadline.C:
		cancel()
		return nil, fmt.Errorf("%w: service at %s did not report a listener within %s",
			ErrLaunchTimeout, addr, opts.StartupTimeout)
	}
}
