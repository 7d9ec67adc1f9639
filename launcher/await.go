package launcher

import (
	"fmt"
	"net/http"
	"time"

	"github.com/apitest-tools/service-launch-tests/logging"
)

const probeInterval = time.Millisecond * 10

// AwaitEndpointReady polls url until it answers an HTTP request with a 2xx
// status, or until timeout elapses. Launch returns before the service has
// bound its socket, so callers that intend to make requests right away should
// use this to confirm the listener is actually accepting connections.
func AwaitEndpointReady(url string, timeout time.Duration, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NullLogger()
	}
	if timeout <= 0 {
		timeout = DefaultStartupTimeout
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(probeInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		select {
		case <-deadline.C:
			if lastErr == nil {
				lastErr = fmt.Errorf("endpoint never answered with a success status")
			}
			return fmt.Errorf("%w: could not detect listener at %s: %v", ErrLaunchTimeout, url, lastErr)
		case <-ticker.C:
			resp, err := http.DefaultClient.Get(url)
			if err != nil {
				lastErr = err
				continue
			}
			if resp.Body != nil {
				_ = resp.Body.Close()
			}
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				logger.Printf("Endpoint %s is ready (status %d)", url, resp.StatusCode)
				return nil
			}
			lastErr = fmt.Errorf("endpoint returned status %d", resp.StatusCode)
		}
	}
}
