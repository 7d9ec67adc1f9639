package scenarios

import (
	"net"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apitest-tools/service-launch-tests/launcher"
	"github.com/apitest-tools/service-launch-tests/service"
)

func DoShutdownScenarios(t *T) {
	t.Run("sequential launches are independent", func(t *T) {
		first := t.launchGreeter("127.0.0.1:0")
		second := t.launchGreeter("127.0.0.1:0")

		assert.NotEqual(t, first.Addr().String(), second.Addr().String(),
			"both launches reported the same address")

		for _, svc := range []*launcher.LaunchedService{first, second} {
			body, err := getResponseBody(svc.BaseURL() + "/hello/each")
			require.NoError(t, err)
			assert.Equal(t, "Hello, each!", body)
		}
	})

	t.Run("stop releases the address", func(t *T) {
		greeter := service.NewGreeter(service.Options{Logger: t.DebugLogger()})
		svc, err := launcher.LaunchUntilBound("127.0.0.1:0", greeter.RunNotifyingReady, t.launcherOptions())
		require.NoError(t, err)

		addr := svc.Addr().String()
		require.NoError(t, svc.Stop())

		// The listener should be closed once Stop returns; allow a brief
		// grace period for the OS to release the port.
		var l net.Listener
		deadline := time.Now().Add(time.Second)
		for {
			l, err = net.Listen("tcp", addr)
			if err == nil || !time.Now().Before(deadline) {
				break
			}
			time.Sleep(time.Millisecond * 10)
		}
		require.NoError(t, err, "address %s was still occupied after Stop", addr)
		_ = l.Close()
	})
}
