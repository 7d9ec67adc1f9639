package scenarios

import (
	"encoding/json"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apitest-tools/service-launch-tests/service"
)

func DoRequestScenarios(t *T) {
	t.Run("greeting round trip", func(t *T) {
		svc := t.launchGreeter("127.0.0.1:0")

		body, err := getResponseBody(svc.BaseURL() + "/hello/world")
		require.NoError(t, err)
		assert.Equal(t, "Hello, world!", body)
	})

	t.Run("status resource describes the service", func(t *T) {
		svc := t.launchGreeter("127.0.0.1:0")

		body, err := getResponseBody(svc.BaseURL() + "/")
		require.NoError(t, err)

		var status service.StatusInfo
		require.NoError(t, json.Unmarshal([]byte(body), &status))
		assert.NotEmpty(t, status.Description)
		assert.Contains(t, status.Capabilities, "greeting")
	})

	t.Run("unknown paths get a 404", func(t *T) {
		svc := t.launchGreeter("127.0.0.1:0")

		resp, err := http.DefaultClient.Get(svc.BaseURL() + "/goodbye/world")
		require.NoError(t, err)
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
