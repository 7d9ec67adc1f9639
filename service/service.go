// Package service provides the small greeting HTTP service that the launch
// scenarios run against. It exposes a status resource at the root path for
// readiness probes, and a greeting endpoint under /hello/.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/apitest-tools/service-launch-tests/logging"
)

const greetingPathPrefix = "/hello/"

// StatusInfo is the JSON body returned by the status resource at the root
// path.
type StatusInfo struct {
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
}

// Options configures a Greeter. Optional fields that are not defined leave
// the corresponding http.Server setting at its default.
type Options struct {
	Description    string              `json:"description,omitempty"`
	ReadTimeoutMS  ldvalue.OptionalInt `json:"readTimeoutMs,omitempty"`
	MaxHeaderBytes ldvalue.OptionalInt `json:"maxHeaderBytes,omitempty"`
	Logger         logging.Logger      `json:"-"`
}

// Greeter is a run-forever HTTP service: GET /hello/{name} answers with
// "Hello, {name}!".
type Greeter struct {
	opts   Options
	logger logging.Logger
}

func NewGreeter(opts Options) *Greeter {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NullLogger()
	}
	return &Greeter{opts: opts, logger: logger}
}

// Status describes the service in the shape served by the status resource.
func (g *Greeter) Status() StatusInfo {
	description := g.opts.Description
	if description == "" {
		description = "greeter service"
	}
	return StatusInfo{
		Description:  description,
		Capabilities: []string{"greeting", "status"},
	}
}

func (g *Greeter) newServer() *http.Server {
	server := &http.Server{Handler: http.HandlerFunc(g.serveHTTP)}
	if g.opts.ReadTimeoutMS.IsDefined() {
		server.ReadTimeout = time.Duration(g.opts.ReadTimeoutMS.IntValue()) * time.Millisecond
	}
	if g.opts.MaxHeaderBytes.IsDefined() {
		server.MaxHeaderBytes = g.opts.MaxHeaderBytes.IntValue()
	}
	return server
}

func (g *Greeter) serveHTTP(w http.ResponseWriter, req *http.Request) {
	switch {
	case req.URL.Path == "/":
		data, _ := json.Marshal(g.Status())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	case strings.HasPrefix(req.URL.Path, greetingPathPrefix):
		name := strings.TrimPrefix(req.URL.Path, greetingPathPrefix)
		if name == "" || strings.Contains(name, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		g.logger.Printf("Greeting %q", name)
		fmt.Fprintf(w, "Hello, %s!", name)
	default:
		g.logger.Printf("Received request for unrecognized URL path %s", req.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}
}

// Run binds addr and serves until ctx is cancelled, then shuts down
// gracefully. A listener that cannot be bound is reported as an error return.
func (g *Greeter) Run(ctx context.Context, addr string) error {
	return g.RunNotifyingReady(ctx, addr, nil)
}

// RunNotifyingReady is like Run, but reports the bound listener address
// through ready (if non-nil) before it starts serving. This is the
// cooperative entry point for launcher.LaunchUntilBound.
func (g *Greeter) RunNotifyingReady(ctx context.Context, addr string, ready func(net.Addr)) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("could not bind %s: %w", addr, err)
	}
	g.logger.Printf("Listening at %s", listener.Addr())
	if ready != nil {
		ready(listener.Addr())
	}

	server := g.newServer()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-serveErr:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
