// Package launcher starts a long-running service on a background goroutine
// and blocks the caller until the service has signaled that it is ready,
// instead of sleeping for a fixed interval and hoping for the best.
//
// There are two launch modes:
//
// 1. Launch spawns the service and returns once the goroutine has begun
// executing. This models the common one-shot-channel pattern; note that the
// signal is emitted before the service has bound its listener, so the caller
// may still need AwaitEndpointReady before making requests.
//
// 2. LaunchUntilBound requires cooperation from the service: the service
// reports its bound address through a callback, and the launcher returns only
// after the listener actually exists. This closes the gap left by Launch and
// also supports ephemeral addresses like 127.0.0.1:0.
//
// Both modes apply a bounded wait so that a service that dies or stalls
// during startup produces a diagnosable error rather than a hang.
package launcher
