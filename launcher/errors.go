package launcher

import "errors"

// ErrSpawnFailed means the background service task could not be started at
// all, for instance because the launch parameters were invalid.
var ErrSpawnFailed = errors.New("service task could not be started")

// ErrLaunchTimeout means the readiness signal was not received within the
// configured startup timeout.
var ErrLaunchTimeout = errors.New("timed out waiting for service readiness")

// ErrBindFailed means the service task exited or returned an error before it
// ever reported readiness, typically because it could not bind its listener.
var ErrBindFailed = errors.New("service failed before becoming ready")
