// Package framework contains the scenario-runner infrastructure used by the
// launch conformance suite.
//
// The model is a lightweight analogue of Go's testing package: a Context is
// similar to a *testing.T, allowing pieces of scenario logic to be associated
// with a scenario identifier and to accumulate success/failure results, with
// regex filters for selecting which scenarios run. Context satisfies the
// testify assert/require interfaces, so scenario code can use the same
// assertion helpers as ordinary Go tests.
//
// The domain-specific code that knows what is being exercised (launching
// services and checking readiness) lives in the scenarios package.
package framework
