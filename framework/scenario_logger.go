package framework

import "github.com/apitest-tools/service-launch-tests/logging"

// ScenarioLogger receives progress events as a suite runs. The console
// implementation lives in package main; a null implementation is provided
// here for callers that do not care.
type ScenarioLogger interface {
	ScenarioStarted(id ScenarioID)
	ScenarioError(id ScenarioID, err error)
	ScenarioFinished(id ScenarioID, failed bool, debugOutput logging.CapturedOutput)
	ScenarioSkipped(id ScenarioID, reason string)
}

type nullScenarioLogger struct{}

func (n nullScenarioLogger) ScenarioStarted(ScenarioID) {}

func (n nullScenarioLogger) ScenarioError(ScenarioID, error) {}

func (n nullScenarioLogger) ScenarioFinished(ScenarioID, bool, logging.CapturedOutput) {}

func (n nullScenarioLogger) ScenarioSkipped(ScenarioID, string) {}
