package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/apitest-tools/service-launch-tests/framework"
	"github.com/apitest-tools/service-launch-tests/logging"
)

var (
	failedColor  = color.New(color.FgRed)
	skippedColor = color.New(color.FgYellow)
	passedColor  = color.New(color.FgGreen)
)

// ConsoleScenarioLogger prints scenario progress to standard output as the
// suite runs.
type ConsoleScenarioLogger struct {
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleScenarioLogger) ScenarioStarted(id framework.ScenarioID) {
	fmt.Printf("[%s]\n", id)
}

func (c *ConsoleScenarioLogger) ScenarioError(id framework.ScenarioID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Printf("  %s\n", line)
	}
}

func (c *ConsoleScenarioLogger) ScenarioFinished(id framework.ScenarioID, failed bool, debugOutput logging.CapturedOutput) {
	if failed {
		_, _ = failedColor.Printf("  FAILED: %s\n", id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(os.Stdout, "    DEBUG ")
	}
}

func (c *ConsoleScenarioLogger) ScenarioSkipped(id framework.ScenarioID, reason string) {
	if reason == "" {
		_, _ = skippedColor.Printf("  SKIPPED: %s\n", id)
	} else {
		_, _ = skippedColor.Printf("  SKIPPED: %s (%s)\n", id, reason)
	}
}

func printResults(results framework.Results) {
	if results.OK() {
		_, _ = passedColor.Printf("All scenarios passed (%d)\n", len(results.Scenarios))
		return
	}
	_, _ = failedColor.Printf("%d of %d scenarios failed:\n", len(results.Failures), len(results.Scenarios))
	for _, failure := range results.Failures {
		fmt.Printf("  %s\n", failure.ID)
		for _, err := range failure.Errors {
			fmt.Printf("    %s\n", err)
		}
	}
}
