package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/apitest-tools/service-launch-tests/framework"
	"github.com/apitest-tools/service-launch-tests/launcher"
	"github.com/apitest-tools/service-launch-tests/logging"
	"github.com/apitest-tools/service-launch-tests/scenarios"
	"github.com/apitest-tools/service-launch-tests/service"
)

const defaultAddr = "127.0.0.1:3030"
const defaultStartupTimeout = time.Second * 5

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	if params.serve {
		os.Exit(runServeMode(params))
	}
	os.Exit(runScenarioSuite(params))
}

func runScenarioSuite(params commandParams) int {
	fmt.Println()
	framework.PrintFilterDescription(params.filters)

	fmt.Println("Running launch scenario suite")

	scenarioLogger := ConsoleScenarioLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := scenarios.RunSuite(
		scenarios.SuiteConfig{StartupTimeout: params.startupTimeout},
		params.filters.AsFilter,
		&scenarioLogger,
	)

	fmt.Println()
	printResults(results)
	if !results.OK() {
		return 1
	}
	return 0
}

// runServeMode launches the greeter service at the configured address and
// keeps it running until the process is interrupted, for poking at manually.
func runServeMode(params commandParams) int {
	greeter := service.NewGreeter(service.Options{})

	svc, err := launcher.LaunchUntilBound(
		params.addr,
		greeter.RunNotifyingReady,
		launcher.Options{
			StartupTimeout: params.startupTimeout,
			Logger:         logging.NullLogger(),
		},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Launch error: %s\n", err)
		return 1
	}

	greetingURL := svc.BaseURL() + "/hello/world"
	fmt.Printf("Server running at: %s\n", color.YellowString(greetingURL))

	var curl commandBuilder
	curl.add("curl", greetingURL)
	fmt.Printf("Try it with: %s\n", curl)

	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt, syscall.SIGTERM)

	select {
	case <-interrupted:
		fmt.Println("Shutting down")
		if err := svc.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %s\n", err)
			return 1
		}
	case <-svc.Done():
		if err := svc.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "Service error: %s\n", err)
			return 1
		}
	}
	return 0
}
