package framework

import (
	"fmt"
	"strings"
)

// Results accumulates the outcome of every scenario in a suite run.
type Results struct {
	Scenarios []ScenarioResult
	Failures  []ScenarioResult
}

type ScenarioResult struct {
	ID      ScenarioID
	Errors  []error
	Skipped bool
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// ScenarioID identifies a scenario by its position in the suite hierarchy.
type ScenarioID struct {
	Path []string
}

func (s ScenarioID) String() string {
	return strings.Join(s.Path, "/")
}

type ScenarioFailure struct {
	ID  ScenarioID
	Err error
}

func (f ScenarioFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}
