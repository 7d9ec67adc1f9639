package scenarios

import (
	"github.com/apitest-tools/service-launch-tests/framework"
)

// RunSuite runs every launch scenario that the filter allows, reporting
// progress through scenarioLogger and returning the accumulated results.
func RunSuite(
	config SuiteConfig,
	filter framework.Filter,
	scenarioLogger framework.ScenarioLogger,
) framework.Results {
	return framework.Run(filter, scenarioLogger, func(c *framework.Context) {
		t := &T{
			context: c,
			env:     &environment{config: config},
		}

		t.Run("readiness", DoReadinessScenarios)
		t.Run("requests", DoRequestScenarios)
		t.Run("shutdown", DoShutdownScenarios)
	})
}
