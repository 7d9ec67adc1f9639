package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioID(path ...string) ScenarioID {
	return ScenarioID{Path: path}
}

func TestRegexFiltersWithNoPatternsAllowEverything(t *testing.T) {
	var filters RegexFilters
	assert.True(t, filters.AsFilter(scenarioID("anything", "at all")))
}

func TestRegexFiltersMustMatch(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustMatch.Set("readiness"))

	assert.True(t, filters.AsFilter(scenarioID("readiness", "basic")))
	assert.False(t, filters.AsFilter(scenarioID("requests", "basic")))
}

func TestRegexFiltersMustNotMatch(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("slow"))

	assert.True(t, filters.AsFilter(scenarioID("readiness", "basic")))
	assert.False(t, filters.AsFilter(scenarioID("readiness", "slow variant")))
}

func TestRegexFiltersCombined(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustMatch.Set("^readiness/"))
	require.NoError(t, filters.MustNotMatch.Set("timeout"))

	assert.True(t, filters.AsFilter(scenarioID("readiness", "basic")))
	assert.False(t, filters.AsFilter(scenarioID("readiness", "timeout")))
	assert.False(t, filters.AsFilter(scenarioID("shutdown", "basic")))
}

func TestRegexListRejectsInvalidPattern(t *testing.T) {
	var list RegexList
	err := list.Set("(unterminated")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid regex")
	assert.False(t, list.IsDefined())
}

func TestRegexListString(t *testing.T) {
	var list RegexList
	require.NoError(t, list.Set("a+"))
	require.NoError(t, list.Set("b"))
	assert.Equal(t, `"a+" or "b"`, list.String())
}
