package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot captures the trace and final file of a scenario execution.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	File         string       `json:"file"`
	Trace        []TraceEvent `json:"trace"`
	Rows         [][]string   `json:"rows"`
}

// Snapshot builds the golden representation of a result: indented JSON
// with a trailing newline. Map keys are sorted by encoding/json.
func Snapshot(name string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName: name,
		File:         result.File,
		Trace:        result.Trace,
		Rows:         result.Rows,
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails or the scenario does not pass.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if !result.Pass {
		return fmt.Errorf("scenario %s failed: %v", scenario.Name, result.Errors)
	}

	data, err := Snapshot(scenario.Name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}
