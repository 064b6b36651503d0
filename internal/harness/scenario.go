package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/contactbook/internal/contact"
	"github.com/roach88/contactbook/internal/store"
)

// StartLayout is the layout of Scenario.Start.
const StartLayout = contact.TimestampLayout

// Scenario defines a sequence of store operations and the expected results.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Start pins the clock (StartLayout, UTC). The file name date stamp is
	// taken from it. Defaults to testutil.DefaultTestTime.
	Start string `yaml:"start,omitempty"`

	// Strict turns on strict mode for update and delete.
	Strict bool `yaml:"strict,omitempty"`

	// Steps run in order against one store.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one store operation.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// Args are the operation's string arguments; see opArgs for the keys
	// each operation requires.
	Args map[string]string `yaml:"args,omitempty"`

	// Expect is the outcome code (store.Code). Defaults to "ok".
	Expect string `yaml:"expect,omitempty"`

	// Advance moves the clock forward after the step (time.ParseDuration).
	Advance string `yaml:"advance,omitempty"`
}

// Operations.
const (
	OpCreate       = "create"
	OpUpdate       = "update"
	OpDelete       = "delete"
	OpList         = "list"
	OpBackupLocal  = "backup_local"
	OpBackupRemote = "backup_remote"
)

// opArgs lists the required argument keys per operation.
var opArgs = map[string][]string{
	OpCreate:       {"name", "email", "phone", "address"},
	OpUpdate:       {"name", "field", "value"},
	OpDelete:       {"name"},
	OpList:         {},
	OpBackupLocal:  {"dir"},
	OpBackupRemote: {"bucket", "key_id", "secret"},
}

// outcomes lists every code a step may expect.
var outcomes = []string{
	store.CodeOK,
	store.CodeInvalidEmail,
	store.CodeInvalidPhone,
	store.CodeNotFound,
	store.CodeNoMatch,
	store.CodeUnknownField,
	store.CodeMalformedRow,
	store.CodeBackupFailed,
	store.CodeRemoteBackupFailed,
}

// Assertion validates the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "rows": the contact file holds exactly Rows
	// - "row_count": the contact file holds Count rows
	// - "file_absent": the contact file does not exist
	// - "file_copy": the file at Path is byte-identical to the contact file
	// - "object_copy": object Key in Bucket is byte-identical to the contact file
	Type string `yaml:"type"`

	Rows   [][]string `yaml:"rows,omitempty"`
	Count  int        `yaml:"count,omitempty"`
	Path   string     `yaml:"path,omitempty"`
	Bucket string     `yaml:"bucket,omitempty"`
	Key    string     `yaml:"key,omitempty"`
}

// Assertion type constants.
const (
	AssertRows       = "rows"
	AssertRowCount   = "row_count"
	AssertFileAbsent = "file_absent"
	AssertFileCopy   = "file_copy"
	AssertObjectCopy = "object_copy"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// startTime returns the parsed Start, or def when Start is empty.
func (s *Scenario) startTime(def time.Time) (time.Time, error) {
	if s.Start == "" {
		return def, nil
	}
	return time.ParseInLocation(StartLayout, s.Start, time.UTC)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if _, err := s.startTime(time.Time{}); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep validates a single step.
func validateStep(index int, step *Step) error {
	keys, ok := opArgs[step.Op]
	if !ok {
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}
	for _, k := range keys {
		if _, ok := step.Args[k]; !ok {
			return fmt.Errorf("steps[%d]: %s requires arg %q", index, step.Op, k)
		}
	}
	if step.Expect != "" && !contains(outcomes, step.Expect) {
		return fmt.Errorf("steps[%d]: unknown expect %q", index, step.Expect)
	}
	if step.Advance != "" {
		if _, err := time.ParseDuration(step.Advance); err != nil {
			return fmt.Errorf("steps[%d]: advance: %w", index, err)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertRows, AssertFileAbsent:
	case AssertRowCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for row_count", index)
		}
	case AssertFileCopy:
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required for file_copy", index)
		}
	case AssertObjectCopy:
		if a.Bucket == "" || a.Key == "" {
			return fmt.Errorf("assertions[%d]: bucket and key are required for object_copy", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
