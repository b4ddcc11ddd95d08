package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/minikb/internal/ir"
	"github.com/roach88/minikb/internal/loader"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Models is the default read scope for assertions.
	// If empty, assertions read ir.DefaultModel.
	Models []string `yaml:"models,omitempty"`

	// Steps are the mutations applied in order.
	Steps []Step `yaml:"steps"`

	// Assertions check the read operations after all steps ran.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is a single mutation.
type Step struct {
	// Op is one of add, add_inferred, update, delete, clear.
	Op string `yaml:"op"`

	// Model is the target model. Empty means ir.DefaultModel.
	Model string `yaml:"model,omitempty"`

	// Triples are the facts to write or delete. Unused by clear.
	Triples loader.Triples `yaml:"triples,omitempty"`

	// Error is the expected error code. Empty means the step must succeed.
	Error string `yaml:"error,omitempty"`
}

// Assertion checks one read operation.
type Assertion struct {
	// Type selects the read operation (see the Assert* constants).
	Type string `yaml:"type"`

	// Models overrides the scenario read scope.
	Models []string `yaml:"models,omitempty"`

	// Vars are the projected variables (used by query).
	Vars []string `yaml:"vars,omitempty"`

	// Patterns are the conjunctive patterns (used by query and has).
	Patterns [][]string `yaml:"patterns,omitempty"`

	// Rows are the expected query answers. Order does not matter.
	Rows [][]string `yaml:"rows,omitempty"`

	// Want is the expected answer for has and has_stmt.
	Want *bool `yaml:"want,omitempty"`

	// Triple is the fact to look up (used by has_stmt).
	Triple []string `yaml:"triple,omitempty"`

	// Resource is the constant to describe (used by about).
	Resource string `yaml:"resource,omitempty"`

	// Triples are the expected facts about Resource. Order does not matter.
	Triples loader.Triples `yaml:"triples,omitempty"`

	// Concept and Direct parameterize classesof.
	Concept string `yaml:"concept,omitempty"`
	Direct  bool   `yaml:"direct,omitempty"`

	// Classes are the expected classes. Order does not matter.
	Classes []string `yaml:"classes,omitempty"`

	// Count is the expected number (used by count and inferred_count).
	Count *int `yaml:"count,omitempty"`

	// Error is the expected error code. When set, the value fields are
	// ignored.
	Error string `yaml:"error,omitempty"`
}

// Step op constants.
const (
	OpAdd         = "add"
	OpAddInferred = "add_inferred"
	OpUpdate      = "update"
	OpDelete      = "delete"
	OpClear       = "clear"
)

// Assertion type constants.
const (
	AssertQuery         = "query"
	AssertHas           = "has"
	AssertHasStmt       = "has_stmt"
	AssertAbout         = "about"
	AssertClassesOf     = "classesof"
	AssertCount         = "count"
	AssertInferredCount = "inferred_count"
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

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Reject unknown fields (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if len(s.Models) > 0 {
		if err := ir.ValidateModels("scenario", s.Models); err != nil {
			return fmt.Errorf("models: %w", err)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}

	return nil
}

func validateStep(step Step) error {
	switch step.Op {
	case OpAdd, OpAddInferred, OpUpdate, OpDelete:
		if len(step.Triples) == 0 {
			return fmt.Errorf("%s requires triples", step.Op)
		}
	case OpClear:
		if len(step.Triples) > 0 || step.Model != "" {
			return fmt.Errorf("clear takes no triples or model")
		}
	case "":
		return fmt.Errorf("op is required")
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return validateErrorCode(step.Error)
}

// validateAssertion checks the fields each assertion type needs.
func validateAssertion(a Assertion) error {
	if err := validateErrorCode(a.Error); err != nil {
		return err
	}
	expectsError := a.Error != ""

	switch a.Type {
	case AssertQuery:
		if len(a.Patterns) == 0 && !expectsError {
			return fmt.Errorf("query requires patterns")
		}
	case AssertHas:
		if a.Want == nil && !expectsError {
			return fmt.Errorf("has requires want")
		}
	case AssertHasStmt:
		if len(a.Triple) != 3 && !expectsError {
			return fmt.Errorf("has_stmt requires a triple of three terms")
		}
		if a.Want == nil && !expectsError {
			return fmt.Errorf("has_stmt requires want")
		}
	case AssertAbout:
		if a.Resource == "" && !expectsError {
			return fmt.Errorf("about requires resource")
		}
	case AssertClassesOf:
		if a.Concept == "" && !expectsError {
			return fmt.Errorf("classesof requires concept")
		}
	case AssertCount, AssertInferredCount:
		if a.Count == nil {
			return fmt.Errorf("%s requires count", a.Type)
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func validateErrorCode(code string) error {
	switch ir.ErrorCode(code) {
	case "", ir.ErrCodeInvalidArgument, ir.ErrCodeStorageUnavailable:
		return nil
	default:
		return fmt.Errorf("unknown error code %q", code)
	}
}
