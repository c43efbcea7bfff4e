package harness

import (
	"bytes"
	"fmt"
	"os"

	"github.com/eathonq/toolkit-mvvm-plugin/internal/errors"
	"gopkg.in/yaml.v3"
)

// Scenario describes a model, the reactions observing it and a script of
// mutations with the reactions each mutation must re-run.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// RunID fixes the run identifier for reproducible traces. When empty a
	// fresh UUID is generated per run.
	RunID string `yaml:"run_id,omitempty"`

	// Model is the initial data model, as an inline model document.
	Model yaml.Node `yaml:"model"`

	// Reactions are registered in order before the first step.
	Reactions []ReactionSpec `yaml:"reactions"`

	// Steps are applied in order.
	Steps []Step `yaml:"steps"`

	// file is the path the scenario was loaded from, for error locations.
	file string
}

// ReactionSpec declares a reaction by the paths it reads.
type ReactionSpec struct {
	// Name identifies the reaction in expectations and traces.
	Name string `yaml:"name"`

	// Reads are dotted paths from the model root. A path ending in "*"
	// enumerates the container it leads to ("items.*", or "*" for the root).
	Reads []string `yaml:"reads"`
}

// Step is one scripted operation.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// Path leads from the model root to the container the op applies to.
	// Empty means the root. For check it leads to the value compared.
	Path string `yaml:"path,omitempty"`

	// Key is the property, index or collection key for set and delete.
	Key any `yaml:"key,omitempty"`

	// Value is the value for set, add and check. It may be a whole model
	// document.
	Value *yaml.Node `yaml:"value,omitempty"`

	// Values are the items for push, unshift and splice.
	Values []yaml.Node `yaml:"values,omitempty"`

	// Start and Count are the splice arguments.
	Start *int `yaml:"start,omitempty"`
	Count *int `yaml:"count,omitempty"`

	// Reaction names the reaction to stop.
	Reaction string `yaml:"reaction,omitempty"`

	// Expect lists the reactions that must run because of this step. An
	// empty list asserts that none runs; omitting it skips the check.
	Expect []string `yaml:"expect,omitempty"`

	// line is the step's position in the scenario file.
	line int
}

// Step operations.
const (
	OpSet     = "set"
	OpDelete  = "delete"
	OpAdd     = "add"
	OpClear   = "clear"
	OpPush    = "push"
	OpPop     = "pop"
	OpShift   = "shift"
	OpUnshift = "unshift"
	OpSplice  = "splice"
	OpStop    = "stop"
	OpCheck   = "check"
)

var knownOps = map[string]bool{
	OpSet: true, OpDelete: true, OpAdd: true, OpClear: true,
	OpPush: true, OpPop: true, OpShift: true, OpUnshift: true,
	OpSplice: true, OpStop: true, OpCheck: true,
}

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E306").WithDetail(path).Wrap(err)
	}
	return parseScenario(path, data)
}

// ParseScenario parses a scenario document. Unknown fields are rejected.
func ParseScenario(data []byte) (*Scenario, error) {
	return parseScenario("", data)
}

func parseScenario(file string, data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, errors.New("E302").Wrap(err)
	}
	s.file = file

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err == nil {
		recordStepLines(&doc, s.Steps)
	}

	if err := validateScenario(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// recordStepLines copies the line of each step mapping into steps.
func recordStepLines(doc *yaml.Node, steps []Step) {
	if len(doc.Content) == 0 {
		return
	}
	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "steps" {
			continue
		}
		for j, n := range root.Content[i+1].Content {
			if j < len(steps) {
				steps[j].line = n.Line
			}
		}
	}
}

func (s *Scenario) invalid(step *Step, format string, args ...any) *errors.Error {
	e := errors.New("E302").WithDetailf(format, args...)
	if step != nil && step.line > 0 {
		e.WithLocation(s.file, step.line, 0)
	}
	return e
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return s.invalid(nil, "name is required")
	}

	names := make(map[string]bool, len(s.Reactions))
	for i, r := range s.Reactions {
		if r.Name == "" {
			return s.invalid(nil, "reactions[%d]: name is required", i)
		}
		if names[r.Name] {
			return s.invalid(nil, "reactions[%d]: duplicate name %q", i, r.Name)
		}
		names[r.Name] = true
		if len(r.Reads) == 0 {
			return s.invalid(nil, "reactions[%d]: reads is required", i)
		}
	}

	for i := range s.Steps {
		step := &s.Steps[i]
		if !knownOps[step.Op] {
			e := errors.New("E303").WithDetailf("steps[%d]: %q", i, step.Op)
			if step.line > 0 {
				e.WithLocation(s.file, step.line, 0)
			}
			return e
		}
		switch step.Op {
		case OpSet:
			if step.Key == nil {
				return s.invalid(step, "steps[%d]: set requires key", i)
			}
		case OpDelete:
			if step.Key == nil {
				return s.invalid(step, "steps[%d]: delete requires key", i)
			}
		case OpAdd, OpCheck:
			if step.Value == nil {
				return s.invalid(step, "steps[%d]: %s requires value", i, step.Op)
			}
		case OpSplice:
			if step.Start == nil {
				return s.invalid(step, "steps[%d]: splice requires start", i)
			}
		case OpStop:
			if step.Reaction == "" {
				return s.invalid(step, "steps[%d]: stop requires reaction", i)
			}
			if !names[step.Reaction] {
				return errors.New("E305").WithDetail(fmt.Sprintf("steps[%d]: %q", i, step.Reaction))
			}
		}
		for _, name := range step.Expect {
			if !names[name] {
				return errors.New("E305").WithDetail(fmt.Sprintf("steps[%d].expect: %q", i, name))
			}
		}
	}
	return nil
}
