package harness

import (
	"fmt"
	"io"
	"strings"

	"github.com/eathonq/toolkit-mvvm-plugin/internal/model"
	"github.com/eathonq/toolkit-mvvm-plugin/pkg/reactive"
	"gopkg.in/yaml.v3"
)

// Trace records every reaction run of one scenario run, in order.
type Trace struct {
	RunID    string  `yaml:"run_id"`
	Scenario string  `yaml:"scenario"`
	Entries  []Entry `yaml:"entries"`
}

// Entry is one reaction run.
type Entry struct {
	// Step is the 1-based step that caused the run; 0 for the initial run
	// at registration.
	Step int `yaml:"step"`

	Reaction string `yaml:"reaction"`

	// Op is the operation kind that triggered the run, or "run" for the
	// initial run.
	Op  string `yaml:"op"`
	Key any    `yaml:"key,omitempty"`

	// Inserted and Deleted describe a positional array mutation.
	Inserted []any `yaml:"inserted,omitempty"`
	Deleted  []any `yaml:"deleted,omitempty"`

	// Values holds what each read path resolved to during the run.
	Values []any `yaml:"values"`
}

func (t *Trace) add(step int, reaction string, op *reactive.Operation, values []any) {
	e := Entry{Step: step, Reaction: reaction, Op: "run", Values: values}
	if op != nil {
		e.Op = op.Kind.String()
		e.Key = model.Snapshot(op.Key)
		if op.Array != nil {
			e.Inserted = snapshotAll(op.Array.Inserted)
			e.Deleted = snapshotAll(op.Array.Deleted)
		}
	}
	t.Entries = append(t.Entries, e)
}

// Runs returns the entries recorded for step.
func (t *Trace) Runs(step int) []Entry {
	var out []Entry
	for _, e := range t.Entries {
		if e.Step == step {
			out = append(out, e)
		}
	}
	return out
}

// Reactions returns the names of the reactions that ran during step, in
// run order.
func (t *Trace) Reactions(step int) []string {
	var out []string
	for _, e := range t.Runs(step) {
		out = append(out, e.Reaction)
	}
	return out
}

// WriteText writes one line per entry.
func (t *Trace) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "run %s (%s)\n", t.RunID, t.Scenario); err != nil {
		return err
	}
	for _, e := range t.Entries {
		var b strings.Builder
		fmt.Fprintf(&b, "  step %-3d %-16s %-8s", e.Step, e.Reaction, e.Op)
		if e.Key != nil {
			fmt.Fprintf(&b, " key=%v", e.Key)
		}
		if e.Inserted != nil {
			fmt.Fprintf(&b, " +%v", e.Inserted)
		}
		if e.Deleted != nil {
			fmt.Fprintf(&b, " -%v", e.Deleted)
		}
		fmt.Fprintf(&b, " values=%v\n", e.Values)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// WriteYAML writes the trace as a YAML document.
func (t *Trace) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return err
	}
	return enc.Close()
}

func snapshotAll(values []any) []any {
	if len(values) == 0 {
		return nil
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = model.Snapshot(v)
	}
	return out
}
