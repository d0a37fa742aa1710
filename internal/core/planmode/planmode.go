// Package planmode implements the two-phase plan/build workflow policy:
// a read-only planning phase where only inspection commands and writes to a
// single plan artifact are permitted, followed by a tracked execution phase.
package planmode

// Entry log tags used for session persistence and reconstruction.
const (
	// TagSnapshot marks a persisted state snapshot; the last one on the
	// active branch is authoritative.
	TagSnapshot = "planmode.snapshot"
	// TagExecBegin marks the moment execution of an approved plan began.
	TagExecBegin = "planmode.exec-begin"
	// TagTurn carries a turn's final text, scanned for completion markers
	// when an executing session is reconstructed.
	TagTurn = "planmode.turn"
)

// PlanModeTools is the restricted tool set active during the planning
// phase. Edit and bash stay listed because the gate filters their calls.
var PlanModeTools = []string{"read", "grep", "glob", "list", "bash", "edit", "webfetch", "todo"}

// DefaultTools is the full-access tool set restored when no snapshot of the
// previous set exists.
var DefaultTools = []string{"read", "grep", "glob", "list", "bash", "edit", "write", "patch", "webfetch", "todo", "task"}

// Step is one entry of an extracted plan.
type Step struct {
	Step      int    `json:"step"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// State is the per-session plan-mode state. It is always passed explicitly:
// nothing in this package holds a package-level State, so sessions sharing a
// process cannot cross-contaminate.
type State struct {
	Enabled   bool   `json:"enabled"`
	Executing bool   `json:"executing"`
	PlanFile  string `json:"planFile,omitempty"`
	Steps     []Step `json:"steps,omitempty"`

	// PrevTools snapshots the active tool set on entry so exit can restore
	// it. Not persisted: a reconstructed session falls back to DefaultTools.
	PrevTools []string `json:"-"`

	// SwitchNotice is a one-shot flag set when leaving plan mode; the next
	// prompt construction consumes it to inject a transition notice.
	SwitchNotice bool `json:"-"`
}

// Reset returns the state to its defaults.
func (s *State) Reset() {
	*s = State{}
}

// Remaining returns the steps not yet completed.
func (s *State) Remaining() []Step {
	var out []Step
	for _, step := range s.Steps {
		if !step.Completed {
			out = append(out, step)
		}
	}
	return out
}

// CompletedCount returns how many steps are done.
func (s *State) CompletedCount() int {
	n := 0
	for _, step := range s.Steps {
		if step.Completed {
			n++
		}
	}
	return n
}

// AllCompleted reports whether every step is done. False for an empty plan.
func (s *State) AllCompleted() bool {
	if len(s.Steps) == 0 {
		return false
	}
	return s.CompletedCount() == len(s.Steps)
}
