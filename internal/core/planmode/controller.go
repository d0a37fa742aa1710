package planmode

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/stagehand/internal/host"
)

// Config carries the controller's fixed policy inputs.
type Config struct {
	// PlanDir is the directory holding plan artifacts; the write gate's
	// root.
	PlanDir string

	// WriteAllowGlobs are extra doublestar patterns the write gate admits
	// beyond the plan directory.
	WriteAllowGlobs []string
}

// ToolCall is one intercepted tool invocation presented to the gate.
type ToolCall struct {
	Tool    string
	Path    string // write target for edit/write tools
	Command string // command line for bash
}

// Prompt is the controller's contribution to one model turn.
type Prompt struct {
	// System blocks are appended to the system instructions.
	System []string
	// Aux messages are injected without being displayed to the user.
	Aux []string
}

// Controller drives the plan/build workflow for one session. All state is
// passed in explicitly; a Controller holds only policy and host handles and
// may be shared across sessions.
type Controller struct {
	host host.Host
	gate *WriteGate
	cfg  Config
	log  zerolog.Logger
}

// NewController creates a controller bound to a host.
func NewController(h host.Host, cfg Config, log zerolog.Logger) *Controller {
	return &Controller{
		host: h,
		gate: NewWriteGate(cfg.PlanDir, cfg.WriteAllowGlobs),
		cfg:  cfg,
		log:  log.With().Str("cmp", "planmode").Str("session", h.SessionID()).Logger(),
	}
}

// Enter starts the planning phase. Already being in plan mode is a warning,
// not an error.
func (c *Controller) Enter(st *State, existingPlanPath string) error {
	if st.Enabled {
		c.log.Warn().Msg("already in plan mode")
		c.host.UI().Notify("Already in plan mode.")
		return nil
	}

	st.PrevTools = c.host.Tools().Active()
	st.Enabled = true
	st.Executing = false
	st.Steps = nil

	if existingPlanPath != "" {
		st.PlanFile = existingPlanPath
	} else {
		st.PlanFile = filepath.Join(c.cfg.PlanDir, time.Now().Format("2006-01-02-150405")+".md")
	}

	c.host.Tools().SetActive(PlanModeTools)

	if err := c.persist(st); err != nil {
		return err
	}

	c.host.UI().SetStatus(StatusLine(st))
	c.log.Info().Str("plan", st.PlanFile).Msg("entered plan mode")
	return nil
}

// Exit leaves the planning phase and restores tool access. Not being in
// plan mode is a warning, not an error.
func (c *Controller) Exit(st *State) error {
	if !st.Enabled {
		c.log.Warn().Msg("not in plan mode")
		c.host.UI().Notify("Not in plan mode.")
		return nil
	}

	st.Enabled = false
	st.SwitchNotice = true

	c.restoreTools(st)

	if err := c.persist(st); err != nil {
		return err
	}

	c.host.UI().SetStatus(StatusLine(st))
	c.host.UI().PrefillInput("Proceed with implementing the plan.")
	c.log.Info().Msg("exited plan mode")
	return nil
}

// StartExecution transitions from an approved plan into tracked execution.
func (c *Controller) StartExecution(st *State) error {
	st.Enabled = false
	st.Executing = true
	st.SwitchNotice = true

	c.restoreTools(st)

	if err := c.host.Log().Append(TagExecBegin, struct{}{}); err != nil {
		return fmt.Errorf("record execution start: %w", err)
	}
	if err := c.persist(st); err != nil {
		return err
	}

	c.host.UI().SetStatus(StatusLine(st))
	c.log.Info().Int("steps", len(st.Steps)).Msg("execution started")
	return nil
}

// GateToolCall is evaluated on every attempted tool invocation while the
// planning phase is active. Outside plan mode everything passes.
func (c *Controller) GateToolCall(st *State, call ToolCall) host.Decision {
	if !st.Enabled {
		return host.Allow()
	}

	switch call.Tool {
	case "edit", "write", "patch":
		decision := c.gate.Check(call.Path)
		if !decision.Allowed {
			c.log.Debug().Str("path", call.Path).Str("reason", decision.Reason).Msg("write blocked")
		}
		return decision
	case "bash":
		decision := ClassifyCommand(call.Command)
		if !decision.Allowed {
			c.log.Debug().Str("command", call.Command).Str("reason", decision.Reason).Msg("command blocked")
		}
		return decision
	default:
		// Anything else in the plan-mode tool set is read-only by
		// construction; unknown tools are the host dispatch's problem.
		return host.Allow()
	}
}

// Augment builds the controller's prompt contribution for the next turn.
// The build transition notice fires exactly once.
func (c *Controller) Augment(st *State) Prompt {
	var p Prompt

	switch {
	case st.Enabled:
		p.System = append(p.System, planInstructions(st.PlanFile))
	case st.SwitchNotice:
		p.System = append(p.System, transitionNotice(st.PlanFile))
		st.SwitchNotice = false
	}

	if st.Executing {
		if remaining := st.Remaining(); len(remaining) > 0 {
			p.Aux = append(p.Aux, remainingStepsMessage(remaining))
		}
	}

	return p
}

// OnTurnEnd processes a completed model turn: step extraction while
// planning, completion tracking while executing.
func (c *Controller) OnTurnEnd(st *State, text string) error {
	switch {
	case st.Enabled:
		steps := ExtractSteps(text)
		if len(steps) == 0 {
			return nil
		}
		st.Steps = steps
		c.log.Info().Int("steps", len(steps)).Msg("plan steps extracted")
		return c.persist(st)

	case st.Executing:
		if err := c.host.Log().Append(TagTurn, text); err != nil {
			c.log.Warn().Err(err).Msg("record turn text")
		}

		marked := MarkCompleted(st.Steps, text)
		if marked == 0 {
			return nil
		}

		c.log.Info().Int("marked", marked).Int("done", st.CompletedCount()).Int("total", len(st.Steps)).Msg("steps completed")

		if st.AllCompleted() {
			c.host.UI().Notify(completionNotice)
			st.Executing = false
			st.Steps = nil
		}

		c.host.UI().SetStatus(StatusLine(st))
		return c.persist(st)
	}

	return nil
}

// Restore reconstructs state when the host switches, forks, or reopens a
// session timeline: defaults, optional forced enable, then replay of the
// latest snapshot. A reconstructed executing session rescans turn entries
// after the last execution-begin marker so completion marks are not lost.
func (c *Controller) Restore(st *State, forceEnabled bool) error {
	st.Reset()
	st.Enabled = forceEnabled

	entries, err := c.host.Log().Entries()
	if err != nil {
		return fmt.Errorf("replay session log: %w", err)
	}

	snapshotAt := -1
	execBeginAt := -1
	for i, entry := range entries {
		switch entry.Tag {
		case TagSnapshot:
			snapshotAt = i
		case TagExecBegin:
			execBeginAt = i
		}
	}

	if snapshotAt >= 0 {
		var snap State
		if err := entries[snapshotAt].Decode(&snap); err != nil {
			c.log.Warn().Err(err).Msg("undecodable snapshot, keeping defaults")
		} else {
			*st = snap
		}
	}

	if st.Executing {
		for i, entry := range entries {
			if entry.Tag != TagTurn {
				continue
			}
			// Log position, not timestamps: turn entries appended before the
			// execution-begin marker may share its timestamp.
			if i < execBeginAt {
				continue
			}

			var text string
			if err := entry.Decode(&text); err != nil {
				continue
			}
			MarkCompleted(st.Steps, text)
		}
	}

	if st.Enabled {
		c.host.Tools().SetActive(PlanModeTools)
	}

	c.host.UI().SetStatus(StatusLine(st))
	c.log.Debug().Bool("enabled", st.Enabled).Bool("executing", st.Executing).Msg("state reconstructed")
	return nil
}

// StatusLine renders the one-line mode summary for status affordances.
func StatusLine(st *State) string {
	switch {
	case st.Enabled:
		return "PLAN " + filepath.Base(st.PlanFile)
	case st.Executing:
		return fmt.Sprintf("EXEC %d/%d", st.CompletedCount(), len(st.Steps))
	default:
		return ""
	}
}

// restoreTools puts back the tool set snapshotted on entry, falling back to
// the default full-access set when none was recorded.
func (c *Controller) restoreTools(st *State) {
	if len(st.PrevTools) > 0 {
		c.host.Tools().SetActive(st.PrevTools)
		return
	}
	c.host.Tools().SetActive(DefaultTools)
}

// persist appends a state snapshot to the session log.
func (c *Controller) persist(st *State) error {
	if err := c.host.Log().Append(TagSnapshot, st); err != nil {
		return fmt.Errorf("persist plan-mode state: %w", err)
	}
	return nil
}
