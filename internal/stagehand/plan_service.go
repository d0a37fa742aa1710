package stagehand

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/colonyops/stagehand/internal/core/planmode"
	"github.com/colonyops/stagehand/internal/host"
)

// PlanService owns the plan-mode controller and the session's plan state.
// CLI commands and embedding hosts both go through it so state transitions
// stay serialized in one place.
type PlanService struct {
	controller *planmode.Controller
	state      planmode.State
	planDir    string
	log        zerolog.Logger
}

// NewPlanService creates a plan service bound to a host.
func NewPlanService(h host.Host, cfg planmode.Config, log zerolog.Logger) *PlanService {
	return &PlanService{
		controller: planmode.NewController(h, cfg, log),
		planDir:    cfg.PlanDir,
		log:        log.With().Str("cmp", "plan-service").Logger(),
	}
}

// State returns a copy of the current plan-mode state.
func (s *PlanService) State() planmode.State {
	return s.state
}

// Enter starts the planning phase. A non-empty name pins the artifact to
// <plan-dir>/<name>.md; otherwise resume reuses the most recent artifact,
// and neither starts a fresh timestamped one.
func (s *PlanService) Enter(name string, resume bool) error {
	existing := ""
	switch {
	case name != "":
		if filepath.Ext(name) != ".md" {
			name += ".md"
		}
		existing = filepath.Join(s.planDir, name)
	case resume:
		latest, err := s.latestPlanFile()
		if err != nil {
			return err
		}
		existing = latest
	}

	if err := os.MkdirAll(s.planDir, 0o755); err != nil {
		return fmt.Errorf("create plan directory: %w", err)
	}

	return s.controller.Enter(&s.state, existing)
}

// Exit leaves the planning phase without starting execution tracking.
func (s *PlanService) Exit() error {
	return s.controller.Exit(&s.state)
}

// Run approves the current plan and begins tracked execution.
func (s *PlanService) Run() error {
	if !s.state.Enabled {
		return fmt.Errorf("not in plan mode; nothing to run")
	}
	if len(s.state.Steps) == 0 {
		return fmt.Errorf("no plan steps extracted yet; finish the plan first")
	}
	return s.controller.StartExecution(&s.state)
}

// Restore reconstructs plan state from the session log. Called once at
// startup, and again whenever the host switches session timelines.
func (s *PlanService) Restore(forceEnabled bool) error {
	return s.controller.Restore(&s.state, forceEnabled)
}

// GateToolCall applies the plan-mode policy to one tool invocation.
func (s *PlanService) GateToolCall(call planmode.ToolCall) host.Decision {
	return s.controller.GateToolCall(&s.state, call)
}

// Augment returns the plan-mode prompt contribution for the next turn.
func (s *PlanService) Augment() planmode.Prompt {
	return s.controller.Augment(&s.state)
}

// OnTurnEnd feeds a finished turn's text through step extraction or
// completion tracking, depending on phase.
func (s *PlanService) OnTurnEnd(text string) error {
	return s.controller.OnTurnEnd(&s.state, text)
}

// PlanContents returns the current plan artifact's markdown, or the most
// recent artifact when no plan is active.
func (s *PlanService) PlanContents() (path string, content string, err error) {
	path = s.state.PlanFile
	if path == "" {
		path, err = s.latestPlanFile()
		if err != nil {
			return "", "", err
		}
	}
	if path == "" {
		return "", "", fmt.Errorf("no plan artifact found in %s", s.planDir)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read plan artifact: %w", err)
	}
	return path, string(data), nil
}

// StatusLine returns the one-line mode summary.
func (s *PlanService) StatusLine() string {
	return planmode.StatusLine(&s.state)
}

// latestPlanFile returns the newest .md artifact in the plan directory, or
// empty when there are none. Artifact names embed their creation timestamp
// so lexical order is creation order.
func (s *PlanService) latestPlanFile() (string, error) {
	entries, err := os.ReadDir(s.planDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read plan directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return "", nil
	}

	sort.Strings(names)
	return filepath.Join(s.planDir, names[len(names)-1]), nil
}
