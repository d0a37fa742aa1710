package planmode

import (
	"fmt"
	"strings"
)

// planInstructions is appended to the system instructions on every turn
// while the planning phase is active.
func planInstructions(planFile string) string {
	return fmt.Sprintf(`## Plan Mode (read-only)

You are in plan mode. Do not modify the project. The only file you may
write is the plan artifact: %s

Work through these phases in order:

1. Understand - read the relevant code, configs, and docs until you can
   state the problem and its constraints in your own words.
2. Design - weigh the viable approaches and pick one, noting trade-offs.
3. Review - walk the chosen approach against the codebase and check for
   gaps, risks, and affected call sites.
4. Finalize - write the full plan into the plan artifact.
5. Signal completion - end your final response with a line containing only
   "Plan:" followed by a numbered list of concrete implementation steps,
   one per line.

Read-only shell commands are permitted; anything that mutates state is
blocked until the plan is approved.`, planFile)
}

// transitionNotice is injected once on the first prompt after leaving plan
// mode.
func transitionNotice(planFile string) string {
	notice := `## Build Mode

Plan mode has ended and full tool access is restored. Implement the
approved plan. As you finish each step, include a marker of the form
[DONE:<step-number>] in your response so progress can be tracked.`

	if planFile != "" {
		notice += fmt.Sprintf("\n\nThe approved plan is at: %s", planFile)
	}
	return notice
}

// remainingStepsMessage lists unfinished steps during execution. It is
// delivered as a non-displayed auxiliary message, not shown to the user.
func remainingStepsMessage(steps []Step) string {
	var b strings.Builder
	b.WriteString("Remaining plan steps:\n")
	for _, s := range steps {
		fmt.Fprintf(&b, "%d. %s\n", s.Step, s.Text)
	}
	b.WriteString("\nMark each finished step with [DONE:<n>].")
	return b.String()
}

// completionNotice is emitted when the last step completes.
const completionNotice = "All plan steps are complete."
