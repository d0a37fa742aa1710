package planmode

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/colonyops/stagehand/internal/host"
)

// The bash gate is a closed allow-list: a command must match a read-only
// pattern and must not match any destructive pattern. Deny wins over allow,
// and matching neither list blocks by default.

var allowPatterns = compileAll(
	`^cat\b`,
	`^head\b`,
	`^tail\b`,
	`^less\b`,
	`^more\b`,
	`^ls\b`,
	`^find\b`,
	`^grep\b`,
	`^rg\b`,
	`^wc\b`,
	`^file\b`,
	`^stat\b`,
	`^du\b`,
	`^df\b`,
	`^tree\b`,
	`^pwd$`,
	`^whoami$`,
	`^which\b`,
	`^type\b`,
	`^env$`,
	`^printenv\b`,
	`^date\b`,
	`^uname\b`,
	`^echo\b`,
	`^diff\b`,
	`^sort\b`,
	`^uniq\b`,
	`^cut\b`,
	`^git (status|log|diff|show|branch|blame|shortlog|describe|ls-files|remote)\b`,
)

var denyPatterns = compileAll(
	// Output redirection turns any reader into a writer.
	`[><]`,
	// Filesystem mutation.
	`\brm\b`,
	`\bmv\b`,
	`\bcp\b`,
	`\bln\b`,
	`\btouch\b`,
	`\bmkdir\b`,
	`\brmdir\b`,
	`\bchmod\b`,
	`\bchown\b`,
	`\btruncate\b`,
	`\bdd\b`,
	`\btee\b`,
	// Shell invocation primitives.
	`\beval\b`,
	`\bexec\b`,
	`\bsource\b`,
	`\|\s*(ba|z|da)?sh\b`,
	`\b(ba|z|da)?sh\s+-c\b`,
	`\bxargs\b`,
	// Privilege escalation and process control.
	`\bsudo\b`,
	`\bdoas\b`,
	`\bkill\b`,
	`\bkillall\b`,
	`\bpkill\b`,
	// Package-manager mutation.
	`\b(npm|pnpm|yarn|bun)\s+(install|ci|add|remove|uninstall|update|upgrade|publish|link)\b`,
	`\bpip3?\s+(install|uninstall)\b`,
	`\bgo\s+(get|install)\b`,
	`\bcargo\s+(install|add|remove)\b`,
	`\b(apt|apt-get|yum|dnf|pacman|brew|apk)\s+(install|remove|purge|upgrade|update|add|del)\b`,
	// Interactive editors.
	`\b(vi|vim|nvim|nano|emacs|pico|ed)\b`,
	// Git mutation.
	`\bgit\s+(add|commit|push|pull|fetch|merge|rebase|reset|checkout|switch|restore|clean|stash|tag|cherry-pick|revert|am|apply|rm|mv)\b`,
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// ClassifyCommand decides whether a bash command may run during the
// planning phase.
func ClassifyCommand(command string) host.Decision {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return host.Block("empty command")
	}

	for _, re := range denyPatterns {
		if re.MatchString(cmd) {
			return host.Block(fmt.Sprintf("command matches a destructive pattern (%s); plan mode is read-only", re.String()))
		}
	}

	for _, re := range allowPatterns {
		if re.MatchString(cmd) {
			return host.Allow()
		}
	}

	return host.Block("command is not on the plan-mode read-only allow-list")
}
