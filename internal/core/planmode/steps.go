package planmode

import (
	"regexp"
	"strconv"
	"strings"
)

// Plan extraction is a best-effort parse of model output with a small,
// fixed grammar: a line containing only "Plan:" (case-insensitive, optional
// heading/emphasis markup) followed by numbered-list lines of the form
// "<n>. text" or "<n>) text". Blank lines inside the list are allowed; the
// first other line ends it. Ordinals are assigned by extraction order, not
// by the written numbers.

const (
	// maxStepTextLen caps extracted step text, ellipsis included.
	maxStepTextLen = 80
	// minStepTextLen drops noise entries: cleaned text must be longer.
	minStepTextLen = 3
)

var (
	itemRe = regexp.MustCompile(`^\s*(\d+)[.)]\s+(.*)$`)
	doneRe = regexp.MustCompile(`\[DONE:(\d+)\]`)
)

// ExtractSteps parses a planning response into steps. Returns nil when no
// plan header or no usable items are found.
func ExtractSteps(text string) []Step {
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		if isPlanHeader(line) {
			start = i + 1
		}
	}
	if start < 0 {
		return nil
	}

	var steps []Step
	for _, line := range lines[start:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		m := itemRe.FindStringSubmatch(line)
		if m == nil {
			break
		}

		text := truncateStep(stripMarkup(m[2]))
		if len([]rune(text)) <= minStepTextLen {
			continue
		}

		steps = append(steps, Step{Step: len(steps) + 1, Text: text})
	}

	return steps
}

// MarkCompleted scans text for [DONE:<n>] markers and marks the referenced
// steps completed. Each step is counted at most once, so re-scanning the
// same text is a no-op. Markers naming unknown steps are ignored. Returns
// the number of steps newly marked.
func MarkCompleted(steps []Step, text string) int {
	marked := 0
	seen := map[int]bool{}

	for _, m := range doneRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if seen[n] {
			continue
		}
		seen[n] = true

		for i := range steps {
			if steps[i].Step == n && !steps[i].Completed {
				steps[i].Completed = true
				marked++
				break
			}
		}
	}

	return marked
}

// isPlanHeader reports whether a line is the plan header, tolerating
// heading, quote, and emphasis markup around the literal "Plan:".
func isPlanHeader(line string) bool {
	t := strings.TrimSpace(line)
	t = strings.TrimLeft(t, "#> ")
	t = strings.Trim(t, "*_`")
	return strings.EqualFold(strings.TrimSpace(t), "plan:")
}

// stripMarkup removes emphasis and code markup from a step line.
func stripMarkup(s string) string {
	s = strings.ReplaceAll(s, "`", "")
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "*", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.Trim(s, "_")
	return strings.TrimSpace(s)
}

// truncateStep caps step text at maxStepTextLen runes, ellipsis included.
func truncateStep(s string) string {
	runes := []rune(s)
	if len(runes) <= maxStepTextLen {
		return s
	}
	return string(runes[:maxStepTextLen-1]) + "…"
}
