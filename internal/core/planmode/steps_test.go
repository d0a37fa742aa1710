package planmode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSteps(t *testing.T) {
	t.Run("basic numbered list", func(t *testing.T) {
		text := "Here is my proposal.\n\nPlan:\n1. Add the config loader\n2. Wire the store into the service\n3. Write tests for the gate\n"
		steps := ExtractSteps(text)
		require.Len(t, steps, 3)
		assert.Equal(t, Step{Step: 1, Text: "Add the config loader"}, steps[0])
		assert.Equal(t, Step{Step: 2, Text: "Wire the store into the service"}, steps[1])
		assert.Equal(t, Step{Step: 3, Text: "Write tests for the gate"}, steps[2])
	})

	t.Run("no header", func(t *testing.T) {
		assert.Nil(t, ExtractSteps("1. looks like a step\n2. but no header"))
	})

	t.Run("header with markup", func(t *testing.T) {
		for _, header := range []string{"## Plan:", "**Plan:**", "> plan:", "### **Plan:**"} {
			steps := ExtractSteps(header + "\n1. Do the first thing\n")
			assert.Len(t, steps, 1, "header %q", header)
		}
	})

	t.Run("last header wins", func(t *testing.T) {
		text := "Plan:\n1. Stale first draft item\n\nAfter review:\n\nPlan:\n1. Final item one here\n2. Final item two here\n"
		steps := ExtractSteps(text)
		require.Len(t, steps, 2)
		assert.Equal(t, "Final item one here", steps[0].Text)
	})

	t.Run("paren numbering", func(t *testing.T) {
		steps := ExtractSteps("Plan:\n1) First real step\n2) Second real step\n")
		require.Len(t, steps, 2)
	})

	t.Run("blank lines inside list skipped", func(t *testing.T) {
		steps := ExtractSteps("Plan:\n1. First real step\n\n2. Second real step\n")
		require.Len(t, steps, 2)
	})

	t.Run("non-item line ends the list", func(t *testing.T) {
		steps := ExtractSteps("Plan:\n1. Only captured step\nThat covers it.\n2. Never reached step\n")
		require.Len(t, steps, 1)
		assert.Equal(t, "Only captured step", steps[0].Text)
	})

	t.Run("ordinals follow extraction order not written numbers", func(t *testing.T) {
		steps := ExtractSteps("Plan:\n3. Written as three\n7. Written as seven\n")
		require.Len(t, steps, 2)
		assert.Equal(t, 1, steps[0].Step)
		assert.Equal(t, 2, steps[1].Step)
	})

	t.Run("markup stripped from items", func(t *testing.T) {
		steps := ExtractSteps("Plan:\n1. Update **`store.go`** to add the *merge* path\n")
		require.Len(t, steps, 1)
		assert.Equal(t, "Update store.go to add the merge path", steps[0].Text)
	})

	t.Run("short items dropped", func(t *testing.T) {
		steps := ExtractSteps("Plan:\n1. ok\n2. A real step with substance\n3. -\n")
		require.Len(t, steps, 1)
		assert.Equal(t, 1, steps[0].Step)
		assert.Equal(t, "A real step with substance", steps[0].Text)
	})

	t.Run("long items truncated", func(t *testing.T) {
		long := strings.Repeat("x", 200)
		steps := ExtractSteps("Plan:\n1. " + long + "\n")
		require.Len(t, steps, 1)
		assert.Equal(t, maxStepTextLen, len([]rune(steps[0].Text)))
		assert.True(t, strings.HasSuffix(steps[0].Text, "…"))
	})
}

func TestMarkCompleted(t *testing.T) {
	newSteps := func() []Step {
		return []Step{
			{Step: 1, Text: "first"},
			{Step: 2, Text: "second"},
			{Step: 3, Text: "third"},
		}
	}

	t.Run("marks referenced steps", func(t *testing.T) {
		steps := newSteps()
		n := MarkCompleted(steps, "Finished the loader [DONE:1] and the wiring [DONE:3].")
		assert.Equal(t, 2, n)
		assert.True(t, steps[0].Completed)
		assert.False(t, steps[1].Completed)
		assert.True(t, steps[2].Completed)
	})

	t.Run("rescanning is a no-op", func(t *testing.T) {
		steps := newSteps()
		text := "[DONE:2]"
		assert.Equal(t, 1, MarkCompleted(steps, text))
		assert.Equal(t, 0, MarkCompleted(steps, text))
	})

	t.Run("duplicate markers count once", func(t *testing.T) {
		steps := newSteps()
		assert.Equal(t, 1, MarkCompleted(steps, "[DONE:2] then again [DONE:2]"))
	})

	t.Run("unknown step ignored", func(t *testing.T) {
		steps := newSteps()
		assert.Equal(t, 0, MarkCompleted(steps, "[DONE:9]"))
	})

	t.Run("malformed markers ignored", func(t *testing.T) {
		steps := newSteps()
		assert.Equal(t, 0, MarkCompleted(steps, "[DONE:] [DONE:one] [done:1]"))
		for _, s := range steps {
			assert.False(t, s.Completed)
		}
	})

	t.Run("no markers", func(t *testing.T) {
		steps := newSteps()
		assert.Equal(t, 0, MarkCompleted(steps, "still working on it"))
	})
}

func TestStateHelpers(t *testing.T) {
	st := State{Steps: []Step{
		{Step: 1, Completed: true},
		{Step: 2},
		{Step: 3, Completed: true},
	}}

	assert.Equal(t, 2, st.CompletedCount())
	assert.False(t, st.AllCompleted())

	remaining := st.Remaining()
	require.Len(t, remaining, 1)
	assert.Equal(t, 2, remaining[0].Step)

	st.Steps[1].Completed = true
	assert.True(t, st.AllCompleted())

	empty := State{}
	assert.False(t, empty.AllCompleted())
}
