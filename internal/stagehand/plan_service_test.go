package stagehand

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/stagehand/internal/core/planmode"
	"github.com/colonyops/stagehand/internal/host"
)

func newTestPlanService(t *testing.T) (*PlanService, *host.MemHost, string) {
	t.Helper()

	h := host.NewMemHost("sess-test")
	h.Tools().SetActive(planmode.DefaultTools)

	planDir := filepath.Join(t.TempDir(), "plans")
	svc := NewPlanService(h, planmode.Config{PlanDir: planDir}, zerolog.Nop())
	return svc, h, planDir
}

func TestPlanService_Lifecycle(t *testing.T) {
	svc, h, planDir := newTestPlanService(t)

	require.NoError(t, svc.Enter("", false))
	st := svc.State()
	assert.True(t, st.Enabled)
	assert.Equal(t, planDir, filepath.Dir(st.PlanFile))
	assert.DirExists(t, planDir)
	assert.Equal(t, planmode.PlanModeTools, h.Tools().Active())

	require.NoError(t, svc.OnTurnEnd("Plan:\n1. Build the loader first\n2. Then wire the gate\n"))
	require.Len(t, svc.State().Steps, 2)

	require.NoError(t, svc.Run())
	st = svc.State()
	assert.False(t, st.Enabled)
	assert.True(t, st.Executing)

	require.NoError(t, svc.OnTurnEnd("done with both [DONE:1] [DONE:2]"))
	assert.False(t, svc.State().Executing)
}

func TestPlanService_RunGuards(t *testing.T) {
	svc, _, _ := newTestPlanService(t)

	assert.Error(t, svc.Run(), "run outside plan mode")

	require.NoError(t, svc.Enter("", false))
	assert.Error(t, svc.Run(), "run before any steps extracted")
}

func TestPlanService_EnterNamed(t *testing.T) {
	svc, _, planDir := newTestPlanService(t)

	require.NoError(t, svc.Enter("refactor", false))
	assert.Equal(t, filepath.Join(planDir, "refactor.md"), svc.State().PlanFile)
}

func TestPlanService_EnterResume(t *testing.T) {
	svc, _, planDir := newTestPlanService(t)

	require.NoError(t, os.MkdirAll(planDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(planDir, "2026-01-01-000000.md"), []byte("old\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(planDir, "2026-02-01-000000.md"), []byte("new\n"), 0o644))

	require.NoError(t, svc.Enter("", true))
	assert.Equal(t, filepath.Join(planDir, "2026-02-01-000000.md"), svc.State().PlanFile)
}

func TestPlanService_PlanContents(t *testing.T) {
	svc, _, _ := newTestPlanService(t)

	t.Run("no artifacts", func(t *testing.T) {
		_, _, err := svc.PlanContents()
		assert.Error(t, err)
	})

	t.Run("active plan file", func(t *testing.T) {
		require.NoError(t, svc.Enter("", false))
		require.NoError(t, os.WriteFile(svc.State().PlanFile, []byte("# The Plan\n"), 0o644))

		path, content, err := svc.PlanContents()
		require.NoError(t, err)
		assert.Equal(t, svc.State().PlanFile, path)
		assert.Equal(t, "# The Plan\n", content)
	})

	t.Run("falls back to latest artifact", func(t *testing.T) {
		fresh, _, freshDir := newTestPlanService(t)
		require.NoError(t, os.MkdirAll(freshDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(freshDir, "2026-03-01-000000.md"), []byte("latest\n"), 0o644))

		path, content, err := fresh.PlanContents()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(freshDir, "2026-03-01-000000.md"), path)
		assert.Equal(t, "latest\n", content)
	})
}

func TestPlanService_GateAndAugment(t *testing.T) {
	svc, _, planDir := newTestPlanService(t)
	require.NoError(t, svc.Enter("", false))

	assert.True(t, svc.GateToolCall(planmode.ToolCall{Tool: "edit", Path: filepath.Join(planDir, "x.md")}).Allowed)
	assert.False(t, svc.GateToolCall(planmode.ToolCall{Tool: "write", Path: "/etc/hosts"}).Allowed)

	p := svc.Augment()
	require.Len(t, p.System, 1)
	assert.Contains(t, p.System[0], svc.State().PlanFile)
}

func TestPlanService_Restore(t *testing.T) {
	svc, h, _ := newTestPlanService(t)

	require.NoError(t, svc.Enter("", false))
	planFile := svc.State().PlanFile

	// A new service over the same host log sees the persisted state.
	restored := NewPlanService(h, planmode.Config{PlanDir: filepath.Dir(planFile)}, zerolog.Nop())
	require.NoError(t, restored.Restore(false))
	assert.True(t, restored.State().Enabled)
	assert.Equal(t, planFile, restored.State().PlanFile)
}
