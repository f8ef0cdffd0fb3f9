package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shhac/roboaccordion/internal/accordion"
	apperrors "github.com/shhac/roboaccordion/internal/errors"
	"github.com/shhac/roboaccordion/internal/logging"
	"github.com/shhac/roboaccordion/internal/segments"
	"github.com/shhac/roboaccordion/internal/storage"
)

func newTestApp(t *testing.T, cfg *Config) *App {
	t.Helper()
	return newTestAppWithRepo(t, cfg, storage.NewMemoryRepository())
}

func newTestAppWithRepo(t *testing.T, cfg *Config, repo storage.Repository) *App {
	t.Helper()
	fyneApp := test.NewApp()
	t.Cleanup(fyneApp.Quit)

	cfg.Duration = 0
	a, err := NewWithLogger(fyneApp, cfg, logging.NewNopLogger(), repo)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestNewWithLogger_DefaultSegments(t *testing.T) {
	a := newTestApp(t, DefaultConfig())

	assert.Equal(t, 3, a.Accordion().SegmentCount())
	assert.Equal(t, 0, a.Accordion().Expanded())
	assert.Equal(t, "Header 2", a.SegmentTitle(2))

	expanded, _ := a.State().Expanded.Get()
	assert.Equal(t, 0, expanded)
}

func TestNewWithLogger_ListenerWired(t *testing.T) {
	a := newTestApp(t, DefaultConfig())

	require.True(t, a.Accordion().Tap(1))

	expanded, _ := a.State().Expanded.Get()
	assert.Equal(t, 1, expanded)
	last, _ := a.State().LastEvent.Get()
	assert.Equal(t, "expanded segment 1, collapsed segment 0", last)
}

func TestNewWithLogger_SegmentsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments.yaml")
	require.NoError(t, os.WriteFile(path, []byte("segments:\n  - title: A\n  - title: B\n"), 0644))

	cfg := DefaultConfig()
	cfg.SegmentsPath = path
	a := newTestApp(t, cfg)
	assert.Equal(t, 2, a.Accordion().SegmentCount())

	// Rebuild picks up file changes.
	require.NoError(t, os.WriteFile(path, []byte("segments:\n  - title: A\n"), 0644))
	require.NoError(t, a.Rebuild())
	assert.Equal(t, 1, a.Accordion().SegmentCount())
}

func TestNewWithLogger_MissingSegmentsFile(t *testing.T) {
	fyneApp := test.NewApp()
	defer fyneApp.Quit()

	cfg := DefaultConfig()
	cfg.SegmentsPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := NewWithLogger(fyneApp, cfg, logging.NewNopLogger(), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNew_InvalidConfig(t *testing.T) {
	fyneApp := test.NewApp()
	defer fyneApp.Quit()

	cfg := DefaultConfig()
	cfg.Policy = "bogus"
	_, err := New(fyneApp, cfg)
	assert.ErrorIs(t, err, apperrors.ErrUnknownPolicy)
}

func TestApp_SetPolicy(t *testing.T) {
	a := newTestApp(t, DefaultConfig())

	require.True(t, a.Accordion().Tap(2))
	require.NoError(t, a.SetPolicy(accordion.PolicyFiller))

	policy, _ := a.State().Policy.Get()
	assert.Equal(t, accordion.PolicyFiller, policy)
	assert.Equal(t, 2, a.Accordion().Expanded())

	require.True(t, a.Accordion().Tap(2))
	assert.Equal(t, accordion.Filler, a.Accordion().Expanded())

	assert.ErrorIs(t, a.SetPolicy("nope"), apperrors.ErrUnknownPolicy)
}

func TestApp_SetPolicyPublishesToState(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fyneApp := test.NewApp()
	defer fyneApp.Quit()
	cfg := DefaultConfig()
	cfg.Duration = 0
	a, err := NewWithLogger(fyneApp, cfg, logger, nil)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.SetPolicy(accordion.PolicyCycle))
	require.Error(t, a.SetPolicy("nope"))

	policy, _ := a.State().Policy.Get()
	assert.Equal(t, accordion.PolicyCycle, policy, "a rejected policy leaves the published one")
	assert.Equal(t, accordion.PolicyCycle, a.Config().Policy)
	assert.Contains(t, buf.String(), "toggle policy changed")
	assert.NotContains(t, buf.String(), "failed to publish policy")
}

func TestApp_RebuildResetsToFirst(t *testing.T) {
	a := newTestApp(t, DefaultConfig())

	require.True(t, a.Accordion().Tap(2))
	require.NoError(t, a.Rebuild())

	assert.Equal(t, 0, a.Accordion().Expanded())
	assert.Equal(t, accordion.NoHistory, a.Accordion().State().PreviouslyExpanded)
	expanded, _ := a.State().Expanded.Get()
	assert.Equal(t, 0, expanded)
}

func TestApp_SaveAndLoadLayout(t *testing.T) {
	repo := storage.NewMemoryRepository()
	require.NoError(t, repo.SaveLayout("pair", []segments.Definition{{Title: "A"}, {Title: "B"}}))
	a := newTestAppWithRepo(t, DefaultConfig(), repo)

	require.NoError(t, a.LoadLayout("pair"))
	assert.Equal(t, "pair", a.Layout())
	assert.Equal(t, 2, a.Accordion().SegmentCount())
	assert.Equal(t, "B", a.SegmentTitle(1))

	require.NoError(t, a.SaveLayout("copy"))
	names, err := a.ListLayouts()
	require.NoError(t, err)
	assert.Equal(t, []string{"copy", "pair"}, names)

	assert.Error(t, a.LoadLayout("missing"))
	assert.Equal(t, "copy", a.Layout())
}

func TestApp_RebuildUsesLoadedLayout(t *testing.T) {
	repo := storage.NewMemoryRepository()
	require.NoError(t, repo.SaveLayout("pair", []segments.Definition{{Title: "A"}, {Title: "B"}}))
	a := newTestAppWithRepo(t, DefaultConfig(), repo)
	require.NoError(t, a.LoadLayout("pair"))

	require.NoError(t, repo.SaveLayout("pair", []segments.Definition{{Title: "only"}}))
	require.NoError(t, a.Rebuild())
	assert.Equal(t, 1, a.Accordion().SegmentCount())
}

func TestApp_NoRepository(t *testing.T) {
	a := newTestAppWithRepo(t, DefaultConfig(), nil)

	assert.ErrorIs(t, a.SaveLayout("x"), apperrors.ErrNoStorage)
	assert.ErrorIs(t, a.LoadLayout("x"), apperrors.ErrNoStorage)
	names, err := a.ListLayouts()
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.NoError(t, a.SaveSession())
}

func TestApp_SessionRoundTrip(t *testing.T) {
	repo := storage.NewMemoryRepository()
	require.NoError(t, repo.SaveLayout("single", []segments.Definition{{Title: "Solo"}}))

	first := newTestAppWithRepo(t, DefaultConfig(), repo)
	require.NoError(t, first.SetPolicy(accordion.PolicyFiller))
	require.NoError(t, first.LoadLayout("single"))
	require.NoError(t, first.SaveSession())

	second := newTestAppWithRepo(t, DefaultConfig(), repo)
	assert.Equal(t, accordion.PolicyFiller, second.Config().Policy)
	assert.Equal(t, "single", second.Layout())
	assert.Equal(t, 1, second.Accordion().SegmentCount())

	policy, _ := second.State().Policy.Get()
	assert.Equal(t, accordion.PolicyFiller, policy)
}

func TestApp_SessionIgnored(t *testing.T) {
	repo := storage.NewMemoryRepository()
	require.NoError(t, repo.SaveSession(storage.Session{Policy: accordion.PolicyCycle, Layout: "gone"}))

	cfg := DefaultConfig()
	cfg.RestoreSession = false
	a := newTestAppWithRepo(t, cfg, repo)
	assert.Equal(t, accordion.PolicyHistory, a.Config().Policy)

	// A vanished layout falls back to the configured content.
	b := newTestAppWithRepo(t, DefaultConfig(), repo)
	assert.Equal(t, accordion.PolicyCycle, b.Config().Policy)
	assert.Empty(t, b.Layout())
	assert.Equal(t, 3, b.Accordion().SegmentCount())
}

func TestApp_DeleteLoadedLayout(t *testing.T) {
	repo := storage.NewMemoryRepository()
	require.NoError(t, repo.SaveLayout("pair", []segments.Definition{{Title: "A"}, {Title: "B"}}))
	a := newTestAppWithRepo(t, DefaultConfig(), repo)
	require.NoError(t, a.LoadLayout("pair"))

	require.NoError(t, a.DeleteLayout("pair"))
	assert.Empty(t, a.Layout())
	assert.Equal(t, 2, a.Accordion().SegmentCount())

	require.NoError(t, a.Rebuild())
	assert.Equal(t, 3, a.Accordion().SegmentCount())
	assert.ErrorIs(t, newTestAppWithRepo(t, DefaultConfig(), nil).DeleteLayout("x"), apperrors.ErrNoStorage)
}

const reverseScript = `
function next_segment(clicked, snap)
  if clicked == 0 then return snap.count - 1 end
  return clicked - 1
end
`

func writeScript(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reverse.lua")
	require.NoError(t, os.WriteFile(path, []byte(reverseScript), 0644))
	return path
}

func TestApp_ScriptPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy = ScriptPolicyPrefix + writeScript(t)
	a := newTestApp(t, cfg)

	assert.Equal(t, 0, a.Accordion().Expanded())
	require.True(t, a.Accordion().Tap(0))
	assert.Equal(t, 2, a.Accordion().Expanded())

	// Swapping back to a built-in releases the script.
	require.NoError(t, a.SetPolicy(accordion.PolicyFiller))
	assert.Nil(t, a.policy)
}

func TestApp_ScriptPolicyErrors(t *testing.T) {
	a := newTestApp(t, DefaultConfig())

	err := a.SetPolicy(ScriptPolicyPrefix + filepath.Join(t.TempDir(), "missing.lua"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg := DefaultConfig()
	cfg.Policy = ScriptPolicyPrefix
	assert.Error(t, cfg.Validate())
}

func TestApp_SessionRestoresScriptPolicy(t *testing.T) {
	repo := storage.NewMemoryRepository()
	script := ScriptPolicyPrefix + writeScript(t)
	require.NoError(t, repo.SaveSession(storage.Session{Policy: script}))

	a := newTestAppWithRepo(t, DefaultConfig(), repo)
	assert.Equal(t, script, a.Config().Policy)

	// A script that no longer exists is skipped.
	require.NoError(t, repo.SaveSession(storage.Session{Policy: ScriptPolicyPrefix + "/nonexistent/x.lua"}))
	b := newTestAppWithRepo(t, DefaultConfig(), repo)
	assert.Equal(t, accordion.PolicyHistory, b.Config().Policy)
}

func TestApp_MetricsEndpoint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MetricsAddr = "127.0.0.1:0"
	a := newTestApp(t, cfg)
	require.NotEmpty(t, a.MetricsAddr())

	require.True(t, a.Accordion().Tap(2))

	resp, err := http.Get("http://" + a.MetricsAddr() + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()

	var state map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, 2.0, state["expanded"])
	assert.Equal(t, 0.0, state["previously_expanded"])
}

func TestApp_MetricsWired(t *testing.T) {
	a := newTestApp(t, DefaultConfig())
	assert.Empty(t, a.MetricsAddr())

	require.True(t, a.Accordion().Tap(1))
	require.NoError(t, a.Rebuild())

	families, err := a.Metrics().Registry().Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				values[mf.GetName()] += c.GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, values["roboaccordion_header_taps_total"])
	assert.Equal(t, 1.0, values["roboaccordion_transitions_total"])
	assert.Equal(t, 2.0, values["roboaccordion_rebuilds_total"], "initial build plus rebuild")
}
