package scripting

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shhac/roboaccordion/internal/accordion"
	apperrors "github.com/shhac/roboaccordion/internal/errors"
)

const reverseScript = `
function first_segment()
  return 2
end

-- reopen the segment before the clicked one, wrapping to the last
function next_segment(clicked, snap)
  if clicked == 0 then
    return snap.count - 1
  end
  return clicked - 1
end
`

func TestPolicy_Decisions(t *testing.T) {
	p, err := NewPolicy("reverse.lua", reverseScript, nil)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, "reverse.lua", p.Name())
	assert.Equal(t, 2, p.FirstSegmentToExpand())
	assert.Equal(t, 1, p.NextSegmentToExpand(2, accordion.Snapshot{SegmentCount: 3, Expanded: 2, PreviouslyExpanded: accordion.NoHistory}))
	assert.Equal(t, 2, p.NextSegmentToExpand(0, accordion.Snapshot{SegmentCount: 3, Expanded: 0, PreviouslyExpanded: 1}))
}

func TestPolicy_SnapshotFields(t *testing.T) {
	p, err := NewPolicy("history.lua", `
function next_segment(clicked, snap)
  if snap.previous >= 0 then return snap.previous end
  return -1
end`, nil)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, 0, p.FirstSegmentToExpand(), "missing first_segment expands segment 0")
	assert.Equal(t, accordion.Filler, p.NextSegmentToExpand(1, accordion.Snapshot{SegmentCount: 3, Expanded: 1, PreviouslyExpanded: accordion.NoHistory}))
	assert.Equal(t, 2, p.NextSegmentToExpand(1, accordion.Snapshot{SegmentCount: 3, Expanded: 1, PreviouslyExpanded: 2}))
}

func TestPolicy_FailuresChooseFiller(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"runtime error", `function next_segment() error("boom") end`},
		{"string result", `function next_segment() return "two" end`},
		{"no result", `function next_segment() end`},
		{"endless loop", `function next_segment() while true do end end`},
		{"fraction", `function next_segment() return 1.5 end`},
		{"nan", `function next_segment() return 0/0 end`},
		{"infinity", `function next_segment() return math.huge end`},
		{"huge", `function next_segment() return 2^40 end`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPolicy(tt.name, tt.script, nil)
			require.NoError(t, err)
			defer p.Close()

			assert.Equal(t, accordion.Filler, p.NextSegmentToExpand(0, accordion.Snapshot{SegmentCount: 3}))
		})
	}
}

func TestPolicy_ControllerIntegration(t *testing.T) {
	p, err := NewPolicy("reverse.lua", reverseScript, nil)
	require.NoError(t, err)
	defer p.Close()

	c := accordion.NewController(nopSurface{}, nil, accordion.WithPolicy(p))
	require.NoError(t, c.SetDuration(0))
	assert.Equal(t, 2, c.Reset(3))

	require.True(t, c.Click(2))
	assert.Equal(t, 1, c.State().Expanded)
	require.True(t, c.Click(1))
	assert.Equal(t, 0, c.State().Expanded)
	require.True(t, c.Click(0))
	assert.Equal(t, 2, c.State().Expanded)
}

func TestNewPolicy_Errors(t *testing.T) {
	_, err := NewPolicy("syntax.lua", `function next_segment(`, nil)
	assert.Error(t, err)

	_, err = NewPolicy("empty.lua", `x = 1`, nil)
	var vErr apperrors.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "policy", vErr.Field)
}

func TestNewPolicy_NoFileAccess(t *testing.T) {
	p, err := NewPolicy("sandbox.lua", `
function next_segment()
  if dofile == nil and loadfile == nil and io == nil and os == nil then return 1 end
  return 0
end`, nil)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, 1, p.NextSegmentToExpand(0, accordion.Snapshot{SegmentCount: 2}))
}

func TestNewPolicy_RequireCannotLoadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "neighbour.lua"), []byte("return 2"), 0644))
	t.Chdir(dir)

	p, err := NewPolicy("require.lua", `
function next_segment()
  return require("neighbour")
end`, nil)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, accordion.Filler, p.NextSegmentToExpand(0, accordion.Snapshot{SegmentCount: 3}))

	_, err = NewPolicy("toplevel.lua", `
local n = require("neighbour")
function next_segment() return n end`, nil)
	assert.Error(t, err)
}

func TestNewPolicy_RequireCachesModules(t *testing.T) {
	p, err := NewPolicy("cache.lua", `
function next_segment()
  if package == nil and require("log") == require("log") then return 1 end
  return 0
end`, nil)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, 1, p.NextSegmentToExpand(0, accordion.Snapshot{SegmentCount: 2}))
}

func TestLoadPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reverse.lua")
	require.NoError(t, os.WriteFile(path, []byte(reverseScript), 0644))

	p, err := LoadPolicy(path, nil)
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, 2, p.FirstSegmentToExpand())

	_, err = LoadPolicy(filepath.Join(t.TempDir(), "missing.lua"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLogModule(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p, err := NewPolicy("logging.lua", `
local log = require("log")
function next_segment(clicked)
  log.info("deciding", {clicked = clicked, note = "hi"})
  return -1
end`, logger)
	require.NoError(t, err)
	defer p.Close()

	p.NextSegmentToExpand(1, accordion.Snapshot{SegmentCount: 3})

	out := buf.String()
	assert.Contains(t, out, "msg=deciding")
	assert.Contains(t, out, "clicked=1")
	assert.Contains(t, out, "note=hi")
	assert.Contains(t, out, "script=logging.lua")
	assert.Contains(t, out, "source=lua")
}

type nopSurface struct{}

func (nopSurface) PanelHeight(int) float32 { return 100 }
func (nopSurface) ApplyFrame(accordion.Frame) {}
func (nopSurface) Settle(int) {}

func TestLoadPolicy_SampleScript(t *testing.T) {
	p, err := LoadPolicy(filepath.Join("..", "..", "testdata", "policies", "reverse.lua"), nil)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, 0, p.FirstSegmentToExpand())
	assert.Equal(t, 3, p.NextSegmentToExpand(0, accordion.Snapshot{SegmentCount: 4}))
	assert.Equal(t, 1, p.NextSegmentToExpand(2, accordion.Snapshot{SegmentCount: 4}))
}
