package segments

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shhac/roboaccordion/internal/logging"
	"github.com/shhac/roboaccordion/internal/ui/components"
)

func TestProvider_Segments(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	p := NewProvider(Defaults(), logging.NewNopLogger())

	assert.Equal(t, 3, p.SegmentCount())
	assert.Equal(t, "Header 1", p.Title(1))
	assert.Equal(t, "", p.Title(7))

	for i := 0; i < p.SegmentCount(); i++ {
		assert.NotNil(t, p.Header(i))
		assert.NotNil(t, p.Content(i))
	}
}

func TestProvider_SetDefinitions(t *testing.T) {
	p := NewProvider(Defaults(), nil)
	p.SetDefinitions([]Definition{{Title: "Solo"}})

	assert.Equal(t, 1, p.SegmentCount())
	defs := p.Definitions()
	defs[0].Title = "changed"
	assert.Equal(t, "Solo", p.Title(0), "Definitions returns a copy")
}

func TestProvider_DrivesAccordion(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	p := NewProvider(Defaults(), nil)
	acc := components.NewAccordion()
	require.NoError(t, acc.SetAnimationDuration(0))
	require.NoError(t, acc.SetProvider(p))

	w := test.NewWindow(acc)
	defer w.Close()

	assert.Equal(t, 3, acc.SegmentCount())
	assert.Equal(t, 0, acc.Expanded())

	require.True(t, acc.Tap(2))
	assert.Equal(t, 2, acc.Expanded())

	p.SetDefinitions(p.Definitions()[:1])
	require.NoError(t, acc.NotifyDataChanged())
	assert.Equal(t, 1, acc.SegmentCount())
	assert.Equal(t, 0, acc.Expanded())
}

func TestProvider_ListContent(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	p := NewProvider([]Definition{{Title: "List", Items: []string{"a", "b"}}}, nil)
	_, ok := p.Content(0).(*widget.List)
	assert.True(t, ok, "items without background render as a bare list")
}
