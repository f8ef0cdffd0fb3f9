package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// Compile-time interface checks.
var (
	_ fyne.Tappable      = (*segmentHeader)(nil)
	_ desktop.Cursorable = (*segmentHeader)(nil)
)

// segmentHeader makes a provider-supplied header tappable. The header
// content itself should not contain its own tappable elements.
type segmentHeader struct {
	widget.BaseWidget

	content fyne.CanvasObject
	onTap   func()
}

func newSegmentHeader(content fyne.CanvasObject, onTap func()) *segmentHeader {
	h := &segmentHeader{content: content, onTap: onTap}
	h.ExtendBaseWidget(h)
	return h
}

// Tapped implements fyne.Tappable.
func (h *segmentHeader) Tapped(_ *fyne.PointEvent) {
	if h.onTap != nil {
		h.onTap()
	}
}

// Cursor shows a pointer so headers read as clickable.
func (h *segmentHeader) Cursor() desktop.Cursor {
	return desktop.PointerCursor
}

// CreateRenderer implements fyne.Widget.
func (h *segmentHeader) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(h.content)
}
