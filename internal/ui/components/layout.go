package components

import (
	"fyne.io/fyne/v2"
)

var _ fyne.Layout = (*segmentLayout)(nil)

// segmentLayout stacks headers and content panels vertically. Headers get
// their minimum height, hidden panels get none, fixed panels get the height
// of the current frame and a filling panel takes whatever is left.
//
// It walks the accordion's registry rather than the object list so that
// every object's role and index is known without tagging objects.
type segmentLayout struct {
	accordion *Accordion
}

func (l *segmentLayout) Layout(_ []fyne.CanvasObject, size fyne.Size) {
	a := l.accordion
	segments := a.registry.Segments()

	used := float32(0)
	fills := 0
	for _, seg := range segments {
		if !seg.IsFiller() && seg.Index < len(a.headers) {
			used += a.headers[seg.Index].MinSize().Height
		}
		p := a.panels[seg.Index]
		switch {
		case p == nil || !p.visible:
		case p.fill:
			fills++
		default:
			used += p.height
		}
	}

	fillHeight := float32(0)
	if fills > 0 && size.Height > used {
		fillHeight = (size.Height - used) / float32(fills)
	}

	y := float32(0)
	for _, seg := range segments {
		if !seg.IsFiller() && seg.Index < len(a.headers) {
			header := a.headers[seg.Index]
			h := header.MinSize().Height
			header.Move(fyne.NewPos(0, y))
			header.Resize(fyne.NewSize(size.Width, h))
			y += h
		}
		if seg.Content == nil {
			continue
		}

		height := float32(0)
		if p := a.panels[seg.Index]; p != nil && p.visible {
			if p.fill {
				height = fillHeight
			} else {
				height = p.height
			}
		}
		seg.Content.Move(fyne.NewPos(0, y))
		seg.Content.Resize(fyne.NewSize(size.Width, height))
		y += height
	}
}

// MinSize is the height of all headers and the widest visible child.
func (l *segmentLayout) MinSize(_ []fyne.CanvasObject) fyne.Size {
	a := l.accordion
	var size fyne.Size
	for _, header := range a.headers {
		hs := header.MinSize()
		size.Height += hs.Height
		size.Width = max(size.Width, hs.Width)
	}
	for _, seg := range a.registry.Segments() {
		p := a.panels[seg.Index]
		if seg.Content == nil || p == nil || !p.visible {
			continue
		}
		size.Width = max(size.Width, seg.Content.MinSize().Width)
	}
	return size
}
