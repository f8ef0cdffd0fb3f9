package segments

import (
	"image/color"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/shhac/roboaccordion/internal/accordion"
)

var _ accordion.Provider[fyne.CanvasObject] = (*Provider)(nil)

// Provider renders segment definitions as Fyne canvas objects.
type Provider struct {
	mu     sync.RWMutex
	defs   []Definition
	logger *slog.Logger
}

// NewProvider creates a provider over defs.
func NewProvider(defs []Definition, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Provider{defs: defs, logger: logger}
}

// SetDefinitions replaces the definitions. The accordion picks them up on
// its next rebuild.
func (p *Provider) SetDefinitions(defs []Definition) {
	p.mu.Lock()
	p.defs = defs
	p.mu.Unlock()
}

// Definitions returns a copy of the current definitions.
func (p *Provider) Definitions() []Definition {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Definition, len(p.defs))
	copy(out, p.defs)
	return out
}

// Title returns the title of segment index, or "" when out of range.
func (p *Provider) Title(index int) string {
	def, ok := p.definition(index)
	if !ok {
		return ""
	}
	return def.Title
}

// SegmentCount implements accordion.Provider.
func (p *Provider) SegmentCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.defs)
}

// Header implements accordion.Provider.
func (p *Provider) Header(index int) fyne.CanvasObject {
	def, _ := p.definition(index)
	p.logger.Debug("rendering segment header", slog.Int("index", index))

	text := canvas.NewText(def.Title, color.White)
	text.TextSize = 20
	text.TextStyle = fyne.TextStyle{Bold: true}

	bg, _ := parseColor(def.Color)
	if bg == nil {
		return container.NewPadded(text)
	}
	return container.NewStack(canvas.NewRectangle(bg), container.NewPadded(text))
}

// Content implements accordion.Provider.
func (p *Provider) Content(index int) fyne.CanvasObject {
	def, _ := p.definition(index)
	p.logger.Debug("rendering segment content", slog.Int("index", index))

	var body fyne.CanvasObject
	if len(def.Items) > 0 {
		items := def.Items
		list := widget.NewList(
			func() int { return len(items) },
			func() fyne.CanvasObject { return widget.NewLabel("") },
			func(id widget.ListItemID, obj fyne.CanvasObject) {
				obj.(*widget.Label).SetText(items[id])
			},
		)
		body = list
	} else {
		label := widget.NewLabel(def.Body)
		label.Wrapping = fyne.TextWrapWord
		body = container.NewVBox(label)
	}

	bg, _ := parseColor(def.Background)
	if bg == nil {
		return body
	}
	return container.NewStack(canvas.NewRectangle(bg), body)
}

func (p *Provider) definition(index int) (Definition, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if index < 0 || index >= len(p.defs) {
		return Definition{}, false
	}
	return p.defs[index], true
}
