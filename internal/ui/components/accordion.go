package components

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/shhac/roboaccordion/internal/accordion"
	apperrors "github.com/shhac/roboaccordion/internal/errors"
)

// Compile-time interface checks.
var (
	_ fyne.Widget        = (*Accordion)(nil)
	_ accordion.Surface  = (*Accordion)(nil)
	_ accordion.Animator = fyneAnimator{}
)

// panelState is how a content panel (or the filler) is laid out.
type panelState struct {
	visible bool
	fill    bool
	height  float32
}

// Accordion is a vertical stack of segments where exactly one content panel,
// or the trailing filler, is expanded. Tapping a header animates the swap.
//
// Segments come from a Provider; which segment opens on a repeated tap is
// decided by the toggle policy.
type Accordion struct {
	widget.BaseWidget

	// OnTapped is called after every header tap with whether the tap
	// started a transition.
	OnTapped func(index int, accepted bool)
	// OnRebuilt is called after every rebuild, deferred ones included.
	OnRebuilt func(expanded int)

	logger     *slog.Logger
	provider   accordion.Provider[fyne.CanvasObject]
	registry   *accordion.Registry[fyne.CanvasObject]
	controller *accordion.Controller

	headers []*segmentHeader
	panels  map[int]*panelState
	stack   *fyne.Container

	rebuildPending bool
}

// AccordionOption configures an Accordion.
type AccordionOption func(*accordionOptions)

type accordionOptions struct {
	animator accordion.Animator
	logger   *slog.Logger
	policy   accordion.TogglePolicy
}

// WithAnimator replaces the Fyne animation driver, mainly for tests.
func WithAnimator(a accordion.Animator) AccordionOption {
	return func(o *accordionOptions) { o.animator = a }
}

// WithLogger sets the logger for the widget and its controller.
func WithLogger(logger *slog.Logger) AccordionOption {
	return func(o *accordionOptions) { o.logger = logger }
}

// WithTogglePolicy sets the policy before anything is rendered.
func WithTogglePolicy(p accordion.TogglePolicy) AccordionOption {
	return func(o *accordionOptions) { o.policy = p }
}

// NewAccordion creates an empty accordion. It shows only the filler until
// a provider is set.
func NewAccordion(opts ...AccordionOption) *Accordion {
	o := accordionOptions{
		animator: fyneAnimator{},
		logger:   slog.New(slog.DiscardHandler),
		policy:   accordion.NewHistoryPolicy(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	filler := canvas.NewRectangle(color.Transparent)

	a := &Accordion{
		logger:   o.logger,
		registry: accordion.NewRegistry[fyne.CanvasObject](filler),
		panels: map[int]*panelState{
			accordion.Filler: {visible: true, fill: true},
		},
	}
	a.controller = accordion.NewController(a, o.animator,
		accordion.WithPolicy(o.policy),
		accordion.WithLogger(o.logger),
	)
	a.controller.Reset(0)
	a.stack = container.New(&segmentLayout{accordion: a}, filler)

	a.ExtendBaseWidget(a)
	return a
}

// SetProvider installs the segment provider and rebuilds. A nil provider
// leaves the accordion unconfigured and returns ErrNotConfigured.
func (a *Accordion) SetProvider(p accordion.Provider[fyne.CanvasObject]) error {
	a.provider = p
	return a.NotifyDataChanged()
}

// SetTogglePolicy replaces the toggle policy. The open segment stays open.
func (a *Accordion) SetTogglePolicy(p accordion.TogglePolicy) {
	a.controller.SetPolicy(p)
}

// SetListener installs the single state listener; nil removes it.
func (a *Accordion) SetListener(l accordion.Listener) {
	a.controller.SetListener(l)
}

// SetAnimationDuration sets the duration of later transitions.
func (a *Accordion) SetAnimationDuration(d time.Duration) error {
	return a.controller.SetDuration(d)
}

// AnimationDuration returns the configured transition duration.
func (a *Accordion) AnimationDuration() time.Duration {
	return a.controller.Duration()
}

// NotifyDataChanged discards every segment and asks the provider again.
// While a transition runs the rebuild waits for it to settle.
func (a *Accordion) NotifyDataChanged() error {
	if a.provider == nil {
		return apperrors.ErrNotConfigured
	}
	if a.controller.State().Transitioning {
		a.logger.Debug("rebuild deferred until transition settles")
		a.rebuildPending = true
		return nil
	}
	return a.rebuild()
}

// Expanded returns the expanded segment index, or accordion.Filler.
func (a *Accordion) Expanded() int {
	return a.controller.State().Expanded
}

// State returns the controller state.
func (a *Accordion) State() accordion.State {
	return a.controller.State()
}

// SegmentCount returns the number of segments of the last build.
func (a *Accordion) SegmentCount() int {
	return a.registry.Count()
}

// Tap acts as if the header of segment index was tapped.
func (a *Accordion) Tap(index int) bool {
	accepted := a.controller.Click(index)
	if a.OnTapped != nil {
		a.OnTapped(index, accepted)
	}
	return accepted
}

func (a *Accordion) rebuild() error {
	if err := a.registry.Build(a.provider); err != nil {
		return fmt.Errorf("build segments: %w", err)
	}
	expanded := a.controller.Reset(a.registry.Count())

	segments := a.registry.Segments()
	objects := make([]fyne.CanvasObject, 0, 2*len(segments))
	headers := make([]*segmentHeader, 0, len(segments))
	panels := make(map[int]*panelState, len(segments))
	for _, seg := range segments {
		if !seg.IsFiller() {
			index := seg.Index
			header := newSegmentHeader(seg.Header, func() { a.Tap(index) })
			headers = append(headers, header)
			objects = append(objects, header)
		}
		objects = append(objects, seg.Content)
		panels[seg.Index] = &panelState{}
	}
	a.headers = headers
	a.panels = panels
	a.stack.Objects = objects

	a.logger.Info("accordion rebuilt",
		slog.Int("segments", len(headers)),
		slog.Int("expanded", expanded),
	)
	a.settle(expanded)
	if a.OnRebuilt != nil {
		a.OnRebuilt(expanded)
	}
	return nil
}

// settle lays out the resting state: one filling panel, the rest hidden.
func (a *Accordion) settle(expanded int) {
	for index, p := range a.panels {
		*p = panelState{}
		if index == expanded {
			*p = panelState{visible: true, fill: true}
		}
		a.syncVisibility(index)
	}
	a.stack.Refresh()
}

func (a *Accordion) syncVisibility(index int) {
	seg, ok := a.registry.Segment(index)
	p := a.panels[index]
	if !ok || p == nil || seg.Content == nil {
		return
	}
	if p.visible {
		seg.Content.Show()
	} else {
		seg.Content.Hide()
	}
}

// PanelHeight implements accordion.Surface.
func (a *Accordion) PanelHeight(index int) float32 {
	seg, ok := a.registry.Segment(index)
	if !ok || seg.Content == nil {
		return 0
	}
	return seg.Content.Size().Height
}

// ApplyFrame implements accordion.Surface.
func (a *Accordion) ApplyFrame(frame accordion.Frame) {
	if p, ok := a.panels[frame.Collapsing]; ok {
		*p = panelState{
			visible: frame.CollapsingVisible,
			height:  frame.CollapsingHeight,
		}
		a.syncVisibility(frame.Collapsing)
	}
	if p, ok := a.panels[frame.Expanding]; ok {
		*p = panelState{
			visible: frame.ExpandingVisible,
			fill:    frame.Fill,
			height:  frame.ExpandingHeight,
		}
		a.syncVisibility(frame.Expanding)
	}
	a.stack.Refresh()
}

// Settle implements accordion.Surface.
func (a *Accordion) Settle(expanded int) {
	a.settle(expanded)
	if a.rebuildPending {
		a.rebuildPending = false
		if err := a.rebuild(); err != nil {
			a.logger.Error("deferred rebuild failed", slog.Any("error", err))
		}
	}
}

// CreateRenderer implements fyne.Widget.
func (a *Accordion) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(a.stack)
}

// fyneAnimator drives transitions with a linear Fyne animation.
type fyneAnimator struct{}

func (fyneAnimator) Animate(d time.Duration, tick func(float32)) {
	anim := fyne.NewAnimation(d, tick)
	anim.Curve = fyne.AnimationLinear
	anim.Start()
}
