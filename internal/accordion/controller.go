package accordion

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/shhac/roboaccordion/internal/errors"
)

// DefaultDuration is the length of a transition unless configured otherwise.
const DefaultDuration = 300 * time.Millisecond

// State is the controller's view of the accordion.
type State struct {
	Expanded           int
	PreviouslyExpanded int
	Transitioning      bool
}

// Listener is notified around every transition. Both hooks receive Filler
// for the filler.
type Listener interface {
	// OnWillChange fires once, before the first frame.
	OnWillChange(expanding, collapsing int)
	// OnChanged fires once, after the final frame has been committed.
	OnChanged(expanding, collapsing int)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	WillChange func(expanding, collapsing int)
	Changed    func(expanding, collapsing int)
}

func (l ListenerFuncs) OnWillChange(expanding, collapsing int) {
	if l.WillChange != nil {
		l.WillChange(expanding, collapsing)
	}
}

func (l ListenerFuncs) OnChanged(expanding, collapsing int) {
	if l.Changed != nil {
		l.Changed(expanding, collapsing)
	}
}

// Listeners fans every hook out to each non-nil listener in order.
type Listeners []Listener

func (ls Listeners) OnWillChange(expanding, collapsing int) {
	for _, l := range ls {
		if l != nil {
			l.OnWillChange(expanding, collapsing)
		}
	}
}

func (ls Listeners) OnChanged(expanding, collapsing int) {
	for _, l := range ls {
		if l != nil {
			l.OnChanged(expanding, collapsing)
		}
	}
}

// Surface is the host side of a transition.
type Surface interface {
	// PanelHeight returns the current rendered height of a content panel.
	PanelHeight(index int) float32
	// ApplyFrame resizes the two panels involved in a transition and
	// requests a relayout.
	ApplyFrame(frame Frame)
	// Settle is called after a transition has been committed.
	Settle(expanded int)
}

// Animator calls tick with fractions in [0, 1] spread over d. The last
// call must be tick(1).
type Animator interface {
	Animate(d time.Duration, tick func(fraction float32))
}

// Controller owns the expanded/collapsing state and runs transitions one
// at a time.
type Controller struct {
	surface  Surface
	animator Animator
	logger   *slog.Logger

	mu       sync.Mutex
	policy   TogglePolicy
	listener Listener
	duration time.Duration
	count    int
	state    State
}

// Option configures a Controller.
type Option func(*Controller)

// WithPolicy sets the initial toggle policy.
func WithPolicy(p TogglePolicy) Option {
	return func(c *Controller) { c.policy = p }
}

// WithListener sets the initial listener.
func WithListener(l Listener) Option {
	return func(c *Controller) { c.listener = l }
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// NewController creates an idle controller with the history policy, the
// default duration and no segments. Call Reset once segments are known.
func NewController(surface Surface, animator Animator, opts ...Option) *Controller {
	c := &Controller{
		surface:  surface,
		animator: animator,
		logger:   slog.New(slog.DiscardHandler),
		policy:   NewHistoryPolicy(),
		duration: DefaultDuration,
		state: State{
			Expanded:           Filler,
			PreviouslyExpanded: NoHistory,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetPolicy replaces the toggle policy. The current expansion is kept;
// the new policy only governs later self-clicks.
func (c *Controller) SetPolicy(p TogglePolicy) {
	if p == nil {
		p = NewHistoryPolicy()
	}
	c.mu.Lock()
	c.policy = p
	c.mu.Unlock()
}

// Policy returns the active toggle policy.
func (c *Controller) Policy() TogglePolicy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.policy
}

// SetListener replaces the listener. nil removes it.
func (c *Controller) SetListener(l Listener) {
	c.mu.Lock()
	c.listener = l
	c.mu.Unlock()
}

// SetDuration sets the length of later transitions.
func (c *Controller) SetDuration(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidDuration, d)
	}
	c.mu.Lock()
	c.duration = d
	c.mu.Unlock()
	return nil
}

// Duration returns the configured transition length.
func (c *Controller) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset starts over with count segments: history is cleared and the
// policy's first choice is expanded. It returns the expanded index.
func (c *Controller) Reset(count int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if count < 0 {
		count = 0
	}
	c.count = count
	first := c.policy.FirstSegmentToExpand()
	expanded := resolve(first, count)
	if expanded != first {
		c.logger.Debug("first segment out of range, using filler",
			slog.Int("index", first),
			slog.Int("count", count),
		)
	}
	c.state = State{
		Expanded:           expanded,
		PreviouslyExpanded: NoHistory,
	}
	return expanded
}

// Click handles a tap on the header of segment index. It reports whether
// a transition was started; clicks during a transition are dropped.
func (c *Controller) Click(index int) bool {
	c.mu.Lock()
	if c.state.Transitioning {
		c.mu.Unlock()
		c.logger.Debug("click dropped, transition in progress", slog.Int("index", index))
		return false
	}
	if index < 0 || index >= c.count {
		c.mu.Unlock()
		c.logger.Debug("click ignored", slog.Int("index", index), slog.Any("error", apperrors.ErrIndexOutOfRange))
		return false
	}

	collapsing := c.state.Expanded
	target := index
	if index == collapsing {
		snap := Snapshot{
			SegmentCount:       c.count,
			Expanded:           c.state.Expanded,
			PreviouslyExpanded: c.state.PreviouslyExpanded,
		}
		next := c.policy.NextSegmentToExpand(index, snap)
		target = resolve(next, c.count)
		if target == collapsing {
			target = Filler
		}
		if target != next {
			c.logger.Debug("policy answer clamped to filler",
				slog.Int("clicked", index),
				slog.Int("next", next),
			)
		}
	}

	c.state.Transitioning = true
	listener := c.listener
	duration := c.duration
	c.mu.Unlock()

	c.logger.Debug("transition started",
		slog.Int("expanding", target),
		slog.Int("collapsing", collapsing),
		slog.Duration("duration", duration),
	)

	if listener != nil {
		listener.OnWillChange(target, collapsing)
	}

	h := c.surface.PanelHeight(collapsing)
	done := false
	tick := func(f float32) {
		if done {
			return
		}
		if f > 1 {
			f = 1
		}
		c.surface.ApplyFrame(buildFrame(target, collapsing, h, f))
		if f >= 1 {
			done = true
			c.complete(target, collapsing)
		}
	}

	if c.animator == nil || duration == 0 {
		tick(1)
		return true
	}
	c.animator.Animate(duration, tick)
	return true
}

func (c *Controller) complete(expanding, collapsing int) {
	c.mu.Lock()
	c.state.Expanded = expanding
	c.state.PreviouslyExpanded = collapsing
	c.state.Transitioning = false
	listener := c.listener
	c.mu.Unlock()

	c.logger.Debug("transition finished",
		slog.Int("expanded", expanding),
		slog.Int("collapsed", collapsing),
	)

	if listener != nil {
		listener.OnChanged(expanding, collapsing)
	}
	c.surface.Settle(expanding)
}
