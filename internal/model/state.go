package model

import (
	"fmt"

	"fyne.io/fyne/v2/data/binding"

	"github.com/shhac/roboaccordion/internal/accordion"
)

// DemoState is the observable state of the demo window. Widgets bind to
// these values; the accordion listener writes them.
type DemoState struct {
	Policy    binding.String // active toggle policy name
	Expanded  binding.Int    // expanded segment index, -1 for the filler
	Animating binding.Bool   // a transition is running
	LastEvent binding.String // human-readable description of the last event
	Events    binding.StringList
}

// maxEvents bounds the event history kept in Events.
const maxEvents = 50

// NewDemoState creates a DemoState with initialized bindings.
func NewDemoState(policy string) *DemoState {
	p := binding.NewString()
	_ = p.Set(policy)

	expanded := binding.NewInt()
	_ = expanded.Set(accordion.Filler)

	return &DemoState{
		Policy:    p,
		Expanded:  expanded,
		Animating: binding.NewBool(),
		LastEvent: binding.NewString(),
		Events:    binding.NewStringList(),
	}
}

// OnWillChange implements accordion.Listener.
func (s *DemoState) OnWillChange(expanding, collapsing int) {
	_ = s.Animating.Set(true)
	s.record(fmt.Sprintf("expanding %s, collapsing %s", SegmentName(expanding), SegmentName(collapsing)))
}

// OnChanged implements accordion.Listener.
func (s *DemoState) OnChanged(expanding, collapsing int) {
	_ = s.Expanded.Set(expanding)
	_ = s.Animating.Set(false)
	s.record(fmt.Sprintf("expanded %s, collapsed %s", SegmentName(expanding), SegmentName(collapsing)))
}

// Rebuilt records that the accordion was rebuilt with expanded open.
func (s *DemoState) Rebuilt(expanded int) {
	_ = s.Expanded.Set(expanded)
	_ = s.Animating.Set(false)
	s.record("rebuilt, " + SegmentName(expanded) + " expanded")
}

func (s *DemoState) record(event string) {
	_ = s.LastEvent.Set(event)

	events, _ := s.Events.Get()
	events = append([]string{event}, events...)
	if len(events) > maxEvents {
		events = events[:maxEvents]
	}
	_ = s.Events.Set(events)
}

// SegmentName formats a segment index for display.
func SegmentName(index int) string {
	if index == accordion.Filler {
		return "filler"
	}
	return fmt.Sprintf("segment %d", index)
}
