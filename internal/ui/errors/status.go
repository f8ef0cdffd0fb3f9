package errors

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/shhac/roboaccordion/internal/model"
)

// StatusBar shows the active policy and the last accordion event, with an
// icon that changes shape while a transition runs:
//   - Idle: confirm icon (checkmark)
//   - Animating: view-refresh icon (circular arrows)
type StatusBar struct {
	widget.BaseWidget

	state       *model.DemoState
	policyLabel *widget.Label
	eventLabel  *widget.Label
	indicator   *widget.Icon
}

// NewStatusBar creates a new status bar bound to the given demo state.
func NewStatusBar(state *model.DemoState) *StatusBar {
	event := widget.NewLabel("")
	event.Truncation = fyne.TextTruncateEllipsis

	s := &StatusBar{
		state:       state,
		policyLabel: widget.NewLabel(""),
		eventLabel:  event,
		indicator:   widget.NewIcon(theme.ConfirmIcon()),
	}
	s.ExtendBaseWidget(s)

	state.Policy.AddListener(binding.NewDataListener(s.updateStatus))
	state.LastEvent.AddListener(binding.NewDataListener(s.updateStatus))
	state.Animating.AddListener(binding.NewDataListener(s.updateStatus))

	s.updateStatus()
	return s
}

// updateStatus refreshes the status bar based on current state.
func (s *StatusBar) updateStatus() {
	policy, _ := s.state.Policy.Get()
	event, _ := s.state.LastEvent.Get()
	animating, _ := s.state.Animating.Get()

	if animating {
		s.indicator.SetResource(theme.ViewRefreshIcon())
	} else {
		s.indicator.SetResource(theme.ConfirmIcon())
	}

	s.policyLabel.SetText("Policy: " + policy)
	if event == "" {
		event = "Ready"
	}
	s.eventLabel.SetText(event)
}

// Text returns the event text currently shown.
func (s *StatusBar) Text() string {
	return s.eventLabel.Text
}

// CreateRenderer implements fyne.Widget.
func (s *StatusBar) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewBorder(
		nil, nil,
		s.indicator, s.policyLabel,
		s.eventLabel,
	))
}
