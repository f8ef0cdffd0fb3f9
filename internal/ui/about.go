package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Version is set at build time via ldflags:
//
//	go build -ldflags "-X github.com/shhac/roboaccordion/internal/ui.Version=1.2.3"
var Version = "dev"

// ShowAboutDialog displays information about the demo and its shortcuts.
func ShowAboutDialog(parent fyne.Window) {
	shortcuts := []struct{ action, key string }{
		{"Rebuild", "⌘ R"},
		{"Tap Segment 1-9", "⌘ 1-9"},
		{"Layouts", "⌘ L"},
		{"Preferences", "⌘ ,"},
	}

	grid := container.NewGridWithColumns(2)
	for _, s := range shortcuts {
		grid.Add(widget.NewLabel(s.action))
		grid.Add(widget.NewLabelWithStyle(s.key, fyne.TextAlignTrailing, fyne.TextStyle{Monospace: true}))
	}

	content := container.NewVBox(
		widget.NewLabelWithStyle("RoboAccordion", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Accordion with pluggable toggle policies"),
		widget.NewLabel("Version "+Version),
		widget.NewSeparator(),
		grid,
	)
	dialog.ShowCustom("About RoboAccordion", "Close", content, parent)
}
