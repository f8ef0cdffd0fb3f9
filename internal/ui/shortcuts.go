package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// segmentKeys maps digit keys to segment indices for the tap shortcuts.
var segmentKeys = []fyne.KeyName{
	fyne.Key1, fyne.Key2, fyne.Key3,
	fyne.Key4, fyne.Key5, fyne.Key6,
	fyne.Key7, fyne.Key8, fyne.Key9,
}

// setupKeyboardShortcuts configures all keyboard shortcuts for the main window
func (w *MainWindow) setupKeyboardShortcuts() {
	canvas := w.window.Canvas()

	// Cmd+R: Rebuild accordion
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyR,
		Modifier: fyne.KeyModifierSuper,
	}, func(shortcut fyne.Shortcut) {
		w.logger.Debug("keyboard shortcut: rebuild")
		w.handleRebuild()
	})

	// Cmd+1..9: Tap segment header
	for i, key := range segmentKeys {
		index := i
		canvas.AddShortcut(&desktop.CustomShortcut{
			KeyName:  key,
			Modifier: fyne.KeyModifierSuper,
		}, func(shortcut fyne.Shortcut) {
			w.tapSegment(index)
		})
	}

	// Cmd+L: Layouts
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyL,
		Modifier: fyne.KeyModifierSuper,
	}, func(shortcut fyne.Shortcut) {
		w.showLayouts()
	})

	// Cmd+,: Preferences
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyComma,
		Modifier: fyne.KeyModifierSuper,
	}, func(shortcut fyne.Shortcut) {
		w.showPreferences()
	})

	w.logger.Info("keyboard shortcuts configured")
}

// tapSegment taps the header of segment index if it exists.
func (w *MainWindow) tapSegment(index int) {
	if index >= w.accordion.SegmentCount() {
		w.logger.Debug("keyboard shortcut: no such segment", slog.Int("index", index))
		return
	}
	if !w.accordion.Tap(index) {
		w.logger.Debug("keyboard shortcut: tap dropped", slog.Int("index", index))
	}
}
