package settings

import (
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// PrefDuration is the preference key of the transition length in milliseconds.
const PrefDuration = "animationDurationMs"

// Current holds the values the preferences dialog opens with.
type Current struct {
	Duration     time.Duration
	ThemeOptions []string // selector labels
	Theme        string   // selected label
}

// PreferencesCallbacks provides hooks for the preferences dialog to apply changes.
type PreferencesCallbacks struct {
	OnDurationChange func(d time.Duration) // Called with the new transition duration
	OnThemeChange    func(label string)    // Called with one of Current.ThemeOptions
}

// ParseDurationMillis parses a non-negative whole number of milliseconds.
func ParseDurationMillis(s string) (time.Duration, bool) {
	ms, err := strconv.Atoi(s)
	if err != nil || ms < 0 {
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}

// SavedDuration returns the stored transition duration, or fallback.
func SavedDuration(a fyne.App, fallback time.Duration) time.Duration {
	ms := a.Preferences().IntWithFallback(PrefDuration, int(fallback/time.Millisecond))
	if ms < 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

// ShowPreferencesDialog displays the preferences dialog with Animation and Appearance tabs.
func ShowPreferencesDialog(a fyne.App, window fyne.Window, current Current, callbacks PreferencesCallbacks) {
	prefs := a.Preferences()

	durationEntry := widget.NewEntry()
	durationEntry.SetText(strconv.Itoa(int(current.Duration / time.Millisecond)))
	durationEntry.Validator = func(s string) error {
		if _, ok := ParseDurationMillis(s); !ok {
			return strconv.ErrSyntax
		}
		return nil
	}

	animationTab := container.NewTabItem("Animation", container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Transition (ms)", durationEntry),
		),
		widget.NewLabel("Length of one expand/collapse transition. 0 switches instantly."),
	))

	themeSelector := widget.NewSelect(current.ThemeOptions, nil)
	themeSelector.SetSelected(current.Theme)

	appearanceTab := container.NewTabItem("Appearance", container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Theme", themeSelector),
		),
	))

	tabs := container.NewAppTabs(animationTab, appearanceTab)

	dlg := dialog.NewCustomConfirm("Preferences", "Save", "Cancel", tabs, func(save bool) {
		if !save {
			return
		}

		if d, ok := ParseDurationMillis(durationEntry.Text); ok {
			prefs.SetInt(PrefDuration, int(d/time.Millisecond))
			if callbacks.OnDurationChange != nil {
				callbacks.OnDurationChange(d)
			}
		}

		if callbacks.OnThemeChange != nil && themeSelector.Selected != "" {
			callbacks.OnThemeChange(themeSelector.Selected)
		}
	}, window)

	dlg.Resize(fyne.NewSize(420, 300))
	dlg.Show()
}
