package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Theme modes accepted by the config, the --theme flag and preferences.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// PrefTheme is the preference key holding the chosen theme mode.
const PrefTheme = "appTheme"

// themeLabels is in selector order.
var themeLabels = []struct {
	mode  string
	label string
}{
	{ThemeSystem, "System Default"},
	{ThemeLight, "Light"},
	{ThemeDark, "Dark"},
}

// ThemeLabels returns the selector labels for every theme mode.
func ThemeLabels() []string {
	labels := make([]string, 0, len(themeLabels))
	for _, tl := range themeLabels {
		labels = append(labels, tl.label)
	}
	return labels
}

// ThemeLabel maps a theme mode to its selector label. Unknown modes,
// including "", read as system.
func ThemeLabel(mode string) string {
	for _, tl := range themeLabels {
		if tl.mode == mode {
			return tl.label
		}
	}
	return themeLabels[0].label
}

// ThemeMode maps a selector label back to a theme mode.
func ThemeMode(label string) string {
	for _, tl := range themeLabels {
		if tl.label == label {
			return tl.mode
		}
	}
	return ThemeSystem
}

// pinnedTheme renders the default theme in one variant whatever the OS asks for.
type pinnedTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (p *pinnedTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return p.Theme.Color(name, p.variant)
}

func themeFor(mode string) fyne.Theme {
	switch mode {
	case ThemeDark:
		return &pinnedTheme{Theme: theme.DefaultTheme(), variant: theme.VariantDark}
	case ThemeLight:
		return &pinnedTheme{Theme: theme.DefaultTheme(), variant: theme.VariantLight}
	default:
		return theme.DefaultTheme()
	}
}

// ApplyTheme sets the application theme for mode.
func ApplyTheme(a fyne.App, mode string) {
	a.Settings().SetTheme(themeFor(mode))
}

// ActiveTheme reports the mode of the theme currently applied to a.
func ActiveTheme(a fyne.App) string {
	pinned, ok := a.Settings().Theme().(*pinnedTheme)
	if !ok {
		return ThemeSystem
	}
	if pinned.variant == theme.VariantDark {
		return ThemeDark
	}
	return ThemeLight
}

// SavedTheme returns the stored theme mode, or fallback when nothing valid
// was stored.
func SavedTheme(a fyne.App, fallback string) string {
	mode := a.Preferences().StringWithFallback(PrefTheme, fallback)
	switch mode {
	case ThemeSystem, ThemeLight, ThemeDark:
		return mode
	default:
		return fallback
	}
}

// SaveTheme stores mode for the next launch and applies it.
func SaveTheme(a fyne.App, mode string) {
	a.Preferences().SetString(PrefTheme, mode)
	ApplyTheme(a, mode)
}
