package ui

import (
	"log/slog"
	"slices"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/shhac/roboaccordion/internal/accordion"
	"github.com/shhac/roboaccordion/internal/model"
	"github.com/shhac/roboaccordion/internal/ui/components"
	uierrors "github.com/shhac/roboaccordion/internal/ui/errors"
	"github.com/shhac/roboaccordion/internal/ui/layouts"
	"github.com/shhac/roboaccordion/internal/ui/settings"
)

// AppController defines the interface for app-level operations needed by the UI
type AppController interface {
	Accordion() *components.Accordion
	State() *model.DemoState
	Logger() *slog.Logger
	SetPolicy(name string) error
	Rebuild() error
	layouts.Store
}

// MainWindow manages the main application window and its layout.
type MainWindow struct {
	window fyne.Window
	state  *model.DemoState
	logger *slog.Logger
	app    AppController

	accordion    *components.Accordion
	policySelect *widget.Select
	statusBar    *uierrors.StatusBar
}

// NewMainWindow creates the demo window:
//   - Top: toolbar with the policy selector, rebuild and preferences
//   - Center: the accordion
//   - Bottom: status bar with the last accordion event
func NewMainWindow(fyneApp fyne.App, app AppController) *MainWindow {
	window := fyneApp.NewWindow("RoboAccordion")

	mw := &MainWindow{
		window:    window,
		state:     app.State(),
		logger:    app.Logger(),
		app:       app,
		accordion: app.Accordion(),
	}

	mw.statusBar = uierrors.NewStatusBar(mw.state)
	mw.policySelect = widget.NewSelect(accordion.PolicyNames(), mw.handlePolicyChange)
	if policy, err := mw.state.Policy.Get(); err == nil && policy != "" {
		// Script policies are not built in; offer the active one so the
		// selector can show it and switch back to it.
		if !slices.Contains(mw.policySelect.Options, policy) {
			mw.policySelect.Options = append(mw.policySelect.Options, policy)
		}
		mw.policySelect.Selected = policy
	}

	mw.SetContent()
	mw.setupKeyboardShortcuts()

	window.Resize(fyne.NewSize(420, 640))
	return mw
}

// SetContent builds the window layout.
func (w *MainWindow) SetContent() {
	toolbar := container.NewHBox(
		widget.NewLabel("Policy"),
		w.policySelect,
		widget.NewButtonWithIcon("Rebuild", theme.ViewRefreshIcon(), w.handleRebuild),
		widget.NewButtonWithIcon("", theme.FolderOpenIcon(), w.showLayouts),
		widget.NewButtonWithIcon("", theme.SettingsIcon(), w.showPreferences),
		widget.NewButtonWithIcon("", theme.InfoIcon(), func() { ShowAboutDialog(w.window) }),
	)

	w.window.SetContent(container.NewBorder(
		container.NewVBox(toolbar, widget.NewSeparator()),
		container.NewVBox(widget.NewSeparator(), w.statusBar),
		nil, nil,
		w.accordion,
	))
}

func (w *MainWindow) handlePolicyChange(name string) {
	if err := w.app.SetPolicy(name); err != nil {
		w.logger.Error("failed to change policy", slog.Any("error", err))
		uierrors.ShowError(err, w.window)
	}
}

func (w *MainWindow) handleRebuild() {
	if err := w.app.Rebuild(); err != nil {
		w.logger.Error("rebuild failed", slog.Any("error", err))
		uierrors.ShowError(err, w.window)
	}
}

func (w *MainWindow) showLayouts() {
	layouts.ShowPanel(w.window, layouts.NewLayoutPanel(w.app, w.logger, w.window))
}

func (w *MainWindow) showPreferences() {
	a := fyne.CurrentApp()
	current := settings.Current{
		Duration:     w.accordion.AnimationDuration(),
		ThemeOptions: ThemeLabels(),
		Theme:        ThemeLabel(ActiveTheme(a)),
	}
	settings.ShowPreferencesDialog(a, w.window, current, settings.PreferencesCallbacks{
		OnDurationChange: func(d time.Duration) {
			if err := w.accordion.SetAnimationDuration(d); err != nil {
				uierrors.ShowError(err, w.window)
				return
			}
			w.logger.Info("animation duration changed", slog.Duration("duration", d))
		},
		OnThemeChange: func(label string) {
			mode := ThemeMode(label)
			SaveTheme(a, mode)
			w.logger.Info("theme changed", slog.String("theme", mode))
		},
	})
}

// Window returns the underlying Fyne window.
func (w *MainWindow) Window() fyne.Window {
	return w.window
}
