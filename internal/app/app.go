package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"github.com/google/uuid"

	"github.com/shhac/roboaccordion/internal/accordion"
	apperrors "github.com/shhac/roboaccordion/internal/errors"
	"github.com/shhac/roboaccordion/internal/logging"
	"github.com/shhac/roboaccordion/internal/metrics"
	"github.com/shhac/roboaccordion/internal/model"
	"github.com/shhac/roboaccordion/internal/segments"
	"github.com/shhac/roboaccordion/internal/storage"
	"github.com/shhac/roboaccordion/internal/ui/components"
)

// App is the main application coordinator, responsible for wiring
// together all components and managing their lifecycle.
type App struct {
	fyneApp   fyne.App
	window    fyne.Window
	config    *Config
	logger    *slog.Logger
	state     *model.DemoState
	provider  *segments.Provider
	accordion *components.Accordion
	collector *metrics.Collector
	server    *metrics.Server
	repo      storage.Repository
	layout    string    // loaded layout name, empty when content comes from config
	policy    io.Closer // releases a script policy, nil for built-ins
}

// New creates a new App instance with the given configuration.
// This performs all dependency injection and wiring.
func New(fyneApp fyne.App, cfg *Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logOpts := logging.Options{AppName: "roboaccordion", Debug: cfg.Debug}
	if cfg.LogToConsole {
		logOpts.Console = os.Stderr
	}
	logger, err := logging.New(logOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = logger.With(slog.String("run_id", uuid.NewString()))

	storagePath, err := storage.DefaultStoragePath()
	if err != nil {
		return nil, fmt.Errorf("failed to get storage path: %w", err)
	}
	repo := storage.NewFileRepository(storagePath, logger)

	return NewWithLogger(fyneApp, cfg, logger, repo)
}

// NewWithLogger is New with an externally built logger and repository.
// A nil repo disables layouts and session persistence.
func NewWithLogger(fyneApp fyne.App, cfg *Config, logger *slog.Logger, repo storage.Repository) (*App, error) {
	logger.Info("initializing accordion demo",
		slog.Bool("debug", cfg.Debug),
		slog.String("policy", cfg.Policy),
		slog.Duration("duration", cfg.Duration.Duration()),
		slog.String("segments", cfg.SegmentsPath),
	)

	layout := ""
	if cfg.RestoreSession && repo != nil {
		layout = restoreSession(cfg, repo, logger)
	}

	policy, closer, err := resolvePolicy(cfg.Policy, logger)
	if err != nil {
		return nil, err
	}

	var defs []segments.Definition
	if layout != "" {
		defs, err = repo.LoadLayout(layout)
	} else {
		defs, err = loadDefinitions(cfg.SegmentsPath)
	}
	if err != nil {
		closePolicy(closer, logger)
		return nil, err
	}

	a := &App{
		fyneApp:   fyneApp,
		config:    cfg,
		logger:    logger,
		state:     model.NewDemoState(cfg.Policy),
		provider:  segments.NewProvider(defs, logger),
		collector: metrics.NewCollector(),
		repo:      repo,
		layout:    layout,
		policy:    closer,
	}

	a.accordion = components.NewAccordion(
		components.WithLogger(logger),
		components.WithTogglePolicy(policy),
	)
	a.accordion.SetListener(accordion.Listeners{a.state, a.collector})
	a.accordion.OnTapped = a.collector.Tapped
	a.accordion.OnRebuilt = func(expanded int) {
		a.state.Rebuilt(expanded)
		a.collector.Rebuilt(expanded)
	}
	if err := a.accordion.SetAnimationDuration(cfg.Duration.Duration()); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.accordion.SetProvider(a.provider); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to build accordion: %w", err)
	}

	if cfg.MetricsAddr != "" {
		handler := metrics.NewHandler(a.collector, a.accordion.State)
		server, err := metrics.Start(cfg.MetricsAddr, handler, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to start metrics server: %w", err)
		}
		a.server = server
	}

	logger.Info("application initialized successfully",
		slog.Int("segments", a.accordion.SegmentCount()),
	)
	return a, nil
}

// restoreSession applies the saved policy to cfg and returns the saved
// layout name when it can still be loaded. A segments file given in cfg
// takes precedence over the saved layout.
func restoreSession(cfg *Config, repo storage.Repository, logger *slog.Logger) string {
	session, err := repo.LoadSession()
	if err != nil {
		logger.Warn("ignoring unreadable session", slog.Any("error", err))
		return ""
	}
	if session == nil {
		return ""
	}

	if usablePolicyName(session.Policy) {
		cfg.Policy = session.Policy
	}
	if session.Layout == "" || cfg.SegmentsPath != "" {
		return ""
	}
	if _, err := repo.LoadLayout(session.Layout); err != nil {
		logger.Warn("saved layout unavailable", slog.String("layout", session.Layout), slog.Any("error", err))
		return ""
	}

	logger.Info("restored session",
		slog.String("policy", cfg.Policy),
		slog.String("layout", session.Layout))
	return session.Layout
}

func loadDefinitions(path string) ([]segments.Definition, error) {
	if path == "" {
		return segments.Defaults(), nil
	}
	defs, err := segments.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load segments: %w", err)
	}
	return defs, nil
}

// Run starts the application and displays the main window.
// This is a blocking call that runs the Fyne event loop.
func (a *App) Run(window fyne.Window) {
	a.window = window
	a.logger.Info("starting application")
	a.window.ShowAndRun()

	if err := a.SaveSession(); err != nil {
		a.logger.Warn("failed to save session", slog.Any("error", err))
	}
	a.Close()
}

// Close stops the metrics endpoint and releases a script policy.
func (a *App) Close() {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			a.logger.Warn("metrics server shutdown failed", slog.Any("error", err))
		}
		a.server = nil
	}
	closePolicy(a.policy, a.logger)
	a.policy = nil
}

// Accordion returns the accordion widget.
func (a *App) Accordion() *components.Accordion {
	return a.accordion
}

// State returns the demo state for use by UI components.
func (a *App) State() *model.DemoState {
	return a.state
}

// Metrics returns the metrics collector.
func (a *App) Metrics() *metrics.Collector {
	return a.collector
}

// MetricsAddr returns the bound debug endpoint address, empty when disabled.
func (a *App) MetricsAddr() string {
	if a.server == nil {
		return ""
	}
	return a.server.Addr()
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Config returns the active configuration.
func (a *App) Config() *Config {
	return a.config
}

// FyneApp returns the underlying Fyne application instance.
func (a *App) FyneApp() fyne.App {
	return a.fyneApp
}

// SegmentTitle returns the title of segment index.
func (a *App) SegmentTitle(index int) string {
	return a.provider.Title(index)
}

// SetPolicy switches the toggle policy by name. The open segment stays open.
func (a *App) SetPolicy(name string) error {
	policy, closer, err := resolvePolicy(name, a.logger)
	if err != nil {
		return err
	}
	a.accordion.SetTogglePolicy(policy)
	closePolicy(a.policy, a.logger)
	a.policy = closer

	a.config.Policy = name
	if err := a.state.Policy.Set(name); err != nil {
		a.logger.Debug("failed to publish policy", slog.String("policy", name), slog.Any("error", err))
	}
	a.logger.Info("toggle policy changed", slog.String("policy", name))
	return nil
}

// Rebuild reloads the current layout or segments file and rebuilds the accordion.
func (a *App) Rebuild() error {
	var (
		defs []segments.Definition
		err  error
	)
	if a.layout != "" {
		defs, err = a.repo.LoadLayout(a.layout)
	} else {
		defs, err = loadDefinitions(a.config.SegmentsPath)
	}
	if err != nil {
		return err
	}
	return a.apply(defs)
}

func (a *App) apply(defs []segments.Definition) error {
	a.provider.SetDefinitions(defs)
	if err := a.accordion.NotifyDataChanged(); err != nil {
		return fmt.Errorf("failed to rebuild accordion: %w", err)
	}
	return nil
}

// Layout returns the loaded layout name, empty for config content.
func (a *App) Layout() string {
	return a.layout
}

// ListLayouts returns the names of saved layouts.
func (a *App) ListLayouts() ([]string, error) {
	if a.repo == nil {
		return []string{}, nil
	}
	return a.repo.ListLayouts()
}

// SaveLayout stores the current segment definitions under name.
func (a *App) SaveLayout(name string) error {
	if a.repo == nil {
		return apperrors.ErrNoStorage
	}
	if err := a.repo.SaveLayout(name, a.provider.Definitions()); err != nil {
		return err
	}
	a.layout = name
	a.logger.Info("layout saved", slog.String("layout", name))
	return nil
}

// LoadLayout replaces the segments with a saved layout and rebuilds.
func (a *App) LoadLayout(name string) error {
	if a.repo == nil {
		return apperrors.ErrNoStorage
	}
	defs, err := a.repo.LoadLayout(name)
	if err != nil {
		return err
	}
	if err := a.apply(defs); err != nil {
		return err
	}
	a.layout = name
	a.logger.Info("layout loaded", slog.String("layout", name), slog.Int("segments", len(defs)))
	return nil
}

// DeleteLayout removes a saved layout. The displayed segments stay as they
// are; deleting the loaded layout makes Rebuild use the configured content.
func (a *App) DeleteLayout(name string) error {
	if a.repo == nil {
		return apperrors.ErrNoStorage
	}
	if err := a.repo.DeleteLayout(name); err != nil {
		return err
	}
	if a.layout == name {
		a.layout = ""
	}
	a.logger.Info("layout deleted", slog.String("layout", name))
	return nil
}

// SaveSession records the policy and layout for the next launch.
func (a *App) SaveSession() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.SaveSession(storage.Session{Policy: a.config.Policy, Layout: a.layout})
}
