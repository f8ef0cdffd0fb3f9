package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	demoApp "github.com/shhac/roboaccordion/internal/app"
	"github.com/shhac/roboaccordion/internal/ui"
	"github.com/shhac/roboaccordion/internal/ui/settings"
)

var rootCmd = &cobra.Command{
	Use:   "roboaccordion",
	Short: "Accordion widget demo",
	Long: `Opens a window with an animated accordion whose segments come from a
YAML file or the built-in demo content. The toggle policy decides which
segment opens when the expanded one is tapped again.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromFlags(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		return runApp(cfg, flags.Changed("duration"), flags.Changed("theme"))
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.String("config", "", "YAML configuration file")
	flags.String("policy", "", "toggle policy: history, filler, next-previous, cycle or script:<file.lua>")
	flags.Duration("duration", 0, "expand/collapse animation duration")
	flags.String("segments", "", "YAML segments file (default: built-in demo)")
	flags.String("theme", "", "theme: system, dark or light")
	flags.Bool("debug", false, "enable debug logging")
	flags.Bool("log-console", false, "log to stderr instead of the log file")
	flags.String("metrics-addr", "", "serve /metrics and /state on this address")
	flags.Bool("no-session", false, "ignore the policy and layout saved by the last run")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// configFromFlags layers defaults, the config file, the environment and
// finally explicit flags.
func configFromFlags(cmd *cobra.Command) (*demoApp.Config, error) {
	flags := cmd.Flags()

	cfg := demoApp.DefaultConfig()
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := demoApp.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	if flags.Changed("policy") {
		cfg.Policy, _ = flags.GetString("policy")
	}
	if flags.Changed("duration") {
		d, _ := flags.GetDuration("duration")
		cfg.Duration = demoApp.Duration(d)
	}
	if flags.Changed("segments") {
		cfg.SegmentsPath, _ = flags.GetString("segments")
	}
	if flags.Changed("theme") {
		cfg.Theme, _ = flags.GetString("theme")
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("log-console") {
		cfg.LogToConsole, _ = flags.GetBool("log-console")
	}

	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr, _ = flags.GetString("metrics-addr")
	}

	// Explicit choices on the command line win over the saved session
	noSession, _ := flags.GetBool("no-session")
	if noSession || flags.Changed("policy") || flags.Changed("segments") {
		cfg.RestoreSession = false
	}
	return cfg, nil
}

// runApp is the main application entry point with panic recovery.
func runApp(cfg *demoApp.Config, durationFromFlag, themeFromFlag bool) (err error) {
	// Create a temporary stdout logger for bootstrap errors
	tempLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	defer func() {
		if r := recover(); r != nil {
			tempLogger.Error("panic recovered",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	tempLogger.Info("starting accordion demo")

	fyneApp := app.NewWithID("com.roboaccordion.demo")

	// Saved preferences win over the config file unless a flag was given
	if !durationFromFlag {
		cfg.Duration = demoApp.Duration(settings.SavedDuration(fyneApp, time.Duration(cfg.Duration)))
	}
	if !themeFromFlag {
		cfg.Theme = ui.SavedTheme(fyneApp, cfg.Theme)
	}
	ui.ApplyTheme(fyneApp, cfg.Theme)

	demo, err := demoApp.New(fyneApp, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	mainWindow := ui.NewMainWindow(demo.FyneApp(), demo)

	// Run the application (blocking)
	demo.Run(mainWindow.Window())

	demo.Logger().Info("application shutdown complete")
	return nil
}
