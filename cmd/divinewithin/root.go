package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"divinewithin/internal/logging"
	"divinewithin/internal/storage"
	"divinewithin/internal/ui/preferences"
)

const appName = "DivineWithin"

var (
	version      = "dev"
	settingsPath string
	logLevel     string
	logFormat    string
)

// rootCmd runs the tray application when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "divinewithin",
	Short: "Divine Within - meditation and breathwork timer",
	Long: `Divine Within times meditation and breathwork sessions. Without a
subcommand it runs in the system tray; meditate and breathe run a session
in the terminal.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runTray,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&settingsPath, "settings", "s", "", "Path to settings file (defaults to the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadSettings reads the settings file and applies logging flag overrides.
func loadSettings() (preferences.Settings, string, error) {
	path := settingsPath
	if path == "" {
		resolved, err := storage.SettingsPath(appName)
		if err != nil {
			return preferences.DefaultSettings(), "", err
		}
		path = resolved
	}

	settings, err := storage.LoadSettings(path)
	if err != nil {
		return settings, path, err
	}
	if logLevel != "" {
		settings.LogLevel = logLevel
	}
	if logFormat != "" {
		settings.LogFormat = logFormat
	}
	return settings, path, nil
}

func newLogger(settings preferences.Settings, out io.Writer) zerolog.Logger {
	return logging.New(settings.LogLevel, settings.LogFormat, out).
		With().Str("app", appName).Logger()
}
