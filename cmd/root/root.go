// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/sms-ledger/internal/config"
	"fjacquet/sms-ledger/internal/container"
	"fjacquet/sms-ledger/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppConfig is the configuration loaded before any subcommand runs.
	AppConfig *config.Config

	// AppContainer holds the wired application dependencies.
	AppContainer *container.Container

	// ConfigFile is an explicit configuration file given with --config.
	ConfigFile string

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "sms-ledger",
		Short: "Parse Indian bank SMS alerts into categorized transactions.",
		Long: `sms-ledger turns transaction SMS from Indian banks and payment apps
(UPI, card, net banking) into structured, categorized transactions.

It parses single messages, converts CSV batches, runs the built-in sample
messages as a self-test and serves an HTTP API that stores parsed
transactions per user.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to sms-ledger!")
			Log.Info("Use --help to see available commands")
		},
		SilenceUsage:      true,
		PersistentPreRunE: initialize,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.Warnf("Failed to close container: %v", err)
			}
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	flags := Cmd.PersistentFlags()
	flags.StringVar(&ConfigFile, "config", "", "Config file (default searches $HOME/.sms-ledger, .sms-ledger and .)")
	flags.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")
	flags.String("timezone", "Asia/Kolkata", "IANA time zone of SMS dates")
	flags.String("store-driver", "sqlite", "Transaction store driver (sqlite, memory)")
	flags.String("store-path", "sms-ledger.db", "SQLite database file")
	flags.String("rules-file", "", "YAML file replacing the built-in category keywords")
}

func initialize(cmd *cobra.Command, args []string) error {
	if _, err := config.LoadEnv(); err != nil {
		Log.Warnf("Failed to load .env file: %v", err)
	}

	// InheritedFlags merges persistent flags into cmd.Flags().
	flags := cmd.Flags()
	flags.AddFlagSet(cmd.InheritedFlags())

	cfg, err := config.Load(ConfigFile, flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	AppConfig = cfg
	Log = config.ConfigureLoggingFromConfig(cfg)

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	AppContainer = c
	return nil
}

// GetLogrusAdapter returns the container logger, or an adapter over Log
// before the container exists.
func GetLogrusAdapter() logging.Logger {
	if AppContainer != nil {
		return AppContainer.GetLogger()
	}
	return logging.NewLogrusAdapterFromLogger(Log)
}

// GetContainer returns the application container, nil before initialization.
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the loaded configuration, falling back to defaults.
func GetConfig() *config.Config {
	if AppConfig != nil {
		return AppConfig
	}
	return config.Default()
}

// MustContainer returns the application container or an error for commands
// run without initialization.
func MustContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("container not initialized")
	}
	return AppContainer, nil
}
