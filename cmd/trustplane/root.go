package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trustplane/trustplane/internal/adapters/logging"
	"github.com/trustplane/trustplane/internal/domain/config"
	"github.com/trustplane/trustplane/internal/domain/trust"
	"github.com/trustplane/trustplane/internal/ports"
)

// Global flags.
var (
	cfgFile   string
	storePath string
	verbose   bool
	logJSON   bool
)

var rootCmd = &cobra.Command{
	Use:   "trustplane",
	Short: "Plugin trust evaluation for plugin-loading hosts",
	Long: `Trustplane decides whether third-party plugins may be trusted before a
host loads them. It combines an allow/deny policy, Ed25519 signature
verification, and a periodically refreshed set of signing keys.

The decision levels are:
  trusted            - the plugin may load without prompting
  requires-approval  - the host must obtain explicit user confirmation
  untrusted          - the plugin must be refused`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.trustplane/config.toml)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "trust snapshot file (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")

	rootCmd.AddCommand(versionCmd)
}

// printError prints an error message to stderr.
func printError(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
}

// loadConfig reads the config file, honoring the --config flag.
func loadConfig() (config.Config, error) {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if storePath != "" {
		cfg.StorePath = storePath
	}
	return cfg, nil
}

// newLogger builds the CLI logger from flags and config.
func newLogger(cfg config.Config) ports.Logger {
	level := ports.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = ports.LevelDebug
	case "warn":
		level = ports.LevelWarn
	case "error":
		level = ports.LevelError
	}
	if verbose {
		level = ports.LevelDebug
	}

	opts := []logging.Option{logging.WithLevel(level)}
	if logJSON || cfg.LogJSON {
		opts = append(opts, logging.WithJSON())
	}
	return logging.NewConsoleLogger(opts...)
}

// openStore returns the file-backed trust store from config.
func openStore() (*trust.FileStore, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, config.Config{}, err
	}
	return trust.NewFileStore(cfg.StorePath), cfg, nil
}

// newEvaluator builds an evaluator over the file-backed store.
func newEvaluator() (*trust.Evaluator, config.Config, error) {
	store, cfg, err := openStore()
	if err != nil {
		return nil, config.Config{}, err
	}
	return trust.NewEvaluator(store, trust.WithLogger(newLogger(cfg))), cfg, nil
}
