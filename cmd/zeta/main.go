package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jfbinTECHA/zetav10/internal/config"
	"github.com/jfbinTECHA/zetav10/internal/persona"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "zeta",
	Short: "zeta - multi-persona conversational assistant",
	Long: `zeta is a conversational assistant with specialist personas, a
per-persona knowledge store, and an autonomous background learner.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		zapCfg := zap.NewProductionConfig()
		if cfg.Logging.Development {
			zapCfg = zap.NewDevelopmentConfig()
		}
		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(parsed)
		// Keep stdout clean for the chat transcript.
		zapCfg.OutputPaths = []string{"stderr"}

		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

// personasCmd lists the persona catalog
var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List available personas",
	Run: func(cmd *cobra.Command, args []string) {
		registry := persona.NewRegistry()
		for _, key := range registry.Keys() {
			p := registry.Resolve(key)
			fmt.Printf("%-8s %s - %s\n", p.Key, p.Name, p.Role)
		}
	},
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("zeta v1.0.0")
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(personasCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
