// Package cmd wires the command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codegraph/internal/analyzer"
	"codegraph/internal/config"
	"codegraph/internal/walker"
)

var (
	cfgPath string
	verbose bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "codegraph",
	Short: "Builds dependency graphs of codebases",
	Long: `codegraph analyzes a codebase into a graph of files, functions,
classes, components, imports and exports, with edges for imports, exports,
definitions, calls and component usage.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}

		logCfg := zap.NewProductionConfig()
		if verbose {
			logCfg = zap.NewDevelopmentConfig()
		}
		// stdout carries command output; logs go to stderr
		logCfg.OutputPaths = []string{"stderr"}
		logger, err = logCfg.Build()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newWalker() *walker.Walker {
	return walker.New(logger, cfg.IgnorePatterns)
}

func newAnalyzer() *analyzer.Analyzer {
	return analyzer.New(logger, analyzer.Options{
		Workers:     cfg.Workers,
		MaxFileSize: cfg.MaxFileSize,
	})
}
