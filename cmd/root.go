package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lattice-surgery/lsqecc/lattice"
	"github.com/lattice-surgery/lsqecc/lattice/trace"
)

var (
	// CLI flags for the compile command
	configPath string // Scheduler configuration YAML (defaults when empty)
	logLevel   string // Log verbosity level
	traceLevel string // Decision trace level: none or decisions
	workers    int    // Maximum number of assemblies compiled at once
	jsonOutput bool   // Print reports as JSON instead of text
	metricsOut string // Prometheus textfile to write compile metrics to
	watch      bool   // Recompile assemblies whenever they change
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "lsqecc",
	Short: "Lattice surgery patch computation scheduler",
}

// compileCmd schedules one or more assembly files into slice timelines
var compileCmd = &cobra.Command{
	Use:   "compile ASSEMBLY.yaml...",
	Short: "Compile logical lattice assemblies into patch slice timelines",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s (valid: none, decisions)", traceLevel)
		}
		if workers < 1 {
			logrus.Fatalf("--workers must be at least 1, got %d", workers)
		}

		cfg := lattice.DefaultSchedulerConfig()
		if configPath != "" {
			cfg, err = lattice.LoadSchedulerConfig(configPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		opts := compileOptions{
			Config:     cfg,
			TraceLevel: trace.TraceLevel(traceLevel),
			Workers:    workers,
		}
		out := newReportWriter(cmd.OutOrStdout(), jsonOutput)
		var metrics *metricsSink
		if metricsOut != "" {
			metrics = newMetricsSink(metricsOut)
		}

		compile := func(paths []string) error {
			runID := uuid.NewString()
			logrus.Infof("Compiling %d assemblies (run %s)", len(paths), runID)
			reports, err := compileAll(ctx, paths, runID, opts)
			if err != nil {
				return err
			}
			if err := out.write(reports); err != nil {
				return err
			}
			if metrics != nil {
				return metrics.record(reports)
			}
			return nil
		}

		if err := compile(args); err != nil {
			logrus.Fatalf("%v", err)
		}
		if !watch {
			return
		}
		logrus.Infof("Watching %d assemblies for changes", len(args))
		if err := watchAssemblies(ctx, args, compile); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	compileCmd.Flags().StringVar(&configPath, "config", "", "Scheduler configuration YAML file")
	compileCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	compileCmd.Flags().StringVar(&traceLevel, "trace", "none", "Decision trace level (none, decisions)")
	compileCmd.Flags().IntVar(&workers, "workers", 4, "Maximum number of assemblies compiled concurrently")
	compileCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print one JSON report per assembly")
	compileCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write compile metrics to this Prometheus textfile")
	compileCmd.Flags().BoolVar(&watch, "watch", false, "Recompile an assembly whenever its file changes")

	// Attach `compile` as a subcommand to `root`
	rootCmd.AddCommand(compileCmd)
}
