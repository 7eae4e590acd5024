package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rpgo/pension-planner/internal/api"
	"github.com/rpgo/pension-planner/internal/calculation"
	"github.com/rpgo/pension-planner/internal/config"
	"github.com/rpgo/pension-planner/internal/domain"
	"github.com/rpgo/pension-planner/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var logger zerolog.Logger

// zerologEngineLogger adapts the engine's Logger interface onto zerolog.
type zerologEngineLogger struct {
	l zerolog.Logger
}

func (z zerologEngineLogger) Debugf(format string, args ...any) {
	z.l.Debug().Msgf(format, args...)
}
func (z zerologEngineLogger) Infof(format string, args ...any) {
	z.l.Info().Msgf(format, args...)
}
func (z zerologEngineLogger) Warnf(format string, args ...any) {
	z.l.Warn().Msgf(format, args...)
}
func (z zerologEngineLogger) Errorf(format string, args ...any) {
	z.l.Error().Msgf(format, args...)
}

var rootCmd = &cobra.Command{
	Use:   "pensionplan",
	Short: "Retirement income projection calculator",
	Long:  "Projects pension, ISA, equity release, defined benefit and dividend income at retirement from a YAML plan",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	},
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [plan-file]",
	Short: "Run a retirement projection from a plan file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := config.NewInputParser()
		plan, err := parser.LoadFromFile(args[0])
		if err != nil {
			return err
		}

		asOf := time.Now()
		if asOfFlag, _ := cmd.Flags().GetString("as-of"); asOfFlag != "" {
			asOf, err = time.Parse("2006-01-02", asOfFlag)
			if err != nil {
				return fmt.Errorf("invalid --as-of date %q: %w", asOfFlag, err)
			}
		}

		engine := calculation.NewProjectionEngine()
		if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
			engine.SetLogger(zerologEngineLogger{l: logger})
		}
		projection, err := engine.Project(plan, asOf)
		if err != nil {
			return err
		}

		report := &domain.ProjectionReport{
			Plan:        plan,
			Projection:  projection,
			Assumptions: plan.DescribeAssumptions(),
		}

		format, _ := cmd.Flags().GetString("format")
		formatter := output.GetFormatterByName(format)
		if formatter == nil {
			return fmt.Errorf("unknown format %q (available: %s)",
				format, strings.Join(output.AvailableFormatterNames(), ", "))
		}

		if toFile, _ := cmd.Flags().GetBool("out"); toFile {
			filename, err := output.WriteFormatted(formatter, report, output.FileExtension(format))
			if err != nil {
				return err
			}
			logger.Info().Str("file", filename).Msg("report written")
			return nil
		}

		data, err := formatter.Format(report)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [plan-file]",
	Short: "Validate a plan file without running the projection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := config.NewInputParser()
		if _, err := parser.LoadFromFile(args[0]); err != nil {
			return err
		}
		fmt.Printf("Plan file %s is valid\n", args[0])
		return nil
	},
}

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print an example plan file",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.WriteExamplePlan()
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve projections over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		return api.NewServer(logger).ListenAndServe(addr)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "pensionplan %s (commit %s, built %s)\n", version, commit, date)
		if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
			fmt.Fprintln(os.Stdout, "go:", bi.GoVersion)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	calculateCmd.Flags().StringP("format", "f", "console", "Output format (console, csv, json, pdf)")
	calculateCmd.Flags().Bool("out", false, "Write the report to a timestamped file instead of stdout")
	calculateCmd.Flags().String("as-of", "", "Reference date for the projection (YYYY-MM-DD, defaults to today)")

	serveCmd.Flags().String("addr", ":8080", "Listen address")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exampleCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
