package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/naka-gawa/stale-stars/internal/config"
	"github.com/naka-gawa/stale-stars/internal/report"
	"github.com/naka-gawa/stale-stars/internal/usecase"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var focusedCmd = &cobra.Command{
	Use:   "focused",
	Short: "Scores the README in batches and reports archived and missing repositories",
	Long: `Processes the repositories in batches with a pause between batches.

Archived repositories are reported separately whatever their score, and
repositories that no longer exist are listed as missing. The report is always
saved as a timestamped JSON file in --output-dir unless --output is given.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		viper.SetDefault("delay", config.DefaultFocusedDelay)
		return bindLocalFlags(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.Verbose)
		out := cmd.OutOrStdout()

		refs, err := loadReferences(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "🔍 Found %d unique repositories\n", len(refs))

		fetcher, err := newFetcher(out, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}

		outputFile := cfg.Output
		if outputFile == "" {
			outputFile = usecase.FocusedOutputPath(cfg.OutputDir, time.Now())
		}

		ctx, stop := signalContext()
		defer stop()

		analyzer := usecase.NewAnalyzer(fetcher, logger, usecase.Options{
			Host:       cfg.Host,
			Delay:      cfg.Delay,
			BatchSize:  cfg.BatchSize,
			BatchPause: cfg.BatchPause,
			Progress:   report.NewConsoleProgress(out, useColor(cfg)),
		})

		results, err := analyzer.AnalyzeFocused(ctx, refs, outputFile)
		if err != nil {
			return runError(err)
		}
		fmt.Fprintf(out, "\n💾 Results saved to: %s\n", outputFile)

		if cfg.Markdown != "" {
			err := report.WriteMarkdownFile(cfg.Markdown, func(w io.Writer) error {
				return report.WriteFocusedMarkdown(w, results, cfg.Top)
			})
			if err != nil {
				return fmt.Errorf("failed to write markdown report: %w", err)
			}
			fmt.Fprintf(out, "📝 Markdown report saved to: %s\n", cfg.Markdown)
		}

		return report.PrintFocusedSummary(out, results, outputFile, report.PrintOptions{Top: cfg.Top, UseColor: useColor(cfg)})
	},
}

func init() {
	focusedCmd.Flags().String("output-dir", ".", "Directory of the timestamped JSON report")
	focusedCmd.Flags().String("output", "", "Explicit JSON report path (overrides --output-dir)")
	focusedCmd.Flags().String("markdown", "", "Optional Markdown report path")
	focusedCmd.Flags().Int("top", config.DefaultTop, "Number of repositories listed per section")
	focusedCmd.Flags().Duration("delay", config.DefaultFocusedDelay, "Pause between consecutive repositories")
	focusedCmd.Flags().Int("batch-size", config.DefaultBatchSize, "Repositories per batch")
	focusedCmd.Flags().Duration("batch-pause", config.DefaultBatchPause, "Pause between batches")
}
