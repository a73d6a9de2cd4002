package cmd

import (
	"fmt"
	"io"

	"github.com/naka-gawa/stale-stars/internal/config"
	"github.com/naka-gawa/stale-stars/internal/report"
	"github.com/naka-gawa/stale-stars/internal/usecase"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Scores every repository of the README and prints a summary",
	Long: `Extracts the repository links of the README, fetches each repository one
after another and files it as stale, possibly stale, active or error.

The full report is written as JSON when --output is given.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return bindLocalFlags(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.Verbose)
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Extracting repositories from README...")
		refs, err := loadReferences(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Found %d unique repositories\n", len(refs))

		fetcher, err := newFetcher(out, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}

		ctx, stop := signalContext()
		defer stop()

		analyzer := usecase.NewAnalyzer(fetcher, logger, usecase.Options{
			Host:          cfg.Host,
			Delay:         cfg.Delay,
			FetchReleases: cfg.Releases,
			Progress:      report.NewConsoleProgress(out, useColor(cfg)),
		})

		fmt.Fprintln(out, "\nAnalyzing repositories...")
		results, err := analyzer.Analyze(ctx, refs, cfg.Output)
		if err != nil {
			return runError(err)
		}
		if cfg.Output != "" {
			fmt.Fprintf(out, "\nResults saved to %s\n", cfg.Output)
		}

		if err := report.PrintAnalysisSummary(out, results, report.PrintOptions{Top: cfg.Top, UseColor: useColor(cfg)}); err != nil {
			return err
		}
		if cfg.Markdown != "" {
			err := report.WriteMarkdownFile(cfg.Markdown, func(w io.Writer) error {
				return report.WriteAnalysisMarkdown(w, results, cfg.Top)
			})
			if err != nil {
				return fmt.Errorf("failed to write markdown report: %w", err)
			}
			fmt.Fprintf(out, "Markdown report saved to %s\n", cfg.Markdown)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("output", "", "Output JSON file path")
	analyzeCmd.Flags().String("markdown", "", "Optional Markdown report path")
	analyzeCmd.Flags().Int("limit", 0, "Only consider the first N links of the README (0 = all)")
	analyzeCmd.Flags().Int("top", config.DefaultTop, "Number of repositories listed per section")
	analyzeCmd.Flags().Duration("delay", config.DefaultDelay, "Pause between consecutive repositories")
	analyzeCmd.Flags().Bool("releases", false, "Also record the latest release of every repository")
}
