// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/naka-gawa/stale-stars/internal/config"
	"github.com/naka-gawa/stale-stars/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Linker flags set at release build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the parent of every run context.
var rootCtx = context.Background()

// cfgFile is the explicit config file given with --config.
var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "stale-stars",
	Short: "A CLI tool to find stale repositories in an awesome list.",
	Long: `stale-stars scans an awesome-list README for GitHub repository links,
fetches the metadata of every repository and scores how stale it looks
(archived, fork, time since the last push, star count).

Results are printed as a summary and can be saved as JSON or Markdown.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	if errors.Is(err, errInterrupted) {
		fmt.Fprintln(os.Stderr, "\nAnalysis interrupted by user")
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(focusedCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("readme", config.DefaultReadme, "Path to the README to scan")
	rootCmd.PersistentFlags().String("token", "", "GitHub API token (or set GITHUB_TOKEN)")
	rootCmd.PersistentFlags().String("host", domain.DefaultHost, "Host of the repository links to extract")
	rootCmd.PersistentFlags().String("api-url", "", "REST API base URL (GitHub Enterprise)")
	rootCmd.PersistentFlags().String("graphql-url", "", "GraphQL endpoint (GitHub Enterprise)")
	rootCmd.PersistentFlags().String("backend", string(config.BackendREST), "API backend: rest or graphql")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP client timeout (0 = none)")
	rootCmd.PersistentFlags().Bool("wait-secondary-limit", false, "Sleep through secondary rate limits instead of failing")
	rootCmd.PersistentFlags().Bool("color", true, "Enable colored output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default ./.stale-stars.yaml or $HOME/.stale-stars.yaml)")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		log.Fatalf("Error binding root flags: %v", err)
	}
}

// initConfig layers the config file and environment under the flags.
func initConfig() {
	v := viper.GetViper()
	config.SetDefaults(v)
	if err := config.ConfigureEnv(v); err != nil {
		log.Fatalf("Error binding environment: %v", err)
	}
	if err := config.ReadConfigFile(v, cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
