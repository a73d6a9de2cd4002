package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/naka-gawa/stale-stars/internal/config"
	"github.com/naka-gawa/stale-stars/internal/domain"
	"github.com/naka-gawa/stale-stars/internal/gateway"
	"github.com/naka-gawa/stale-stars/internal/usecase"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errInterrupted marks a run stopped by SIGINT or SIGTERM.
var errInterrupted = errors.New("analysis interrupted by user")

// bindLocalFlags binds the flags of the running command only, so commands
// can share flag names with different defaults.
func bindLocalFlags(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.LocalNonPersistentFlags()); err != nil {
		return fmt.Errorf("error binding %s flags: %w", cmd.Name(), err)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger discards all logs unless verbose is set.
func newLogger(verbose bool) *log.Logger {
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func useColor(cfg *config.Config) bool {
	return cfg.Color && !color.NoColor
}

func loadReferences(cfg *config.Config) ([]domain.Reference, error) {
	refs, err := usecase.LoadReferences(cfg.Readme, cfg.Host, cfg.Limit)
	if errors.Is(err, domain.ErrInputMissing) {
		return nil, fmt.Errorf("README file not found: %s", cfg.Readme)
	}
	return refs, err
}

// newFetcher builds the gateway of the configured backend. A missing token is
// only a warning.
func newFetcher(w io.Writer, cfg *config.Config, logger *log.Logger) (gateway.Fetcher, error) {
	if cfg.Token == "" {
		fmt.Fprintln(w, "Warning: No GitHub token provided. Rate limits will be very restrictive.")
		fmt.Fprintln(w, "Consider setting GITHUB_TOKEN environment variable or using --token")
	}
	opts := gateway.Options{
		Token:              cfg.Token,
		BaseURL:            cfg.APIURL,
		GraphQLURL:         cfg.GraphQLURL,
		Timeout:            cfg.Timeout,
		WaitSecondaryLimit: cfg.WaitSecondaryLimit,
	}
	if cfg.Backend == config.BackendGraphQL {
		return gateway.NewGraphQLGateway(opts, logger)
	}
	return gateway.NewGitHubGateway(opts, logger)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
}

// runError turns a cancelled run into errInterrupted.
func runError(err error) error {
	if errors.Is(err, context.Canceled) {
		return errInterrupted
	}
	return fmt.Errorf("error during analysis: %w", err)
}
