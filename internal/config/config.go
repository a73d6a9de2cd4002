// Package config resolves the run configuration from defaults, an optional
// config file, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/naka-gawa/stale-stars/internal/domain"
	"github.com/spf13/viper"
)

// Backend selects the API used to fetch repositories.
type Backend string

const (
	BackendREST    Backend = "rest"
	BackendGraphQL Backend = "graphql"
)

// Defaults.
const (
	DefaultReadme       = "README.md"
	DefaultDelay        = 100 * time.Millisecond
	DefaultFocusedDelay = 50 * time.Millisecond
	DefaultBatchSize    = 50
	DefaultBatchPause   = 2 * time.Second
	DefaultTop          = 10

	// EnvPrefix prefixes every environment variable, e.g. STALE_STARS_DELAY.
	EnvPrefix = "STALE_STARS"
	// TokenEnv is the fallback variable for the API token.
	TokenEnv = "GITHUB_TOKEN"
	// FileName is the config file searched in the working and home directories.
	FileName = ".stale-stars"
)

// Config holds the application configuration.
type Config struct {
	Readme    string
	Output    string
	OutputDir string
	Markdown  string
	Limit     int
	Top       int

	Token              string
	Host               string
	APIURL             string
	GraphQLURL         string
	Backend            Backend
	Timeout            time.Duration
	WaitSecondaryLimit bool
	Releases           bool

	Delay      time.Duration
	BatchSize  int
	BatchPause time.Duration

	Color   bool
	Verbose bool
}

// SetDefaults registers the defaults of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("readme", DefaultReadme)
	v.SetDefault("output-dir", ".")
	v.SetDefault("host", domain.DefaultHost)
	v.SetDefault("backend", string(BackendREST))
	v.SetDefault("delay", DefaultDelay)
	v.SetDefault("batch-size", DefaultBatchSize)
	v.SetDefault("batch-pause", DefaultBatchPause)
	v.SetDefault("top", DefaultTop)
	v.SetDefault("color", true)
}

// ConfigureEnv makes v read STALE_STARS_* variables, with GITHUB_TOKEN as a
// fallback for the token.
func ConfigureEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v.BindEnv("token", EnvPrefix+"_TOKEN", TokenEnv)
}

// ReadConfigFile loads path, or searches for FileName when path is empty.
// A missing config file is not an error.
func ReadConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Load builds a validated Config from the values resolved by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Readme:             v.GetString("readme"),
		Output:             v.GetString("output"),
		OutputDir:          v.GetString("output-dir"),
		Markdown:           v.GetString("markdown"),
		Limit:              v.GetInt("limit"),
		Top:                v.GetInt("top"),
		Token:              strings.TrimSpace(v.GetString("token")),
		Host:               v.GetString("host"),
		APIURL:             v.GetString("api-url"),
		GraphQLURL:         v.GetString("graphql-url"),
		Backend:            Backend(strings.ToLower(v.GetString("backend"))),
		Timeout:            v.GetDuration("timeout"),
		WaitSecondaryLimit: v.GetBool("wait-secondary-limit"),
		Releases:           v.GetBool("releases"),
		Delay:              v.GetDuration("delay"),
		BatchSize:          v.GetInt("batch-size"),
		BatchPause:         v.GetDuration("batch-pause"),
		Color:              v.GetBool("color"),
		Verbose:            v.GetBool("verbose"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.Readme == "" {
		errs = append(errs, errors.New("readme path must not be empty"))
	}
	if c.Host == "" {
		errs = append(errs, errors.New("host must not be empty"))
	}
	switch c.Backend {
	case BackendREST, BackendGraphQL:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendREST, BackendGraphQL))
	}
	if c.Delay < 0 || c.BatchPause < 0 || c.Timeout < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch-size must be positive, got %d", c.BatchSize))
	}
	if c.Limit < 0 || c.Top < 0 {
		errs = append(errs, errors.New("limit and top must not be negative"))
	}
	return errors.Join(errs...)
}
