// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/naka-gawa/stale-stars/internal/domain"
)

// DefaultUserAgent is sent with every request.
const DefaultUserAgent = "stale-stars-analyzer"

// Fetcher defines the behavior of a gateway for fetching repository information.
type Fetcher interface {
	// FetchRepository returns the metadata of ref, or a *domain.FetchError.
	FetchRepository(ctx context.Context, ref domain.Reference) (*domain.RepositoryMetadata, error)
	// FetchLatestRelease reports false when ref has no release or the lookup failed.
	FetchLatestRelease(ctx context.Context, ref domain.Reference) (domain.Release, bool)
}

// Options configures the HTTP client shared by both gateways.
type Options struct {
	// Token is sent as a bearer token when non-empty.
	Token string
	// BaseURL overrides the REST API root (GitHub Enterprise, tests).
	BaseURL string
	// GraphQLURL overrides the GraphQL endpoint.
	GraphQLURL string
	UserAgent  string
	// Timeout of zero means no client timeout.
	Timeout time.Duration
	// WaitSecondaryLimit sleeps through secondary rate limits instead of failing.
	WaitSecondaryLimit bool
}

// newHTTPClient builds the transport chain: rate limit waiter (optional),
// then oauth2 token injection (optional).
func newHTTPClient(opts Options) (*http.Client, error) {
	var transport http.RoundTripper = http.DefaultTransport
	if opts.WaitSecondaryLimit {
		rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(transport, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
		}
		transport = rateLimitWaiter
	}
	if opts.Token != "" {
		transport = &oauth2.Transport{
			Base:   transport,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
		}
	}
	return &http.Client{Transport: transport, Timeout: opts.Timeout}, nil
}

// GitHubGateway fetches repositories through the REST API.
type GitHubGateway struct {
	restClient *github.Client
	logger     *log.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options, logger *log.Logger) (*GitHubGateway, error) {
	httpClient, err := newHTTPClient(opts)
	if err != nil {
		return nil, err
	}
	restClient := github.NewClient(httpClient)
	restClient.UserAgent = DefaultUserAgent
	if opts.UserAgent != "" {
		restClient.UserAgent = opts.UserAgent
	}
	if opts.BaseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL %q: %w", opts.BaseURL, err)
		}
		restClient.BaseURL = baseURL
	}
	return &GitHubGateway{restClient: restClient, logger: logger}, nil
}

// FetchRepository issues GET /repos/{owner}/{name}.
func (g *GitHubGateway) FetchRepository(ctx context.Context, ref domain.Reference) (*domain.RepositoryMetadata, error) {
	g.logger.Printf("Fetching repository %s using REST API...", ref)
	repo, resp, err := g.restClient.Repositories.Get(ctx, ref.Owner, ref.Name)
	if err != nil {
		fetchErr := classifyRESTError(resp, err)
		g.logger.Printf("  %s: %v (%s)", ref, err, fetchErr.Kind)
		return nil, fetchErr
	}
	return metadataFromREST(repo), nil
}

// FetchLatestRelease issues GET /repos/{owner}/{name}/releases/latest.
func (g *GitHubGateway) FetchLatestRelease(ctx context.Context, ref domain.Reference) (domain.Release, bool) {
	release, _, err := g.restClient.Repositories.GetLatestRelease(ctx, ref.Owner, ref.Name)
	if err != nil {
		g.logger.Printf("  No release for %s: %v", ref, err)
		return domain.Release{}, false
	}
	out := domain.Release{
		TagName: release.GetTagName(),
		Name:    release.GetName(),
		URL:     release.GetHTMLURL(),
	}
	if release.PublishedAt != nil {
		t := release.PublishedAt.Time
		out.PublishedAt = &t
	}
	return out, true
}

func classifyRESTError(resp *github.Response, err error) *domain.FetchError {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return domain.NewFetchError(http.StatusForbidden, err)
	}
	if resp != nil && resp.Response != nil {
		return domain.NewFetchError(resp.StatusCode, err)
	}
	return domain.NewFetchError(0, err)
}

func metadataFromREST(repo *github.Repository) *domain.RepositoryMetadata {
	meta := &domain.RepositoryMetadata{
		Archived:    repo.GetArchived(),
		Fork:        repo.GetFork(),
		Stars:       repo.GetStargazersCount(),
		Description: repo.GetDescription(),
		Language:    repo.GetLanguage(),
	}
	if repo.PushedAt != nil {
		t := repo.PushedAt.Time
		meta.PushedAt = &t
	}
	if repo.CreatedAt != nil {
		t := repo.CreatedAt.Time
		meta.CreatedAt = &t
	}
	return meta
}
