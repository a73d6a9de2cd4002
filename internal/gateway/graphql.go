package gateway

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/naka-gawa/stale-stars/internal/domain"
	"github.com/shurcooL/githubv4"
)

// statusPattern extracts the HTTP status from the graphql client's non-200 error.
var statusPattern = regexp.MustCompile(`non-200 OK status code: (\d+)`)

// repositoryQuery selects the fields of a single repository.
type repositoryQuery struct {
	Repository struct {
		IsArchived      bool
		IsFork          bool
		PushedAt        *githubv4.DateTime
		CreatedAt       *githubv4.DateTime
		StargazerCount  int
		Description     *string
		PrimaryLanguage *struct {
			Name string
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// latestReleaseQuery selects the latest release of a repository.
type latestReleaseQuery struct {
	Repository struct {
		LatestRelease *struct {
			TagName     string
			Name        *string
			PublishedAt *githubv4.DateTime
			URL         string `graphql:"url"`
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// GraphQLGateway fetches repositories through the GraphQL API.
// The GraphQL API rejects anonymous requests, so a token is effectively required.
type GraphQLGateway struct {
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// NewGraphQLGateway creates a GraphQLGateway.
func NewGraphQLGateway(opts Options, logger *log.Logger) (*GraphQLGateway, error) {
	httpClient, err := newHTTPClient(opts)
	if err != nil {
		return nil, err
	}
	client := githubv4.NewClient(httpClient)
	if opts.GraphQLURL != "" {
		client = githubv4.NewEnterpriseClient(opts.GraphQLURL, httpClient)
	}
	return &GraphQLGateway{graphqlClient: client, logger: logger}, nil
}

func refVariables(ref domain.Reference) map[string]interface{} {
	return map[string]interface{}{
		"owner": githubv4.String(ref.Owner),
		"name":  githubv4.String(ref.Name),
	}
}

// FetchRepository runs one repository query for ref.
func (g *GraphQLGateway) FetchRepository(ctx context.Context, ref domain.Reference) (*domain.RepositoryMetadata, error) {
	g.logger.Printf("Fetching repository %s using GraphQL API...", ref)
	var q repositoryQuery
	if err := g.graphqlClient.Query(ctx, &q, refVariables(ref)); err != nil {
		fetchErr := classifyGraphQLError(err)
		g.logger.Printf("  %s: %v (%s)", ref, err, fetchErr.Kind)
		return nil, fetchErr
	}

	r := q.Repository
	meta := &domain.RepositoryMetadata{
		Archived: r.IsArchived,
		Fork:     r.IsFork,
		Stars:    r.StargazerCount,
	}
	if r.PushedAt != nil {
		t := r.PushedAt.Time
		meta.PushedAt = &t
	}
	if r.CreatedAt != nil {
		t := r.CreatedAt.Time
		meta.CreatedAt = &t
	}
	if r.Description != nil {
		meta.Description = *r.Description
	}
	if r.PrimaryLanguage != nil {
		meta.Language = r.PrimaryLanguage.Name
	}
	return meta, nil
}

// FetchLatestRelease runs the latest release query for ref.
func (g *GraphQLGateway) FetchLatestRelease(ctx context.Context, ref domain.Reference) (domain.Release, bool) {
	var q latestReleaseQuery
	if err := g.graphqlClient.Query(ctx, &q, refVariables(ref)); err != nil {
		g.logger.Printf("  No release for %s: %v", ref, err)
		return domain.Release{}, false
	}
	rel := q.Repository.LatestRelease
	if rel == nil {
		return domain.Release{}, false
	}
	out := domain.Release{TagName: rel.TagName, URL: rel.URL}
	if rel.Name != nil {
		out.Name = *rel.Name
	}
	if rel.PublishedAt != nil {
		t := rel.PublishedAt.Time
		out.PublishedAt = &t
	}
	return out, true
}

func classifyGraphQLError(err error) *domain.FetchError {
	msg := err.Error()
	if strings.Contains(msg, "Could not resolve to a Repository") {
		return domain.NewFetchError(404, err)
	}
	if m := statusPattern.FindStringSubmatch(msg); m != nil {
		code, _ := strconv.Atoi(m[1])
		return domain.NewFetchError(code, err)
	}
	return domain.NewFetchError(0, err)
}
