// Package github fetches issues (with their comment threads) from GitHub
// repositories. Pull requests are excluded; they appear on the issues
// endpoint but are a different kind of object.
package github

import (
	"context"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/praxis-labs/recall/internal/core/domain"
	"github.com/praxis-labs/recall/internal/core/ports/driven"
	"github.com/praxis-labs/recall/internal/logger"
)

// ProviderName is the provider identifier for this connector.
const ProviderName = "github"

const (
	perPage = 100

	// requestsPerSecond keeps the connector under the authenticated REST
	// quota of 5000 requests per hour.
	requestsPerSecond = 1
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Connector fetches repository issues from GitHub.
type Connector struct {
	baseURL string
}

// Option configures a Connector.
type Option func(*Connector)

// WithBaseURL points the connector at a GitHub Enterprise or test server.
func WithBaseURL(url string) Option {
	return func(c *Connector) { c.baseURL = url }
}

// New creates a GitHub connector.
func New(opts ...Option) *Connector {
	c := &Connector{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the provider name this connector serves.
func (c *Connector) Provider() string {
	return ProviderName
}

// Fetch retrieves issues from the repositories named in the "repositories"
// credential field (comma-separated "owner/name"). When the field is absent
// the authenticated user's repositories are used.
func (c *Connector) Fetch(ctx context.Context, creds domain.CredentialMap) ([]domain.SourceItem, error) {
	token := creds.Get("token")
	if token == "" {
		return nil, fmt.Errorf("%w: github requires token", domain.ErrCredentialMissing)
	}

	client := gh.NewClient(oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})))
	if c.baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(c.baseURL, c.baseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: configuring base url: %w", domain.ErrConnectorFetch, err)
		}
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), perPage)

	repos, err := c.resolveRepos(ctx, client, limiter, creds.Get("repositories"))
	if err != nil {
		return nil, err
	}

	var items []domain.SourceItem
	for _, r := range repos {
		repoItems, err := fetchRepoIssues(ctx, client, limiter, r.owner, r.name)
		if err != nil {
			// One broken repository must not abort the whole fetch.
			logger.Warn("github: skipping %s/%s: %v", r.owner, r.name, err)
			continue
		}
		items = append(items, repoItems...)
	}

	return items, nil
}

type repoRef struct {
	owner string
	name  string
}

// resolveRepos parses the configured repository list, or lists the
// authenticated user's repositories when none is configured.
func (c *Connector) resolveRepos(
	ctx context.Context,
	client *gh.Client,
	limiter *rate.Limiter,
	configured string,
) ([]repoRef, error) {
	if configured != "" {
		var refs []repoRef
		for _, spec := range strings.Split(configured, ",") {
			spec = strings.TrimSpace(spec)
			owner, name, ok := strings.Cut(spec, "/")
			if !ok || owner == "" || name == "" {
				return nil, fmt.Errorf("%w: malformed repository %q, want owner/name", domain.ErrInvalidInput, spec)
			}
			refs = append(refs, repoRef{owner: owner, name: name})
		}
		return refs, nil
	}

	var refs []repoRef
	opts := &gh.RepositoryListByAuthenticatedUserOptions{
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		repos, resp, err := client.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: listing repositories: %w", domain.ErrConnectorFetch, err)
		}

		for _, r := range repos {
			if !r.GetHasIssues() {
				continue
			}
			refs = append(refs, repoRef{owner: r.GetOwner().GetLogin(), name: r.GetName()})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return refs, nil
}

// fetchRepoIssues retrieves all issues of one repository as source items.
func fetchRepoIssues(
	ctx context.Context,
	client *gh.Client,
	limiter *rate.Limiter,
	owner, name string,
) ([]domain.SourceItem, error) {
	var items []domain.SourceItem

	opts := &gh.IssueListByRepoOptions{
		State:       "all",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		issues, resp, err := client.Issues.ListByRepo(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: listing issues: %w", domain.ErrConnectorFetch, err)
		}

		for _, issue := range issues {
			// Pull requests show up on the issues endpoint too.
			if issue.IsPullRequest() {
				continue
			}

			comments, err := fetchComments(ctx, client, limiter, owner, name, issue.GetNumber())
			if err != nil {
				logger.Warn("github: comments unavailable for %s/%s#%d: %v", owner, name, issue.GetNumber(), err)
				comments = nil
			}

			items = append(items, domain.SourceItem{
				ExternalID: fmt.Sprintf("%s/%s#%d", owner, name, issue.GetNumber()),
				Title:      issue.GetTitle(),
				Text:       issueText(issue, comments),
				Metadata: domain.SourceMetadata{
					SourceApp: ProviderName,
					SourceURL: issue.GetHTMLURL(),
					Extra: map[string]string{
						"state":  issue.GetState(),
						"author": issue.GetUser().GetLogin(),
					},
				},
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.ListOptions.Page = resp.NextPage
	}

	return items, nil
}

// fetchComments retrieves the full comment thread of an issue.
func fetchComments(
	ctx context.Context,
	client *gh.Client,
	limiter *rate.Limiter,
	owner, name string,
	number int,
) ([]*gh.IssueComment, error) {
	var all []*gh.IssueComment

	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	}
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		comments, resp, err := client.Issues.ListComments(ctx, owner, name, number, opts)
		if err != nil {
			return nil, fmt.Errorf("list comments: %w", err)
		}

		all = append(all, comments...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// issueText flattens an issue and its comments into one retrievable text.
func issueText(issue *gh.Issue, comments []*gh.IssueComment) string {
	var sb strings.Builder
	sb.WriteString(issue.GetTitle())
	if body := strings.TrimSpace(issue.GetBody()); body != "" {
		sb.WriteString("\n\n" + body)
	}
	for _, c := range comments {
		body := strings.TrimSpace(c.GetBody())
		if body == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n\n%s: %s", c.GetUser().GetLogin(), body))
	}
	return sb.String()
}
