package github

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/samber/lo"
	githubql "github.com/shurcooL/githubv4"
	"golang.org/x/xerrors"

	"github.com/depaudit/depaudit/source"
	"github.com/depaudit/depaudit/utils"
)

const (
	defaultRawBaseURL = "https://raw.githubusercontent.com"

	concurrency = 5
	wait        = 0
	retry       = 3
)

var repoURLRegexp = regexp.MustCompile(`(?:https?://)?github\.com/([^/]+)/([^/]+)`)

type GithubClient interface {
	Query(ctx context.Context, q interface{}, variables map[string]interface{}) error
}

// RepoTreeQuery lists the root tree of the default branch. Matching
// directories are expanded one level through the nested tree selection.
type RepoTreeQuery struct {
	Repository struct {
		Object struct {
			Tree Tree `graphql:"... on Tree"`
		} `graphql:"object(expression: $expression)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

type Tree struct {
	Entries []TreeEntry
}

type TreeEntry struct {
	Name   string
	Type   string
	Object struct {
		Tree SubTree `graphql:"... on Tree"`
	}
}

type SubTree struct {
	Entries []struct {
		Name string
		Type string
	}
}

type options struct {
	rawBaseURL string
	retry      int
}

type option func(*options)

func WithRawBaseURL(url string) option {
	return func(opts *options) {
		opts.rawBaseURL = url
	}
}

func WithRetry(retry int) option {
	return func(opts *options) {
		opts.retry = retry
	}
}

// Config fetches requirement files of a GitHub repository: the file list
// over the GraphQL v4 API, the raw bodies from raw.githubusercontent.com.
type Config struct {
	owner  string
	name   string
	client GithubClient
	options
}

func NewConfig(repoURL string, client GithubClient, opts ...option) (Config, error) {
	m := repoURLRegexp.FindStringSubmatch(repoURL)
	if m == nil {
		return Config{}, xerrors.Errorf("unsupported repository URL: %s", repoURL)
	}

	o := &options{
		rawBaseURL: defaultRawBaseURL,
		retry:      retry,
	}
	for _, opt := range opts {
		opt(o)
	}

	return Config{
		owner:   m[1],
		name:    strings.TrimSuffix(m[2], ".git"),
		client:  client,
		options: *o,
	}, nil
}

func (c Config) FetchRequirementLines(ctx context.Context) ([]string, error) {
	files, err := c.searchRequirementFiles(ctx)
	if err != nil {
		return nil, xerrors.Errorf("failed to search requirement files: %w", err)
	}

	urls := lo.Uniq(lo.Map(files, func(file string, _ int) string {
		return fmt.Sprintf("%s/%s/%s/HEAD/%s", c.rawBaseURL, c.owner, c.name, file)
	}))
	if len(urls) == 0 {
		return nil, nil
	}

	bodies, err := utils.FetchConcurrently(urls, concurrency, wait, c.retry)
	if err != nil {
		return nil, xerrors.Errorf("failed to fetch requirement files: %w", err)
	}

	var lines []string
	for _, body := range bodies {
		lines = append(lines, source.SplitLines(string(body))...)
	}
	return lines, nil
}

func (c Config) searchRequirementFiles(ctx context.Context) ([]string, error) {
	var q RepoTreeQuery
	variables := map[string]interface{}{
		"owner":      githubql.String(c.owner),
		"name":       githubql.String(c.name),
		"expression": githubql.String("HEAD:"),
	}
	if err := c.client.Query(ctx, &q, variables); err != nil {
		return nil, xerrors.Errorf("graphql api error: %w", err)
	}

	var files []string
	for _, entry := range q.Repository.Object.Tree.Entries {
		if !source.NameMatches(entry.Name) {
			continue
		}
		switch entry.Type {
		case "blob":
			files = append(files, entry.Name)
		case "tree":
			// one level only, and only .txt manifests inside
			for _, sub := range entry.Object.Tree.Entries {
				if sub.Type == "blob" && strings.HasSuffix(sub.Name, ".txt") {
					files = append(files, path.Join(entry.Name, sub.Name))
				}
			}
		}
	}
	return files, nil
}
