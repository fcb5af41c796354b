package sourcectl

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
)

type GitHubConfig struct {
	Token   string
	Owner   string
	Repo    string
	BaseURL string
}

// GitHub commits through the repository contents API.
type GitHub struct {
	client *github.Client
	owner  string
	repo   string
}

func NewGitHub(cfg GitHubConfig) (*GitHub, error) {
	if cfg.Token == "" || cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("%w: GITHUB_PAT, GITHUB_OWNER and GITHUB_REPO are required", ErrNotConfigured)
	}
	client := github.NewClient(nil).WithAuthToken(cfg.Token)
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		parsed, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse github api url: %w", err)
		}
		client.BaseURL = parsed
	}
	return &GitHub{client: client, owner: cfg.Owner, repo: cfg.Repo}, nil
}

func (g *GitHub) CommitFile(ctx context.Context, req CommitRequest) (CommitResult, error) {
	if err := validate(req); err != nil {
		return CommitResult{}, err
	}

	sha, err := g.currentSHA(ctx, req.Path, req.Branch)
	if err != nil {
		return CommitResult{}, err
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(req.Message),
		Content: req.Content,
		Branch:  github.String(req.Branch),
	}

	var (
		res  *github.RepositoryContentResponse
		resp *github.Response
	)
	if sha == "" {
		res, resp, err = g.client.Repositories.CreateFile(ctx, g.owner, g.repo, req.Path, opts)
	} else {
		opts.SHA = github.String(sha)
		res, resp, err = g.client.Repositories.UpdateFile(ctx, g.owner, g.repo, req.Path, opts)
	}
	if err != nil {
		return CommitResult{}, upstream("commit file", resp, err)
	}
	return CommitResult{SHA: res.Commit.GetSHA(), Created: sha == ""}, nil
}

// currentSHA returns the blob SHA of path on branch, or "" when the file does
// not exist yet.
func (g *GitHub) currentSHA(ctx context.Context, path, branch string) (string, error) {
	file, _, resp, err := g.client.Repositories.GetContents(ctx, g.owner, g.repo, path,
		&github.RepositoryContentGetOptions{Ref: branch})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", upstream("look up existing file", resp, err)
	}
	if file == nil {
		return "", fmt.Errorf("look up existing file: %s is a directory", path)
	}
	return file.GetSHA(), nil
}

func upstream(op string, resp *github.Response, err error) error {
	out := &UpstreamError{Op: op, Err: err}
	var apiErr *github.ErrorResponse
	if errors.As(err, &apiErr) {
		out.Message = apiErr.Message
		if apiErr.Response != nil {
			out.Status = apiErr.Response.StatusCode
		}
	} else if resp != nil {
		out.Status = resp.StatusCode
		out.Message = err.Error()
	}
	return out
}
