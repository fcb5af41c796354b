// Package deployhost reads deploy state from the site's hosting provider.
package deployhost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrNotConfigured = errors.New("deploy host not configured")
	ErrNoDeploys     = errors.New("no deploys found")
)

const DefaultAPIURL = "https://api.netlify.com/api/v1"

type Deploy struct {
	DeployID    string `json:"deployId"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
	PublishedAt string `json:"publishedAt"`
	CommitRef   string `json:"commitRef"`
	Context     string `json:"context"`
}

// UpstreamError is a non-2xx answer from the provider.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("deploy host returned %d: %s", e.Status, e.Message)
}

type Netlify struct {
	baseURL string
	token   string
	siteID  string
	http    *http.Client
}

func NewNetlify(baseURL, token, siteID string) *Netlify {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Netlify{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		siteID:  siteID,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type netlifyDeploy struct {
	ID           string  `json:"id"`
	State        string  `json:"state"`
	CreatedAt    string  `json:"created_at"`
	PublishedAt  *string `json:"published_at"`
	CommitRef    *string `json:"commit_ref"`
	Context      string  `json:"context"`
	ErrorMessage *string `json:"error_message"`
}

// LatestDeploy returns the most recent deploy of the configured site.
func (n *Netlify) LatestDeploy(ctx context.Context) (Deploy, error) {
	if n.token == "" || n.siteID == "" {
		return Deploy{}, fmt.Errorf("%w: NETLIFY_API_TOKEN and NETLIFY_SITE_ID are required", ErrNotConfigured)
	}

	endpoint := fmt.Sprintf("%s/sites/%s/deploys?per_page=1", n.baseURL, url.PathEscape(n.siteID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Deploy{}, fmt.Errorf("build deploy request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("Accept", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return Deploy{}, fmt.Errorf("fetch deploys: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Deploy{}, fmt.Errorf("read deploys: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Deploy{}, &UpstreamError{Status: resp.StatusCode, Message: upstreamMessage(body)}
	}

	var deploys []netlifyDeploy
	if err := json.Unmarshal(body, &deploys); err != nil {
		return Deploy{}, fmt.Errorf("decode deploys: %w", err)
	}
	if len(deploys) == 0 {
		return Deploy{}, ErrNoDeploys
	}

	latest := deploys[0]
	return Deploy{
		DeployID:    latest.ID,
		Status:      latest.State,
		CreatedAt:   latest.CreatedAt,
		PublishedAt: deref(latest.PublishedAt),
		CommitRef:   deref(latest.CommitRef),
		Context:     latest.Context,
	}, nil
}

func upstreamMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
