package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPSource reads the status from the API's own deploy status endpoint.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		URL:    strings.TrimRight(baseURL, "/") + "/get-deploy-status",
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *HTTPSource) Status(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", fmt.Errorf("build status request: %w", err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch deploy status: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read deploy status: %w", err)
	}

	var payload struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	decodeErr := json.Unmarshal(body, &payload)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && payload.Error != "" {
			return "", fmt.Errorf("deploy status %d: %s", resp.StatusCode, payload.Error)
		}
		return "", fmt.Errorf("deploy status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode deploy status: %w", decodeErr)
	}
	if payload.Status == "" {
		return "", fmt.Errorf("deploy status missing from response")
	}
	return payload.Status, nil
}
