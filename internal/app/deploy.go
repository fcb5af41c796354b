package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/captainminh1999/my-webspace-sub000/internal/deployhost"
)

func (s *Service) DeployStatus(ctx context.Context) (deployhost.Deploy, error) {
	if s.deploys == nil {
		return deployhost.Deploy{}, configError("Deploy host not configured")
	}
	deploy, err := s.deploys.LatestDeploy(ctx)
	if err == nil {
		return deploy, nil
	}

	var upErr *deployhost.UpstreamError
	switch {
	case errors.Is(err, deployhost.ErrNotConfigured):
		return deployhost.Deploy{}, configError("Deploy host not configured")
	case errors.Is(err, deployhost.ErrNoDeploys):
		return deployhost.Deploy{}, domainError(http.StatusNotFound, "NOT_FOUND", "No deploys found", nil)
	case errors.As(err, &upErr):
		return deployhost.Deploy{}, upstreamError("Failed to fetch deploy status", upErr.Message)
	default:
		return deployhost.Deploy{}, upstreamError("Failed to fetch deploy status", err.Error())
	}
}
