// Package sourcectl commits generated data files to the repository the site
// is built from.
package sourcectl

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrNotConfigured = errors.New("source control not configured")

type CommitRequest struct {
	Path    string
	Branch  string
	Message string
	Content []byte
}

type CommitResult struct {
	SHA     string
	Created bool
}

// Committer writes one file to a branch and returns the resulting commit.
// A path that does not exist yet is created; an existing one is replaced.
type Committer interface {
	CommitFile(ctx context.Context, req CommitRequest) (CommitResult, error)
}

// UpstreamError carries a failure reported by the hosting service so callers
// can surface its message.
type UpstreamError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: upstream status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func CommitMessage(section, fileName string) string {
	return fmt.Sprintf("Update %s data from %s", section, fileName)
}

func validate(req CommitRequest) error {
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("commit path is required")
	}
	if strings.TrimSpace(req.Branch) == "" {
		return errors.New("commit branch is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return errors.New("commit message is required")
	}
	return nil
}
