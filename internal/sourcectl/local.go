package sourcectl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Local commits into a repository on disk. It is meant for development,
// where pushing to the hosted repository would trigger real deploys.
type Local struct {
	dir    string
	author string
	mu     sync.Mutex
}

func NewLocal(dir string) *Local {
	return &Local{dir: dir, author: "cv-uploader"}
}

func (l *Local) CommitFile(_ context.Context, req CommitRequest) (CommitResult, error) {
	if err := validate(req); err != nil {
		return CommitResult{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	repo, err := l.open(req.Branch)
	if err != nil {
		return CommitResult{}, err
	}
	if err := checkoutBranch(repo, req.Branch); err != nil {
		return CommitResult{}, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return CommitResult{}, fmt.Errorf("open worktree: %w", err)
	}

	full := filepath.Join(l.dir, filepath.FromSlash(req.Path))
	_, statErr := os.Stat(full)
	created := errors.Is(statErr, os.ErrNotExist)

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return CommitResult{}, fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(full, req.Content, 0o644); err != nil {
		return CommitResult{}, fmt.Errorf("write %s: %w", req.Path, err)
	}
	if _, err := worktree.Add(filepath.ToSlash(req.Path)); err != nil {
		return CommitResult{}, fmt.Errorf("git add %s: %w", req.Path, err)
	}

	hash, err := worktree.Commit(req.Message, &git.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  l.author,
			Email: l.author + "@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return CommitResult{}, fmt.Errorf("commit %s: %w", req.Path, err)
	}
	return CommitResult{SHA: hash.String(), Created: created}, nil
}

// open returns the repository, initialising it with HEAD on branch when the
// directory holds none yet.
func (l *Local) open(branch string) (*git.Repository, error) {
	repo, err := git.PlainOpen(l.dir)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create repo dir: %w", err)
	}
	repo, err = git.PlainInit(l.dir, false)
	if err != nil {
		return nil, fmt.Errorf("init repo: %w", err)
	}
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branch))
	if err := repo.Storer.SetReference(head); err != nil {
		return nil, fmt.Errorf("set HEAD to %s: %w", branch, err)
	}
	return repo, nil
}

func checkoutBranch(repo *git.Repository, branch string) error {
	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		// unborn branch: the first commit creates it
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve HEAD: %w", err)
	}

	branchRef := plumbing.NewBranchReferenceName(branch)
	if head.Name() == branchRef {
		return nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	if _, err := repo.Reference(branchRef, true); err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			if err := worktree.Checkout(&git.CheckoutOptions{Branch: branchRef, Create: true}); err != nil {
				return fmt.Errorf("create branch checkout %s: %w", branch, err)
			}
			return nil
		}
		return fmt.Errorf("resolve branch %s: %w", branch, err)
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Branch: branchRef, Force: true}); err != nil {
		return fmt.Errorf("checkout branch %s: %w", branch, err)
	}
	return nil
}
