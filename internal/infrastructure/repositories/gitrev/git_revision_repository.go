// Package gitrev implements the revision repository over a local git
// repository using go-git.
package gitrev

import (
	"context"
	"errors"
	"fmt"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/rios0rios0/lockdiff/internal/domain/repositories"
)

// GitRevisionRepository implements repositories.RevisionRepository for
// one opened git repository.
type GitRevisionRepository struct {
	repo *git.Repository
}

// Factory implements repositories.RevisionRepositoryFactory.
type Factory struct{}

// NewFactory creates the go-git factory.
func NewFactory() repositories.RevisionRepositoryFactory {
	return &Factory{}
}

// Open opens the git repository at dir, walking up to find .git the way
// the git CLI does.
func (f *Factory) Open(dir string) (repositories.RevisionRepository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %q: %w", dir, err)
	}
	return &GitRevisionRepository{repo: repo}, nil
}

// ResolveRevision resolves a revision expression (hash, branch, tag,
// HEAD~n, ...) to a commit hash.
func (r *GitRevisionRepository) ResolveRevision(_ context.Context, expr string) (repositories.Revision, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(expr))
	if err != nil {
		return "", fmt.Errorf("failed to resolve revision %q: %w", expr, err)
	}
	return repositories.Revision(hash.String()), nil
}

// Head returns the currently checked-out commit.
func (r *GitRevisionRepository) Head(_ context.Context) (repositories.Revision, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return repositories.Revision(ref.Hash().String()), nil
}

// ParentOf returns the first parent of the given commit.
func (r *GitRevisionRepository) ParentOf(_ context.Context, rev repositories.Revision) (repositories.Revision, error) {
	commit, err := r.commit(rev)
	if err != nil {
		return "", err
	}

	parent, err := commit.Parent(0)
	if err != nil {
		if errors.Is(err, object.ErrParentNotFound) {
			return "", fmt.Errorf("%s: %w", rev, repositories.ErrNoParent)
		}
		return "", fmt.Errorf("failed to read parent of %s: %w", rev, err)
	}
	return repositories.Revision(parent.Hash.String()), nil
}

// ReadFileAt returns the content of path in the tree of the given commit.
func (r *GitRevisionRepository) ReadFileAt(_ context.Context, rev repositories.Revision, path string) ([]byte, error) {
	commit, err := r.commit(rev)
	if err != nil {
		return nil, err
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree of %s: %w", rev, err)
	}

	file, err := tree.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("%q at %s: %w", path, rev, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up %q at %s: %w", path, rev, err)
	}

	if binary, binErr := file.IsBinary(); binErr == nil && binary {
		return nil, fmt.Errorf("%q at %s: %w", path, rev, repositories.ErrNotTextual)
	}

	content, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %q at %s: %w", path, rev, err)
	}
	return []byte(content), nil
}

func (r *GitRevisionRepository) commit(rev repositories.Revision) (*object.Commit, error) {
	commit, err := r.repo.CommitObject(plumbing.NewHash(string(rev)))
	if err != nil {
		return nil, fmt.Errorf("failed to load commit %s: %w", rev, err)
	}
	return commit, nil
}
