package repositories

import (
	"context"
	"errors"
)

// Revision is a resolved, immutable revision identifier (a hex commit
// hash). Only a RevisionRepository produces values of this type.
type Revision string

var (
	// ErrNotFound is returned when a path does not exist at a revision.
	ErrNotFound = errors.New("path not found at revision")

	// ErrNotTextual is returned when a stored blob is not valid UTF-8 text.
	ErrNotTextual = errors.New("content is not valid UTF-8 text")

	// ErrNoParent is returned when a commit has no parent to compare to.
	ErrNoParent = errors.New("no parent to compare to")
)

// RevisionRepository abstracts read-only access to a version-control
// history: resolving revision expressions, walking to a parent commit,
// and reading file blobs at a given commit.
type RevisionRepository interface {
	ResolveRevision(ctx context.Context, expr string) (Revision, error)
	ParentOf(ctx context.Context, rev Revision) (Revision, error)
	ReadFileAt(ctx context.Context, rev Revision, path string) ([]byte, error)
	Head(ctx context.Context) (Revision, error)
}

// RevisionRepositoryFactory opens a RevisionRepository for a repository
// root directory.
type RevisionRepositoryFactory interface {
	Open(dir string) (RevisionRepository, error)
}
