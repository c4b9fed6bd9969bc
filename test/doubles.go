// Package testdoubles provides test doubles (spies, stubs, dummies) for domain
// interfaces. These are hand-crafted implementations — no mock frameworks.
package testdoubles

import (
	"context"
	"fmt"

	"github.com/rios0rios0/lockdiff/internal/domain/entities"
	"github.com/rios0rios0/lockdiff/internal/domain/repositories"
)

// SpyRevisionRepository implements repositories.RevisionRepository as a
// configurable spy backed by in-memory maps.
type SpyRevisionRepository struct {
	// --- ResolveRevision ---
	Revisions  map[string]repositories.Revision // expression -> revision
	ResolveErr error

	// --- ParentOf ---
	Parents   map[repositories.Revision]repositories.Revision
	ParentErr error

	// --- ReadFileAt ---
	Files   map[string][]byte // "<rev>:<path>" -> content
	ReadErr error

	// --- Head ---
	HeadRev repositories.Revision
	HeadErr error

	// --- recorded calls ---
	ResolvedExprs []string
	ReadKeys      []string
}

var _ repositories.RevisionRepository = (*SpyRevisionRepository)(nil)

func (s *SpyRevisionRepository) ResolveRevision(_ context.Context, expr string) (repositories.Revision, error) {
	s.ResolvedExprs = append(s.ResolvedExprs, expr)
	if s.ResolveErr != nil {
		return "", s.ResolveErr
	}
	rev, ok := s.Revisions[expr]
	if !ok {
		return "", fmt.Errorf("unknown revision %q", expr)
	}
	return rev, nil
}

func (s *SpyRevisionRepository) ParentOf(_ context.Context, rev repositories.Revision) (repositories.Revision, error) {
	if s.ParentErr != nil {
		return "", s.ParentErr
	}
	parent, ok := s.Parents[rev]
	if !ok {
		return "", fmt.Errorf("%s: %w", rev, repositories.ErrNoParent)
	}
	return parent, nil
}

func (s *SpyRevisionRepository) ReadFileAt(_ context.Context, rev repositories.Revision, path string) ([]byte, error) {
	key := string(rev) + ":" + path
	s.ReadKeys = append(s.ReadKeys, key)
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	content, ok := s.Files[key]
	if !ok {
		return nil, fmt.Errorf("%q at %s: %w", path, rev, repositories.ErrNotFound)
	}
	return content, nil
}

func (s *SpyRevisionRepository) Head(_ context.Context) (repositories.Revision, error) {
	if s.HeadErr != nil {
		return "", s.HeadErr
	}
	return s.HeadRev, nil
}

// StubRevisionRepositoryFactory implements
// repositories.RevisionRepositoryFactory returning a fixed repository.
type StubRevisionRepositoryFactory struct {
	Repository repositories.RevisionRepository
	OpenErr    error

	OpenedDirs []string
}

var _ repositories.RevisionRepositoryFactory = (*StubRevisionRepositoryFactory)(nil)

func (f *StubRevisionRepositoryFactory) Open(dir string) (repositories.RevisionRepository, error) {
	f.OpenedDirs = append(f.OpenedDirs, dir)
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	return f.Repository, nil
}

// SpyPackageRepository implements repositories.PackageRepository from an
// in-memory metadata table keyed by "<name> <version>".
type SpyPackageRepository struct {
	Metas      map[string]*entities.PackageMeta
	ResolveErr error

	ResolvedRecords []entities.DependencyRecord
}

var _ repositories.PackageRepository = (*SpyPackageRepository)(nil)

func (s *SpyPackageRepository) Resolve(
	_ context.Context,
	record entities.DependencyRecord,
) (*entities.PackageMeta, error) {
	s.ResolvedRecords = append(s.ResolvedRecords, record)
	if s.ResolveErr != nil {
		return nil, s.ResolveErr
	}
	meta, ok := s.Metas[record.String()]
	if !ok {
		return nil, fmt.Errorf("%s: %w", record, repositories.ErrUnresolvable)
	}
	return meta, nil
}
