// Package snapshot builds the in-memory form of one lockfile's contents,
// either from literal text or from the content stored at a historical
// revision.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/rios0rios0/lockdiff/internal/domain/entities"
	"github.com/rios0rios0/lockdiff/internal/domain/repositories"
	"github.com/rios0rios0/lockdiff/internal/lockfile"
)

// Build parses lockfile text and groups its records into a snapshot.
func Build(text string) (entities.Snapshot, error) {
	records, err := lockfile.Parse(text)
	if err != nil {
		return entities.Snapshot{}, err
	}
	return entities.NewSnapshot(records), nil
}

// BuildFromFile reads a literal lockfile from the working tree.
func BuildFromFile(path string) (entities.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entities.Snapshot{}, fmt.Errorf("failed to read lockfile %q: %w", path, err)
	}
	if !utf8.Valid(data) {
		return entities.Snapshot{}, fmt.Errorf("lockfile %q: %w", path, repositories.ErrNotTextual)
	}
	return Build(string(data))
}

// BuildFromRevision reads the lockfile as stored at a historical revision.
func BuildFromRevision(
	ctx context.Context,
	revisions repositories.RevisionRepository,
	rev repositories.Revision,
	path string,
) (entities.Snapshot, error) {
	data, err := revisions.ReadFileAt(ctx, rev, path)
	if err != nil {
		return entities.Snapshot{}, fmt.Errorf("couldn't find lockfile %q in %s: %w", path, rev, err)
	}
	if !utf8.Valid(data) {
		return entities.Snapshot{}, fmt.Errorf("%q in %s: %w", path, rev, repositories.ErrNotTextual)
	}

	snap, err := Build(string(data))
	if err != nil {
		return entities.Snapshot{}, fmt.Errorf("%q in %s is not a valid lockfile: %w", path, rev, err)
	}
	return snap, nil
}
