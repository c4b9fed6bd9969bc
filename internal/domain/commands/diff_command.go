package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/lockdiff/internal/domain/entities"
	"github.com/rios0rios0/lockdiff/internal/domain/repositories"
	"github.com/rios0rios0/lockdiff/internal/enrich"
	"github.com/rios0rios0/lockdiff/internal/report"
	"github.com/rios0rios0/lockdiff/internal/snapshot"
)

// Diff is the interface for the diff command.
type Diff interface {
	Execute(ctx context.Context, opts DiffOptions, out io.Writer) error
}

// DiffOptions holds the runtime options for one diff run.
type DiffOptions struct {
	Revspec   string // "", a single commit expression, or "A..B"
	LockPath  string // lockfile path inside the repository
	RepoDir   string // repository root
	Metadata  bool
	Changelog bool
}

// DiffCommand compares the lockfile between two points in history and
// writes the report. All reads are synchronous; a failure on either
// snapshot aborts before any output is written.
type DiffCommand struct {
	revisionFactory repositories.RevisionRepositoryFactory
	packages        repositories.PackageRepository
}

// NewDiffCommand creates a new DiffCommand.
func NewDiffCommand(
	revisionFactory repositories.RevisionRepositoryFactory,
	packages repositories.PackageRepository,
) *DiffCommand {
	return &DiffCommand{revisionFactory: revisionFactory, packages: packages}
}

// Execute runs one diff end to end: snapshots, diff, enrichment, report.
func (it *DiffCommand) Execute(ctx context.Context, opts DiffOptions, out io.Writer) error {
	revisions, err := it.revisionFactory.Open(opts.RepoDir)
	if err != nil {
		return err
	}

	oldSnap, newSnap, err := it.buildSnapshots(ctx, revisions, opts)
	if err != nil {
		return err
	}
	logger.Debugf("Old snapshot: %d records, new snapshot: %d records", oldSnap.Len(), newSnap.Len())

	ops := entities.DiffSnapshots(oldSnap, newSnap)
	logger.Debugf("Computed %d operations", len(ops))

	var annotate report.AnnotateFunc
	if opts.Metadata || opts.Changelog {
		enricher := enrich.New(it.packages, opts.Metadata, opts.Changelog)
		annotate = func(op entities.Operation) []string {
			return enricher.Annotate(ctx, op)
		}
	}

	return report.Write(out, ops, annotate)
}

// buildSnapshots resolves the revision expression into the old and new
// snapshots. "A..B" compares two commits, a single expression compares a
// commit against its first parent, and an empty revspec compares the
// working-tree lockfile against HEAD.
func (it *DiffCommand) buildSnapshots(
	ctx context.Context,
	revisions repositories.RevisionRepository,
	opts DiffOptions,
) (entities.Snapshot, entities.Snapshot, error) {
	switch {
	case strings.Contains(opts.Revspec, "..."):
		// Merge-base semantics were never right in this tool; refuse them
		// instead of guessing.
		return entities.Snapshot{}, entities.Snapshot{}, fmt.Errorf(
			"merge-base expressions are not supported: %q", opts.Revspec)
	case strings.Contains(opts.Revspec, ".."):
		return it.snapshotsFromRange(ctx, revisions, opts)
	case opts.Revspec != "":
		return it.snapshotsFromCommit(ctx, revisions, opts)
	default:
		return it.snapshotsFromWorkingTree(ctx, revisions, opts)
	}
}

func (it *DiffCommand) snapshotsFromRange(
	ctx context.Context,
	revisions repositories.RevisionRepository,
	opts DiffOptions,
) (entities.Snapshot, entities.Snapshot, error) {
	none := entities.Snapshot{}

	oldExpr, newExpr, _ := strings.Cut(opts.Revspec, "..")
	if oldExpr == "" || newExpr == "" {
		return none, none, fmt.Errorf("invalid revision range %q: both ends are required", opts.Revspec)
	}

	oldRev, err := revisions.ResolveRevision(ctx, oldExpr)
	if err != nil {
		return none, none, fmt.Errorf("old side of %q: %w", opts.Revspec, err)
	}
	newRev, err := revisions.ResolveRevision(ctx, newExpr)
	if err != nil {
		return none, none, fmt.Errorf("new side of %q: %w", opts.Revspec, err)
	}

	return it.snapshotsFromRevisions(ctx, revisions, oldRev, newRev, opts.LockPath)
}

func (it *DiffCommand) snapshotsFromCommit(
	ctx context.Context,
	revisions repositories.RevisionRepository,
	opts DiffOptions,
) (entities.Snapshot, entities.Snapshot, error) {
	none := entities.Snapshot{}

	newRev, err := revisions.ResolveRevision(ctx, opts.Revspec)
	if err != nil {
		return none, none, err
	}

	oldRev, err := revisions.ParentOf(ctx, newRev)
	if err != nil {
		return none, none, fmt.Errorf("cannot compare single commit %q: %w", opts.Revspec, err)
	}

	return it.snapshotsFromRevisions(ctx, revisions, oldRev, newRev, opts.LockPath)
}

// snapshotsFromWorkingTree compares the lockfile committed at HEAD (old)
// against the literal file in the working tree (new).
func (it *DiffCommand) snapshotsFromWorkingTree(
	ctx context.Context,
	revisions repositories.RevisionRepository,
	opts DiffOptions,
) (entities.Snapshot, entities.Snapshot, error) {
	none := entities.Snapshot{}

	head, err := revisions.Head(ctx)
	if err != nil {
		return none, none, err
	}

	oldSnap, err := snapshot.BuildFromRevision(ctx, revisions, head, opts.LockPath)
	if err != nil {
		return none, none, fmt.Errorf("failed to decode old version: %w", err)
	}

	newSnap, err := snapshot.BuildFromFile(filepath.Join(opts.RepoDir, opts.LockPath))
	if err != nil {
		return none, none, fmt.Errorf("failed to decode new version: %w", err)
	}

	return oldSnap, newSnap, nil
}

func (it *DiffCommand) snapshotsFromRevisions(
	ctx context.Context,
	revisions repositories.RevisionRepository,
	oldRev, newRev repositories.Revision,
	lockPath string,
) (entities.Snapshot, entities.Snapshot, error) {
	none := entities.Snapshot{}

	oldSnap, err := snapshot.BuildFromRevision(ctx, revisions, oldRev, lockPath)
	if err != nil {
		return none, none, fmt.Errorf("failed to decode old version: %w", err)
	}

	newSnap, err := snapshot.BuildFromRevision(ctx, revisions, newRev, lockPath)
	if err != nil {
		return none, none, fmt.Errorf("failed to decode new version: %w", err)
	}

	return oldSnap, newSnap, nil
}
