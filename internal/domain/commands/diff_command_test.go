package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/lockdiff/internal/domain/commands"
	"github.com/rios0rios0/lockdiff/internal/domain/repositories"
	testdoubles "github.com/rios0rios0/lockdiff/test"
)

const oldLockfile = `version = 3

[[package]]
name = "libc"
version = "0.2.0"
source = "registry+https://github.com/rust-lang/crates.io-index"

[[package]]
name = "serde"
version = "1.0.0"
source = "registry+https://github.com/rust-lang/crates.io-index"
`

const newLockfile = `version = 3

[[package]]
name = "libc"
version = "0.2.0"
source = "registry+https://github.com/rust-lang/crates.io-index"

[[package]]
name = "rand"
version = "0.8.0"
source = "registry+https://github.com/rust-lang/crates.io-index"

[[package]]
name = "serde"
version = "1.0.1"
source = "registry+https://github.com/rust-lang/crates.io-index"
`

func newCommand(revs repositories.RevisionRepository) *commands.DiffCommand {
	return commands.NewDiffCommand(
		&testdoubles.StubRevisionRepositoryFactory{Repository: revs},
		&testdoubles.SpyPackageRepository{},
	)
}

func TestDiffCommand_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should diff the two ends of a revision range", func(t *testing.T) {
		t.Parallel()

		// given
		revs := &testdoubles.SpyRevisionRepository{
			Revisions: map[string]repositories.Revision{"v1": "aaa", "v2": "bbb"},
			Files: map[string][]byte{
				"aaa:Cargo.lock": []byte(oldLockfile),
				"bbb:Cargo.lock": []byte(newLockfile),
			},
		}
		var out bytes.Buffer

		// when
		err := newCommand(revs).Execute(context.Background(), commands.DiffOptions{
			Revspec:  "v1..v2",
			LockPath: "Cargo.lock",
			RepoDir:  ".",
		}, &out)

		// then
		require.NoError(t, err)
		assert.Equal(t, "+++ rand 0.8.0\n    serde 1.0.0 -> 1.0.1\n", out.String())
	})

	t.Run("should compare a single commit against its first parent", func(t *testing.T) {
		t.Parallel()

		// given
		revs := &testdoubles.SpyRevisionRepository{
			Revisions: map[string]repositories.Revision{"HEAD": "bbb"},
			Parents:   map[repositories.Revision]repositories.Revision{"bbb": "aaa"},
			Files: map[string][]byte{
				"aaa:Cargo.lock": []byte(oldLockfile),
				"bbb:Cargo.lock": []byte(newLockfile),
			},
		}
		var out bytes.Buffer

		// when
		err := newCommand(revs).Execute(context.Background(), commands.DiffOptions{
			Revspec:  "HEAD",
			LockPath: "Cargo.lock",
			RepoDir:  ".",
		}, &out)

		// then
		require.NoError(t, err)
		assert.Equal(t, "+++ rand 0.8.0\n    serde 1.0.0 -> 1.0.1\n", out.String())
	})

	t.Run("should fail without output when a single commit has no parent", func(t *testing.T) {
		t.Parallel()

		// given
		revs := &testdoubles.SpyRevisionRepository{
			Revisions: map[string]repositories.Revision{"HEAD": "aaa"},
			Files:     map[string][]byte{"aaa:Cargo.lock": []byte(oldLockfile)},
		}
		var out bytes.Buffer

		// when
		err := newCommand(revs).Execute(context.Background(), commands.DiffOptions{
			Revspec:  "HEAD",
			LockPath: "Cargo.lock",
			RepoDir:  ".",
		}, &out)

		// then
		require.ErrorIs(t, err, repositories.ErrNoParent)
		assert.Empty(t, out.String())
	})

	t.Run("should compare the working tree against HEAD without a revspec", func(t *testing.T) {
		t.Parallel()

		// given
		repoDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(repoDir, "Cargo.lock"), []byte(newLockfile), 0o600))
		revs := &testdoubles.SpyRevisionRepository{
			HeadRev: "aaa",
			Files:   map[string][]byte{"aaa:Cargo.lock": []byte(oldLockfile)},
		}
		var out bytes.Buffer

		// when
		err := newCommand(revs).Execute(context.Background(), commands.DiffOptions{
			LockPath: "Cargo.lock",
			RepoDir:  repoDir,
		}, &out)

		// then
		require.NoError(t, err)
		assert.Equal(t, "+++ rand 0.8.0\n    serde 1.0.0 -> 1.0.1\n", out.String())
	})

	t.Run("should reject merge-base expressions", func(t *testing.T) {
		t.Parallel()

		// given
		revs := &testdoubles.SpyRevisionRepository{}
		var out bytes.Buffer

		// when
		err := newCommand(revs).Execute(context.Background(), commands.DiffOptions{
			Revspec:  "main...feature",
			LockPath: "Cargo.lock",
			RepoDir:  ".",
		}, &out)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "merge-base")
		assert.Empty(t, out.String())
	})

	t.Run("should reject a range with an empty end", func(t *testing.T) {
		t.Parallel()

		// given
		revs := &testdoubles.SpyRevisionRepository{}
		var out bytes.Buffer

		// when
		err := newCommand(revs).Execute(context.Background(), commands.DiffOptions{
			Revspec:  "v1..",
			LockPath: "Cargo.lock",
			RepoDir:  ".",
		}, &out)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "both ends are required")
	})

	t.Run("should abort without output when the old side is missing", func(t *testing.T) {
		t.Parallel()

		// given - the lockfile only exists on the new side
		revs := &testdoubles.SpyRevisionRepository{
			Revisions: map[string]repositories.Revision{"v1": "aaa", "v2": "bbb"},
			Files:     map[string][]byte{"bbb:Cargo.lock": []byte(newLockfile)},
		}
		var out bytes.Buffer

		// when
		err := newCommand(revs).Execute(context.Background(), commands.DiffOptions{
			Revspec:  "v1..v2",
			LockPath: "Cargo.lock",
			RepoDir:  ".",
		}, &out)

		// then
		require.ErrorIs(t, err, repositories.ErrNotFound)
		assert.Contains(t, err.Error(), "old version")
		assert.Empty(t, out.String())
	})

	t.Run("should produce byte-identical output on repeated runs", func(t *testing.T) {
		t.Parallel()

		// given
		revs := &testdoubles.SpyRevisionRepository{
			Revisions: map[string]repositories.Revision{"v1": "aaa", "v2": "bbb"},
			Files: map[string][]byte{
				"aaa:Cargo.lock": []byte(oldLockfile),
				"bbb:Cargo.lock": []byte(newLockfile),
			},
		}
		opts := commands.DiffOptions{Revspec: "v1..v2", LockPath: "Cargo.lock", RepoDir: "."}
		command := newCommand(revs)

		// when
		var first, second bytes.Buffer
		require.NoError(t, command.Execute(context.Background(), opts, &first))
		require.NoError(t, command.Execute(context.Background(), opts, &second))

		// then
		assert.Equal(t, first.String(), second.String())
	})

	t.Run("should mark enrichment as unavailable for unresolvable packages", func(t *testing.T) {
		t.Parallel()

		// given - the package repository knows none of the records
		revs := &testdoubles.SpyRevisionRepository{
			Revisions: map[string]repositories.Revision{"v1": "aaa", "v2": "bbb"},
			Files: map[string][]byte{
				"aaa:Cargo.lock": []byte(oldLockfile),
				"bbb:Cargo.lock": []byte(newLockfile),
			},
		}
		command := commands.NewDiffCommand(
			&testdoubles.StubRevisionRepositoryFactory{Repository: revs},
			&testdoubles.SpyPackageRepository{},
		)
		var out bytes.Buffer

		// when
		err := command.Execute(context.Background(), commands.DiffOptions{
			Revspec:  "v1..v2",
			LockPath: "Cargo.lock",
			RepoDir:  ".",
			Metadata: true,
		}, &out)

		// then
		require.NoError(t, err)
		assert.Equal(t,
			"+++ rand 0.8.0\n"+
				"--> metadata unavailable for rand 0.8.0\n"+
				"    serde 1.0.0 -> 1.0.1\n"+
				"--> metadata unavailable for serde 1.0.0\n",
			out.String())
	})
}
