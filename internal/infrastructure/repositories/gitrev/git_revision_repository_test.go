package gitrev_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/lockdiff/internal/domain/repositories"
	"github.com/rios0rios0/lockdiff/internal/infrastructure/repositories/gitrev"
)

// initRepository creates a repository with two commits. The first commit
// adds Cargo.lock, the second one overwrites it.
func initRepository(t *testing.T) (dir string, first, second repositories.Revision) {
	t.Helper()
	dir = t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	worktree, err := repo.Worktree()
	require.NoError(t, err)

	first = commitFile(t, worktree, dir, "Cargo.lock", "version = 3\n", "add lockfile")
	second = commitFile(t, worktree, dir, "Cargo.lock", "version = 3\n\n[[package]]\nname = \"serde\"\nversion = \"1.0.0\"\n", "bump serde")
	return dir, first, second
}

func commitFile(t *testing.T, worktree *git.Worktree, dir, name, content, message string) repositories.Revision {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	_, err := worktree.Add(name)
	require.NoError(t, err)

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return repositories.Revision(hash.String())
}

func openRepository(t *testing.T, dir string) repositories.RevisionRepository {
	t.Helper()
	repo, err := gitrev.NewFactory().Open(dir)
	require.NoError(t, err)
	return repo
}

func TestFactory_Open(t *testing.T) {
	t.Parallel()

	t.Run("should open a repository from a subdirectory", func(t *testing.T) {
		t.Parallel()

		// given
		dir, _, _ := initRepository(t)
		sub := filepath.Join(dir, "crates", "core")
		require.NoError(t, os.MkdirAll(sub, 0o750))

		// when
		repo, err := gitrev.NewFactory().Open(sub)

		// then
		require.NoError(t, err)
		assert.NotNil(t, repo)
	})

	t.Run("should fail on a directory without a repository", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := gitrev.NewFactory().Open(t.TempDir())

		// then
		assert.Error(t, err)
	})
}

func TestGitRevisionRepository(t *testing.T) {
	t.Parallel()

	t.Run("should resolve HEAD to the latest commit", func(t *testing.T) {
		t.Parallel()

		// given
		dir, _, second := initRepository(t)
		repo := openRepository(t, dir)

		// when
		rev, err := repo.ResolveRevision(context.Background(), "HEAD")

		// then
		require.NoError(t, err)
		assert.Equal(t, second, rev)
	})

	t.Run("should resolve ancestry expressions", func(t *testing.T) {
		t.Parallel()

		// given
		dir, first, _ := initRepository(t)
		repo := openRepository(t, dir)

		// when
		rev, err := repo.ResolveRevision(context.Background(), "HEAD~1")

		// then
		require.NoError(t, err)
		assert.Equal(t, first, rev)
	})

	t.Run("should fail to resolve an unknown expression", func(t *testing.T) {
		t.Parallel()

		// given
		dir, _, _ := initRepository(t)
		repo := openRepository(t, dir)

		// when
		_, err := repo.ResolveRevision(context.Background(), "no-such-branch")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no-such-branch")
	})

	t.Run("should report the checked-out commit as head", func(t *testing.T) {
		t.Parallel()

		// given
		dir, _, second := initRepository(t)
		repo := openRepository(t, dir)

		// when
		rev, err := repo.Head(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, second, rev)
	})

	t.Run("should walk to the first parent", func(t *testing.T) {
		t.Parallel()

		// given
		dir, first, second := initRepository(t)
		repo := openRepository(t, dir)

		// when
		parent, err := repo.ParentOf(context.Background(), second)

		// then
		require.NoError(t, err)
		assert.Equal(t, first, parent)
	})

	t.Run("should fail on the root commit which has no parent", func(t *testing.T) {
		t.Parallel()

		// given
		dir, first, _ := initRepository(t)
		repo := openRepository(t, dir)

		// when
		_, err := repo.ParentOf(context.Background(), first)

		// then
		assert.ErrorIs(t, err, repositories.ErrNoParent)
	})

	t.Run("should read a file as it was at a revision", func(t *testing.T) {
		t.Parallel()

		// given
		dir, first, second := initRepository(t)
		repo := openRepository(t, dir)

		// when
		oldContent, oldErr := repo.ReadFileAt(context.Background(), first, "Cargo.lock")
		newContent, newErr := repo.ReadFileAt(context.Background(), second, "Cargo.lock")

		// then
		require.NoError(t, oldErr)
		require.NoError(t, newErr)
		assert.Equal(t, "version = 3\n", string(oldContent))
		assert.Contains(t, string(newContent), "name = \"serde\"")
	})

	t.Run("should fail with not-found for a path missing at the revision", func(t *testing.T) {
		t.Parallel()

		// given
		dir, first, _ := initRepository(t)
		repo := openRepository(t, dir)

		// when
		_, err := repo.ReadFileAt(context.Background(), first, "crates/core/Cargo.lock")

		// then
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("should refuse to read binary blobs", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		repo, err := git.PlainInit(dir, false)
		require.NoError(t, err)
		worktree, err := repo.Worktree()
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "blob.bin"), []byte{0x00, 0x01, 0xff}, 0o600))
		_, err = worktree.Add("blob.bin")
		require.NoError(t, err)
		hash, err := worktree.Commit("add blob", &git.CommitOptions{
			Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
		})
		require.NoError(t, err)

		// when
		_, err = openRepository(t, dir).ReadFileAt(context.Background(), repositories.Revision(hash.String()), "blob.bin")

		// then
		assert.ErrorIs(t, err, repositories.ErrNotTextual)
	})
}
