package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthor = Author{Name: "Test Author", Email: "test@example.com"}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	_, err := Init(context.Background(), dir, testAuthor)
	require.NoError(t, err)
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestCommitAll(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := Init(ctx, dir, testAuthor)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "lancamentos.csv"), []byte("Date\n"), 0o644))

	dirty, err := repo.Dirty(ctx)
	require.NoError(t, err)
	assert.True(t, dirty)

	hash, err := repo.CommitAll(ctx, "import: fatura.csv")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	log := exec.Command("git", "log", "-1", "--format=%an <%ae>|%s")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Equal(t, "Test Author <test@example.com>|import: fatura.csv\n", string(out))
}

func TestCommitAll_NothingToCommit(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := Init(ctx, dir, testAuthor)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	_, err = repo.CommitAll(ctx, "first")
	require.NoError(t, err)

	hash, err := repo.CommitAll(ctx, "second")
	require.NoError(t, err)
	assert.Empty(t, hash)
}

func TestCommitAll_NotARepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	_, err := Open(dir, testAuthor).CommitAll(context.Background(), "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git add")
}
