package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
		_, err := wt.Add(name)
		require.NoError(t, err)
	}

	_, err = wt.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "bench", Email: "bench@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir
}

func TestDiscardLocalChanges(t *testing.T) {
	dir := initRepo(t, map[string]string{".wp-env.json": `{"core":null}`})
	path := filepath.Join(dir, ".wp-env.json")

	require.NoError(t, os.WriteFile(path, []byte(`{"core":"patched"}`), 0o600))

	client := NewClient(logrus.New(), 1)
	require.NoError(t, client.DiscardLocalChanges(context.Background(), dir))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"core":null}`, string(data))
}

func TestDiscardLocalChanges_NotARepository(t *testing.T) {
	client := NewClient(logrus.New(), 1)

	err := client.DiscardLocalChanges(context.Background(), t.TempDir())
	require.ErrorIs(t, err, gogit.ErrRepositoryNotExists)
}

func TestCheckoutRemoteBranch_NoRemote(t *testing.T) {
	dir := initRepo(t, map[string]string{"README": "bench"})
	client := NewClient(logrus.New(), 1)

	err := client.CheckoutRemoteBranch(context.Background(), dir, "feature")
	require.ErrorIs(t, err, gogit.ErrRemoteNotFound)
}
