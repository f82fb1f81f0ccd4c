package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iot-workbench/iotwb/internal/apperr"
	"github.com/iot-workbench/iotwb/internal/filestore"
	"github.com/iot-workbench/iotwb/internal/testutil"
)

// newTestStore returns a store whose clock advances one minute per snapshot.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), BackupDirName))
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	s.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}
	return s
}

func TestSaveAndRestore(t *testing.T) {
	s := newTestStore(t)
	root := t.TempDir()
	settingsPath := testutil.CreateTempFile(t, filepath.Join(root, ".vscode"), "settings.json", "original")

	snap, err := s.Save(filestore.NewLocal(), root, root, []string{settingsPath})
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, root, snap.Project)
	require.Len(t, snap.Files, 1)
	assert.Equal(t, ".vscode/settings.json", snap.Files[0].Path)
	testutil.AssertFileExists(t, filepath.Join(snap.Dir(), manifestName))

	require.NoError(t, os.WriteFile(settingsPath, []byte("replaced"), 0644))

	restored, err := s.Restore(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, restored.ID)
	testutil.AssertFileContent(t, settingsPath, "original")
}

func TestSaveNothing(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.Save(filestore.NewLocal(), "/p", "/p", nil)
	require.NoError(t, err)
	assert.Nil(t, snap)
	_, err = os.Stat(s.Dir)
	assert.True(t, os.IsNotExist(err))
}

func TestSaveRejectsOutsidePaths(t *testing.T) {
	s := newTestStore(t)
	root := t.TempDir()
	outside := testutil.CreateTempFile(t, t.TempDir(), "x.json", "{}")

	_, err := s.Save(filestore.NewLocal(), root, root, []string{outside})
	assert.Error(t, err)
}

func TestSaveFromContainerScope(t *testing.T) {
	s := newTestStore(t)
	host := t.TempDir()
	testutil.CreateTempFile(t, filepath.Join(host, ".devcontainer"), "Dockerfile", "FROM scratch")
	store := filestore.New(filestore.ScopeContainer, host, "/workspaces/blink")

	snap, err := s.Save(store, host, "/workspaces/blink", []string{"/workspaces/blink/.devcontainer/Dockerfile"})
	require.NoError(t, err)
	assert.Equal(t, ".devcontainer/Dockerfile", snap.Files[0].Path)

	require.NoError(t, os.Remove(filepath.Join(host, ".devcontainer", "Dockerfile")))
	_, err = s.Restore(snap.ID)
	require.NoError(t, err)
	testutil.AssertFileContent(t, filepath.Join(host, ".devcontainer", "Dockerfile"), "FROM scratch")
}

func TestListNewestFirstAndByProject(t *testing.T) {
	s := newTestStore(t)
	rootA, rootB := t.TempDir(), t.TempDir()
	fileA := testutil.CreateTempFile(t, rootA, "a.txt", "a")
	fileB := testutil.CreateTempFile(t, rootB, "b.txt", "b")

	first, err := s.Save(filestore.NewLocal(), rootA, rootA, []string{fileA})
	require.NoError(t, err)
	_, err = s.Save(filestore.NewLocal(), rootB, rootB, []string{fileB})
	require.NoError(t, err)
	second, err := s.Save(filestore.NewLocal(), rootA, rootA, []string{fileA})
	require.NoError(t, err)

	all, err := s.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyA, err := s.List(rootA)
	require.NoError(t, err)
	require.Len(t, onlyA, 2)
	assert.Equal(t, second.ID, onlyA[0].ID)
	assert.Equal(t, first.ID, onlyA[1].ID)
}

func TestListSkipsBrokenSnapshots(t *testing.T) {
	s := newTestStore(t)
	testutil.CreateTempFile(t, filepath.Join(s.Dir, "backup_broken"), manifestName, "{")

	snaps, err := s.List("")
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestCleanupKeepsNewest(t *testing.T) {
	s := newTestStore(t)
	s.Retain = 2
	root := t.TempDir()
	file := testutil.CreateTempFile(t, root, "main.ino", "x")

	var ids []string
	for i := 0; i < 4; i++ {
		snap, err := s.Save(filestore.NewLocal(), root, root, []string{file})
		require.NoError(t, err)
		ids = append(ids, snap.ID)
	}

	snaps, err := s.List(root)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, ids[3], snaps[0].ID)
	assert.Equal(t, ids[2], snaps[1].ID)
}

func TestRestoreUnknown(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"", "missing", "../escape"} {
		_, err := s.Restore(id)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err), "id %q", id)
	}
}
