package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iot-workbench/iotwb/internal/apperr"
	"github.com/iot-workbench/iotwb/internal/filestore"
	"github.com/iot-workbench/iotwb/internal/lock"
	"github.com/iot-workbench/iotwb/internal/project"
	"github.com/iot-workbench/iotwb/internal/testutil"
)

func TestEnvRequiresHostType(t *testing.T) {
	withTempHome(t)
	root := t.TempDir()

	_, err := runCLI(t, "env", "--dir", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass --host")

	_, err = runCLI(t, "env", "--dir", root, "--host", "mainframe")
	assert.ErrorContains(t, err, "invalid host type")
}

func TestEnvUsesRecordedHostType(t *testing.T) {
	withTempHome(t)
	root := filepath.Join(t.TempDir(), "blink")
	require.NoError(t, os.MkdirAll(root, 0755))
	writeProjectConfig(t, root, `{"hostType": "Container", "custom": "kept"}`)

	out, err := runCLI(t, "env", "--dir", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Environment configured for Container project")
	// 容器作用域下输出容器内路径
	assert.Contains(t, out, "/workspaces/blink/.devcontainer/devcontainer.json")
	testutil.AssertFileExists(t, filepath.Join(root, ".devcontainer", "devcontainer.json"))

	cfg, err := project.GetProjectConfig(filestore.NewLocal(), project.ConfigPath(root))
	require.NoError(t, err)
	assert.Equal(t, "kept", cfg["custom"])
	assert.Equal(t, "1.0.0", cfg[project.KeyWorkbenchVersion])
}

func TestEnvDeclinedOverwrite(t *testing.T) {
	withTempHome(t)
	root := t.TempDir()
	settingsPath := testutil.CreateTempFile(t, filepath.Join(root, ".vscode"), "settings.json", "{}")

	for _, answer := range []string{"No", ""} {
		prompter := stubPrompter(t, answer)
		out, err := runCLI(t, "env", "--dir", root, "--host", "workspace")
		assert.True(t, apperr.IsCancelled(err), "answer %q: %v", answer, err)
		assert.NotContains(t, out, "Environment configured")
		require.Len(t, prompter.Calls, 1)
		assert.Contains(t, prompter.Calls[0].Message, settingsPath)
		testutil.AssertFileContent(t, settingsPath, "{}")
		testutil.AssertFileNotExists(t, project.ConfigPath(root))
	}
}

func TestEnvYesWithDiff(t *testing.T) {
	withTempHome(t)
	root := t.TempDir()
	testutil.CreateTempFile(t, filepath.Join(root, ".vscode"), "settings.json", "{}")
	extPath := testutil.CreateTempFile(t, filepath.Join(root, ".vscode"), "extensions.json", "mine")

	out, err := runCLI(t, "env", "--dir", root, "--host", "workspace", "--diff", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "=== Diff: "+filepath.Join(root, ".vscode", "settings.json")+" ===")
	assert.NotContains(t, out, "=== Diff: "+extPath)
	assert.Contains(t, out, "overwritten")
	assert.Contains(t, out, "kept")
	testutil.AssertFileContent(t, extPath, "mine")
}

func TestEnvHonoursProjectLock(t *testing.T) {
	withTempHome(t)
	root := t.TempDir()
	writeProjectConfig(t, root, `{"hostType": "Workspace"}`)
	testutil.CreateTempFile(t, root, lock.LockFileName, "99999")

	_, err := runCLI(t, "env", "--dir", root)
	var busy *lock.BusyError
	require.True(t, errors.As(err, &busy), "got %v", err)
	assert.Equal(t, 99999, busy.PID)

	_, err = runCLI(t, "env", "--dir", root, "--no-lock")
	require.NoError(t, err)
	// --no-lock 不会动别人的锁
	testutil.AssertFileContent(t, filepath.Join(root, lock.LockFileName), "99999")
}

func TestEnvCorruptConfig(t *testing.T) {
	withTempHome(t)
	root := t.TempDir()
	writeProjectConfig(t, root, "{not json")

	_, err := runCLI(t, "env", "--dir", root, "--host", "workspace")
	assert.Equal(t, apperr.KindConfigCorrupt, apperr.KindOf(err))
	testutil.AssertFileContent(t, project.ConfigPath(root), "{not json")
}
