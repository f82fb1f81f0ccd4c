package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iot-workbench/iotwb/internal/apperr"
)

func TestOpenDispatchesByHostType(t *testing.T) {
	withTempHome(t)

	t.Run("workspace", func(t *testing.T) {
		opener := stubOpener(t)
		root := t.TempDir()
		writeProjectConfig(t, root, `{"hostType": "Workspace"}`)

		out, err := runCLI(t, "open", "--dir", root)
		require.NoError(t, err)
		assert.Equal(t, []string{root}, opener.opened)
		assert.Empty(t, opener.reopened)
		assert.Equal(t, "code", opener.app.Command)
		assert.Contains(t, out, "Opening "+root+" in VS Code")
	})

	t.Run("container with cursor", func(t *testing.T) {
		opener := stubOpener(t)
		t.Setenv("IOTWB_EDITOR", "cursor")
		root := t.TempDir()
		writeProjectConfig(t, root, `{"hostType": "Container"}`)

		out, err := runCLI(t, "open", "--dir", root)
		require.NoError(t, err)
		assert.Equal(t, []string{root}, opener.reopened)
		assert.Equal(t, "cursor", opener.app.Command)
		assert.Contains(t, out, "Reopening "+root+" in container via Cursor")
	})

	t.Run("not an IoT project", func(t *testing.T) {
		opener := stubOpener(t)
		root := t.TempDir()

		_, err := runCLI(t, "open", "--dir", root)
		assert.ErrorContains(t, err, "No IoT workbench host type recorded")
		assert.Empty(t, opener.opened)
	})

	t.Run("corrupt config", func(t *testing.T) {
		opener := stubOpener(t)
		root := t.TempDir()
		writeProjectConfig(t, root, `{"hostType": `)

		_, err := runCLI(t, "open", "--dir", root)
		assert.Equal(t, apperr.KindConfigCorrupt, apperr.KindOf(err))
		assert.Empty(t, opener.opened)
		assert.Empty(t, opener.reopened)
	})

	t.Run("unknown editor", func(t *testing.T) {
		stubOpener(t)
		t.Setenv("IOTWB_EDITOR", "notepad")
		root := t.TempDir()
		writeProjectConfig(t, root, `{"hostType": "Workspace"}`)

		_, err := runCLI(t, "open", "--dir", root)
		assert.ErrorContains(t, err, "unsupported editor")
	})
}
