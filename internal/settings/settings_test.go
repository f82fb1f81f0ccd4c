package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iot-workbench/iotwb/internal/testutil"
)

func TestNewManagerDefaults(t *testing.T) {
	testutil.WithTempHome(t, func(home string) {
		manager, err := NewManager()
		require.NoError(t, err)

		assert.Equal(t, "en", manager.GetLanguage())
		assert.Equal(t, "code", manager.GetEditor())
		assert.Empty(t, manager.GetTemplatesDir())

		// 文件不存在时不会自动创建
		testutil.AssertFileNotExists(t, GetSettingsPath())
		assert.Equal(t, filepath.Join(home, ".config", "iotwb", "settings.json"), GetSettingsPath())
	})
}

func TestSetLanguagePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	manager, err := NewManagerWithPath(path)
	require.NoError(t, err)

	tests := []struct {
		name    string
		lang    string
		wantErr bool
	}{
		{name: "中文", lang: "zh"},
		{name: "英文", lang: "en"},
		{name: "不支持的语言", lang: "fr", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := manager.SetLanguage(tt.lang)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			reloaded, err := NewManagerWithPath(path)
			require.NoError(t, err)
			assert.Equal(t, tt.lang, reloaded.GetLanguage())
		})
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	path := testutil.CreateTempFile(t, t.TempDir(), "settings.json",
		`{"language": "zh", "templatesDir": "/opt/templates", "editor": "cursor"}`)

	manager, err := NewManagerWithPath(path)
	require.NoError(t, err)
	assert.Equal(t, "zh", manager.GetLanguage())
	assert.Equal(t, "/opt/templates", manager.GetTemplatesDir())
	assert.Equal(t, "cursor", manager.GetEditor())

	t.Setenv("IOTWB_TEMPLATES_DIR", "/env/templates")
	manager, err = NewManagerWithPath(path)
	require.NoError(t, err)
	assert.Equal(t, "/env/templates", manager.GetTemplatesDir())
	assert.Equal(t, "zh", manager.GetLanguage())
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	_, err := NewManagerWithPath(path)
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "templatesDir", envKey("IOTWB_TEMPLATES_DIR"))
	assert.Equal(t, "language", envKey("IOTWB_LANGUAGE"))
}
