package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/iot-workbench/iotwb/internal/filestore"
	"github.com/iot-workbench/iotwb/internal/portable"
)

const envPrefix = "IOTWB_"

// AppSettings 应用设置
type AppSettings struct {
	Language     string `koanf:"language" json:"language"`                   // 语言: "en" 或 "zh"
	TemplatesDir string `koanf:"templatesDir" json:"templatesDir,omitempty"` // 自定义模板目录（包含 templates.json）
	Editor       string `koanf:"editor" json:"editor,omitempty"`             // code 或 cursor
}

func defaults() AppSettings {
	return AppSettings{Language: "en", Editor: "code"}
}

// Manager 设置管理器
type Manager struct {
	settings     *AppSettings
	settingsPath string
}

// GetSettingsPath 获取设置文件路径；便携模式下位于可执行文件旁的 .iotwb 目录
func GetSettingsPath() string {
	return portable.Resolve(filepath.Join(xdg.ConfigHome, "iotwb", "settings.json"), "settings.json")
}

// NewManager 创建设置管理器
func NewManager() (*Manager, error) {
	return NewManagerWithPath(GetSettingsPath())
}

func NewManagerWithPath(path string) (*Manager, error) {
	m := &Manager{settingsPath: path}
	if err := m.Load(); err != nil {
		return nil, err
	}
	return m, nil
}

// Load 加载设置；文件不存在时使用默认值，环境变量 IOTWB_* 优先
func (m *Manager) Load() error {
	k := koanf.New(".")

	if _, err := os.Stat(m.settingsPath); err == nil {
		if err := k.Load(file.Provider(m.settingsPath), json.Parser()); err != nil {
			return fmt.Errorf("解析设置文件失败: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return fmt.Errorf("读取环境变量失败: %w", err)
	}

	s := defaults()
	if err := k.Unmarshal("", &s); err != nil {
		return fmt.Errorf("解析设置失败: %w", err)
	}
	m.settings = &s
	return nil
}

// IOTWB_TEMPLATES_DIR -> templatesDir
func envKey(s string) string {
	parts := strings.Split(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// Save 保存设置文件
func (m *Manager) Save() error {
	return filestore.NewLocal().WriteJSON(m.settingsPath, m.settings)
}

// GetLanguage 获取语言设置
func (m *Manager) GetLanguage() string {
	return m.settings.Language
}

// SetLanguage 设置语言
func (m *Manager) SetLanguage(language string) error {
	if language != "en" && language != "zh" {
		return fmt.Errorf("unsupported language: %s (supported: en, zh)", language)
	}
	m.settings.Language = language
	return m.Save()
}

// GetTemplatesDir 获取自定义模板目录，空字符串表示使用内置模板
func (m *Manager) GetTemplatesDir() string {
	return m.settings.TemplatesDir
}

func (m *Manager) SetTemplatesDir(dir string) error {
	m.settings.TemplatesDir = dir
	return m.Save()
}

func (m *Manager) GetEditor() string {
	return m.settings.Editor
}

// Get 获取所有设置
func (m *Manager) Get() *AppSettings {
	return m.settings
}

// Load reads the settings from the default location.
func Load() (*AppSettings, error) {
	m, err := NewManager()
	if err != nil {
		return nil, err
	}
	return m.Get(), nil
}
