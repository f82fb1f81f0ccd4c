package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/iot-workbench/iotwb/internal/apperr"
	"github.com/iot-workbench/iotwb/internal/filestore"
	"github.com/iot-workbench/iotwb/internal/logger"
	"github.com/iot-workbench/iotwb/internal/version"
)

const (
	// ConfigDir/ConfigFileName 项目配置文件位置（相对项目根目录）
	ConfigDir      = ".vscode"
	ConfigFileName = "iotworkbench.json"

	KeyHostType         = "hostType"
	KeyBoardID          = "boardId"
	KeyWorkbenchVersion = "workbenchVersion"
)

// Config is the flat project config. Keys this tool does not know about
// are carried through every rewrite untouched.
type Config map[string]string

// ConfigPath 返回项目配置文件路径
func ConfigPath(projectRoot string) string {
	return filepath.Join(projectRoot, ConfigDir, ConfigFileName)
}

// GetProjectConfig reads the config at path. A missing or blank file is an
// empty config; anything that does not parse is corrupt.
func GetProjectConfig(store filestore.Store, path string) (Config, error) {
	data, err := store.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Config{}, nil
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &apperr.ConfigCorruptError{Path: path, Err: err}
	}
	if cfg == nil {
		cfg = Config{}
	}
	return cfg, nil
}

// updateConfig is the single read-modify-write path; the store writes
// through a temp file and rename.
func updateConfig(store filestore.Store, path string, mutate func(Config)) error {
	cfg, err := GetProjectConfig(store, path)
	if err != nil {
		return err
	}
	mutate(cfg)

	if err := store.WriteJSON(path, cfg); err != nil {
		return err
	}

	log := logger.Get()
	log.Debug().Str("path", path).Str("hostType", cfg[KeyHostType]).Msg("project config written")
	return nil
}

// UpdateHostType records the host type and stamps the workbench version.
func UpdateHostType(store filestore.Store, path string, host HostType) error {
	if _, ok := ParseHostType(string(host)); !ok {
		return fmt.Errorf("invalid host type %q", string(host))
	}
	return updateConfig(store, path, func(cfg Config) {
		cfg[KeyHostType] = string(host)
		cfg[KeyWorkbenchVersion] = version.WorkbenchVersion
	})
}

// UpdateBoardID 记录开发板标识
func UpdateBoardID(store filestore.Store, path, boardID string) error {
	return updateConfig(store, path, func(cfg Config) {
		cfg[KeyBoardID] = boardID
	})
}

// DetectHostType returns HostUnknown when the project has no recognisable
// host type; deciding whether it is an IoT project at all is up to the caller.
func DetectHostType(store filestore.Store, projectRoot string) (HostType, error) {
	cfg, err := GetProjectConfig(store, ConfigPath(projectRoot))
	if err != nil {
		return HostUnknown, err
	}
	host, ok := ParseHostType(cfg[KeyHostType])
	if !ok {
		return HostUnknown, nil
	}
	return host, nil
}
