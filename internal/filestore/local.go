package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/iot-workbench/iotwb/internal/apperr"
)

// Local 本地磁盘实现，写入均为原子写入
type Local struct{}

func NewLocal() *Local { return &Local{} }

func (*Local) Scope() Scope { return ScopeLocal }

// Exists 检查路径是否存在
func (*Local) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, apperr.IO("stat", path, err)
}

func (*Local) IsDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return info.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, apperr.IO("stat", path, err)
}

// MkdirAll 递归创建目录，目录已存在时不报错
func (*Local) MkdirAll(path string) error {
	return apperr.IO("mkdir", path, os.MkdirAll(path, dirPerm))
}

func (*Local) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.IO("read", path, err)
	}
	return data, nil
}

func (*Local) WriteFile(path string, data []byte) error {
	return apperr.IO("write", path, writeAtomic(path, data, filePerm))
}

// WriteJSON 以缩进格式写入 JSON 文件
func (l *Local) WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperr.IO("encode", path, fmt.Errorf("序列化 JSON 失败: %w", err))
	}
	return l.WriteFile(path, append(data, '\n'))
}

// writeAtomic writes into a temp file next to path and renames it over the
// target, so readers see either the old or the new content.
func writeAtomic(path string, data []byte, perm fs.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".iotwb-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		_ = f.Close()
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()
	if err = f.Chmod(perm); err != nil {
		return err
	}
	if _, err = f.Write(data); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
