package filestore

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/iot-workbench/iotwb/internal/apperr"
)

// ReadOnlyFS exposes an fs.FS (e.g. the embedded template pack) as a Store.
// Every write fails.
type ReadOnlyFS struct {
	fsys fs.FS
}

func NewReadOnlyFS(fsys fs.FS) *ReadOnlyFS {
	return &ReadOnlyFS{fsys: fsys}
}

func (*ReadOnlyFS) Scope() Scope { return ScopeLocal }

// 注意：fs.FS 要求使用正斜杠且不能以 / 开头
func fsPath(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "."
	}
	return p
}

func (r *ReadOnlyFS) Exists(p string) (bool, error) {
	_, err := fs.Stat(r.fsys, fsPath(p))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, apperr.IO("stat", p, err)
}

func (r *ReadOnlyFS) IsDirectory(p string) (bool, error) {
	info, err := fs.Stat(r.fsys, fsPath(p))
	if err == nil {
		return info.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, apperr.IO("stat", p, err)
}

func (r *ReadOnlyFS) ReadFile(p string) ([]byte, error) {
	data, err := fs.ReadFile(r.fsys, fsPath(p))
	if err != nil {
		return nil, apperr.IO("read", p, err)
	}
	return data, nil
}

func (*ReadOnlyFS) MkdirAll(p string) error {
	return apperr.IO("mkdir", p, fs.ErrPermission)
}

func (*ReadOnlyFS) WriteFile(p string, _ []byte) error {
	return apperr.IO("write", p, fs.ErrPermission)
}

func (*ReadOnlyFS) WriteJSON(p string, _ any) error {
	return apperr.IO("write", p, fs.ErrPermission)
}
