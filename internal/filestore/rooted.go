package filestore

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/iot-workbench/iotwb/internal/apperr"
)

// Rooted serves the container scope. Paths are either relative to the
// project, or absolute paths as seen inside the container (under mount);
// both are mapped onto the host directory that is bind-mounted there.
type Rooted struct {
	root  string
	mount string
	disk  *Local
}

func NewRooted(hostRoot, mount string) *Rooted {
	return &Rooted{
		root:  filepath.Clean(hostRoot),
		mount: path.Clean("/" + filepath.ToSlash(mount)),
		disk:  NewLocal(),
	}
}

func (*Rooted) Scope() Scope { return ScopeContainer }

// Mount 返回容器内的挂载路径
func (r *Rooted) Mount() string { return r.mount }

func (r *Rooted) resolve(p string) (string, error) {
	slashed := filepath.ToSlash(p)
	if strings.HasPrefix(slashed, "/") {
		clean := path.Clean(slashed)
		if clean != r.mount && !strings.HasPrefix(clean, r.mount+"/") {
			return "", fmt.Errorf("path %q is outside container mount %s", p, r.mount)
		}
		slashed = strings.TrimPrefix(strings.TrimPrefix(clean, r.mount), "/")
		if slashed == "" {
			return r.root, nil
		}
	}
	return safeJoin(r.root, filepath.FromSlash(slashed))
}

func safeJoin(baseDir, rel string) (string, error) {
	rel = filepath.Clean(rel)
	if rel == "." {
		return baseDir, nil
	}
	if rel == ".." || filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid path %q", rel)
	}
	return filepath.Join(baseDir, rel), nil
}

func (r *Rooted) Exists(p string) (bool, error) {
	abs, err := r.resolve(p)
	if err != nil {
		return false, apperr.IO("stat", p, err)
	}
	return r.disk.Exists(abs)
}

func (r *Rooted) IsDirectory(p string) (bool, error) {
	abs, err := r.resolve(p)
	if err != nil {
		return false, apperr.IO("stat", p, err)
	}
	return r.disk.IsDirectory(abs)
}

func (r *Rooted) MkdirAll(p string) error {
	abs, err := r.resolve(p)
	if err != nil {
		return apperr.IO("mkdir", p, err)
	}
	return r.disk.MkdirAll(abs)
}

func (r *Rooted) ReadFile(p string) ([]byte, error) {
	abs, err := r.resolve(p)
	if err != nil {
		return nil, apperr.IO("read", p, fmt.Errorf("%w: %v", fs.ErrNotExist, err))
	}
	return r.disk.ReadFile(abs)
}

func (r *Rooted) WriteFile(p string, data []byte) error {
	abs, err := r.resolve(p)
	if err != nil {
		return apperr.IO("write", p, err)
	}
	return r.disk.WriteFile(abs, data)
}

func (r *Rooted) WriteJSON(p string, v any) error {
	abs, err := r.resolve(p)
	if err != nil {
		return apperr.IO("write", p, err)
	}
	return r.disk.WriteJSON(abs, v)
}
