package filestore

import (
	"fmt"
	"io/fs"
)

// Scope 操作目标的文件系统（本地或容器）
type Scope int

const (
	ScopeLocal Scope = iota
	ScopeContainer
)

func (s Scope) String() string {
	switch s {
	case ScopeLocal:
		return "local"
	case ScopeContainer:
		return "container"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

const (
	dirPerm  fs.FileMode = 0755
	filePerm fs.FileMode = 0644
)

// Store is the filesystem surface the scaffolding core works against.
// Errors from ReadFile keep fs.ErrNotExist in their chain.
type Store interface {
	Scope() Scope
	Exists(path string) (bool, error)
	IsDirectory(path string) (bool, error)
	MkdirAll(path string) error
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	WriteJSON(path string, v any) error
}

// New 根据作用域选择实现；容器作用域需要提供宿主机目录和容器内挂载点
func New(scope Scope, hostRoot, mount string) Store {
	if scope == ScopeContainer {
		return NewRooted(hostRoot, mount)
	}
	return NewLocal()
}
