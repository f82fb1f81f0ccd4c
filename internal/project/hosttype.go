package project

import (
	"strings"

	"github.com/iot-workbench/iotwb/internal/filestore"
)

// HostType 项目运行的宿主环境
type HostType string

const (
	HostUnknown   HostType = ""
	HostWorkspace HostType = "Workspace"
	HostContainer HostType = "Container"
)

// ParseHostType accepts the canonical names case-insensitively.
func ParseHostType(s string) (HostType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "workspace":
		return HostWorkspace, true
	case "container":
		return HostContainer, true
	default:
		return HostUnknown, false
	}
}

func (h HostType) String() string {
	if h == HostUnknown {
		return "Unknown"
	}
	return string(h)
}

// EnvironmentTemplate names the DevelopmentEnvironment template for h.
func (h HostType) EnvironmentTemplate() string {
	return string(h)
}

// Scope 容器项目默认在容器文件系统上操作
func (h HostType) Scope() filestore.Scope {
	if h == HostContainer {
		return filestore.ScopeContainer
	}
	return filestore.ScopeLocal
}
