package vscode

import (
	"context"
	"encoding/hex"
	"fmt"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// VsCodeApp represents a VS Code-like application
type VsCodeApp struct {
	Name        string
	Command     string // CLI launcher on PATH
	ProcessName string
}

// SupportedApps lists all supported VS Code-like applications
var SupportedApps = []VsCodeApp{
	{Name: "VS Code", Command: "code", ProcessName: "code"},
	{Name: "Cursor", Command: "cursor", ProcessName: "cursor"},
}

// FindApp looks an app up by its command name.
func FindApp(command string) (VsCodeApp, bool) {
	for _, app := range SupportedApps {
		if strings.EqualFold(app.Command, command) {
			return app, true
		}
	}
	return VsCodeApp{}, false
}

// runCommand and commandSucceeds are replaced in tests.
var runCommand = func(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

var commandOutput = func(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// IsRunning checks if a VS Code-like app is running
func IsRunning(app VsCodeApp) (bool, error) {
	if runtime.GOOS == "windows" {
		output, err := commandOutput("tasklist", "/FI", fmt.Sprintf("IMAGENAME eq %s.exe", app.ProcessName))
		if err != nil {
			return false, err
		}
		return strings.Contains(string(output), app.ProcessName), nil
	}
	// pgrep 退出码非 0 表示未找到进程
	_, err := commandOutput("pgrep", "-x", app.ProcessName)
	return err == nil, nil
}

// ContainerMount is where the dev container mounts a project folder.
func ContainerMount(hostDir string) string {
	return path.Join("/workspaces", filepath.Base(hostDir))
}

// ContainerFolderURI builds the folder URI the Dev Containers extension
// uses to reopen hostDir inside its container.
func ContainerFolderURI(hostDir string) string {
	return "vscode-remote://dev-container+" + hex.EncodeToString([]byte(hostDir)) + ContainerMount(hostDir)
}

// Launcher opens projects in one editor.
type Launcher struct {
	App VsCodeApp
}

// OpenFolder opens dir, reusing a running window when there is one.
func (l Launcher) OpenFolder(ctx context.Context, dir string) error {
	windowFlag := "--new-window"
	if running, _ := IsRunning(l.App); running {
		windowFlag = "--reuse-window"
	}
	if err := runCommand(ctx, l.App.Command, windowFlag, dir); err != nil {
		return fmt.Errorf("启动 %s 失败: %w", l.App.Name, err)
	}
	return nil
}

// ReopenInContainer hands dir over to the editor's remote container support.
func (l Launcher) ReopenInContainer(ctx context.Context, dir string) error {
	if err := runCommand(ctx, l.App.Command, "--folder-uri", ContainerFolderURI(dir)); err != nil {
		return fmt.Errorf("在容器中打开 %s 失败: %w", dir, err)
	}
	return nil
}
