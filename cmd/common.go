package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/iot-workbench/iotwb/internal/backup"
	"github.com/iot-workbench/iotwb/internal/filestore"
	"github.com/iot-workbench/iotwb/internal/i18n"
	"github.com/iot-workbench/iotwb/internal/lock"
	"github.com/iot-workbench/iotwb/internal/project"
	"github.com/iot-workbench/iotwb/internal/prompt"
	"github.com/iot-workbench/iotwb/internal/settings"
	"github.com/iot-workbench/iotwb/internal/template"
	"github.com/iot-workbench/iotwb/internal/vscode"
)

// 以下工厂函数在测试中被替换
var (
	newPrompter = func(assumeYes bool) prompt.Prompter {
		if assumeYes {
			return prompt.AssumeYes{}
		}
		return prompt.NewTerminal()
	}
	newSelector = func() prompt.Selector {
		return prompt.NewTerminal()
	}
	newOpener = func(app vscode.VsCodeApp) project.Opener {
		return vscode.Launcher{App: app}
	}
	newBackupStore = func() *backup.Store {
		return backup.NewStore(backup.DefaultDir())
	}
)

// templateSource returns the store and catalog path to scaffold from: the
// configured templates directory, or the embedded pack.
func templateSource(s *settings.AppSettings) (filestore.Store, string) {
	if s.TemplatesDir != "" {
		return filestore.NewLocal(), filepath.Join(s.TemplatesDir, template.CatalogFileName)
	}
	return template.Builtin(), template.BuiltinCatalog
}

func editorApp(s *settings.AppSettings) (vscode.VsCodeApp, error) {
	app, ok := vscode.FindApp(s.Editor)
	if !ok {
		return vscode.VsCodeApp{}, fmt.Errorf("unsupported editor %q (use code or cursor)", s.Editor)
	}
	return app, nil
}

// projectDeps 根据设置组装项目依赖
func projectDeps() (project.Deps, *settings.AppSettings, error) {
	s, err := settings.Load()
	if err != nil {
		return project.Deps{}, nil, err
	}
	app, err := editorApp(s)
	if err != nil {
		return project.Deps{}, nil, err
	}
	store, catalog := templateSource(s)
	return project.Deps{
		Templates:   store,
		CatalogPath: catalog,
		Opener:      newOpener(app),
		Backups:     newBackupStore(),
	}, s, nil
}

// projectDir resolves --dir, defaulting to the working directory.
func projectDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	return filepath.Abs(dir)
}

// acquireLock takes the project lock unless --no-lock was given.
func acquireLock(dir string) (*lock.Lock, error) {
	if noLock {
		return lock.Disabled(), nil
	}
	l := lock.NewLock(dir)
	if err := l.Acquire(); err != nil {
		return nil, err
	}
	return l, nil
}

// printWritten 输出每个文件的处理结果
func printWritten(w io.Writer, written []template.Written) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	for _, f := range written {
		var label string
		switch f.Action {
		case template.ActionCreate:
			label = green(i18n.T("scaffold.created"))
		case template.ActionOverwrite:
			label = yellow(i18n.T("scaffold.overwritten"))
		default:
			label = faint(i18n.T("scaffold.skipped"))
		}
		fmt.Fprintf(w, "  %-12s %s\n", label, f.Path)
	}
}
