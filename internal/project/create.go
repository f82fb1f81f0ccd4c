package project

import (
	"context"
	"path/filepath"

	"github.com/iot-workbench/iotwb/internal/filestore"
	"github.com/iot-workbench/iotwb/internal/logger"
	"github.com/iot-workbench/iotwb/internal/prompt"
	"github.com/iot-workbench/iotwb/internal/template"
)

// CreateOptions 描述新建项目所需参数
type CreateOptions struct {
	Root     string
	Tag      string // defaults to template.TagDevice
	Template string
	Host     HostType
	BoardID  string
}

// Create scaffolds a project from a catalog template, then configures its
// environment for opts.Host. Both templates are materialized before
// anything is written, and existing files under Root are negotiated once
// for the combined set.
func Create(ctx context.Context, opts CreateOptions, deps Deps, p prompt.Prompter) (Project, []template.Written, error) {
	if opts.Tag == "" {
		opts.Tag = template.TagDevice
	}
	if opts.Host == HostUnknown {
		opts.Host = HostWorkspace
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, nil, err
	}

	proj, err := New(opts.Host, root, deps)
	if err != nil {
		return nil, nil, err
	}
	env := proj.(environmentWriter)

	deviceFiles, err := template.EnvironmentFiles(deps.Templates, deps.CatalogPath, opts.Tag, opts.Template)
	if err != nil {
		return nil, nil, err
	}
	envFiles, err := env.environmentFiles()
	if err != nil {
		return nil, nil, err
	}
	all := append(append([]template.FileInfo{}, deviceFiles...), envFiles...)

	store := filestore.NewLocal()
	// 配置损坏时在写入任何文件之前失败
	if _, err := GetProjectConfig(store, ConfigPath(root)); err != nil {
		return nil, nil, err
	}
	if err := template.EnsureOverwrite(ctx, store, root, all, p); err != nil {
		return nil, nil, err
	}
	if err := store.MkdirAll(root); err != nil {
		return nil, nil, err
	}
	if err := backupOverwrites(deps, store, root, root, all); err != nil {
		return nil, nil, err
	}

	written, err := template.WriteFiles(store, root, deviceFiles)
	if err != nil {
		return nil, written, err
	}
	if err := proj.Load(ctx, filestore.ScopeLocal, false); err != nil {
		return nil, written, err
	}
	envWritten, err := env.applyEnvironment(envFiles)
	written = append(written, envWritten...)
	if err != nil {
		return nil, written, err
	}

	if opts.BoardID != "" {
		if err := UpdateBoardID(store, ConfigPath(root), opts.BoardID); err != nil {
			return nil, written, err
		}
		if err := proj.Load(ctx, filestore.ScopeLocal, false); err != nil {
			return nil, written, err
		}
	}

	log := logger.Get()
	log.Debug().Str("root", root).Str("template", opts.Template).Str("host", opts.Host.String()).
		Int("files", len(written)).Msg("project created")
	return proj, written, nil
}
