package project

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/iot-workbench/iotwb/internal/apperr"
	"github.com/iot-workbench/iotwb/internal/backup"
	"github.com/iot-workbench/iotwb/internal/filestore"
	"github.com/iot-workbench/iotwb/internal/logger"
	"github.com/iot-workbench/iotwb/internal/prompt"
	"github.com/iot-workbench/iotwb/internal/template"
	"github.com/iot-workbench/iotwb/internal/vscode"
)

// Opener hands a project over to the editor.
type Opener interface {
	OpenFolder(ctx context.Context, dir string) error
	ReopenInContainer(ctx context.Context, dir string) error
}

// Deps are the collaborators every project needs.
type Deps struct {
	Templates   filestore.Store // where the template catalog lives
	CatalogPath string
	Opener      Opener
	Backups     *backup.Store // nil disables snapshots before overwrites
}

// Project is what callers construct once the host type is known.
type Project interface {
	HostType() HostType
	Root() string
	Config() Config
	Load(ctx context.Context, scope filestore.Scope, bestEffort bool) error
	Open(ctx context.Context) error
	ConfigureEnvironment(ctx context.Context, p prompt.Prompter) ([]template.Written, error)
}

type baseProject struct {
	host  HostType
	root  string // 宿主机上的项目目录
	deps  Deps
	store filestore.Store
	dest  string // root as seen by store
	cfg   Config
}

func (b *baseProject) HostType() HostType { return b.host }
func (b *baseProject) Root() string       { return b.root }
func (b *baseProject) Config() Config     { return b.cfg }

// Load binds the project to a filesystem scope and reads its config. With
// bestEffort a missing folder or unreadable config is logged, not returned.
func (b *baseProject) Load(ctx context.Context, scope filestore.Scope, bestEffort bool) error {
	if scope == filestore.ScopeContainer {
		b.dest = vscode.ContainerMount(b.root)
		b.store = filestore.New(scope, b.root, b.dest)
	} else {
		b.dest = b.root
		b.store = filestore.New(scope, "", "")
	}

	log := logger.Get()
	isDir, err := b.store.IsDirectory(b.dest)
	if err == nil && !isDir {
		err = apperr.NotFound("project folder", b.root)
	}
	if err != nil {
		if !bestEffort {
			return err
		}
		log.Warn().Err(err).Str("root", b.root).Msg("loading project anyway")
	}

	cfg, err := GetProjectConfig(b.store, ConfigPath(b.dest))
	if err != nil {
		if !bestEffort {
			return err
		}
		log.Warn().Err(err).Str("root", b.root).Msg("ignoring unreadable project config")
		cfg = Config{}
	}
	b.cfg = cfg
	return nil
}

func (b *baseProject) ensureLoaded() error {
	if b.store == nil {
		return fmt.Errorf("project %s is not loaded", b.root)
	}
	return nil
}

// ConfigureEnvironment scaffolds the DevelopmentEnvironment template for
// the project's host type and records the host type.
func (b *baseProject) ConfigureEnvironment(ctx context.Context, p prompt.Prompter) ([]template.Written, error) {
	if err := b.ensureLoaded(); err != nil {
		return nil, err
	}

	files, err := b.environmentFiles()
	if err != nil {
		return nil, err
	}
	if err := template.EnsureOverwrite(ctx, b.store, b.dest, files, p); err != nil {
		return nil, err
	}
	if err := backupOverwrites(b.deps, b.store, b.root, b.dest, files); err != nil {
		return nil, err
	}
	return b.applyEnvironment(files)
}

// environmentFiles materializes the environment template for the host type.
func (b *baseProject) environmentFiles() ([]template.FileInfo, error) {
	return template.EnvironmentFiles(b.deps.Templates, b.deps.CatalogPath,
		template.TagDevelopmentEnvironment, b.host.EnvironmentTemplate())
}

// applyEnvironment writes files that were already confirmed, then records
// the host type.
func (b *baseProject) applyEnvironment(files []template.FileInfo) ([]template.Written, error) {
	if err := b.ensureLoaded(); err != nil {
		return nil, err
	}
	written, err := template.WriteFiles(b.store, b.dest, files)
	if err != nil {
		return written, err
	}

	if err := UpdateHostType(b.store, ConfigPath(b.dest), b.host); err != nil {
		return written, err
	}
	cfg, err := GetProjectConfig(b.store, ConfigPath(b.dest))
	if err != nil {
		return written, err
	}
	b.cfg = cfg
	return written, nil
}

// environmentWriter is implemented by every project through baseProject.
type environmentWriter interface {
	environmentFiles() ([]template.FileInfo, error)
	applyEnvironment(files []template.FileInfo) ([]template.Written, error)
}

// backupOverwrites snapshots every existing file the write will replace.
func backupOverwrites(deps Deps, store filestore.Store, root, dest string, files []template.FileInfo) error {
	if deps.Backups == nil {
		return nil
	}
	conflicts, err := template.Conflicts(store, dest, files)
	if err != nil {
		return err
	}

	var paths []string
	for _, c := range conflicts {
		if c.Action == template.ActionOverwrite {
			paths = append(paths, c.Path)
		}
	}
	_, err = deps.Backups.Save(store, root, dest, paths)
	return err
}

// WorkspaceProject keeps all code in the local workspace.
type WorkspaceProject struct {
	baseProject
}

func (w *WorkspaceProject) Open(ctx context.Context) error {
	return w.deps.Opener.OpenFolder(ctx, w.root)
}

// ContainerProject is developed inside a dev container.
type ContainerProject struct {
	baseProject
}

func (c *ContainerProject) Open(ctx context.Context) error {
	return c.deps.Opener.ReopenInContainer(ctx, c.root)
}

// New constructs the project collaborator for host.
func New(host HostType, root string, deps Deps) (Project, error) {
	root = filepath.Clean(root)
	base := baseProject{host: host, root: root, deps: deps}
	switch host {
	case HostWorkspace:
		return &WorkspaceProject{baseProject: base}, nil
	case HostContainer:
		return &ContainerProject{baseProject: base}, nil
	default:
		return nil, fmt.Errorf("unsupported host type %q", string(host))
	}
}

// Resolve detects the host type recorded under root and builds the project.
// An unresolved project yields (nil, HostUnknown, nil); a corrupt config is
// an error.
func Resolve(ctx context.Context, root string, deps Deps) (Project, HostType, error) {
	host, err := DetectHostType(filestore.NewLocal(), root)
	if err != nil {
		return nil, HostUnknown, err
	}
	if host == HostUnknown {
		return nil, HostUnknown, nil
	}

	p, err := New(host, root, deps)
	if err != nil {
		return nil, host, err
	}
	if err := p.Load(ctx, filestore.ScopeLocal, false); err != nil {
		return nil, host, err
	}
	return p, host, nil
}
