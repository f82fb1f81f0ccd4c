package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"

	"github.com/iot-workbench/iotwb/internal/apperr"
	"github.com/iot-workbench/iotwb/internal/filestore"
	"github.com/iot-workbench/iotwb/internal/logger"
	"github.com/iot-workbench/iotwb/internal/portable"
)

const (
	// MaxSnapshots is the number of snapshots kept per project
	MaxSnapshots = 10
	// BackupDirName is the name of the backup directory
	BackupDirName = "backups"

	manifestName = "manifest.json"
	filesDir     = "files"
)

// File 快照中的一个文件
type File struct {
	Path   string `json:"path"`   // relative to the project root
	Stored string `json:"stored"` // relative to the snapshot folder
}

// Snapshot holds the files an overwrite replaced.
type Snapshot struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
	Project string    `json:"project"`
	Files   []File    `json:"files"`

	dir string
}

// Dir 快照所在目录
func (s *Snapshot) Dir() string { return s.dir }

// Store keeps snapshots under one directory, outside the projects.
type Store struct {
	Dir    string
	Retain int

	disk *filestore.Local
	now  func() time.Time
}

// DefaultDir is $XDG_STATE_HOME/iotwb/backups, or the portable data dir.
func DefaultDir() string {
	return portable.Resolve(filepath.Join(xdg.StateHome, "iotwb", BackupDirName), BackupDirName)
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir, Retain: MaxSnapshots, disk: filestore.NewLocal(), now: time.Now}
}

// Save copies paths, read through src, into a new snapshot. destRoot is
// the project root as src sees it and projectRoot the host path recorded
// for restores. Nothing is written when paths is empty.
func (s *Store) Save(src filestore.Store, projectRoot, destRoot string, paths []string) (*Snapshot, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	created := s.now().UTC()
	snap := &Snapshot{
		ID:      fmt.Sprintf("backup_%s_%s", created.Format("20060102_150405"), uuid.NewString()[:8]),
		Created: created,
		Project: projectRoot,
	}
	snap.dir = filepath.Join(s.Dir, snap.ID)

	for i, p := range paths {
		rel, err := filepath.Rel(destRoot, p)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("file %s is outside project %s", p, destRoot)
		}
		data, err := src.ReadFile(p)
		if err != nil {
			return nil, err
		}

		stored := filepath.Join(filesDir, fmt.Sprintf("%04d_%s", i, filepath.Base(p)))
		if err := s.disk.MkdirAll(filepath.Join(snap.dir, filesDir)); err != nil {
			return nil, err
		}
		if err := s.disk.WriteFile(filepath.Join(snap.dir, stored), data); err != nil {
			return nil, fmt.Errorf("failed to write backup file: %w", err)
		}
		snap.Files = append(snap.Files, File{Path: filepath.ToSlash(rel), Stored: filepath.ToSlash(stored)})
	}

	if err := s.disk.WriteJSON(filepath.Join(snap.dir, manifestName), snap); err != nil {
		return nil, err
	}

	log := logger.Get()
	log.Debug().Str("id", snap.ID).Int("files", len(snap.Files)).Str("project", projectRoot).Msg("backup created")

	s.cleanup(projectRoot)
	return snap, nil
}

// List returns snapshots newest first. An empty project lists all of them.
func (s *Store) List(project string) ([]Snapshot, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Snapshot{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	snaps := []Snapshot{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		snap, err := s.load(entry.Name())
		if err != nil {
			// 损坏的快照不影响其他快照
			log := logger.Get()
			log.Warn().Err(err).Str("id", entry.Name()).Msg("skipping unreadable backup")
			continue
		}
		if project != "" && snap.Project != project {
			continue
		}
		snaps = append(snaps, *snap)
	}

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].Created.After(snaps[j].Created)
	})
	return snaps, nil
}

func (s *Store) load(id string) (*Snapshot, error) {
	dir := filepath.Join(s.Dir, id)
	path := filepath.Join(dir, manifestName)
	data, err := s.disk.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NotFound("backup", id)
		}
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &apperr.ParseError{File: path, Err: err}
	}
	snap.dir = dir
	return &snap, nil
}

// Restore writes the files of snapshot id back into its project.
func (s *Store) Restore(id string) (*Snapshot, error) {
	if id == "" || filepath.Base(id) != id {
		return nil, apperr.NotFound("backup", id)
	}
	snap, err := s.load(id)
	if err != nil {
		return nil, err
	}

	for _, f := range snap.Files {
		rel := filepath.Clean(filepath.FromSlash(f.Path))
		if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("backup %s has invalid path %q", id, f.Path)
		}
		data, err := s.disk.ReadFile(filepath.Join(snap.dir, filepath.FromSlash(f.Stored)))
		if err != nil {
			return nil, err
		}

		target := filepath.Join(snap.Project, rel)
		if err := s.disk.MkdirAll(filepath.Dir(target)); err != nil {
			return nil, err
		}
		if err := s.disk.WriteFile(target, data); err != nil {
			return nil, fmt.Errorf("failed to restore %s: %w", f.Path, err)
		}
	}
	return snap, nil
}

// cleanup removes the project's oldest snapshots beyond Retain.
func (s *Store) cleanup(project string) {
	if s.Retain <= 0 {
		return
	}
	snaps, err := s.List(project)
	if err != nil || len(snaps) <= s.Retain {
		return
	}

	for _, snap := range snaps[s.Retain:] {
		if err := os.RemoveAll(snap.dir); err != nil {
			log := logger.Get()
			log.Warn().Err(err).Str("id", snap.ID).Msg("failed to delete old backup")
		}
	}
}
