package template

import (
	"path/filepath"

	"github.com/iot-workbench/iotwb/internal/apperr"
	"github.com/iot-workbench/iotwb/internal/filestore"
	"github.com/iot-workbench/iotwb/internal/logger"
)

// WriteFile materializes one record under destRoot.
//
// The target folder is always created. A record without content writes
// nothing, and an existing target is only replaced when Overwrite is set.
func WriteFile(store filestore.Store, destRoot string, f FileInfo) (Written, error) {
	target, err := f.Target(destRoot)
	if err != nil {
		return Written{}, apperr.IO("write", f.FileName, err)
	}
	w := Written{File: f, Path: target, Action: ActionSkip}

	if err := store.MkdirAll(filepath.Dir(target)); err != nil {
		return w, apperr.IO("create folder for", f.FileName, err)
	}

	if f.FileContent == "" {
		return w, nil
	}

	exists, err := store.Exists(target)
	if err != nil {
		return w, apperr.IO("stat", f.FileName, err)
	}
	if exists && !f.Overwrite {
		log := logger.Get()
		log.Debug().Str("file", target).Msg("keeping existing file")
		return w, nil
	}

	if err := store.WriteFile(target, []byte(f.FileContent)); err != nil {
		return w, apperr.IO("write", f.FileName, err)
	}

	w.Action = ActionCreate
	if exists {
		w.Action = ActionOverwrite
	}
	return w, nil
}

// WriteFiles writes records in order and stops at the first failure.
// Files written before the failure stay on disk.
func WriteFiles(store filestore.Store, destRoot string, files []FileInfo) ([]Written, error) {
	written := make([]Written, 0, len(files))
	for _, f := range files {
		w, err := WriteFile(store, destRoot, f)
		if err != nil {
			return written, err
		}
		written = append(written, w)
	}
	return written, nil
}
