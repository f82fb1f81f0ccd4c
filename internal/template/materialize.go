package template

import (
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/iot-workbench/iotwb/internal/apperr"
	"github.com/iot-workbench/iotwb/internal/filestore"
	"github.com/iot-workbench/iotwb/internal/logger"
)

// Materialize reads the template's manifest and the content of every file
// it lists. Any missing source aborts the whole call and no records are
// returned.
func Materialize(store filestore.Store, folder string) ([]FileInfo, error) {
	manifestPath := filepath.Join(folder, ManifestFileName)
	data, err := store.ReadFile(manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NotFound("template manifest", manifestPath)
		}
		return nil, err
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &apperr.ParseError{File: manifestPath, Err: err}
	}

	files := make([]FileInfo, 0, len(m.TemplateFiles))
	for _, mf := range m.TemplateFiles {
		src := filepath.Join(folder, filepath.FromSlash(mf.SourcePath), mf.FileName)
		content, err := store.ReadFile(src)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, apperr.NotFound("template source file", src)
			}
			return nil, err
		}

		files = append(files, FileInfo{
			FileName:    mf.FileName,
			SourcePath:  mf.SourcePath,
			TargetPath:  mf.TargetPath,
			Overwrite:   mf.Overwrite == nil || *mf.Overwrite,
			FileContent: string(content),
		})
	}

	log := logger.Get()
	log.Debug().Str("folder", folder).Int("files", len(files)).Msg("materialized template")
	return files, nil
}

// EnvironmentFiles resolves (tag, name) in the catalog and materializes it.
func EnvironmentFiles(store filestore.Store, catalogPath, tag, name string) ([]FileInfo, error) {
	folder, err := ResolveTemplatePath(store, catalogPath, tag, name)
	if err != nil {
		return nil, err
	}
	return Materialize(store, folder)
}
