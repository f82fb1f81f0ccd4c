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

// LoadCatalog reads the catalog from disk. Nothing is cached; every call
// sees the current file.
func LoadCatalog(store filestore.Store, path string) (*Catalog, error) {
	data, err := store.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NotFound("template catalog", path)
		}
		return nil, err
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, &apperr.ParseError{File: path, Err: err}
	}
	c.dir = filepath.Dir(path)

	return &c, nil
}

// Find returns the first entry matching both tag and name.
func (c *Catalog) Find(tag, name string) (Entry, error) {
	for _, e := range c.Templates {
		if e.Tag == tag && e.Name == name {
			return e, nil
		}
	}
	return Entry{}, apperr.NotFound("template", tag+"/"+name)
}

// ByTag 列出指定分类的模板，保持目录中的顺序
func (c *Catalog) ByTag(tag string) []Entry {
	entries := []Entry{}
	for _, e := range c.Templates {
		if tag == "" || e.Tag == tag {
			entries = append(entries, e)
		}
	}
	return entries
}

// Folder resolves an entry's path against the catalog location.
func (c *Catalog) Folder(e Entry) string {
	return filepath.Join(c.dir, filepath.FromSlash(e.Path))
}

// ResolveTemplatePath loads the catalog and returns the folder of the
// template identified by tag and name.
func ResolveTemplatePath(store filestore.Store, catalogPath, tag, name string) (string, error) {
	c, err := LoadCatalog(store, catalogPath)
	if err != nil {
		return "", err
	}
	e, err := c.Find(tag, name)
	if err != nil {
		return "", err
	}

	folder := c.Folder(e)
	log := logger.Get()
	log.Debug().Str("tag", tag).Str("name", name).Str("folder", folder).Msg("resolved template")
	return folder, nil
}
