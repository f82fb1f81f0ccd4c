package template

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// CatalogFileName 模板目录文件名
	CatalogFileName = "templates.json"
	// ManifestFileName 每个模板目录下的文件清单
	ManifestFileName = "templatefiles.json"

	TagDevelopmentEnvironment = "DevelopmentEnvironment"
	TagDevice                 = "Device"
)

// Entry 模板目录中的一项（按 tag + name 唯一定位）
type Entry struct {
	Name        string `json:"name"`
	Tag         string `json:"tag"`
	Path        string `json:"path"` // 相对于目录文件所在文件夹
	Description string `json:"description,omitempty"`
}

// Catalog 模板目录文件格式（templates.json）
type Catalog struct {
	Templates []Entry `json:"templates"`

	dir string
}

// FileInfo is one file to materialize. FileContent is loaded when the
// manifest is resolved, not when the file is written.
type FileInfo struct {
	FileName    string
	SourcePath  string
	TargetPath  string
	Overwrite   bool
	FileContent string
}

// manifestFile mirrors a templatefiles.json entry; a missing overwrite means true.
type manifestFile struct {
	FileName   string `json:"fileName"`
	SourcePath string `json:"sourcePath"`
	TargetPath string `json:"targetPath"`
	Overwrite  *bool  `json:"overwrite,omitempty"`
}

type manifest struct {
	TemplateFiles []manifestFile `json:"templateFiles"`
}

// RelTarget returns the target path relative to the project root.
func (f FileInfo) RelTarget() (string, error) {
	rel := filepath.Clean(filepath.Join(filepath.FromSlash(f.TargetPath), f.FileName))
	if f.FileName == "" || rel == "." || rel == ".." || filepath.IsAbs(rel) ||
		filepath.VolumeName(rel) != "" || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid template target %q", filepath.Join(f.TargetPath, f.FileName))
	}
	return rel, nil
}

// Target returns the absolute target path under destRoot.
func (f FileInfo) Target(destRoot string) (string, error) {
	rel, err := f.RelTarget()
	if err != nil {
		return "", err
	}
	return filepath.Join(destRoot, rel), nil
}

// Action 写入单个文件的结果
type Action string

const (
	ActionCreate    Action = "create"
	ActionOverwrite Action = "overwrite"
	ActionSkip      Action = "skip"
)

// Written records what happened to one file.
type Written struct {
	File   FileInfo
	Path   string
	Action Action
}
