package template

import (
	"embed"

	"github.com/iot-workbench/iotwb/internal/filestore"
)

//go:embed builtin
var builtinTemplatesFS embed.FS

// BuiltinCatalog 内置模板目录在嵌入文件系统中的路径
const BuiltinCatalog = "builtin/" + CatalogFileName

// Builtin returns the embedded template pack as a read-only store.
func Builtin() filestore.Store {
	return filestore.NewReadOnlyFS(builtinTemplatesFS)
}
