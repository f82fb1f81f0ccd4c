package portable

import (
	"os"
	"path/filepath"
)

// MarkerFile 放在可执行文件旁边即启用便携模式
const MarkerFile = "portable.ini"

// DataDirName 便携模式下的数据目录名
const DataDirName = ".iotwb"

var portableExecutableFunc = os.Executable

// IsPortableMode reports whether a portable.ini file sits next to the
// running executable.
func IsPortableMode() bool {
	execPath, err := portableExecutableFunc()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(filepath.Dir(execPath), MarkerFile))
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DataDir returns the directory that replaces the XDG config and state
// directories in portable mode.
func DataDir() (string, error) {
	execPath, err := portableExecutableFunc()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(execPath), DataDirName), nil
}

// Resolve returns DataDir() joined with elem in portable mode, and
// fallback otherwise.
func Resolve(fallback string, elem ...string) string {
	if !IsPortableMode() {
		return fallback
	}
	dir, err := DataDir()
	if err != nil {
		return fallback
	}
	return filepath.Join(append([]string{dir}, elem...)...)
}
