package template

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/iot-workbench/iotwb/internal/filestore"
)

const noDifferences = "No differences found."

// GenerateDiff 生成两个文本之间的 unified diff
func GenerateDiff(oldText, newText, oldLabel, newLabel string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)

	if len(diffs) == 0 || (len(diffs) == 1 && diffs[0].Type == diffmatchpatch.DiffEqual) {
		return noDifferences
	}

	patches := dmp.PatchMake(oldText, diffs)
	unified := dmp.PatchToText(patches)
	if unified == "" {
		return noDifferences
	}

	// 添加文件头
	var result strings.Builder
	result.WriteString(fmt.Sprintf("--- %s\n", oldLabel))
	result.WriteString(fmt.Sprintf("+++ %s\n", newLabel))
	result.WriteString(unified)

	return result.String()
}

// DiffExisting compares the file currently at the record's target with the
// template content. A missing target diffs against empty text.
func DiffExisting(store filestore.Store, destRoot string, f FileInfo) (string, error) {
	target, err := f.Target(destRoot)
	if err != nil {
		return "", err
	}

	current := ""
	exists, err := store.Exists(target)
	if err != nil {
		return "", err
	}
	if exists {
		data, err := store.ReadFile(target)
		if err != nil {
			return "", err
		}
		current = string(data)
	}

	return GenerateDiff(current, f.FileContent, "Current: "+target, "Template: "+f.FileName), nil
}

// FormatDiffForCLI 为 CLI 输出格式化 diff（带颜色）
func FormatDiffForCLI(diff string) string {
	bold := color.New(color.Bold).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	var result strings.Builder
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			result.WriteString(bold(line))
		case strings.HasPrefix(line, "-"):
			result.WriteString(red(line))
		case strings.HasPrefix(line, "+"):
			result.WriteString(green(line))
		case strings.HasPrefix(line, "@@"):
			result.WriteString(cyan(line))
		default:
			result.WriteString(line)
		}
		result.WriteString("\n")
	}
	return result.String()
}
