package i18n

import (
	"fmt"

	"github.com/iot-workbench/iotwb/internal/settings"
)

var currentLanguage = "en" // 默认英文

// Message 多语言消息定义
var messages = map[string]map[string]string{
	"en": {
		// Common
		"error":     "Error",
		"cancelled": "Operation cancelled.",

		// Scaffolding
		"confirm.overwrite":     "File %s already exists. Overwrite all existing files?",
		"confirm.select_tpl":    "Select a project template",
		"scaffold.created":      "created",
		"scaffold.overwritten":  "overwritten",
		"scaffold.skipped":      "kept",
		"scaffold.project_done": "Project created in %s",
		"scaffold.env_done":     "Environment configured for %s project",
		"scaffold.diff_header":  "=== Diff: %s ===",

		// Project config
		"config.host_updated": "Host type set to %s",
		"config.no_host":      "No IoT workbench host type recorded for %s",

		// Editor / tasks
		"editor.opening":   "Opening %s in %s",
		"editor.reopening": "Reopening %s in container via %s",
		"task.none":        "No tasks defined in %s",
		"task.running":     "Running task %s",

		// Backups
		"backup.none":     "No backups found",
		"backup.restored": "Restored %d files into %s",
	},
	"zh": {
		// Common
		"error":     "错误",
		"cancelled": "操作已取消。",

		// Scaffolding
		"confirm.overwrite":     "文件 %s 已存在。是否覆盖所有已存在的文件？",
		"confirm.select_tpl":    "选择项目模板",
		"scaffold.created":      "已创建",
		"scaffold.overwritten":  "已覆盖",
		"scaffold.skipped":      "已保留",
		"scaffold.project_done": "项目已创建于 %s",
		"scaffold.env_done":     "已为 %s 项目配置环境",
		"scaffold.diff_header":  "=== 差异: %s ===",

		// Project config
		"config.host_updated": "宿主类型已设置为 %s",
		"config.no_host":      "%s 未记录 IoT workbench 宿主类型",

		// Editor / tasks
		"editor.opening":   "正在用 %[2]s 打开 %[1]s",
		"editor.reopening": "正在通过 %[2]s 在容器中重新打开 %[1]s",
		"task.none":        "%s 中未定义任务",
		"task.running":     "正在运行任务 %s",

		// Backups
		"backup.none":     "没有找到备份",
		"backup.restored": "已恢复 %d 个文件到 %s",
	},
}

// Init 根据设置文件初始化语言
func Init() error {
	s, err := settings.Load()
	if err != nil {
		// 如果加载设置失败，使用默认语言
		return nil
	}

	SetLanguage(s.Language)
	return nil
}

// SetLanguage 设置当前语言
func SetLanguage(lang string) {
	if lang == "en" || lang == "zh" {
		currentLanguage = lang
	}
}

// GetLanguage 获取当前语言
func GetLanguage() string {
	return currentLanguage
}

// T 翻译消息 (Translation)
func T(key string, args ...interface{}) string {
	langMessages, ok := messages[currentLanguage]
	if !ok {
		langMessages = messages["en"]
	}

	msg, ok := langMessages[key]
	if !ok {
		return key // 如果找不到翻译，返回 key 本身
	}

	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}

	return msg
}

// Tf 翻译消息并格式化 (Translation with format)
func Tf(key string, args ...interface{}) string {
	return T(key, args...)
}
