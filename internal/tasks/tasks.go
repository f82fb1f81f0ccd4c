package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/mattn/go-shellwords"

	"github.com/iot-workbench/iotwb/internal/apperr"
	"github.com/iot-workbench/iotwb/internal/filestore"
	"github.com/iot-workbench/iotwb/internal/logger"
)

// FileName tasks.json 位于项目的 .vscode 目录下
const FileName = "tasks.json"

// TypeShell tasks run their command line through the system shell.
const TypeShell = "shell"

// Task is one entry of .vscode/tasks.json.
type Task struct {
	Label   string   `json:"label"`
	Type    string   `json:"type,omitempty"` // "shell" or "process" (default)
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

type tasksFile struct {
	Version string `json:"version,omitempty"`
	Tasks   []Task `json:"tasks"`
}

// Path 返回项目的 tasks.json 路径
func Path(root string) string {
	return filepath.Join(root, ".vscode", FileName)
}

// List reads the tasks defined for the project at root. A project without
// a tasks file has no tasks.
func List(store filestore.Store, root string) ([]Task, error) {
	path := Path(root)
	data, err := store.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var f tasksFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &apperr.ParseError{File: path, Err: err}
	}
	return f.Tasks, nil
}

// Find 按 label 查找任务（区分大小写）
func Find(tasks []Task, label string) (Task, error) {
	for _, t := range tasks {
		if t.Label == label {
			return t, nil
		}
	}
	return Task{}, apperr.NotFound("task", label)
}

// Runner executes tasks from a project folder.
type Runner struct {
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
	Env    []string // appended to the current environment
}

var variablePattern = regexp.MustCompile(`\$\{(workspaceFolder|env:([A-Za-z_][A-Za-z0-9_]*))\}`)

// expand resolves ${workspaceFolder} and ${env:NAME}; other variables are
// left as they are.
func (r Runner) expand(s string) string {
	return variablePattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := variablePattern.FindStringSubmatch(m)
		if sub[1] == "workspaceFolder" {
			return r.Dir
		}
		return r.lookupEnv(sub[2])
	})
}

func (r Runner) lookupEnv(name string) string {
	for i := len(r.Env) - 1; i >= 0; i-- {
		if k, v, ok := strings.Cut(r.Env[i], "="); ok && k == name {
			return v
		}
	}
	return os.Getenv(name)
}

// argv builds the command line. Shell tasks hand the expanded command to
// the system shell with args quoted; other tasks split the command like a
// shell would and pass args through after expansion without splitting.
func (r Runner) argv(t Task) ([]string, error) {
	command := r.expand(t.Command)
	if strings.TrimSpace(command) == "" {
		return nil, fmt.Errorf("task %q has no command", t.Label)
	}

	if t.Type == TypeShell {
		line := command
		for _, a := range t.Args {
			line += " " + quoteArg(r.expand(a))
		}
		return shellCommand(line), nil
	}

	words, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("解析任务 %q 的命令失败: %w", t.Label, err)
	}
	for _, a := range t.Args {
		words = append(words, r.expand(a))
	}
	return words, nil
}

var goos = runtime.GOOS

func shellCommand(line string) []string {
	if goos == "windows" {
		return []string{"cmd", "/C", line}
	}
	return []string{"sh", "-c", line}
}

func quoteArg(a string) string {
	if goos == "windows" {
		if a == "" || strings.ContainsAny(a, " \t\"") {
			return `"` + strings.ReplaceAll(a, `"`, `""`) + `"`
		}
		return a
	}
	return shellescape.Quote(a)
}

// Run executes t in the runner's folder and waits for it to finish.
func (r Runner) Run(ctx context.Context, t Task) error {
	argv, err := r.argv(t)
	if err != nil {
		return err
	}

	log := logger.Get()
	log.Debug().Str("task", t.Label).Strs("argv", argv).Str("dir", r.Dir).Msg("running task")

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("task %q failed: %w", t.Label, err)
	}
	return nil
}
