package testutil

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/adrg/xdg"
)

// CreateTempFile 创建临时测试文件（自动创建父目录）
func CreateTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("创建临时文件失败: %v", err)
	}
	return path
}

// AssertFileExists 断言文件存在
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("文件不存在: %s", path)
	}
}

// AssertFileNotExists 断言文件不存在
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("文件不应该存在: %s", path)
	}
}

// AssertFileContent 断言文件内容
func AssertFileContent(t *testing.T, path, expected string) {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取文件失败: %v", err)
	}
	if string(content) != expected {
		t.Errorf("文件内容不匹配\n期望: %s\n实际: %s", expected, string(content))
	}
}

// WithTempHome points HOME and the XDG config and state dirs at a temp directory.
func WithTempHome(t *testing.T, fn func(home string)) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	fn(home)
}

// CaptureOutput 捕获 fn 执行期间写入 os.Stdout / os.Stderr 的内容
func CaptureOutput(t *testing.T, fn func()) (string, string) {
	t.Helper()
	origOut, origErr := os.Stdout, os.Stderr
	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatalf("create stdout pipe: %v", err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		t.Fatalf("create stderr pipe: %v", err)
	}

	var stdout, stderr bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); _, _ = io.Copy(&stdout, outR) }()
	go func() { defer wg.Done(); _, _ = io.Copy(&stderr, errR) }()

	os.Stdout, os.Stderr = outW, errW
	func() {
		defer func() { os.Stdout, os.Stderr = origOut, origErr }()
		fn()
	}()
	_ = outW.Close()
	_ = errW.Close()
	wg.Wait()
	_ = outR.Close()
	_ = errR.Close()

	return stdout.String(), stderr.String()
}

// PromptCall records one Confirm invocation.
type PromptCall struct {
	Message string
	Choices []string
}

// ScriptedPrompter answers prompts from a fixed script. An empty answer
// is a dismissal. Once the script runs out every prompt is dismissed.
type ScriptedPrompter struct {
	Answers []string
	Calls   []PromptCall
}

func NewScriptedPrompter(answers ...string) *ScriptedPrompter {
	return &ScriptedPrompter{Answers: answers}
}

func (s *ScriptedPrompter) next(message string, choices []string) (string, bool) {
	s.Calls = append(s.Calls, PromptCall{Message: message, Choices: append([]string(nil), choices...)})
	if len(s.Answers) == 0 {
		return "", false
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return answer, answer != ""
}

func (s *ScriptedPrompter) Confirm(_ context.Context, message string, choices []string) (string, bool, error) {
	answer, ok := s.next(message, choices)
	return answer, ok, nil
}

func (s *ScriptedPrompter) Select(_ context.Context, message string, choices []string) (string, bool, error) {
	answer, ok := s.next(message, choices)
	return answer, ok, nil
}
