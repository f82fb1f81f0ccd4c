package tasks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iot-workbench/iotwb/internal/apperr"
	"github.com/iot-workbench/iotwb/internal/filestore"
	"github.com/iot-workbench/iotwb/internal/testutil"
)

// TestHelperTask is the process the runner tests execute.
func TestHelperTask(t *testing.T) {
	if os.Getenv("IOTWB_TASK_HELPER") != "1" {
		return
	}
	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}
	wd, _ := os.Getwd()
	fmt.Fprintf(os.Stdout, "args=%s\n", strings.Join(args, "|"))
	fmt.Fprintf(os.Stdout, "wd=%s\n", wd)
	if len(args) > 0 && args[0] == "fail" {
		fmt.Fprintln(os.Stderr, "boom")
		os.Exit(3)
	}
	os.Exit(0)
}

func helperCommand(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("helper command quoting is POSIX only")
	}
	return "'" + os.Args[0] + "' -test.run=TestHelperTask --"
}

func TestListAndFind(t *testing.T) {
	root := t.TempDir()
	testutil.CreateTempFile(t, filepath.Join(root, ".vscode"), FileName, `{
  "version": "2.0.0",
  "tasks": [
    {"label": "build", "type": "shell", "command": "make"},
    {"label": "upload", "command": "make", "args": ["upload"]}
  ]
}`)

	tasks, err := List(filestore.NewLocal(), root)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	got, err := Find(tasks, "upload")
	require.NoError(t, err)
	assert.Equal(t, []string{"upload"}, got.Args)

	_, err = Find(tasks, "Upload")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListMissingAndBroken(t *testing.T) {
	root := t.TempDir()
	tasks, err := List(filestore.NewLocal(), root)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	testutil.CreateTempFile(t, filepath.Join(root, ".vscode"), FileName, "{")
	_, err = List(filestore.NewLocal(), root)
	assert.Equal(t, apperr.KindParse, apperr.KindOf(err))
}

func TestExpand(t *testing.T) {
	r := Runner{Dir: "/proj", Env: []string{"IOTWB_PORT=/dev/ttyUSB0"}}
	t.Setenv("IOTWB_BOARD", "uno")

	tests := []struct {
		in   string
		want string
	}{
		{in: "${workspaceFolder}/src", want: "/proj/src"},
		{in: "--port ${env:IOTWB_PORT}", want: "--port /dev/ttyUSB0"},
		{in: "${env:IOTWB_BOARD}", want: "uno"},
		{in: "${env:IOTWB_UNSET_FOR_TEST}", want: ""},
		{in: "${config:other}", want: "${config:other}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.expand(tt.in), tt.in)
	}
}

func TestArgvSplitsCommandOnly(t *testing.T) {
	r := Runner{Dir: "/proj"}
	argv, err := r.argv(Task{Label: "x", Command: `gcc -o "out file" main.c`, Args: []string{"a b"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"gcc", "-o", "out file", "main.c", "a b"}, argv)

	_, err = r.argv(Task{Label: "empty", Command: "   "})
	assert.Error(t, err)

	_, err = r.argv(Task{Label: "quote", Command: `echo "unterminated`})
	assert.Error(t, err)
}

func TestArgvShellTasks(t *testing.T) {
	orig := goos
	t.Cleanup(func() { goos = orig })
	r := Runner{Dir: "/proj"}
	task := Task{Label: "build", Type: TypeShell, Command: "make && size ${workspaceFolder}/out", Args: []string{"a b", "${workspaceFolder}"}}

	goos = "linux"
	argv, err := r.argv(task)
	require.NoError(t, err)
	assert.Equal(t, []string{"sh", "-c", "make && size /proj/out 'a b' /proj"}, argv)

	goos = "windows"
	argv, err = r.argv(task)
	require.NoError(t, err)
	assert.Equal(t, []string{"cmd", "/C", `make && size /proj/out "a b" /proj`}, argv)

	_, err = r.argv(Task{Label: "empty", Type: TypeShell, Command: " "})
	assert.Error(t, err)
}

func TestRunShellTaskUsesShellOperators(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell only")
	}
	root := t.TempDir()
	var stdout bytes.Buffer

	r := Runner{Dir: root, Stdout: &stdout, Stderr: &stdout}
	err := r.Run(context.Background(), Task{
		Label:   "build",
		Type:    TypeShell,
		Command: "echo one && echo two > out.txt && cat out.txt | tr a-z A-Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "one\nTWO\n", stdout.String())
	testutil.AssertFileContent(t, filepath.Join(root, "out.txt"), "two\n")
}

func TestRunRelaysOutput(t *testing.T) {
	command := helperCommand(t)
	root := t.TempDir()
	var stdout, stderr bytes.Buffer

	r := Runner{Dir: root, Stdout: &stdout, Stderr: &stderr, Env: []string{"IOTWB_TASK_HELPER=1", "IOTWB_PORT=COM3"}}
	err := r.Run(context.Background(), Task{
		Label:   "upload",
		Command: command + " upload",
		Args:    []string{"--port", "${env:IOTWB_PORT}", "${workspaceFolder}"},
	})
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "args=upload|--port|COM3|"+root)
	wantWD, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "wd=")
	gotWD := strings.TrimSpace(stdout.String()[strings.Index(stdout.String(), "wd=")+3:])
	gotWD, err = filepath.EvalSymlinks(gotWD)
	require.NoError(t, err)
	assert.Equal(t, wantWD, gotWD)
}

func TestRunReportsFailure(t *testing.T) {
	command := helperCommand(t)
	var stdout, stderr bytes.Buffer

	r := Runner{Dir: t.TempDir(), Stdout: &stdout, Stderr: &stderr, Env: []string{"IOTWB_TASK_HELPER=1"}}
	err := r.Run(context.Background(), Task{Label: "build", Command: command + " fail"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `task "build" failed`)
	assert.Contains(t, stderr.String(), "boom")
}

func TestRunHonoursCancelledContext(t *testing.T) {
	command := helperCommand(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := Runner{Dir: t.TempDir(), Env: []string{"IOTWB_TASK_HELPER=1"}}
	err := r.Run(ctx, Task{Label: "build", Command: command})
	assert.ErrorIs(t, err, context.Canceled)
}
