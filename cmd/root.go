package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/iot-workbench/iotwb/internal/apperr"
	"github.com/iot-workbench/iotwb/internal/i18n"
	"github.com/iot-workbench/iotwb/internal/logger"
	"github.com/iot-workbench/iotwb/internal/telemetry"
)

var (
	verbose bool
	noLock  bool
)

var rootCmd = &cobra.Command{
	Use:   "iotwb",
	Short: "IoT device project scaffolding tool",
	Long: `iotwb 为 IoT 设备开发项目生成工程文件、配置开发环境并交给编辑器打开。

使用方法：
  iotwb template list          列出可用模板
  iotwb new <dir> -t <模板>     从模板创建项目
  iotwb env                    为当前项目配置开发环境
  iotwb open                   在编辑器中打开项目
  iotwb task run <label>       运行 tasks.json 中的任务`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)
		return i18n.Init()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noLock, "no-lock", false, "Do not take the project lock file")
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if code := reportError(rootCmd.OutOrStdout(), rootCmd.ErrOrStderr(), err); code != 0 {
		stop()
		os.Exit(code)
	}
}

// reportError prints err and returns the exit code. A cancelled operation
// is not a failure.
func reportError(out, errOut io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if apperr.IsCancelled(err) {
		color.New(color.FgYellow).Fprintln(out, i18n.T("cancelled"))
		return 0
	}
	color.New(color.FgRed).Fprintf(errOut, "%s: %v\n", i18n.T("error"), err)
	return 1
}

// tracked wraps a command body so each run is recorded as one operation.
func tracked(name string, fn func(cmd *cobra.Command, args []string, op *telemetry.Operation) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		op := telemetry.Start(logger.Get(), name)
		err := fn(cmd, args, op)
		// Ctrl-C 中断视为用户取消
		if err != nil && errors.Is(err, context.Canceled) && !apperr.IsCancelled(err) {
			err = fmt.Errorf("%w: %w", apperr.ErrUserCancelled, err)
		}
		op.Finish(err)
		return err
	}
}
