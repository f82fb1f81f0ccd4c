package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/iot-workbench/iotwb/internal/filestore"
	"github.com/iot-workbench/iotwb/internal/i18n"
	"github.com/iot-workbench/iotwb/internal/tasks"
	"github.com/iot-workbench/iotwb/internal/telemetry"
)

var taskDir string

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "List or run the project's tasks",
	Long:  `List or run the tasks defined in .vscode/tasks.json`,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE:  tracked("task.list", runTaskList),
}

var taskRunCmd = &cobra.Command{
	Use:   "run <label>",
	Short: "Run a task by label",
	Args:  cobra.ExactArgs(1),
	RunE:  tracked("task.run", runTaskRun),
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskRunCmd)
	taskCmd.PersistentFlags().StringVarP(&taskDir, "dir", "d", "", "Project directory (default: current directory)")
}

func runTaskList(cmd *cobra.Command, args []string, op *telemetry.Operation) error {
	root, err := projectDir(taskDir)
	if err != nil {
		return err
	}
	list, err := tasks.List(filestore.NewLocal(), root)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(list) == 0 {
		color.New(color.FgYellow).Fprintln(out, i18n.Tf("task.none", tasks.Path(root)))
		return nil
	}
	green := color.New(color.FgGreen).SprintFunc()
	for _, t := range list {
		fmt.Fprintf(out, "  %s  %s\n", green(t.Label), t.Command)
	}
	return nil
}

func runTaskRun(cmd *cobra.Command, args []string, op *telemetry.Operation) error {
	root, err := projectDir(taskDir)
	if err != nil {
		return err
	}
	list, err := tasks.List(filestore.NewLocal(), root)
	if err != nil {
		return err
	}
	t, err := tasks.Find(list, args[0])
	if err != nil {
		return err
	}
	op.Set("task", t.Label)

	color.New(color.FgCyan).Fprintln(cmd.OutOrStdout(), i18n.Tf("task.running", t.Label))
	r := tasks.Runner{Dir: root, Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
	return r.Run(cmd.Context(), t)
}
