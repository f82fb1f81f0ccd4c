package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/iot-workbench/iotwb/internal/i18n"
	"github.com/iot-workbench/iotwb/internal/lock"
	"github.com/iot-workbench/iotwb/internal/telemetry"
)

var (
	backupDir string
	backupAll bool
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "List or restore files replaced by iotwb",
	Long: `Every time iotwb overwrites existing project files it first copies
them into a backup snapshot. Use these commands to list and restore them.`,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backup snapshots (newest first)",
	Args:  cobra.NoArgs,
	RunE:  tracked("backup.list", runBackupList),
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore the files of a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  tracked("backup.restore", runBackupRestore),
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupListCmd.Flags().StringVarP(&backupDir, "dir", "d", "", "Project directory (default: current directory)")
	backupListCmd.Flags().BoolVar(&backupAll, "all", false, "List snapshots of every project")
}

func runBackupList(cmd *cobra.Command, args []string, op *telemetry.Operation) error {
	project := ""
	if !backupAll {
		root, err := projectDir(backupDir)
		if err != nil {
			return err
		}
		project = root
	}

	snaps, err := newBackupStore().List(project)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(snaps) == 0 {
		color.New(color.FgYellow).Fprintln(out, i18n.T("backup.none"))
		return nil
	}
	green := color.New(color.FgGreen).SprintFunc()
	for _, s := range snaps {
		fmt.Fprintf(out, "%s  %s  %d files\n", green(s.ID), s.Created.Local().Format("2006-01-02 15:04:05"), len(s.Files))
		if backupAll {
			fmt.Fprintf(out, "    %s\n", s.Project)
		}
		for _, f := range s.Files {
			fmt.Fprintf(out, "    %s\n", f.Path)
		}
	}
	return nil
}

func runBackupRestore(cmd *cobra.Command, args []string, op *telemetry.Operation) error {
	store := newBackupStore()
	snaps, err := store.List("")
	if err != nil {
		return err
	}
	// 先锁住目标项目再写回
	target := ""
	for _, s := range snaps {
		if s.ID == args[0] {
			target = s.Project
		}
	}
	l := lock.Disabled()
	if target != "" {
		if l, err = acquireLock(target); err != nil {
			return err
		}
	}
	defer l.Release()

	snap, err := store.Restore(args[0])
	if err != nil {
		return err
	}
	op.Set("files", fmt.Sprint(len(snap.Files)))
	color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ "+i18n.Tf("backup.restored", len(snap.Files), snap.Project))
	return nil
}
